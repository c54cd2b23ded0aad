// Package store owns the durable tweet collection: a single JSON
// document rewritten whole on every mutation, plus the search and
// recommendation queries served to assistants.
//
// The document is not safe under concurrent external writers; the
// design assumes a single store process, which serializes its own
// writers with a mutex.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/adrg/xdg"

	"github.com/PoojaB26/tweet-tool-finder/internal/types"
)

// Store handles all reads and writes of the tweet document.
type Store struct {
	mu   sync.Mutex
	path string
}

// DefaultDataPath returns the per-user location of the tweet document.
func DefaultDataPath() (string, error) {
	return xdg.DataFile(filepath.Join("tweet-tool-finder", "tools.json"))
}

// New creates a store backed by the document at path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the document location.
func (s *Store) Path() string { return s.path }

// List returns the stored collection, newest first.
func (s *Store) List() ([]types.SavedTweet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Append adds tweets whose ids are not already present, prepending in
// the given order. Records without an id are ignored. Returns how many
// were added and the new total.
func (s *Store) Append(tweets []types.SavedTweet) (added, total int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load()
	if err != nil {
		return 0, 0, err
	}

	ids := make(map[string]bool, len(existing))
	for _, t := range existing {
		ids[t.ID] = true
	}

	for _, t := range tweets {
		if t.ID == "" || ids[t.ID] {
			continue
		}
		existing = append([]types.SavedTweet{t}, existing...)
		ids[t.ID] = true
		added++
	}

	if added > 0 {
		if err := s.save(existing); err != nil {
			return 0, 0, err
		}
	}
	return added, len(existing), nil
}

// Clear replaces the stored collection with empty.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save([]types.SavedTweet{})
}

// Remove deletes a tweet by id, rewriting the document without it.
func (s *Store) Remove(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load()
	if err != nil {
		return false, err
	}

	kept := existing[:0]
	removed := false
	for _, t := range existing {
		if t.ID == id {
			removed = true
			continue
		}
		kept = append(kept, t)
	}
	if !removed {
		return false, nil
	}
	return true, s.save(kept)
}

// load reads the whole document. An absent or corrupt file reads as an
// empty collection; parse failures never reach the write path.
func (s *Store) load() ([]types.SavedTweet, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return []types.SavedTweet{}, nil
	}
	if err != nil {
		return nil, err
	}

	var tweets []types.SavedTweet
	if err := json.Unmarshal(data, &tweets); err != nil {
		return []types.SavedTweet{}, nil
	}
	return tweets, nil
}

// save rewrites the whole document.
func (s *Store) save(tweets []types.SavedTweet) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(tweets, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0600)
}
