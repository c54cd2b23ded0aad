package pipeline

import (
	"sync"

	"github.com/PoojaB26/tweet-tool-finder/internal/types"
)

// Collection is the in-memory list of accepted tweets, newest first,
// soft-capped by evicting from the tail.
type Collection struct {
	mu    sync.RWMutex
	items []types.SavedTweet
	cap   int
}

// NewCollection creates a collection holding at most cap items.
func NewCollection(cap int) *Collection {
	if cap <= 0 {
		cap = 200
	}
	return &Collection{cap: cap}
}

// Add prepends a tweet and truncates to the cap. Ids already present
// are ignored, so an accepted id cannot be accepted twice.
func (c *Collection) Add(t types.SavedTweet) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, existing := range c.items {
		if existing.ID == t.ID {
			return false
		}
	}

	c.items = append([]types.SavedTweet{t}, c.items...)
	if len(c.items) > c.cap {
		c.items = c.items[:c.cap]
	}
	return true
}

// Remove deletes a tweet by id, for explicit user action.
func (c *Collection) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, t := range c.items {
		if t.ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// Snapshot returns a copy of the collection, newest first.
func (c *Collection) Snapshot() []types.SavedTweet {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]types.SavedTweet, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of items held.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
