// Package quota tracks the per-day classification call budget. The
// counter is keyed by UTC calendar date, so it resets implicitly when
// the date rolls over, and is persisted so restarted scanners keep
// billing against the same day.
package quota

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Counter is a file-backed daily call counter.
type Counter struct {
	mu    sync.Mutex
	path  string
	limit int
	now   func() time.Time
}

type state struct {
	Daily   map[string]int `json:"daily"`
	Scanned int            `json:"scanned"`
}

// New creates a counter persisted at path with the given daily limit.
// A non-positive limit falls back to 1000; a counter that starts
// exhausted would wedge the scanner in the paused-for-today state.
func New(path string, limit int) *Counter {
	if limit <= 0 {
		limit = 1000
	}
	return &Counter{path: path, limit: limit, now: time.Now}
}

// DayKey returns the UTC date key the counter is currently billing to.
func (c *Counter) DayKey() string {
	return c.now().UTC().Format("2006-01-02")
}

// Limit returns the configured daily cap.
func (c *Counter) Limit() int { return c.limit }

// Count returns today's call count.
func (c *Counter) Count() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, err := c.load()
	if err != nil {
		return 0, err
	}
	return st.Daily[c.DayKey()], nil
}

// Exhausted reports whether today's count has reached the limit.
func (c *Counter) Exhausted() (bool, error) {
	n, err := c.Count()
	if err != nil {
		return false, err
	}
	return n >= c.limit, nil
}

// Increment adds one to today's count and to the lifetime scanned
// counter, returning the new daily count. Stale day keys are dropped on
// write; that is the implicit reset at the day boundary.
func (c *Counter) Increment() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, err := c.load()
	if err != nil {
		return 0, err
	}

	key := c.DayKey()
	n := st.Daily[key] + 1
	st.Daily = map[string]int{key: n}
	st.Scanned++

	if err := c.save(st); err != nil {
		return 0, err
	}
	return n, nil
}

// ScannedTotal returns the lifetime number of classification calls.
func (c *Counter) ScannedTotal() (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	st, err := c.load()
	if err != nil {
		return 0, err
	}
	return st.Scanned, nil
}

// Reset clears today's count and the lifetime counter.
func (c *Counter) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.save(state{Daily: map[string]int{}})
}

func (c *Counter) load() (state, error) {
	st := state{Daily: map[string]int{}}

	data, err := os.ReadFile(c.path)
	if os.IsNotExist(err) {
		return st, nil
	}
	if err != nil {
		return st, err
	}

	if err := json.Unmarshal(data, &st); err != nil {
		// Corrupt state file starts a fresh day rather than wedging the scanner.
		return state{Daily: map[string]int{}}, nil
	}
	if st.Daily == nil {
		st.Daily = map[string]int{}
	}
	return st, nil
}

func (c *Counter) save(st state) error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(c.path, data, 0600)
}
