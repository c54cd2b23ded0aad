// Package pipeline contains the classification dispatcher: a FIFO of
// candidate tweets drained under a concurrency bound and a daily call
// budget, feeding accepted results into the capped collection and the
// sync forwarder.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/PoojaB26/tweet-tool-finder/internal/quota"
	"github.com/PoojaB26/tweet-tool-finder/internal/types"
)

// ErrDailyLimit signals that the daily classification budget is spent.
// It clears the pending queue and puts the dispatcher in the
// paused-for-today state until the date rolls over.
var ErrDailyLimit = errors.New("daily classification limit reached")

// Classifier produces a verdict for a tweet's text.
type Classifier interface {
	Classify(ctx context.Context, text string) (types.Verdict, error)
}

// Forwarder pushes an accepted tweet to the persistent store.
type Forwarder interface {
	Forward(ctx context.Context, tweet types.SavedTweet) error
}

// Options configures a Dispatcher.
type Options struct {
	MaxConcurrent       int
	ConfidenceThreshold float64
	// Status receives one-line status updates for the UI surface. May be nil.
	Status func(msg string)
}

// Dispatcher runs the classification pipeline. All queue, ledger and
// counter mutations happen under one mutex; classification calls run in
// their own goroutines, bounded by the in-flight counter.
type Dispatcher struct {
	classifier Classifier
	forwarder  Forwarder
	counter    *quota.Counter
	collection *Collection
	opts       Options
	log        *slog.Logger

	mu           sync.Mutex
	cond         *sync.Cond
	queue        []types.Tweet
	seen         map[string]bool
	inFlight     int
	paused       bool
	limitReached bool
	closed       bool
}

// NewDispatcher creates a dispatcher feeding accepted tweets into the
// given collection.
func NewDispatcher(c Classifier, f Forwarder, counter *quota.Counter, col *Collection, opts Options, log *slog.Logger) *Dispatcher {
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 2
	}
	if opts.ConfidenceThreshold <= 0 {
		opts.ConfidenceThreshold = 0.6
	}
	if log == nil {
		log = slog.Default()
	}

	d := &Dispatcher{
		classifier: c,
		forwarder:  f,
		counter:    counter,
		collection: col,
		opts:       opts,
		log:        log,
		seen:       map[string]bool{},
	}
	d.cond = sync.NewCond(&d.mu)
	return d
}

// SeedSeen marks ids as already processed, so previously saved tweets
// are never re-classified in this session.
func (d *Dispatcher) SeedSeen(ids []string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, id := range ids {
		d.seen[id] = true
	}
}

// Enqueue appends unseen tweets to the queue in discovery order and
// starts draining. An id is admitted at most once per session. While
// paused or in the paused-for-today state nothing is admitted, and the
// dropped ids stay unmarked so a later scan can rediscover them.
func (d *Dispatcher) Enqueue(ctx context.Context, tweets []types.Tweet) {
	d.mu.Lock()
	if d.closed || d.paused || d.limitReached {
		d.mu.Unlock()
		return
	}
	for _, t := range tweets {
		if t.ID == "" || d.seen[t.ID] {
			continue
		}
		d.seen[t.ID] = true
		d.queue = append(d.queue, t)
	}
	d.mu.Unlock()

	d.drain(ctx)
}

// drain pulls eligible tweets while a concurrency slot is free. The
// quota is read before every dispatch; crossing the limit discards the
// whole pending queue, since further calls today would be refused too.
func (d *Dispatcher) drain(ctx context.Context) {
	for {
		d.mu.Lock()
		if d.closed || d.paused || d.limitReached || len(d.queue) == 0 || d.inFlight >= d.opts.MaxConcurrent {
			d.mu.Unlock()
			return
		}

		exhausted, err := d.counter.Exhausted()
		if err != nil {
			d.log.Warn("quota read failed", "error", err)
			exhausted = false
		}
		if exhausted {
			d.queue = nil
			d.limitReached = true
			d.cond.Broadcast()
			d.mu.Unlock()
			d.status(fmt.Sprintf("Daily limit reached (%d tweets). Resets tomorrow.", d.counter.Limit()))
			d.log.Info("daily limit reached, queue cleared", "limit", d.counter.Limit())
			return
		}

		tweet := d.queue[0]
		d.queue = d.queue[1:]
		d.inFlight++
		d.mu.Unlock()

		go d.run(ctx, tweet)
	}
}

// run performs one classification call. The in-flight slot is released
// exactly once on every completion path.
func (d *Dispatcher) run(ctx context.Context, tweet types.Tweet) {
	defer func() {
		d.mu.Lock()
		d.inFlight--
		d.cond.Broadcast()
		d.mu.Unlock()
		d.drain(ctx)
	}()

	d.status("Analyzing tweet...")

	verdict, err := d.classifier.Classify(ctx, tweet.Text)
	if err != nil {
		if errors.Is(err, ErrDailyLimit) {
			d.mu.Lock()
			d.queue = nil
			d.limitReached = true
			d.cond.Broadcast()
			d.mu.Unlock()
			d.status(fmt.Sprintf("Daily limit reached (%d tweets). Resets tomorrow.", d.counter.Limit()))
			return
		}
		d.log.Warn("classification failed", "tweet", tweet.ID, "error", err)
		d.status("Error — check API key")
		return
	}

	// Billed per completed API call, not per useful find.
	if _, err := d.counter.Increment(); err != nil {
		d.log.Warn("quota increment failed", "error", err)
	}

	if verdict.IsUseful && verdict.Confidence >= d.opts.ConfidenceThreshold {
		saved := types.Saved(tweet, verdict, time.Now().UTC())
		d.collection.Add(saved)
		go d.forward(ctx, saved)

		label := verdict.Summary
		if label == "" {
			label = verdict.ToolName
		}
		d.status("Found: " + label)
		d.log.Info("tweet accepted", "tweet", tweet.ID, "category", verdict.Category, "confidence", verdict.Confidence)
	} else {
		d.log.Debug("tweet rejected", "tweet", tweet.ID, "useful", verdict.IsUseful, "confidence", verdict.Confidence)
	}
}

// forward is fire-and-forget: the local collection stays authoritative
// whether or not the store process is up.
func (d *Dispatcher) forward(ctx context.Context, tweet types.SavedTweet) {
	if d.forwarder == nil {
		return
	}
	if err := d.forwarder.Forward(ctx, tweet); err != nil {
		d.log.Debug("store forward failed", "tweet", tweet.ID, "error", err)
	}
}

// Pause stops admitting work and discards the pending queue. In-flight
// calls are not cancelled; their results are still applied.
func (d *Dispatcher) Pause() {
	d.mu.Lock()
	d.paused = true
	d.queue = nil
	d.cond.Broadcast()
	d.mu.Unlock()
	d.status("Paused")
}

// Resume re-admits work after a pause.
func (d *Dispatcher) Resume(ctx context.Context) {
	d.mu.Lock()
	d.paused = false
	d.mu.Unlock()
	d.status("Resumed. Watching feed...")
	d.drain(ctx)
}

// Rollover clears the paused-for-today state once the quota date key
// has rotated. Called by the midnight scheduler job.
func (d *Dispatcher) Rollover(ctx context.Context) {
	d.mu.Lock()
	d.limitReached = false
	d.mu.Unlock()
	d.drain(ctx)
}

// Wait blocks until no work is queued or in flight.
func (d *Dispatcher) Wait() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for len(d.queue) > 0 || d.inFlight > 0 {
		d.cond.Wait()
	}
}

// Close stops the dispatcher from admitting further work.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	d.closed = true
	d.queue = nil
	d.cond.Broadcast()
	d.mu.Unlock()
}

// QueueLen reports pending queue length.
func (d *Dispatcher) QueueLen() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.queue)
}

// InFlight reports calls with unresolved completions.
func (d *Dispatcher) InFlight() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.inFlight
}

// Seen reports whether an id has already been admitted this session.
func (d *Dispatcher) Seen(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.seen[id]
}

// LimitReached reports the paused-for-today state.
func (d *Dispatcher) LimitReached() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.limitReached
}

func (d *Dispatcher) status(msg string) {
	if d.opts.Status != nil {
		d.opts.Status(msg)
	}
}
