// Package poll keeps an in-memory mirror of the fridge collection fresh by
// periodically re-fetching it in full. There is no push channel from the
// store; consumers accept staleness of up to one polling interval.
package poll

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ykchoudhary110/Communtity-Fridge/internal/model"
)

// ListFunc fetches the full fridge collection ordered by last update,
// newest first.
type ListFunc func(ctx context.Context) ([]model.Fridge, error)

// Fetcher owns the in-memory fridge collection. The collection is only ever
// replaced wholesale, never partially merged: entries absent from a fresh
// result disappear, new ones appear. On a failed fetch the collection resets
// to empty rather than serving stale data.
type Fetcher struct {
	list ListFunc

	mu      sync.Mutex
	fridges []model.Fridge
	loading bool
	stopped bool

	done     chan struct{}
	stopOnce sync.Once
}

// NewFetcher creates a fetcher in the loading state with an empty collection.
func NewFetcher(list ListFunc) *Fetcher {
	return &Fetcher{
		list:    list,
		loading: true,
		done:    make(chan struct{}),
	}
}

// Start begins the polling cycle: one immediate fetch, then one per interval
// until Stop. The timer fires independently of whether the previous cycle
// has resolved; overlapping cycles are not deduplicated, and whichever
// resolves last wins.
func (f *Fetcher) Start(interval time.Duration) {
	go f.cycle(context.Background())

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				go f.cycle(context.Background())
			case <-f.done:
				return
			}
		}
	}()
}

// Reload forces one fetch cycle and returns when it has resolved.
func (f *Fetcher) Reload(ctx context.Context) {
	f.cycle(ctx)
}

// Stop cancels the timer. In-flight fetches are not cancelled; their results
// are discarded when they resolve.
func (f *Fetcher) Stop() {
	f.stopOnce.Do(func() {
		close(f.done)
		f.mu.Lock()
		f.stopped = true
		f.mu.Unlock()
	})
}

// Snapshot returns the current collection and whether a fetch is in flight.
// The returned slice is shared and must not be mutated by callers.
func (f *Fetcher) Snapshot() ([]model.Fridge, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fridges, f.loading
}

func (f *Fetcher) cycle(ctx context.Context) {
	f.mu.Lock()
	if f.stopped {
		f.mu.Unlock()
		return
	}
	f.loading = true
	f.mu.Unlock()

	fridges, err := f.list(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stopped {
		return
	}
	if err != nil {
		slog.Error("failed to load fridges", "error", err)
		f.fridges = nil
	} else {
		f.fridges = fridges
	}
	f.loading = false
}
