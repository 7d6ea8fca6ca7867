package poll

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ykchoudhary110/Communtity-Fridge/internal/model"
)

// fakeList returns canned results in sequence, repeating the last one.
type fakeList struct {
	mu      sync.Mutex
	results [][]model.Fridge
	errs    []error
	calls   int
}

func (l *fakeList) fn(_ context.Context) ([]model.Fridge, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.calls
	l.calls++
	if i >= len(l.results) {
		i = len(l.results) - 1
	}
	return l.results[i], l.errs[i]
}

func (l *fakeList) callCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

func fridges(names ...string) []model.Fridge {
	out := make([]model.Fridge, len(names))
	for i, name := range names {
		out[i] = model.Fridge{ID: name, Name: name}
	}
	return out
}

func TestFetcherStartsLoadingAndEmpty(t *testing.T) {
	f := NewFetcher(func(context.Context) ([]model.Fridge, error) { return nil, nil })

	snapshot, loading := f.Snapshot()
	assert.Empty(t, snapshot)
	assert.True(t, loading)
}

func TestReloadReplacesWholesale(t *testing.T) {
	list := &fakeList{
		results: [][]model.Fridge{fridges("a", "b"), fridges("c")},
		errs:    []error{nil, nil},
	}
	f := NewFetcher(list.fn)

	f.Reload(context.Background())
	snapshot, loading := f.Snapshot()
	require.Len(t, snapshot, 2)
	assert.False(t, loading)

	// The next cycle does not merge: "a" and "b" disappear, "c" appears.
	f.Reload(context.Background())
	snapshot, _ = f.Snapshot()
	require.Len(t, snapshot, 1)
	assert.Equal(t, "c", snapshot[0].ID)
}

func TestFailedFetchResetsToEmpty(t *testing.T) {
	list := &fakeList{
		results: [][]model.Fridge{fridges("a", "b"), nil},
		errs:    []error{nil, errors.New("db down")},
	}
	f := NewFetcher(list.fn)

	f.Reload(context.Background())
	snapshot, _ := f.Snapshot()
	require.Len(t, snapshot, 2)

	// A failure must not leave the previous collection visible.
	f.Reload(context.Background())
	snapshot, loading := f.Snapshot()
	assert.Empty(t, snapshot)
	assert.False(t, loading)
}

func TestStopDiscardsLateResults(t *testing.T) {
	release := make(chan struct{})
	f := NewFetcher(func(context.Context) ([]model.Fridge, error) {
		<-release
		return fridges("late"), nil
	})

	done := make(chan struct{})
	go func() {
		f.Reload(context.Background())
		close(done)
	}()

	// Stop while the fetch is in flight, then let it resolve.
	time.Sleep(10 * time.Millisecond)
	f.Stop()
	close(release)
	<-done

	snapshot, _ := f.Snapshot()
	assert.Empty(t, snapshot, "results resolving after Stop must be discarded")
}

func TestStopIsIdempotent(t *testing.T) {
	f := NewFetcher(func(context.Context) ([]model.Fridge, error) { return nil, nil })
	f.Start(time.Hour)
	f.Stop()
	f.Stop()
}

func TestStartFetchesImmediately(t *testing.T) {
	list := &fakeList{
		results: [][]model.Fridge{fridges("a")},
		errs:    []error{nil},
	}
	f := NewFetcher(list.fn)
	f.Start(time.Hour)
	defer f.Stop()

	require.Eventually(t, func() bool {
		snapshot, loading := f.Snapshot()
		return !loading && len(snapshot) == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, list.callCount())
}

func TestStartPollsOnInterval(t *testing.T) {
	list := &fakeList{
		results: [][]model.Fridge{fridges("a")},
		errs:    []error{nil},
	}
	f := NewFetcher(list.fn)
	f.Start(10 * time.Millisecond)
	defer f.Stop()

	require.Eventually(t, func() bool {
		return list.callCount() >= 3
	}, time.Second, 5*time.Millisecond)
}
