package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestCache(t *testing.T, clock *fakeClock) *Cache {
	t.Helper()
	c, err := New(16, WithClock(clock.Now))
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	return c
}

func countingLoader(calls *atomic.Int32, value any) Loader {
	return func(context.Context) (any, error) {
		calls.Add(1)
		return value, nil
	}
}

func TestGet_FreshnessWindow(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(t, clock)
	ctx := context.Background()
	var calls atomic.Int32

	for i := 0; i < 3; i++ {
		v, err := c.Get(ctx, "listings:all", time.Minute, countingLoader(&calls, "v1"))
		if err != nil {
			t.Fatalf("Get() unexpected error: %v", err)
		}
		if v != "v1" {
			t.Fatalf("Get() = %v, want v1", v)
		}
		clock.Advance(10 * time.Second)
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("loader calls within window = %d, want 1", got)
	}

	clock.Advance(time.Minute)
	if _, err := c.Get(ctx, "listings:all", time.Minute, countingLoader(&calls, "v2")); err != nil {
		t.Fatalf("Get() unexpected error: %v", err)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("loader calls after window = %d, want 2", got)
	}
}

func TestGet_WindowBoundaryIsStale(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(t, clock)
	var calls atomic.Int32

	c.Get(context.Background(), "k", time.Minute, countingLoader(&calls, 1))
	clock.Advance(time.Minute)
	c.Get(context.Background(), "k", time.Minute, countingLoader(&calls, 2))

	if got := calls.Load(); got != 2 {
		t.Fatalf("loader calls = %d, want 2 when age equals window", got)
	}
}

func TestGet_KeysAreIndependent(t *testing.T) {
	clock := newFakeClock()
	c := newTestCache(t, clock)
	var calls atomic.Int32

	c.Get(context.Background(), "profile:a", time.Hour, countingLoader(&calls, "a"))
	c.Get(context.Background(), "profile:b", time.Hour, countingLoader(&calls, "b"))
	v, _ := c.Get(context.Background(), "profile:a", time.Hour, countingLoader(&calls, "x"))

	if v != "a" {
		t.Fatalf("Get(profile:a) = %v, want a", v)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("loader calls = %d, want 2", got)
	}
}

func TestGet_SingleFlight(t *testing.T) {
	c := newTestCache(t, newFakeClock())
	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})

	loader := func(context.Context) (any, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		return "shared", nil
	}

	var wg sync.WaitGroup
	results := make([]any, 2)
	errs := make([]error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], errs[0] = c.Get(context.Background(), "listings:all", time.Minute, loader)
	}()
	<-started

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[1], errs[1] = c.Get(context.Background(), "listings:all", time.Minute, loader)
	}()

	// Give the second reader time to join the in-flight load.
	deadline := time.Now().Add(time.Second)
	for c.Stats().Misses < 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(10 * time.Millisecond)
	close(release)
	wg.Wait()

	for i := range results {
		if errs[i] != nil {
			t.Fatalf("reader %d unexpected error: %v", i, errs[i])
		}
		if results[i] != "shared" {
			t.Fatalf("reader %d got %v, want shared", i, results[i])
		}
	}
	if got := calls.Load(); got != 1 {
		t.Fatalf("loader calls = %d, want 1", got)
	}
}

func TestGet_FailureSharedAndNotCached(t *testing.T) {
	c := newTestCache(t, newFakeClock())
	boom := errors.New("transport down")
	var calls atomic.Int32

	failing := func(context.Context) (any, error) {
		calls.Add(1)
		return nil, boom
	}

	if _, err := c.Get(context.Background(), "k", time.Hour, failing); !errors.Is(err, boom) {
		t.Fatalf("Get() error = %v, want %v", err, boom)
	}
	if c.Len() != 0 {
		t.Fatalf("Len() = %d after failure, want 0", c.Len())
	}

	v, err := c.Get(context.Background(), "k", time.Hour, countingLoader(&calls, "ok"))
	if err != nil {
		t.Fatalf("retry unexpected error: %v", err)
	}
	if v != "ok" || calls.Load() != 2 {
		t.Fatalf("retry = %v after %d calls, want ok after 2", v, calls.Load())
	}
}

func TestInvalidate_ForcesReload(t *testing.T) {
	c := newTestCache(t, newFakeClock())
	var calls atomic.Int32

	c.Get(context.Background(), "k", time.Hour, countingLoader(&calls, "old"))
	c.Invalidate("k")
	v, _ := c.Get(context.Background(), "k", time.Hour, countingLoader(&calls, "new"))

	if v != "new" {
		t.Fatalf("Get() after Invalidate = %v, want new", v)
	}
	if got := calls.Load(); got != 2 {
		t.Fatalf("loader calls = %d, want 2", got)
	}
}

func TestInvalidate_DuringLoadDiscardsResult(t *testing.T) {
	c := newTestCache(t, newFakeClock())
	started := make(chan struct{})
	release := make(chan struct{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Get(context.Background(), "k", time.Hour, func(context.Context) (any, error) {
			close(started)
			<-release
			return "stale", nil
		})
	}()
	<-started
	c.Invalidate("k")
	close(release)
	<-done

	if _, ok := c.Peek("k", time.Hour); ok {
		t.Fatal("load that finished after invalidation should not be stored")
	}

	var calls atomic.Int32
	v, _ := c.Get(context.Background(), "k", time.Hour, countingLoader(&calls, "fresh"))
	if v != "fresh" || calls.Load() != 1 {
		t.Fatalf("Get() = %v with %d calls, want fresh with 1", v, calls.Load())
	}
}

func TestInvalidatePrefix(t *testing.T) {
	c := newTestCache(t, newFakeClock())
	c.Set("listings:all", 1)
	c.Set("listings:owner:a", 2)
	c.Set("profile:a", 3)

	if removed := c.InvalidatePrefix("listings:"); removed != 2 {
		t.Fatalf("InvalidatePrefix() removed %d, want 2", removed)
	}
	snap := c.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("Snapshot() has %d keys, want 1", len(snap))
	}
	if _, ok := snap["profile:a"]; !ok {
		t.Fatal("profile:a should survive prefix invalidation of listings:")
	}
}

func TestGet_AbandonedCallerDoesNotAbortLoad(t *testing.T) {
	c := newTestCache(t, newFakeClock())
	started := make(chan struct{})
	release := make(chan struct{})
	var loaderCtxErr atomic.Value

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := c.Get(ctx, "k", time.Hour, func(loadCtx context.Context) (any, error) {
			close(started)
			<-release
			if err := loadCtx.Err(); err != nil {
				loaderCtxErr.Store(err)
			}
			return "done", nil
		})
		errCh <- err
	}()
	<-started
	cancel()

	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Fatalf("abandoning caller error = %v, want context.Canceled", err)
	}
	close(release)

	deadline := time.Now().Add(time.Second)
	for {
		if v, ok := c.Peek("k", time.Hour); ok {
			if v != "done" {
				t.Fatalf("Peek() = %v, want done", v)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("abandoned load never populated the cache")
		}
		time.Sleep(time.Millisecond)
	}
	if err := loaderCtxErr.Load(); err != nil {
		t.Fatalf("loader context was cancelled: %v", err)
	}
}

func TestSet_StoresValue(t *testing.T) {
	c := newTestCache(t, newFakeClock())
	var calls atomic.Int32

	c.Set("profile:a", "patched")
	v, err := c.Get(context.Background(), "profile:a", time.Minute, countingLoader(&calls, "loaded"))
	if err != nil {
		t.Fatalf("Get() unexpected error: %v", err)
	}
	if v != "patched" || calls.Load() != 0 {
		t.Fatalf("Get() = %v with %d loads, want patched with 0", v, calls.Load())
	}
}

func TestNew_EvictsLeastRecentlyUsed(t *testing.T) {
	c, err := New(2)
	if err != nil {
		t.Fatalf("New() unexpected error: %v", err)
	}
	c.Set("a", 1)
	c.Set("b", 2)
	c.Peek("a", time.Hour)
	c.Set("c", 3)

	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	if _, ok := c.Peek("b", time.Hour); ok {
		t.Fatal("b should have been evicted as least recently used")
	}
	if _, ok := c.Peek("a", time.Hour); !ok {
		t.Fatal("a should still be cached")
	}
}

func TestPurge(t *testing.T) {
	c := newTestCache(t, newFakeClock())
	c.Set("a", 1)
	c.Get(context.Background(), "a", time.Hour, nil)
	c.Purge()

	if c.Len() != 0 {
		t.Fatalf("Len() after Purge = %d, want 0", c.Len())
	}
	if stats := c.Stats(); stats.Hits != 0 {
		t.Fatalf("Stats().Hits after Purge = %d, want 0", stats.Hits)
	}
}

func TestFetch_Typed(t *testing.T) {
	c := newTestCache(t, newFakeClock())

	got, err := Fetch(context.Background(), c, "nums", time.Minute, func(context.Context) ([]int, error) {
		return []int{1, 2}, nil
	})
	if err != nil {
		t.Fatalf("Fetch() unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Fetch() = %v, want 2 items", got)
	}

	if _, err := Fetch(context.Background(), c, "nums", time.Minute, func(context.Context) (string, error) {
		return "", nil
	}); err == nil {
		t.Fatal("Fetch() with mismatched type should fail")
	}

	if _, ok := Lookup[[]int](c, "nums", time.Minute); !ok {
		t.Fatal("Lookup() should find fresh typed value")
	}
	if _, ok := Lookup[string](c, "nums", time.Minute); ok {
		t.Fatal("Lookup() with wrong type should report false")
	}
}
