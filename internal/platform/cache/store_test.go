package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_SharesConcurrentLoads(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)
	errCh := make(chan error, workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "same-key", loader)
			if err != nil {
				errCh <- err
				return
			}
			if got, _ := v.(string); got != "value" {
				errCh <- errUnexpectedValue
			}
		}()
	}

	close(start)
	wg.Wait()
	close(errCh)
	for err := range errCh {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_UsesCachedValueAfterFirstLoad(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		return "cached", nil
	}

	if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("first GetOrLoad error: %v", err)
	}
	if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
		t.Fatalf("second GetOrLoad error: %v", err)
	}

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_ExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Second)
	now := time.Date(2026, 1, 20, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	store.Set(context.Background(), "tally:best_player", 1)
	if _, ok := store.Get(context.Background(), "tally:best_player"); !ok {
		t.Fatalf("expected cache hit before ttl")
	}

	now = now.Add(2 * time.Second)
	if _, ok := store.Get(context.Background(), "tally:best_player"); ok {
		t.Fatalf("expected cache miss after ttl")
	}
}

func TestLoad_TypedValue(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	got, err := Load(context.Background(), store, "k", func(context.Context) ([]string, error) {
		return []string{"a", "b"}, nil
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("unexpected value: %v", got)
	}

	store.Set(context.Background(), "wrong", 42)
	if _, err := Load(context.Background(), store, "wrong", func(context.Context) (string, error) {
		return "", nil
	}); err == nil {
		t.Fatalf("expected type mismatch error")
	}
}

func TestStore_DeleteDuringLoadDropsStaleResult(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore(time.Minute)
	entered := make(chan struct{})
	release := make(chan struct{})

	done := make(chan any, 1)
	go func() {
		v, _ := store.GetOrLoad(ctx, "ballot:award:best_player", func(context.Context) (any, error) {
			close(entered)
			<-release
			return "before-write", nil
		})
		done <- v
	}()

	<-entered
	store.Delete(ctx, "ballot:award:best_player")
	close(release)
	if got := <-done; got != "before-write" {
		t.Fatalf("in-flight caller should see its own load, got %v", got)
	}

	v, err := store.GetOrLoad(ctx, "ballot:award:best_player", func(context.Context) (any, error) {
		return "after-write", nil
	})
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if v != "after-write" {
		t.Fatalf("stale load was cached: got %v", v)
	}
}

func TestStore_GetOrLoad_WaiterHonoursContext(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	entered := make(chan struct{})
	release := make(chan struct{})
	defer close(release)

	go func() {
		_, _ = store.GetOrLoad(context.Background(), "k", func(context.Context) (any, error) {
			close(entered)
			<-release
			return "slow", nil
		})
	}()
	<-entered

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := store.GetOrLoad(ctx, "k", func(context.Context) (any, error) {
		t.Errorf("waiter must not start a second load")
		return nil, nil
	}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

var errUnexpectedValue = errors.New("unexpected loaded value")
