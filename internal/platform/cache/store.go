package cache

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type entry struct {
	value     any
	expiresAt time.Time
}

// flightKey ties an in-flight load to the key generation it started under.
type flightKey struct {
	key string
	gen uint64
}

type flight struct {
	done  chan struct{}
	value any
	err   error
}

// Store is a process-local TTL cache. Concurrent misses on the same key share
// one loader call. Delete bumps the key's generation, so a load that started
// before the delete returns its result to its callers but never stores it.
type Store struct {
	mu          sync.Mutex
	entries     map[string]entry
	generations map[string]uint64
	flights     map[flightKey]*flight
	ttl         time.Duration
	now         func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		entries:     make(map[string]entry),
		generations: make(map[string]uint64),
		flights:     make(map[flightKey]*flight),
		ttl:         ttl,
		now:         time.Now,
	}
}

func (s *Store) Get(_ context.Context, key string) (any, bool) {
	if key == "" {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookupLocked(key)
}

func (s *Store) Set(_ context.Context, key string, value any) {
	if key == "" {
		return
	}

	s.mu.Lock()
	s.storeLocked(key, value)
	s.mu.Unlock()
}

// Delete drops the key and invalidates loads already running for it.
func (s *Store) Delete(_ context.Context, key string) {
	if key == "" {
		return
	}

	s.mu.Lock()
	delete(s.entries, key)
	s.generations[key]++
	s.mu.Unlock()
}

func (s *Store) GetOrLoad(ctx context.Context, key string, loader func(context.Context) (any, error)) (any, error) {
	if loader == nil {
		return nil, fmt.Errorf("loader is required")
	}
	if key == "" {
		return loader(ctx)
	}

	s.mu.Lock()
	if value, ok := s.lookupLocked(key); ok {
		s.mu.Unlock()
		return value, nil
	}
	fk := flightKey{key: key, gen: s.generations[key]}
	if f, ok := s.flights[fk]; ok {
		s.mu.Unlock()
		select {
		case <-f.done:
			return f.value, f.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f := &flight{done: make(chan struct{})}
	s.flights[fk] = f
	s.mu.Unlock()

	f.value, f.err = loader(ctx)

	s.mu.Lock()
	delete(s.flights, fk)
	if f.err == nil && s.generations[key] == fk.gen {
		s.storeLocked(key, f.value)
	}
	s.mu.Unlock()
	close(f.done)

	return f.value, f.err
}

func (s *Store) lookupLocked(key string) (any, bool) {
	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if s.ttl > 0 && !e.expiresAt.After(s.now()) {
		delete(s.entries, key)
		return nil, false
	}
	return e.value, true
}

func (s *Store) storeLocked(key string, value any) {
	e := entry{value: value}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}
	s.entries[key] = e
}

// Load is GetOrLoad with the cached value asserted to T.
func Load[T any](ctx context.Context, s *Store, key string, loader func(context.Context) (T, error)) (T, error) {
	var zero T
	value, err := s.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return loader(ctx)
	})
	if err != nil {
		return zero, err
	}

	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("cache key %q holds %T", key, value)
	}
	return typed, nil
}
