// Package cache is the process-wide read-through store for fetched and
// derived market data. Keys combine an operation name, its arguments and the
// time bucket the call falls in, so entries roll over when the TTL elapses.
package cache

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Loader produces the value for a cache miss.
type Loader func() (any, error)

type entry struct {
	value   any
	expires time.Time
}

// Store is a TTL cache safe for concurrent use. Values must be treated as immutable.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	group   singleflight.Group
	now     func() time.Time
}

// New creates an empty Store.
func New() *Store {
	return &Store{entries: make(map[string]entry), now: time.Now}
}

// Key builds the cache key for op and args in the bucket containing at.
func Key(op string, ttl time.Duration, at time.Time, args ...any) string {
	parts := make([]string, 0, len(args)+2)
	parts = append(parts, op)
	for _, a := range args {
		parts = append(parts, fmt.Sprint(a))
	}
	bucket := at.UnixNano()
	if ttl > 0 {
		bucket = at.Truncate(ttl).Unix()
	}
	parts = append(parts, fmt.Sprint(bucket))
	return strings.Join(parts, "|")
}

// GetOrLoad returns the cached value for (op, args) or runs load on a miss.
// Concurrent misses for the same key share one load. Errors are not cached.
func (s *Store) GetOrLoad(op string, ttl time.Duration, args []any, load Loader) (any, error) {
	now := s.now()
	key := Key(op, ttl, now, args...)

	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if ok && now.Before(e.expires) {
		return e.value, nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		val, err := load()
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.entries[key] = entry{value: val, expires: s.now().Add(ttl)}
		s.mu.Unlock()
		return val, nil
	})
	return v, err
}

// Load is the typed form of Store.GetOrLoad.
func Load[T any](s *Store, op string, ttl time.Duration, load func() (T, error), args ...any) (T, error) {
	v, err := s.GetOrLoad(op, ttl, args, func() (any, error) { return load() })
	if err != nil {
		var zero T
		return zero, err
	}
	t, _ := v.(T)
	return t, nil
}

// Clear drops every entry.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]entry)
}

// Purge drops expired entries and returns how many were removed.
func (s *Store) Purge() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for k, e := range s.entries {
		if !now.Before(e.expires) {
			delete(s.entries, k)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, expired or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
