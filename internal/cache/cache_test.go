package cache

import (
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

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestStore() (*Store, *fakeClock) {
	clock := &fakeClock{now: time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)}
	s := New()
	s.now = clock.Now
	return s, clock
}

func TestLoad_ReadThrough(t *testing.T) {
	s, _ := newTestStore()
	calls := 0
	load := func() (int, error) { calls++; return 42, nil }

	for i := 0; i < 3; i++ {
		v, err := Load(s, "caps", time.Hour, load, "AAPL")
		if err != nil || v != 42 {
			t.Fatalf("expected 42, got %v (%v)", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("expected one load, got %d", calls)
	}

	if _, err := Load(s, "caps", time.Hour, load, "MSFT"); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("different arguments should miss, got %d loads", calls)
	}
}

func TestLoad_ExpiresWithBucket(t *testing.T) {
	s, clock := newTestStore()
	calls := 0
	load := func() (int, error) { calls++; return calls, nil }

	Load(s, "prices", time.Hour, load)
	clock.Advance(30 * time.Minute)
	Load(s, "prices", time.Hour, load)
	if calls != 1 {
		t.Fatalf("expected hit within the bucket, got %d loads", calls)
	}
	clock.Advance(31 * time.Minute)
	v, _ := Load(s, "prices", time.Hour, load)
	if calls != 2 || v != 2 {
		t.Errorf("expected reload after the bucket rolled over, got %d loads (value %d)", calls, v)
	}
}

func TestLoad_ErrorsNotCached(t *testing.T) {
	s, _ := newTestStore()
	boom := errors.New("boom")
	calls := 0
	load := func() (string, error) {
		calls++
		if calls == 1 {
			return "", boom
		}
		return "ok", nil
	}
	if _, err := Load(s, "op", time.Hour, load); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if v, err := Load(s, "op", time.Hour, load); err != nil || v != "ok" {
		t.Errorf("expected retry after error, got %q (%v)", v, err)
	}
}

func TestClearAndPurge(t *testing.T) {
	s, clock := newTestStore()
	one := func() (int, error) { return 1, nil }
	Load(s, "short", time.Minute, one)
	Load(s, "long", 24*time.Hour, one)
	if s.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", s.Len())
	}

	clock.Advance(2 * time.Minute)
	if removed := s.Purge(); removed != 1 {
		t.Errorf("expected 1 expired entry purged, got %d", removed)
	}

	s.Clear()
	if s.Len() != 0 {
		t.Errorf("expected empty store after Clear, got %d", s.Len())
	}
}

func TestLoad_ConcurrentMissesShareOneLoad(t *testing.T) {
	s, _ := newTestStore()
	var calls int32
	release := make(chan struct{})
	load := func() (int, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return 7, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if v, err := Load(s, "slow", time.Hour, load); err != nil || v != 7 {
				t.Errorf("expected 7, got %v (%v)", v, err)
			}
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Errorf("expected one shared load, got %d", n)
	}
}
