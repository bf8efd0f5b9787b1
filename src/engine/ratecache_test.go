package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestRateCache_ServesFreshValueWithoutRefetch(t *testing.T) {
	src := &stubFX{rate: 3.7}
	c := NewRateCache(src, time.Hour, 1)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if got := c.Rate(context.Background()); got != 3.7 {
		t.Fatalf("first Rate = %v, want 3.7", got)
	}
	now = now.Add(59 * time.Minute)
	src.rate = 9
	if got := c.Rate(context.Background()); got != 3.7 {
		t.Fatalf("cached Rate = %v, want 3.7", got)
	}
	if src.calls.Load() != 1 {
		t.Fatalf("calls = %d, want 1", src.calls.Load())
	}
	now = now.Add(2 * time.Minute)
	if got := c.Rate(context.Background()); got != 9 {
		t.Fatalf("refreshed Rate = %v, want 9", got)
	}
}

func TestRateCache_KeepsLastGoodValueOnFailure(t *testing.T) {
	src := &stubFX{rate: 3.6}
	c := NewRateCache(src, time.Hour, 1)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	c.Rate(context.Background())

	src.err = errors.New("timeout")
	for i := 0; i < 3; i++ {
		now = now.Add(2 * time.Hour)
		if got := c.Rate(context.Background()); got != 3.6 {
			t.Fatalf("Rate after failure = %v, want last good 3.6", got)
		}
	}
	src.err = nil
	src.rate = -1
	now = now.Add(2 * time.Hour)
	if got := c.Rate(context.Background()); got != 3.6 {
		t.Fatalf("invalid rate replaced cache: %v", got)
	}
}

func TestRateCache_FallbackBeforeFirstSuccess(t *testing.T) {
	c := NewRateCache(&stubFX{err: errors.New("down")}, time.Hour, 3.4)
	if got := c.Rate(context.Background()); got != 3.4 {
		t.Fatalf("Rate = %v, want seeded fallback 3.4", got)
	}
	if v, at := c.Snapshot(); v != 3.4 || !at.IsZero() {
		t.Fatalf("Snapshot = %v %v", v, at)
	}
	if got := NewRateCache(nil, 0, 0).Rate(context.Background()); got != 1 {
		t.Fatalf("default fallback = %v, want 1", got)
	}
}

func TestRateCache_ConcurrentReaders(t *testing.T) {
	c := NewRateCache(&stubFX{rate: 3.5}, time.Hour, 1)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := c.Rate(context.Background()); got != 3.5 {
				t.Errorf("Rate = %v, want 3.5", got)
			}
		}()
	}
	wg.Wait()
}
