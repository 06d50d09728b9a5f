package http

import (
	"testing"
	"time"
)

func TestRateLimiterPerUser(t *testing.T) {
	r := newRateLimiter(2, time.Hour)

	if !r.allow(1) || !r.allow(1) {
		t.Fatalf("first two actions must pass")
	}
	if r.allow(1) {
		t.Fatalf("third action must be limited")
	}
	if !r.allow(2) {
		t.Fatalf("other users keep their own budget")
	}

	r.clear()
	if !r.allow(1) {
		t.Fatalf("budget must reset after clear")
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	r := newRateLimiter(0, time.Hour)
	for range 1000 {
		if !r.allow(1) {
			t.Fatalf("disabled limiter must allow everything")
		}
	}
	// startReset on a disabled limiter is a no-op.
	r.startReset(make(chan struct{}))
}

func TestRateLimiterResetsOnTick(t *testing.T) {
	r := newRateLimiter(1, 10*time.Millisecond)
	stop := make(chan struct{})
	defer close(stop)
	r.startReset(stop)

	if !r.allow(7) {
		t.Fatalf("first action must pass")
	}
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if r.allow(7) {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("budget was never reset")
}
