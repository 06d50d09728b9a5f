package http

import (
	"sync"
	"time"
)

// rateLimiter counts actions per user and forgets the counts every interval.
type rateLimiter struct {
	mu       sync.Mutex
	limit    int
	counters map[int64]int
	reset    *time.Ticker
}

func newRateLimiter(limit int, interval time.Duration) *rateLimiter {
	if limit <= 0 {
		return &rateLimiter{limit: 0}
	}
	return &rateLimiter{
		limit:    limit,
		counters: make(map[int64]int),
		reset:    time.NewTicker(interval),
	}
}

func (r *rateLimiter) allow(userID int64) bool {
	if r == nil || r.limit <= 0 {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.counters[userID]++
	return r.counters[userID] <= r.limit
}

func (r *rateLimiter) clear() {
	r.mu.Lock()
	clear(r.counters)
	r.mu.Unlock()
}

func (r *rateLimiter) startReset(stop <-chan struct{}) {
	if r == nil || r.reset == nil {
		return
	}
	go func() {
		for {
			select {
			case <-r.reset.C:
				r.clear()
			case <-stop:
				r.reset.Stop()
				return
			}
		}
	}()
}
