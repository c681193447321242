package crawler

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// hostLimiter enforces per-host politeness: a minimum delay between
// requests to the same host, plus an optional token bucket. Both default
// off, preserving the snapshot semantics of a plain crawl.
type hostLimiter struct {
	delay       time.Duration
	requests    int
	window      time.Duration
	rateEnabled bool

	mu       sync.Mutex
	last     map[string]time.Time
	limiters map[string]*rate.Limiter
}

func newHostLimiter(delay time.Duration, requests int, window time.Duration) *hostLimiter {
	if delay <= 0 && (requests <= 0 || window <= 0) {
		return nil
	}
	l := &hostLimiter{delay: delay, last: make(map[string]time.Time)}
	if requests > 0 && window > 0 {
		l.rateEnabled = true
		l.requests = requests
		l.window = window
		l.limiters = make(map[string]*rate.Limiter)
	}
	return l
}

// Wait blocks until politeness constraints for the host are satisfied.
func (l *hostLimiter) Wait(ctx context.Context, host string) error {
	if l == nil || host == "" {
		return nil
	}
	host = strings.ToLower(host)

	var sleep time.Duration
	var limiter *rate.Limiter
	now := time.Now()

	l.mu.Lock()
	if l.delay > 0 {
		next := now
		if last, ok := l.last[host]; ok {
			if earliest := last.Add(l.delay); earliest.After(now) {
				next = earliest
			}
		}
		// Reserve the slot before unlocking so concurrent callers for the
		// same host queue behind it instead of firing together.
		l.last[host] = next
		sleep = next.Sub(now)
	}
	if l.rateEnabled {
		limiter = l.ensureLimiterLocked(host)
	}
	l.mu.Unlock()

	if sleep > 0 {
		timer := time.NewTimer(sleep)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
	}

	l.mu.Lock()
	if t := time.Now(); t.After(l.last[host]) {
		l.last[host] = t
	}
	l.mu.Unlock()
	return nil
}

func (l *hostLimiter) ensureLimiterLocked(host string) *rate.Limiter {
	limiter, ok := l.limiters[host]
	if ok {
		return limiter
	}
	interval := l.window / time.Duration(l.requests)
	if interval <= 0 {
		interval = time.Millisecond
	}
	limiter = rate.NewLimiter(rate.Every(interval), l.requests)
	l.limiters[host] = limiter
	return limiter
}
