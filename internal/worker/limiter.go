// Package worker provides host-scoped rate limiting and a bounded pool for
// URL checks. Limiter state is per host so one slow host never throttles
// the others.
package worker

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// HostLimiter enforces a requests-per-second ceiling independently per host.
// Burst is fixed at 1: a caller blocks until the full inter-request interval
// for that host has elapsed.
type HostLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	ceiling  rate.Limit
}

// NewHostLimiter creates a limiter with the given per-host ceiling. A ceiling
// of zero or less falls back to 2 req/s.
func NewHostLimiter(requestsPerSecond float64) *HostLimiter {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 2
	}
	return &HostLimiter{
		limiters: make(map[string]*rate.Limiter),
		ceiling:  rate.Limit(requestsPerSecond),
	}
}

// Wait blocks until a request to rawURL's host satisfies the ceiling.
func (l *HostLimiter) Wait(ctx context.Context, rawURL string) error {
	host, err := hostOf(rawURL)
	if err != nil {
		return err
	}
	return l.limiterFor(host).Wait(ctx)
}

// SetHostRate overrides the ceiling for one host.
func (l *HostLimiter) SetHostRate(host string, requestsPerSecond float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.limiters[host] = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
}

func (l *HostLimiter) limiterFor(host string) *rate.Limiter {
	l.mu.RLock()
	lim, ok := l.limiters[host]
	l.mu.RUnlock()
	if ok {
		return lim
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if lim, ok := l.limiters[host]; ok {
		return lim
	}
	lim = rate.NewLimiter(l.ceiling, 1)
	l.limiters[host] = lim
	return lim
}

func hostOf(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	return parsed.Host, nil
}
