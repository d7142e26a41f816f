package auth

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter keeps one token bucket per client host. Buckets idle longer
// than the sweep age are dropped by Run.
type IPRateLimiter struct {
	clients map[string]*client
	mu      sync.Mutex
	r       rate.Limit
	b       int
	now     func() time.Time
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		clients: make(map[string]*client),
		r:       r,
		b:       b,
		now:     time.Now,
	}
}

func (i *IPRateLimiter) allow(host string) bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	c, exists := i.clients[host]
	if !exists {
		c = &client{limiter: rate.NewLimiter(i.r, i.b)}
		i.clients[host] = c
	}
	c.lastSeen = i.now()
	return c.limiter.Allow()
}

// Sweep drops buckets not used within maxIdle and returns how many were removed.
func (i *IPRateLimiter) Sweep(maxIdle time.Duration) int {
	i.mu.Lock()
	defer i.mu.Unlock()

	cutoff := i.now().Add(-maxIdle)
	removed := 0
	for host, c := range i.clients {
		if c.lastSeen.Before(cutoff) {
			delete(i.clients, host)
			removed++
		}
	}
	return removed
}

// Run sweeps idle buckets every interval until ctx is done.
func (i *IPRateLimiter) Run(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := i.Sweep(maxIdle); n > 0 {
				slog.Debug("rate limiter swept idle clients", "removed", n)
			}
		}
	}
}

// LimitMiddleware rate limits per client host.
func (i *IPRateLimiter) LimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}

		if !i.allow(host) {
			slog.Warn("rate limit exceeded", "client", host, "path", r.URL.Path)
			w.Header().Set("Retry-After", "1")
			http.Error(w, "Too Many Requests. Try again later.", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
