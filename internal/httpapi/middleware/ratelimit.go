package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultTTL        = 10 * time.Minute
	defaultMaxClients = 10000
)

type client struct {
	lim  *rate.Limiter
	seen time.Time
}

type limiter struct {
	limit rate.Limit
	burst int
	ttl   time.Duration
	max   int
	now   func() time.Time

	mu        sync.Mutex
	m         map[string]*client
	lastSweep time.Time
}

func newLimiter(limit rate.Limit, burst int, ttl time.Duration, max int) *limiter {
	return &limiter{
		limit: limit,
		burst: burst,
		ttl:   ttl,
		max:   max,
		now:   time.Now,
		m:     make(map[string]*client),
	}
}

// allow reports whether key may proceed. Clients idle for longer than ttl
// are forgotten; once max clients are tracked, unseen keys are refused.
func (l *limiter) allow(key string) bool {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= l.ttl || len(l.m) >= l.max {
		l.sweep(now)
	}
	c := l.m[key]
	if c == nil {
		if len(l.m) >= l.max {
			return false
		}
		c = &client{lim: rate.NewLimiter(l.limit, l.burst)}
		l.m[key] = c
	}
	c.seen = now
	return c.lim.AllowN(now, 1)
}

func (l *limiter) sweep(now time.Time) {
	for k, c := range l.m {
		if now.Sub(c.seen) >= l.ttl {
			delete(l.m, k)
		}
	}
	l.lastSweep = now
}

func (l *limiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.m)
}

// RateLimit returns a middleware that rate-limits by remote IP.
// Example: RateLimit(120, 60, false) => 120 req/min with burst 60
// X-Forwarded-For is only used when trustProxy is set.
func RateLimit(reqPerMin int, burst int, trustProxy bool) func(http.Handler) http.Handler {
	if reqPerMin <= 0 {
		// disabled
		return func(next http.Handler) http.Handler { return next }
	}
	if burst < 1 {
		burst = 1
	}
	l := newLimiter(rate.Limit(float64(reqPerMin)/60.0), burst, defaultTTL, defaultMaxClients)
	return l.middleware(trustProxy)
}

func (l *limiter) middleware(trustProxy bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.allow(clientIP(r, trustProxy)) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"rate limit exceeded"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			first, _, _ := strings.Cut(xff, ",")
			if ip := strings.TrimSpace(first); ip != "" {
				return ip
			}
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
