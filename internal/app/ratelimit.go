package app

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"medicquiz/internal/app/apiresp"

	"github.com/go-chi/chi/v5"
)

// sweepThreshold is the bucket count above which expired buckets are dropped.
const sweepThreshold = 10000

type window struct {
	hits int
	ends time.Time
}

// IPRateLimiter counts requests per key in fixed windows.
type IPRateLimiter struct {
	limit  int
	period time.Duration
	now    func() time.Time

	mu      sync.Mutex
	windows map[string]window
}

func NewIPRateLimiter(limit int, period time.Duration) *IPRateLimiter {
	if limit <= 0 {
		limit = 60
	}
	if period <= 0 {
		period = time.Minute
	}
	return &IPRateLimiter{
		limit:   limit,
		period:  period,
		now:     time.Now,
		windows: make(map[string]window),
	}
}

// Allow records one hit for key. When the window is used up it returns
// false and the time left until the window resets.
func (l *IPRateLimiter) Allow(key string) (bool, time.Duration) {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.windows) >= sweepThreshold {
		for k, w := range l.windows {
			if !now.Before(w.ends) {
				delete(l.windows, k)
			}
		}
	}

	w, ok := l.windows[key]
	if !ok || !now.Before(w.ends) {
		w = window{ends: now.Add(l.period)}
	}
	if w.hits >= l.limit {
		return false, w.ends.Sub(now)
	}
	w.hits++
	l.windows[key] = w
	return true, 0
}

// RateLimitMiddleware limits requests per client address and route pattern,
// so every test number shares one budget. middleware.RealIP should run first.
func RateLimitMiddleware(l *IPRateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r.RemoteAddr) + "|" + r.Method + "|" + routeKey(r)
			ok, retry := l.Allow(key)
			if !ok {
				secs := int(retry.Round(time.Second) / time.Second)
				if secs < 1 {
					secs = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				apiresp.WriteError(w, r, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func routeKey(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

func clientIP(remoteAddr string) string {
	addr := strings.TrimSpace(remoteAddr)
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
