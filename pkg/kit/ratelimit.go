package kit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// IPRateLimiter allows limit requests per window for each client IP, with a
// token bucket per address.
type IPRateLimiter struct {
	mu       sync.Mutex
	every    rate.Limit
	burst    int
	idleTTL  time.Duration
	limiters map[string]*ipLimiter
	now      func() time.Time
}

type ipLimiter struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

func NewIPRateLimiter(limit int, window time.Duration) *IPRateLimiter {
	if limit <= 0 {
		limit = 1
	}
	return &IPRateLimiter{
		every:    rate.Every(window / time.Duration(limit)),
		burst:    limit,
		idleTTL:  2 * window,
		limiters: make(map[string]*ipLimiter),
		now:      time.Now,
	}
}

func (l *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(clientIP(r)) {
			w.Header().Set("Retry-After", "60")
			WriteError(w, r, http.StatusTooManyRequests, "too many requests", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (l *IPRateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.pruneLocked(now)

	il, ok := l.limiters[ip]
	if !ok {
		il = &ipLimiter{lim: rate.NewLimiter(l.every, l.burst)}
		l.limiters[ip] = il
	}
	il.lastSeen = now
	return il.lim.AllowN(now, 1)
}

func (l *IPRateLimiter) pruneLocked(now time.Time) {
	for ip, il := range l.limiters {
		if now.Sub(il.lastSeen) > l.idleTTL {
			delete(l.limiters, ip)
		}
	}
}

func clientIP(r *http.Request) string {
	if ip := firstForwardedFor(r.Header.Get("X-Forwarded-For")); ip != "" {
		return ip
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}

	return r.RemoteAddr
}

func firstForwardedFor(xff string) string {
	if xff == "" {
		return ""
	}
	first, _, _ := strings.Cut(xff, ",")
	return strings.TrimSpace(first)
}
