package api

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

const recognitionWindow = 24 * time.Hour

type window struct {
	count   int
	resetAt time.Time
}

// dailyLimiter caps requests per client IP in a fixed window that starts with
// the client's first request.
type dailyLimiter struct {
	limit int
	now   func() time.Time

	mu      sync.Mutex
	windows map[string]*window
}

func newDailyLimiter(limit int) *dailyLimiter {
	return &dailyLimiter{limit: limit, now: time.Now, windows: make(map[string]*window)}
}

// Allow counts a request from ip. When the cap is reached it returns false and
// the time the window resets.
func (l *dailyLimiter) Allow(ip string) (bool, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[ip]
	if !ok || !now.Before(w.resetAt) {
		l.pruneLocked(now)
		w = &window{resetAt: now.Add(recognitionWindow)}
		l.windows[ip] = w
	}
	if w.count >= l.limit {
		return false, w.resetAt
	}
	w.count++
	return true, w.resetAt
}

func (l *dailyLimiter) pruneLocked(now time.Time) {
	for ip, w := range l.windows {
		if !now.Before(w.resetAt) {
			delete(l.windows, ip)
		}
	}
}

// clientIP prefers the first X-Forwarded-For hop over the socket address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
