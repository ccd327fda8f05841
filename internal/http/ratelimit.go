package http

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// loginLimiter throttles the unauthenticated auth endpoints per client
// IP to slow down credential stuffing. Fixed one-minute windows are
// enough at this traffic level.
type loginLimiter struct {
	mu        sync.Mutex
	clients   map[string]*windowCount
	perMinute int
	stop      chan struct{}
	stopOnce  sync.Once
}

type windowCount struct {
	windowStart time.Time
	requests    int
}

func newLoginLimiter(perMinute int) *loginLimiter {
	l := &loginLimiter{
		clients:   make(map[string]*windowCount),
		perMinute: perMinute,
		stop:      make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

func (l *loginLimiter) allow(clientIP string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	c, ok := l.clients[clientIP]
	if !ok || now.Sub(c.windowStart) > time.Minute {
		l.clients[clientIP] = &windowCount{windowStart: now, requests: 1}
		return true
	}

	c.requests++
	return c.requests <= l.perMinute
}

func (l *loginLimiter) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.mu.Lock()
			cutoff := time.Now().Add(-10 * time.Minute)
			for ip, c := range l.clients {
				if c.windowStart.Before(cutoff) {
					delete(l.clients, ip)
				}
			}
			l.mu.Unlock()
		case <-l.stop:
			return
		}
	}
}

func (l *loginLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

func (l *loginLimiter) wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !l.allow(clientIP(r)) {
			w.Header().Set("Retry-After", "60")
			writeJSON(w, http.StatusTooManyRequests, map[string]string{
				"error": "too many attempts, try again later",
			})
			return
		}
		next(w, r)
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if i := strings.IndexByte(fwd, ','); i >= 0 {
			return strings.TrimSpace(fwd[:i])
		}
		return strings.TrimSpace(fwd)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
