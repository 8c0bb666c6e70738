package api

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/mapleleafu/water/internal/api/respond"
	"github.com/mapleleafu/water/internal/auth"
)

// --------------------------------------------------------------------------
// Request timing middleware
// --------------------------------------------------------------------------

// TimingMiddleware adds X-Process-Time header to all responses. The header is
// set before the handler writes so it survives WriteHeader.
func TimingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(&timingWriter{ResponseWriter: w, start: start}, r)
	})
}

type timingWriter struct {
	http.ResponseWriter
	start   time.Time
	written bool
}

func (t *timingWriter) WriteHeader(code int) {
	if !t.written {
		t.written = true
		elapsed := time.Since(t.start)
		t.Header().Set("X-Process-Time", fmt.Sprintf("%.2fms", float64(elapsed.Microseconds())/1000.0))
	}
	t.ResponseWriter.WriteHeader(code)
}

func (t *timingWriter) Write(b []byte) (int, error) {
	if !t.written {
		t.WriteHeader(http.StatusOK)
	}
	return t.ResponseWriter.Write(b)
}

func (t *timingWriter) Unwrap() http.ResponseWriter { return t.ResponseWriter }

// --------------------------------------------------------------------------
// Rate limiting middleware (IP-based token bucket)
// --------------------------------------------------------------------------

type ipLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

func newIPLimiter(requestsPerWindow int, window time.Duration) *ipLimiter {
	rps := float64(requestsPerWindow) / window.Seconds()
	return &ipLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    max(requestsPerWindow/2, 1),
	}
}

func (l *ipLimiter) getLimiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if limiter, exists := l.limiters[ip]; exists {
		return limiter
	}
	limiter := rate.NewLimiter(l.rate, l.burst)
	l.limiters[ip] = limiter
	return limiter
}

// RateLimitMiddleware returns middleware that rate-limits by client IP.
func RateLimitMiddleware(requestsPerWindow int, window time.Duration) func(http.Handler) http.Handler {
	limiter := newIPLimiter(requestsPerWindow, window)
	retryAfter := fmt.Sprintf("%d", int(window.Seconds()))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, _ := net.SplitHostPort(r.RemoteAddr)
			if ip == "" {
				ip = r.RemoteAddr
			}

			if !limiter.getLimiter(ip).Allow() {
				w.Header().Set("Retry-After", retryAfter)
				respond.WriteError(w, http.StatusTooManyRequests, respond.CodeRateLimited, "Too many requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// --------------------------------------------------------------------------
// Shared-secret gates
// --------------------------------------------------------------------------

// RequireAPIKey admits requests whose x-api-key header matches secret.
func RequireAPIKey(secret string) func(http.Handler) http.Handler {
	return gate(secret, func(r *http.Request) string {
		return r.Header.Get("x-api-key")
	})
}

// RequireBearer admits requests carrying "Authorization: Bearer <secret>".
func RequireBearer(secret string) func(http.Handler) http.Handler {
	return gate(secret, func(r *http.Request) string {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok {
			return ""
		}
		return strings.TrimSpace(token)
	})
}

func gate(secret string, extract func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := auth.Check(extract(r), secret); err != nil {
				msg := "Unauthorized"
				if errors.Is(err, auth.ErrNotConfigured) {
					msg = "Server secret is not configured"
				}
				respond.WriteError(w, http.StatusUnauthorized, respond.CodeUnauthorized, msg)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
