package middleware

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// limiter is a process-wide token bucket. One bucket covers all clients;
// the render pipeline behind this service is the shared scarce resource.
type limiter struct {
	mu         sync.Mutex
	tokens     float64
	maxTokens  float64
	refillRate float64
	lastRefill time.Time
}

func newLimiter(perSecond float64, burst int) *limiter {
	return &limiter{
		tokens:     float64(burst),
		maxTokens:  float64(burst),
		refillRate: perSecond,
		lastRefill: time.Now(),
	}
}

// acquire takes one token, reporting how long the caller should wait
// when none is available.
func (l *limiter) acquire() (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	elapsed := max(0.0, now.Sub(l.lastRefill).Seconds())
	l.tokens = math.Min(l.maxTokens, l.tokens+elapsed*l.refillRate)
	l.lastRefill = now

	if l.tokens >= 1 {
		l.tokens--

		return true, 0
	}

	deficit := 1.0 - l.tokens

	return false, time.Duration(deficit / l.refillRate * float64(time.Second))
}

// RateLimit enforces a global request rate with a token bucket. Rejected
// requests get 429 with a Retry-After header. Non-positive parameters
// fall back to 1 req/s, burst 1, with a warning.
func RateLimit(perSecond float64, burst int) func(http.Handler) http.Handler {
	if perSecond <= 0 {
		slog.Warn("middleware: rate must be positive, using default",
			"provided", perSecond, "default", 1.0)

		perSecond = 1.0
	}

	if burst <= 0 {
		slog.Warn("middleware: burst must be positive, using default",
			"provided", burst, "default", 1)

		burst = 1
	}

	bucket := newLimiter(perSecond, burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, retryAfter := bucket.acquire()
			if !allowed {
				seconds := max(int(math.Ceil(retryAfter.Seconds())), 1)

				w.Header().Set("Retry-After", strconv.Itoa(seconds))
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
