package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

const defaultTimeout = 30 * time.Second

// Timeout enforces a request processing deadline. A handler that misses
// it gets its context canceled and the client receives 503. Rendering a
// sheet through the headless browser is the slow path this protects.
// Non-positive durations fall back to 30s with a warning.
func Timeout(duration time.Duration) func(http.Handler) http.Handler {
	if duration <= 0 {
		slog.Warn("middleware: timeout must be positive, using default",
			"provided", duration, "default", defaultTimeout)

		duration = defaultTimeout
	}

	return func(next http.Handler) http.Handler {
		return http.TimeoutHandler(next, duration, "Service Unavailable")
	}
}
