package middleware

import (
	"log/slog"
	"net/http"
)

const defaultMaxBodyBytes int64 = 1 << 20

// RequestSize caps incoming request bodies with http.MaxBytesReader.
// Webhook payloads are small; anything larger is hostile or
// misconfigured. Non-positive limits fall back to 1MB with a warning.
func RequestSize(maxBytes int64) func(http.Handler) http.Handler {
	if maxBytes <= 0 {
		slog.Warn("middleware: request size limit must be positive, using default",
			"provided", maxBytes, "default", defaultMaxBodyBytes)

		maxBytes = defaultMaxBodyBytes
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
