package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// Recovery recovers from panics in downstream handlers, logs the panic
// value and stack, and responds with 500 when no response has started.
// http.ErrAbortHandler is re-raised; it is the sanctioned way to abort a
// response.
func Recovery() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tracked := &trackingWriter{ResponseWriter: w}

			defer func() {
				rec := recover()
				if rec == nil {
					return
				}

				if err, ok := rec.(error); ok && err == http.ErrAbortHandler { //nolint:errorlint,err113
					panic(rec)
				}

				attrs := []any{
					slog.String("panic", fmt.Sprintf("%v", rec)),
					slog.String("stack", string(debug.Stack())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
				}

				if reqID := GetRequestID(r.Context()); reqID != "" {
					attrs = append(attrs, slog.String("request_id", reqID))
				}

				slog.Error("middleware: panic recovered", attrs...)

				if !tracked.written {
					http.Error(tracked, "Internal Server Error", http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(tracked, r)
		})
	}
}

// trackingWriter records whether any part of the response reached the
// wire, so recovery knows when a 500 can still be sent.
type trackingWriter struct {
	http.ResponseWriter

	written bool
}

func (w *trackingWriter) WriteHeader(code int) {
	w.written = true

	w.ResponseWriter.WriteHeader(code)
}

func (w *trackingWriter) Write(b []byte) (int, error) {
	w.written = true

	return w.ResponseWriter.Write(b) //nolint:wrapcheck
}

// Unwrap lets http.ResponseController reach interfaces of the underlying
// writer through the wrapper.
func (w *trackingWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
