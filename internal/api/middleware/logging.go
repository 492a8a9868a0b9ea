package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/maumercado/cotask/internal/logger"
	"github.com/maumercado/cotask/internal/metrics"
)

// RequestLogger returns a middleware that logs each request via zerolog
// and records it in the HTTP metrics.
func RequestLogger() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			duration := time.Since(start)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			statusStr := http.StatusText(status)

			logger.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", status).
				Dur("duration", duration).
				Msg("request handled")

			metrics.RecordHTTPRequest(r.Method, r.URL.Path, statusStr, duration.Seconds())
		})
	}
}
