package urllog

import (
	"log/slog"
	"net/http"
	"time"
)

func CustomLoggerMiddleware(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			log.Info("request received",
				slog.String("method", r.Method),
				slog.String("url", r.URL.String()),
			)
			next.ServeHTTP(w, r)
			log.Info("request completed",
				slog.String("method", r.Method),
				slog.String("url", r.URL.String()),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}
