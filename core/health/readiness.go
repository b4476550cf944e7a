package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/dispatch/core/logger"
)

// Readiness verifies all dependencies are functioning.
// Returns "READY" if all checks pass, 503 Service Unavailable if any fail.
//
// Example:
//
//	mux.Handle("GET /health/ready", health.Readiness(
//		log,
//		redis.Healthcheck(client),
//		manager.Healthcheck,
//	))
func Readiness(log *slog.Logger, fn ...func(context.Context) error) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")

		for _, f := range fn {
			if err := f(r.Context()); err != nil {
				log.ErrorContext(r.Context(), "Readiness check failed", logger.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte("NOT READY"))
				return
			}
		}

		_, _ = w.Write([]byte("READY"))
	})
}

// Handler mounts Liveness at /health/live, Readiness at /health/ready and
// NoContent at /ping.
func Handler(log *slog.Logger, fn ...func(context.Context) error) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health/live", Liveness)
	mux.Handle("GET /health/ready", Readiness(log, fn...))
	mux.HandleFunc("GET /ping", NoContent)
	return mux
}
