// Package health provides HTTP handlers for service health monitoring.
//
// Handlers:
//   - Liveness: Process is running (no dependency checks)
//   - Readiness: All dependencies are available
//   - NoContent: Returns 204 for minimal overhead
//
// Usage:
//
//	srv := &http.Server{
//		Addr: ":8080",
//		Handler: health.Handler(log,
//			redis.Healthcheck(client),
//			manager.Healthcheck,
//		),
//	}
//
// Dependency checks must follow func(context.Context) error signature.
package health
