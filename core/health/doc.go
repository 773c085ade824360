// Package health provides HTTP handlers for process health probes.
//
//	mux.HandleFunc("GET /health/live", health.Liveness)
//	mux.Handle("GET /health/ready", health.Readiness(log, client.Healthcheck))
//
// Dependency checks use the func(context.Context) error signature, so
// redis.Healthcheck and substore.Client.Healthcheck plug in directly.
package health
