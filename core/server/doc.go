// Package server runs the small HTTP listener that exposes the process
// health probes.
//
//	srv, err := server.NewFromConfig(cfg.Probe, server.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	eg.Go(srv.Run(ctx, mux))
//
// Run fits errgroup: it serves until ctx is done and then shuts down
// gracefully within the configured timeout.
package server
