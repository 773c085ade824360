// Command substore subscribes to a set of channels and periodically logs
// what is buffered for each of them.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/substore"
	"github.com/dmitrymomot/substore/core/broker"
	"github.com/dmitrymomot/substore/core/config"
	"github.com/dmitrymomot/substore/core/health"
	"github.com/dmitrymomot/substore/core/logger"
	"github.com/dmitrymomot/substore/core/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var cfg Config
	config.MustLoad(&cfg) // panic on error

	log := logger.New(
		logger.WithEnvironment(cfg.AppEnv, cfg.AppName),
		logger.WithLevelName(cfg.LogLevel),
	)
	logger.SetAsDefault(log)

	opts := []substore.Option{substore.WithLogger(log)}
	if cfg.Broker == "memory" {
		opts = append(opts, substore.WithConnector(broker.NewMemory(broker.WithMemoryLogger(log))))
	}

	client, err := substore.Connect(ctx, cfg.Substore, opts...)
	if err != nil {
		log.Error("Failed to connect to broker", logger.Component("substore"), logger.Error(err))
		os.Exit(1)
	}

	res, err := client.Subscribe(ctx, cfg.Channels...)
	if err != nil {
		log.Error("Failed to subscribe", logger.Channels(cfg.Channels), logger.Error(err))
		_ = client.Close()
		os.Exit(1)
	}
	log.Info("Subscribed", logger.Channels(res.Requested), logger.ClientID(client.ID()))

	probe, err := server.NewFromConfig(cfg.Probe, server.WithLogger(log.With(logger.Component("probe"))))
	if err != nil {
		log.Error("Failed to create probe server", logger.Component("probe"), logger.Error(err))
		_ = client.Close()
		os.Exit(1)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health/live", health.Liveness)
	mux.Handle("GET /health/ready", health.Readiness(log, client.Healthcheck))

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(probe.Run(ctx, mux))
	eg.Go(report(ctx, log, client, cfg.Channels, cfg.ReportInterval))

	if err := eg.Wait(); err != nil {
		log.Error("Stopped with error", logger.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Substore.SettleTimeout+time.Second)
	defer cancel()

	if n, err := client.UnsubscribeAll(shutdownCtx); err != nil {
		log.Warn("Failed to unsubscribe", logger.Error(err))
	} else {
		log.Info("Unsubscribed", logger.Count("channels", n))
	}

	if err := client.Close(); err != nil {
		log.Error("Failed to close client", logger.Error(err))
		os.Exit(1)
	}

	log.Info("Application stopped")
}

// report logs the buffer state of every channel each interval until ctx is done.
func report(ctx context.Context, log *slog.Logger, client *substore.Client, channels []string, interval time.Duration) func() error {
	return func() error {
		if interval <= 0 {
			interval = 10 * time.Second
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
			}

			for _, ch := range channels {
				n, err := client.MessageCount(ctx, ch)
				if err != nil {
					if errors.Is(err, context.Canceled) {
						return nil
					}
					log.Warn("Channel not readable", logger.Channel(ch), logger.Error(err))
					continue
				}

				latest, err := client.LatestMessage(ctx, ch)
				switch {
				case errors.Is(err, substore.ErrEmptyChannel):
					latest = ""
				case err != nil:
					if errors.Is(err, context.Canceled) {
						return nil
					}
					log.Warn("Channel not readable", logger.Channel(ch), logger.Error(err))
					continue
				}

				log.Info("Channel buffer",
					logger.Channel(ch),
					logger.Count("messages", n),
					logger.Key("latest", latest))
			}

			stats := client.Stats()
			sub, unsub := client.Pending()
			log.Debug("Client stats",
				logger.Count("channels", stats.Channels),
				slog.Int64("appended", stats.Appended),
				slog.Int64("evicted", stats.Evicted),
				slog.Int64("dropped", stats.Dropped),
				logger.Count("pending_subscribe", sub),
				logger.Count("pending_unsubscribe", unsub))
		}
	}
}
