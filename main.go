package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/carson-networks/anomaly-gateway/api"
	"github.com/carson-networks/anomaly-gateway/internal/config"
	"github.com/carson-networks/anomaly-gateway/internal/logging"
	"github.com/carson-networks/anomaly-gateway/internal/upstream"
)

func main() {
	logger := logging.SetupLogging()
	logger.Info("anomaly-gateway starting")

	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logger.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}
	logger.SetLevel(envConfig.LogLevel)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	client := upstream.NewClient(
		envConfig.UpstreamBaseURL,
		upstream.WithLogger(logger),
		upstream.WithMetrics(upstream.NewMetrics(registry)),
	)
	logger.WithField("upstream", client.BaseURL()).Info("upstream client configured")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpRest := api.Rest{
		Logger:         logger,
		Port:           envConfig.HTTPPort,
		AllowedOrigins: envConfig.CORSAllowedOrigins,
		Upstream:       client,
		Gatherer:       registry,
	}
	httpRest.Serve(ctx)

	logger.Info("anomaly-gateway stopped")
}
