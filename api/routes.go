package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/anomaly-gateway/internal/handlers/v1/health"
	"github.com/carson-networks/anomaly-gateway/internal/handlers/v1/status"
	"github.com/carson-networks/anomaly-gateway/internal/handlers/v1/transaction"
	"github.com/carson-networks/anomaly-gateway/internal/handlers/v1/user"
	"github.com/carson-networks/anomaly-gateway/internal/logging"
	"github.com/carson-networks/anomaly-gateway/internal/upstream"
)

type Rest struct {
	Logger         *logrus.Logger
	Port           string
	AllowedOrigins []string
	Upstream       *upstream.Client
	Gatherer       prometheus.Gatherer
}

func (r *Rest) Router() http.Handler {
	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.Recoverer,
		cors.Handler(cors.Options{
			AllowedOrigins: r.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}),
	)

	statusHandler := status.NewHandler()
	router.HandleFunc("/status", logging.LoggingWrapper("Status", r.Logger, statusHandler.Handler))
	router.Handle("/metrics", promhttp.HandlerFor(r.Gatherer, promhttp.HandlerOpts{}))

	router.Group(func(group chi.Router) {
		group.Use(logging.Middleware(r.Logger))
		humaAPI := humachi.New(group, huma.DefaultConfig("Anomaly Gateway", "1.0.0"))

		health.NewHealthHandler(r.Upstream).Register(humaAPI)
		transaction.NewListTransactionsHandler(r.Upstream).Register(humaAPI)
		user.NewListUsersHandler(r.Upstream).Register(humaAPI)
	})

	return router
}

// Serve blocks until ctx is cancelled or the listener fails.
func (r *Rest) Serve(ctx context.Context) {
	server := http.Server{
		Addr:              ":" + r.Port,
		Handler:           r.Router(),
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			r.Logger.WithError(err).Error("HttpServer.Serve.shutdown error")
		}
	}()

	r.Logger.WithField("port", r.Port).Info("HttpServer.Serve.listening")
	err := server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
	}
	r.Logger.Info("HttpServer.Serve.shutting down")
}
