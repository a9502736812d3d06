package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/vitistack/authproxy/internal/api/handler"
	"github.com/vitistack/authproxy/internal/config"
	"github.com/vitistack/authproxy/internal/control"
	"github.com/vitistack/authproxy/internal/credentials"
	"github.com/vitistack/authproxy/internal/devauth"
	"github.com/vitistack/authproxy/internal/interceptor"
	"github.com/vitistack/authproxy/internal/routing"
	"github.com/vitistack/authproxy/pkg/bslog"
	"github.com/vitistack/authproxy/pkg/rest/request/client"
)

const (
	metricsNamespace = "authproxy"
	shutdownTimeout  = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bslog.New("", os.Stderr).Fatal("could not load configuration", slog.String("reason", err.Error()))
	}

	logger := bslog.New(cfg.Server().Env, os.Stdout)
	bslog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	upstream := cfg.Upstream()
	routes := make([]routing.Route, 0, len(upstream.AuthPaths))
	for _, prefix := range upstream.AuthPaths {
		routes = append(routes, routing.Route{Prefix: prefix, BaseURL: upstream.AuthURL})
	}
	router, err := routing.New(upstream.DataURL, routes...)
	if err != nil {
		logger.Fatal("invalid upstream configuration", slog.String("reason", err.Error()))
	}

	httpClient, err := client.NewClient(cfg.Session().HTTPTimeout.Std(),
		client.WithRequestLogging(logger.Component("upstream")),
		client.WithMetrics(registry, metricsNamespace),
	)
	if err != nil {
		logger.Fatal("could not create upstream client", slog.String("reason", err.Error()))
	}

	metrics, err := interceptor.NewMetrics(registry, metricsNamespace)
	if err != nil {
		logger.Fatal("could not register metrics", slog.String("reason", err.Error()))
	}

	store := credentials.New()
	dispatcher := interceptor.New(router, store, httpClient,
		interceptor.WithPaths(interceptor.Paths{
			Login:   upstream.LoginPath,
			Logout:  upstream.LogoutPath,
			Refresh: upstream.RefreshPath,
		}),
		interceptor.WithRefreshThreshold(cfg.Session().RefreshThreshold.Std()),
		interceptor.WithRefreshTimeout(cfg.Session().RefreshTimeout.Std()),
		interceptor.WithLogger(logger.Component("interceptor")),
		interceptor.WithMetrics(metrics),
	)

	channel := control.New(store, control.WithLogger(logger.Component("control")))

	var wg sync.WaitGroup
	wg.Go(func() {
		channel.Run(ctx)
	})

	servers := []*http.Server{{
		Addr:              cfg.Server().Addr,
		Handler:           handler.NewHandler(dispatcher, channel, registry, logger.Component("api")).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}}

	if srv := devBackend(cfg, logger); srv != nil {
		servers = append(servers, srv)
	}

	for _, srv := range servers {
		wg.Go(func() {
			logger.Info("listening", slog.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("server stopped unexpectedly", slog.String("addr", srv.Addr), slog.String("reason", err.Error()))
				stop()
			}
		})
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, srv := range servers {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.String("addr", srv.Addr), slog.String("reason", err.Error()))
		}
	}

	wg.Wait()
}

// devBackend serves the local auth and data stand-in when running in a development environment.
func devBackend(cfg *config.Config, logger *bslog.Logger) *http.Server {
	server := cfg.Server()
	if !server.IsDev() || server.DevBackendAddr == "" {
		return nil
	}

	secret := server.DevBackendSecret
	if secret == "" {
		secret = uuid.NewString()
		logger.Warn("no dev backend secret configured, tokens will not survive a restart")
	}

	backend, err := devauth.NewServer([]byte(secret),
		devauth.WithTokenTTL(server.DevAccessTTL.Std(), server.DevRefreshTTL.Std()),
		devauth.WithLogger(logger.Component("devauth")),
	)
	if err != nil {
		logger.Fatal("could not create dev backend", slog.String("reason", err.Error()))
	}

	return &http.Server{
		Addr:              server.DevBackendAddr,
		Handler:           backend.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}
