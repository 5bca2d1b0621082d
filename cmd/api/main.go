package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/vaultdeck/vaultdeck/internal/config"
	"github.com/vaultdeck/vaultdeck/internal/db"
	httpx "github.com/vaultdeck/vaultdeck/internal/http"
	"github.com/vaultdeck/vaultdeck/internal/observability"
	"github.com/vaultdeck/vaultdeck/internal/queue/redisclient"
)

func main() {
	// Load the config set up
	cfg := config.Load()

	// start up the observability logger, with trace correlation
	log := observability.NewLogger(cfg.Env)
	log = slog.New(observability.NewTraceHandler(log.Handler()))
	slog.SetDefault(log)

	// tracing is optional; without an endpoint we run untraced
	if cfg.OTLPEndpoint != "" {
		shutdownTracer, err := observability.InitTracer(context.Background(), "vaultdeck-api", cfg.OTLPEndpoint)

		if err != nil {
			log.Error("tracer init failed", "err", err)
		} else {
			defer func() {
				ctx, cancel := config.WithTimeout(5 * time.Second)
				defer cancel()
				_ = shutdownTracer(ctx)
			}()
		}
	}

	// migrations run before the pool so the schema is ready on first query
	{
		ctx, cancel := config.WithTimeout(30 * time.Second)
		err := db.RunMigrations(ctx, cfg.DBURL)
		cancel()

		if err != nil {
			log.Error("migrations failed", "err", err)
			os.Exit(1)
		}
	}

	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}

	defer pool.Close()

	{
		ctx, cancel := config.WithTimeout(5 * time.Second)
		err = db.EnsureAdminUser(ctx, pool, cfg)
		cancel()

		if err != nil {
			log.Error("admin seed failed", "err", err)
			os.Exit(1)
		}
	}

	queue := redisclient.New(redisclient.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	defer queue.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	prom := observability.NewProm(reg)

	// set up routers
	router := httpx.NewRouter(httpx.RouterDeps{
		Cfg:   cfg,
		Log:   log,
		Pool:  pool,
		Queue: queue,
		Prom:  prom,
		Reg:   reg,
	})

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	// start server using a concurrent go-routine driven anonymous function.

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)

		defer cancel()

		err := srv.Shutdown(ctx)

		if err != nil {
			log.Error("graceful shutdown failed", "err", err)

			return
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
