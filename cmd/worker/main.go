package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/vaultdeck/vaultdeck/internal/config"
	"github.com/vaultdeck/vaultdeck/internal/db"
	"github.com/vaultdeck/vaultdeck/internal/observability"
	"github.com/vaultdeck/vaultdeck/internal/queue/redisclient"
	"github.com/vaultdeck/vaultdeck/internal/queue/worker"
	"github.com/vaultdeck/vaultdeck/internal/repo/postgres"
)

func main() {
	cfg := config.Load()

	log := observability.NewLogger(cfg.Env)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)

	defer stop()

	pool, err := db.NewPool(cfg.DBURL)

	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}

	defer pool.Close()

	queue := redisclient.New(redisclient.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	defer queue.Close()

	reg := prometheus.NewRegistry()
	prom := observability.NewProm(reg)

	auditRepo := postgres.NewAuditRepo(pool, prom)

	host, _ := os.Hostname()
	workerID := host + "-" + strconv.Itoa(os.Getpid())

	w := worker.New(worker.Config{
		PollTimeout:   2 * time.Second,
		ShutdownGrace: 10 * time.Second,
		WorkerID:      workerID,
	}, queue, auditRepo, log, prom)

	// health probes on a side port
	healthSrv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.Port+1),
		Handler:           w.HealthHandler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		err := healthSrv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("worker health server failed", "err", err)
		}
	}()

	log.Info("worker has started", "worker_id", workerID)

	if err := w.Run(ctx); err != nil {
		log.Error("worker stopped with error", "err", err)
	}

	shutdownCtx, cancel := config.WithTimeout(5 * time.Second)
	_ = healthSrv.Shutdown(shutdownCtx)
	cancel()

	log.Info("worker shutdown complete")
}
