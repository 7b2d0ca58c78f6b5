package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/caffeinepub/total-amount-calculator-app/internal/config"
	"github.com/caffeinepub/total-amount-calculator-app/internal/infra"
	"github.com/caffeinepub/total-amount-calculator-app/internal/localstore"
	"github.com/caffeinepub/total-amount-calculator-app/internal/remote"
	"github.com/caffeinepub/total-amount-calculator-app/internal/router"
	"github.com/caffeinepub/total-amount-calculator-app/internal/worker"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// File-backed branch store. Each key lives in its own file under DATA_DIR
	// so a second process on the same host sees writes via the watcher.
	kv, err := localstore.NewFileKV(cfg.DataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open data dir")
	}
	defer kv.Close()

	// Worker pool for fire-and-forget remote syncs. Handlers are wired here
	// (composition root) so the pool has full access to infrastructure deps.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handlers := &worker.Handlers{
		Remote:        remote.NewPostgresLedger(db),
		RemoteTimeout: cfg.RemoteTimeout,
	}
	worker.StartPool(ctx, rdb, handlers, cfg.WorkerPoolSize)

	remoteCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())

	r := router.New(cfg, kv, db, rdb, remoteCB)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("billing backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
