package main

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"nutriproof/internal/app"
	"nutriproof/internal/config"
	"nutriproof/internal/db"
	"nutriproof/internal/logging"
	"nutriproof/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Must("info", "json").Fatal("config", zap.Error(err))
	}
	log := logging.Must(cfg.LogLevel, cfg.LogFormat).Named("worker")
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("worker stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	if cfg.RedisAddr == "" {
		return errors.New("REDIS_ADDR is not set")
	}
	ctx := context.Background()

	dbase, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer dbase.Close()

	pipeline, err := app.NewPipeline(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer pipeline.Close()

	opts, err := cfg.GradeOptions()
	if err != nil {
		return err
	}
	w := &worker.Server{
		Store:   db.NewStore(dbase),
		Checker: pipeline.Checker,
		Grade:   opts,
		Log:     log,
	}
	s3c, err := app.NewArchive(ctx, cfg, log)
	if err != nil {
		return err
	}
	if s3c != nil {
		w.Archive = s3c
	}

	log.Info("starting worker", zap.Int("concurrency", cfg.WorkerConcurrency))
	// asynq.Server.Run handles SIGTERM/SIGINT itself
	return worker.Run(cfg.RedisAddr, cfg.WorkerConcurrency, w)
}
