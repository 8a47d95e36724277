package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"nutriproof/internal/app"
	"nutriproof/internal/auth"
	"nutriproof/internal/config"
	"nutriproof/internal/db"
	httpSrv "nutriproof/internal/http"
	"nutriproof/internal/logging"
	"nutriproof/internal/migrations"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Must("info", "json").Fatal("config", zap.Error(err))
	}
	log := logging.Must(cfg.LogLevel, cfg.LogFormat).Named("api")
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("api stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	if cfg.APIToken == "" {
		return errors.New("API_TOKEN is not set")
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Run embedded migrations (idempotent)
	if err := migrations.Run(cfg.DatabaseURL); err != nil {
		return err
	}

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
	asq := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer asq.Close()

	s := &httpSrv.Server{
		Store:     db.NewStore(dbase),
		Queue:     asq,
		Checker:   pipeline.Checker,
		Grade:     opts,
		TokenHash: auth.HashToken(cfg.APIToken),
		Log:       log,
	}
	s3c, err := app.NewArchive(ctx, cfg, log)
	if err != nil {
		return err
	}
	if s3c != nil {
		s.Archive = s3c
	}

	srv := httpSrv.NewServer(cfg.HTTPAddr, s)
	errc := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", cfg.HTTPAddr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
