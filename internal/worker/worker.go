package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"nutriproof/internal/db"
	"nutriproof/internal/factcheck"
	"nutriproof/internal/grade"
	"nutriproof/internal/schemas"
)

type CheckStore interface {
	GetCheck(ctx context.Context, id string) (db.Check, error)
	MarkRunning(ctx context.Context, id string) error
	CompleteCheck(ctx context.Context, id string, results, report []byte, objectRef string) error
	FailCheck(ctx context.Context, id string, msg string) error
}

type Archive interface {
	PutJSON(ctx context.Context, prefix string, v any) (string, error)
}

type Server struct {
	Store   CheckStore
	Archive Archive
	Checker factcheck.Processor
	Grade   grade.Options
	Log     *zap.Logger
}

func (s *Server) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeFactCheck, s.handleFactCheck)
	return mux
}

func (s *Server) handleFactCheck(ctx context.Context, t *asynq.Task) error {
	var p FactCheckPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil || p.CheckID == "" {
		return fmt.Errorf("bad payload %q: %w", t.Payload(), asynq.SkipRetry)
	}
	id := p.CheckID
	log := s.Log.With(zap.String("check_id", id))

	check, err := s.Store.GetCheck(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		log.Warn("check not found, dropping task")
		return fmt.Errorf("check %s: %w", id, asynq.SkipRetry)
	}
	if err != nil {
		return err
	}
	if err := s.Store.MarkRunning(ctx, id); err != nil {
		return err
	}
	log.Info("starting fact check", zap.Int("attempt", check.Attempts+1))

	started := time.Now()
	results, err := s.Checker.Process(ctx, check.Text)
	if err != nil {
		log.Error("fact check failed", zap.Error(err))
		// persist the failure on the check instead of retrying
		if ferr := s.Store.FailCheck(ctx, id, err.Error()); ferr != nil {
			return ferr
		}
		return nil
	}

	report := grade.Grade(results, s.Grade)
	log.Info("fact check done",
		zap.Int("claims", len(results)),
		zap.String("grade", report.Letter),
		zap.Duration("took", time.Since(started)))

	ref := s.archive(ctx, log, schemas.ArchiveDoc{
		CheckID:   id,
		Text:      check.Text,
		CheckedAt: time.Now().UTC(),
		Results:   results,
		Report:    report,
	})

	resultsJSON, err := json.Marshal(results)
	if err != nil {
		return err
	}
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return err
	}
	return s.Store.CompleteCheck(ctx, id, resultsJSON, reportJSON, ref)
}

// archive is best effort; a failed upload leaves the check without an object ref.
func (s *Server) archive(ctx context.Context, log *zap.Logger, doc schemas.ArchiveDoc) string {
	if s.Archive == nil {
		return ""
	}
	ref, err := s.Archive.PutJSON(ctx, ArchivePrefix, doc)
	if err != nil {
		log.Warn("archive upload failed", zap.Error(err))
		return ""
	}
	return ref
}

func Run(redisAddr string, concurrency int, s *Server) error {
	srv := asynq.NewServer(asynq.RedisClientOpt{Addr: redisAddr}, asynq.Config{
		Concurrency: concurrency,
		Logger:      s.Log.Sugar(),
	})
	return srv.Run(s.Mux())
}
