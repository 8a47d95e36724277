package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var (
	ErrNotFound = errors.New("check not found")
	ErrConflict = errors.New("check is already queued or running")
)

type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store { return &Store{db: db} }

func (s *Store) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *Store) CreateCheck(ctx context.Context, text string) (Check, error) {
	var c Check
	err := s.db.GetContext(ctx, &c,
		`insert into checks(id, text, status) values($1, $2, $3) returning *`,
		uuid.NewString(), text, StatusQueued)
	if err != nil {
		return Check{}, fmt.Errorf("create check: %w", err)
	}
	return c, nil
}

func (s *Store) GetCheck(ctx context.Context, id string) (Check, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Check{}, ErrNotFound
	}
	var c Check
	err := s.db.GetContext(ctx, &c, `select * from checks where id=$1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Check{}, ErrNotFound
	}
	if err != nil {
		return Check{}, fmt.Errorf("get check %s: %w", id, err)
	}
	return c, nil
}

func (s *Store) MarkRunning(ctx context.Context, id string) error {
	return s.exec(ctx, `update checks set status=$2, attempts=attempts+1, updated_at=now() where id=$1`,
		id, StatusRunning)
}

// CompleteCheck stores the pipeline output. results and report are JSON documents.
func (s *Store) CompleteCheck(ctx context.Context, id string, results, report []byte, objectRef string) error {
	var ref *string
	if objectRef != "" {
		ref = &objectRef
	}
	return s.exec(ctx, `update checks set status=$2, results=$3, report=$4, object_ref=$5, error=null,
		updated_at=now() where id=$1`, id, StatusDone, results, report, ref)
}

func (s *Store) FailCheck(ctx context.Context, id string, msg string) error {
	return s.exec(ctx, `update checks set status=$2, error=$3, updated_at=now() where id=$1`,
		id, StatusFailed, msg)
}

// RequeueCheck resets a finished check for another run and keeps the attempt
// count. Checks still queued or running return ErrConflict.
func (s *Store) RequeueCheck(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	return WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		var status string
		if err := tx.GetContext(ctx, &status, `select status from checks where id=$1 for update`, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		if status != StatusDone && status != StatusFailed {
			return fmt.Errorf("requeue %s (%s): %w", id, status, ErrConflict)
		}
		_, err := tx.ExecContext(ctx, `update checks set status=$2, results=null, report=null, object_ref=null,
			error=null, updated_at=now() where id=$1`, id, StatusQueued)
		return err
	})
}

func (s *Store) exec(ctx context.Context, q string, args ...any) error {
	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
