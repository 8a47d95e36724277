package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	m "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/hibiken/asynq"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"nutriproof/internal/db"
	"nutriproof/internal/factcheck"
	"nutriproof/internal/grade"
	"nutriproof/internal/schemas"
	"nutriproof/internal/worker"
)

const maxBodyBytes = 1 << 20

type CheckStore interface {
	CreateCheck(ctx context.Context, text string) (db.Check, error)
	GetCheck(ctx context.Context, id string) (db.Check, error)
	RequeueCheck(ctx context.Context, id string) error
	FailCheck(ctx context.Context, id string, msg string) error
	Ping(ctx context.Context) error
}

type Archive interface {
	PutJSON(ctx context.Context, prefix string, v any) (string, error)
}

type Enqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type Server struct {
	Store     CheckStore
	Archive   Archive
	Queue     Enqueuer
	Checker   factcheck.Processor
	Grade     grade.Options
	TokenHash string
	Log       *zap.Logger

	validate *validator.Validate
}

func NewServer(addr string, s *Server) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func (s *Server) Routes() http.Handler {
	if s.Log == nil {
		s.Log = zap.NewNop()
	}
	s.validate = validator.New()

	r := chi.NewRouter()
	r.Use(m.RequestID, m.RealIP, RequestLogger(s.Log), m.Recoverer)
	// the extension calls from arbitrary page and extension origins
	r.Use(cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler)

	r.Get("/", s.index)
	r.Get("/healthz", s.healthz)
	r.Post("/api/fact-check", s.factCheck)
	r.Post("/api/grade", s.gradeResults)

	r.Group(func(r chi.Router) {
		r.Use(RequireAPIToken(s.TokenHash))
		r.Post("/api/checks", s.createCheck)
		r.Get("/api/checks/{id}", s.getCheck)
		r.Post("/api/checks/{id}/recheck", s.recheck)
	})

	return r
}

type errResp struct {
	Error string `json:"error"`
}

// GradeResponse is the body of POST /api/grade.
type GradeResponse struct {
	Report grade.Report  `json:"report"`
	Chart  []grade.Slice `json:"chart"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, schemas.StatusOut{
		Status:  "online",
		Message: "Wolfram|Alpha fact-checking API is running",
	})
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.Ping(r.Context()); err != nil {
		s.Log.Warn("health check failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"status": "db error"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) decodeText(r *http.Request) (string, error) {
	var req schemas.FactCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == "" {
		return "", fmt.Errorf("%w: missing required 'text' field in request body", errBadRequest)
	}
	if err := s.validate.Struct(req); err != nil {
		return "", err
	}
	return req.Text, nil
}

func (s *Server) factCheck(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	text, err := s.decodeText(r)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}

	results, err := s.Checker.Process(r.Context(), text)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	if results == nil {
		results = []schemas.FactCheckResult{}
	}

	if s.Archive != nil {
		doc := schemas.ArchiveDoc{
			Text:      text,
			CheckedAt: time.Now().UTC(),
			Results:   results,
			Report:    grade.Grade(results, s.Grade),
		}
		if ref, err := s.Archive.PutJSON(r.Context(), worker.ArchivePrefix, doc); err != nil {
			s.Log.Warn("archive upload failed", zap.Error(err))
		} else {
			s.Log.Debug("archived fact check", zap.String("object_ref", ref))
		}
	}
	writeJSON(w, http.StatusOK, results)
}

// gradeResults accepts either a GradeRequest or a bare result array. Query
// parameters verdict_field and match_policy override the body.
func (s *Server) gradeResults(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeErr(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	var req schemas.GradeRequest
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		err = json.Unmarshal(trimmed, &req.Results)
	} else {
		err = json.Unmarshal(trimmed, &req)
	}
	if err != nil {
		s.writeErr(w, r, fmt.Errorf("%w: %v", errBadRequest, err))
		return
	}

	q := r.URL.Query()
	if v := q.Get("verdict_field"); v != "" {
		req.VerdictField = v
	}
	if v := q.Get("match_policy"); v != "" {
		req.MatchPolicy = v
	}
	opts, err := s.gradeOptions(req.VerdictField, req.MatchPolicy)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}

	report := grade.Grade(req.Results, opts)
	writeJSON(w, http.StatusOK, GradeResponse{Report: report, Chart: grade.Chart(report.Counts)})
}

// gradeOptions overlays request policies on the server defaults.
func (s *Server) gradeOptions(field, match string) (grade.Options, error) {
	opts := s.Grade
	if opts.Field == "" || opts.Match == "" {
		opts = grade.DefaultOptions()
	}
	if field != "" {
		f, err := grade.ParseFieldPolicy(field)
		if err != nil {
			return grade.Options{}, err
		}
		opts.Field = f
	}
	if match != "" {
		p, err := grade.ParseMatchPolicy(match)
		if err != nil {
			return grade.Options{}, err
		}
		opts.Match = p
	}
	return opts, nil
}

// enqueue hands the check to the worker. A check that never reaches the
// queue is marked failed so it does not sit in queued forever; it can then be
// rechecked.
func (s *Server) enqueue(ctx context.Context, checkID string) error {
	info, err := s.submit(checkID)
	if err != nil {
		err = fmt.Errorf("enqueue %s: %w", checkID, err)
		if ferr := s.Store.FailCheck(context.WithoutCancel(ctx), checkID, err.Error()); ferr != nil {
			s.Log.Error("mark unqueued check failed", zap.String("check_id", checkID), zap.Error(ferr))
		}
		return err
	}
	s.Log.Info("enqueued fact check", zap.String("check_id", checkID), zap.String("task_id", info.ID))
	return nil
}

func (s *Server) submit(checkID string) (*asynq.TaskInfo, error) {
	task, err := worker.NewFactCheckTask(checkID)
	if err != nil {
		return nil, err
	}
	return s.Queue.Enqueue(task, asynq.MaxRetry(3), asynq.Timeout(5*time.Minute))
}

func (s *Server) createCheck(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	text, err := s.decodeText(r)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	c, err := s.Store.CreateCheck(r.Context(), text)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	if err := s.enqueue(r.Context(), c.ID); err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, schemas.CreateCheckOut{CheckID: c.ID, Status: c.Status})
}

func (s *Server) getCheck(w http.ResponseWriter, r *http.Request) {
	c, err := s.Store.GetCheck(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	out, err := checkOut(c)
	if err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) recheck(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Store.RequeueCheck(r.Context(), id); err != nil {
		s.writeErr(w, r, err)
		return
	}
	if err := s.enqueue(r.Context(), id); err != nil {
		s.writeErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, schemas.CreateCheckOut{CheckID: id, Status: db.StatusQueued})
}

func checkOut(c db.Check) (schemas.CheckOut, error) {
	out := schemas.CheckOut{
		CheckID:   c.ID,
		Status:    c.Status,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Attempts:  c.Attempts,
	}
	if c.ObjectRef != nil {
		out.ObjectRef = *c.ObjectRef
	}
	if c.Error != nil {
		out.Error = *c.Error
	}
	if len(c.Results) > 0 {
		if err := json.Unmarshal(c.Results, &out.Results); err != nil {
			return out, fmt.Errorf("decode results of %s: %w", c.ID, err)
		}
	}
	if len(c.Report) > 0 {
		var report grade.Report
		if err := json.Unmarshal(c.Report, &report); err != nil {
			return out, fmt.Errorf("decode report of %s: %w", c.ID, err)
		}
		out.Report = c.Report
		chart, err := json.Marshal(grade.Chart(report.Counts))
		if err != nil {
			return out, err
		}
		out.Chart = chart
	}
	return out, nil
}
