// Package app wires configured components shared by the API and the worker.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"nutriproof/internal/config"
	"nutriproof/internal/factcheck"
	"nutriproof/internal/llm"
	"nutriproof/internal/storage"
	"nutriproof/internal/wolfram"
)

// Pipeline is a ready fact-check pipeline and the resources it holds.
type Pipeline struct {
	Checker *factcheck.Checker

	llm   llm.Client
	redis *redis.Client
}

func (p *Pipeline) Close() error {
	var errs []error
	if p.llm != nil {
		errs = append(errs, p.llm.Close())
	}
	if p.redis != nil {
		errs = append(errs, p.redis.Close())
	}
	return errors.Join(errs...)
}

// NewPipeline builds the LLM client and the Wolfram verifier. Answers are
// cached in Redis when REDIS_ADDR is set and the cache TTL is positive.
func NewPipeline(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Pipeline, error) {
	if cfg.WolframAppID == "" {
		return nil, errors.New("WOLFRAM_APPID is not set")
	}
	client, err := llm.New(ctx, llm.Config{
		Provider:          llm.Provider(cfg.LLMProvider),
		APIKey:            cfg.LLMAPIKey(),
		Model:             cfg.LLMModel,
		RequestsPerMinute: cfg.LLMRequestsPerMinute,
	})
	if err != nil {
		return nil, fmt.Errorf("llm: %w", err)
	}
	p := &Pipeline{llm: client}

	var verifier wolfram.Verifier = wolfram.New(cfg.WolframAppID, log.Named("wolfram"))
	if cfg.RedisAddr != "" && cfg.WolframCacheTTL > 0 {
		p.redis = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		verifier = wolfram.NewCachedVerifier(verifier, wolfram.NewRedisCache(p.redis), cfg.WolframCacheTTL, log.Named("wolfram"))
	}

	p.Checker = factcheck.NewChecker(client, verifier, log.Named("factcheck"), factcheck.Options{
		MaxClaims:   cfg.MaxClaims,
		Concurrency: cfg.Concurrency,
	})
	return p, nil
}

// NewArchive connects to object storage. It returns nil when no bucket is
// configured so archiving is skipped.
func NewArchive(ctx context.Context, cfg *config.Config, log *zap.Logger) (*storage.Client, error) {
	if cfg.MinioBucket == "" {
		log.Info("MINIO_BUCKET not set, archiving disabled")
		return nil, nil
	}
	s3c, err := storage.New(ctx, storage.Options{
		Endpoint:  cfg.MinioEndpoint,
		Bucket:    cfg.MinioBucket,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
	})
	if err != nil {
		return nil, err
	}
	if err := s3c.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	return s3c, nil
}
