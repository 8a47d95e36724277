// Package factcheck runs the claim pipeline: find checkable claims in a piece
// of text, look each one up in Wolfram|Alpha and have the model judge it
// against the returned data.
package factcheck

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"nutriproof/internal/llm"
	"nutriproof/internal/schemas"
	"nutriproof/internal/wolfram"
)

// ErrEmptyText is returned when there is nothing to check.
var ErrEmptyText = errors.New("factcheck: text is empty")

// Processor is what the API and the worker need from a Checker.
type Processor interface {
	Process(ctx context.Context, text string) ([]schemas.FactCheckResult, error)
}

type Checker struct {
	llm         llm.Client
	wolfram     wolfram.Verifier
	log         *zap.Logger
	maxClaims   int
	concurrency int
}

type Options struct {
	MaxClaims   int
	Concurrency int
}

func NewChecker(client llm.Client, verifier wolfram.Verifier, log *zap.Logger, opts Options) *Checker {
	if opts.MaxClaims <= 0 {
		opts.MaxClaims = 10
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 3
	}
	return &Checker{
		llm:         client,
		wolfram:     verifier,
		log:         log,
		maxClaims:   opts.MaxClaims,
		concurrency: opts.Concurrency,
	}
}

// Process returns one result per identified claim, in claim order. Failures
// on an individual claim degrade that claim to Inconclusive; only claim
// identification failures and cancellation fail the whole run.
func (c *Checker) Process(ctx context.Context, text string) ([]schemas.FactCheckResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}

	claims, err := c.IdentifyClaims(ctx, text)
	if err != nil {
		return nil, err
	}
	c.log.Info("identified claims", zap.Int("count", len(claims)))

	results := make([]schemas.FactCheckResult, len(claims))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, claim := range claims {
		g.Go(func() error {
			results[i] = c.checkClaim(gctx, claim)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// IdentifyClaims asks the model for the verifiable claims in text.
func (c *Checker) IdentifyClaims(ctx context.Context, text string) ([]string, error) {
	out, err := c.llm.CompleteJSON(ctx, identifyClaimsPrompt(text))
	if err != nil {
		return nil, fmt.Errorf("identify claims: %w", err)
	}

	claims := parseClaims(out)
	if len(claims) > c.maxClaims {
		c.log.Debug("truncating claims", zap.Int("found", len(claims)), zap.Int("max", c.maxClaims))
		claims = claims[:c.maxClaims]
	}
	return claims, nil
}

// parseClaims accepts {"claims": [...]}, a bare JSON array, or falls back to
// treating the whole answer as one claim.
func parseClaims(out string) []string {
	out = strings.TrimSpace(out)
	if out == "" {
		return nil
	}

	var obj struct {
		Claims []string `json:"claims"`
	}
	if err := json.Unmarshal([]byte(out), &obj); err == nil && obj.Claims != nil {
		return compact(obj.Claims)
	}
	var arr []string
	if err := json.Unmarshal([]byte(out), &arr); err == nil {
		return compact(arr)
	}
	if strings.HasPrefix(out, "{") {
		// a JSON object without a claims list
		return nil
	}
	return []string{out}
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (c *Checker) checkClaim(ctx context.Context, claim string) schemas.FactCheckResult {
	res := schemas.FactCheckResult{Claim: claim}
	log := c.log.With(zap.String("claim", claim))

	query, err := c.llm.Complete(ctx, optimizeQueryPrompt(claim))
	if err != nil || query == "" {
		log.Warn("query optimization failed, using claim text", zap.Error(err))
		query = claim
	}
	res.WolframQuery = query

	answer, err := c.wolfram.Verify(ctx, query)
	if err != nil {
		log.Warn("wolfram lookup failed", zap.Error(err))
		answer = fmt.Sprintf("Error: %v", err)
	}
	res.WolframResponse = answer

	verdict, explanation, err := c.judge(ctx, claim, query, answer)
	if err != nil {
		log.Warn("verdict generation failed", zap.Error(err))
		res.Verdict = VerdictInconclusive
		res.FinalAnswer = "Unable to reach a verdict for this claim."
		return res
	}
	res.Verdict = verdict
	res.FinalAnswer = explanation
	return res
}

func (c *Checker) judge(ctx context.Context, claim, query, answer string) (string, string, error) {
	out, err := c.llm.CompleteJSON(ctx, verdictPrompt(claim, query, answer))
	if err != nil {
		return "", "", err
	}
	var v struct {
		Verdict     string `json:"verdict"`
		Explanation string `json:"explanation"`
	}
	if err := json.Unmarshal([]byte(out), &v); err != nil {
		// Some models ignore the JSON instruction and answer with the label.
		return NormalizeVerdict(out), "", nil
	}
	return NormalizeVerdict(v.Verdict), strings.TrimSpace(v.Explanation), nil
}
