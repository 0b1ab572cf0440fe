package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	types "github.com/yungbote/searchlift-backend/internal/domain"
	"github.com/yungbote/searchlift-backend/internal/pkg/backoff"
	"github.com/yungbote/searchlift-backend/internal/pkg/httpx"
	"github.com/yungbote/searchlift-backend/internal/pkg/logger"
)

// IdeaSource is the slice of the ads client the validator needs to requery
// ideas under a rewritten seed.
type IdeaSource interface {
	GenerateIdeas(ctx context.Context, seeds []string, location string, language string) ([]types.CandidateKeyword, error)
}

// IdeaValidator filters keyword ideas for relevance to the seed that
// produced them, rewriting the seed and requerying when most ideas miss.
type IdeaValidator interface {
	Validate(ctx context.Context, seed types.Seed, ideas []types.CandidateKeyword, location string, language string) []types.CandidateKeyword
}

const (
	ideaBatchSize   = 20
	passRateFloor   = 0.70
	maxSeedRewrites = 2

	interBatchDelay = 200 * time.Millisecond
)

type ideaValidator struct {
	log     *logger.Logger
	model   TextModel
	ideas   IdeaSource
	mode    ValidationMode
	backoff backoff.Policy
}

func NewIdeaValidator(baseLog *logger.Logger, model TextModel, ideas IdeaSource, mode ValidationMode, policy backoff.Policy) IdeaValidator {
	return &ideaValidator{
		log:     baseLog.With("service", "IdeaValidator"),
		model:   model,
		ideas:   ideas,
		mode:    mode,
		backoff: policy,
	}
}

const ideaValidationSystem = `You review keyword ideas pulled for a seed search query.
Classify each numbered keyword: does it serve the same search intent as the seed?
Reply with strict JSON only: {"valid": [indices], "invalid": [indices], "feedback": "short note on the mismatch"}.`

func (iv *ideaValidator) Validate(ctx context.Context, seed types.Seed, ideas []types.CandidateKeyword, location string, language string) []types.CandidateKeyword {
	if iv.mode == ValidationBypass || iv.model == nil {
		return ideas
	}

	seedText := seed.Text
	candidates := ideas
	for rewrite := 0; ; rewrite++ {
		kept, passRate, feedback := iv.validateAll(ctx, seedText, candidates)
		if passRate >= passRateFloor || rewrite >= maxSeedRewrites {
			return kept
		}

		iv.log.Info("Pass rate below floor, rewriting seed",
			"seed", seedText, "pass_rate", passRate, "rewrite", rewrite+1)

		rewritten, err := iv.rewriteSeed(ctx, seedText, feedback)
		if err != nil || rewritten == "" || rewritten == seedText {
			return kept
		}
		requeried, err := iv.ideas.GenerateIdeas(ctx, []string{rewritten}, location, language)
		if err != nil || len(requeried) == 0 {
			return kept
		}
		seedText = rewritten
		candidates = requeried
	}
}

// validateAll runs the batches for one seed and returns the surviving
// ideas, the overall pass rate, and the model's last feedback line.
func (iv *ideaValidator) validateAll(ctx context.Context, seedText string, candidates []types.CandidateKeyword) ([]types.CandidateKeyword, float64, string) {
	var (
		kept     []types.CandidateKeyword
		passed   int
		total    int
		feedback string
	)
	for start := 0; start < len(candidates); start += ideaBatchSize {
		end := start + ideaBatchSize
		if end > len(candidates) {
			end = len(candidates)
		}
		batch := candidates[start:end]
		if start > 0 {
			if err := iv.backoff.Pause(ctx, interBatchDelay); err != nil {
				kept = append(kept, candidates[start:]...)
				passed += len(candidates) - start
				total = len(candidates)
				break
			}
		}

		accepted := iv.validateBatch(ctx, seedText, batch, &feedback)
		for _, idx := range accepted {
			kept = append(kept, batch[idx])
		}
		passed += len(accepted)
		total += len(batch)
	}
	if total == 0 {
		return kept, 1.0, feedback
	}
	return kept, float64(passed) / float64(total), feedback
}

func (iv *ideaValidator) validateBatch(ctx context.Context, seedText string, batch []types.CandidateKeyword, feedback *string) []int {
	raw, err := iv.callWithBackoff(ctx, ideaValidationSystem, ideaPrompt(seedText, batch))
	if err != nil {
		// Rate limiting and remote faults accept the batch.
		iv.log.Warn("Idea validation call failed, accepting batch",
			"seed", seedText, "error", err.Error())
		return ApplyVerdict(VerdictOutcome{}, len(batch))
	}

	outcome := ParseVerdict(raw)
	if outcome.OK && outcome.Verdict.Feedback != "" {
		*feedback = outcome.Verdict.Feedback
	}
	return ApplyVerdict(outcome, len(batch))
}

// callWithBackoff retries rate-limited model calls up to the policy's
// attempt cap. Other errors surface immediately.
func (iv *ideaValidator) callWithBackoff(ctx context.Context, system string, user string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < iv.backoff.MaxAttempts; attempt++ {
		if attempt > 0 {
			if err := iv.backoff.Wait(ctx, attempt-1); err != nil {
				return "", err
			}
		}
		raw, err := iv.model.GenerateText(ctx, system, user)
		if err == nil {
			return raw, nil
		}
		if !httpx.IsRateLimited(err) {
			return "", err
		}
		lastErr = err
	}
	return "", lastErr
}

func (iv *ideaValidator) rewriteSeed(ctx context.Context, seedText string, feedback string) (string, error) {
	user := fmt.Sprintf("Seed query: %q\nProblem with the ideas it pulled: %s\nReply with the rewritten seed query only, no quotes, no explanation.", seedText, feedback)
	raw, err := iv.callWithBackoff(ctx, "You rewrite a seed search query so a keyword ideas API returns more relevant results.", user)
	if err != nil {
		return "", err
	}
	return strings.Trim(strings.TrimSpace(raw), `"`), nil
}

func ideaPrompt(seedText string, batch []types.CandidateKeyword) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Seed query: %s\nKeywords:\n", seedText)
	for i, c := range batch {
		fmt.Fprintf(&b, "%d. %s\n", i, c.Text)
	}
	return b.String()
}
