package services

import (
	"context"
	"fmt"
	"strings"

	types "github.com/yungbote/searchlift-backend/internal/domain"
	"github.com/yungbote/searchlift-backend/internal/pkg/logger"
)

// TextModel is the slice of the text-generation client the validators use.
type TextModel interface {
	GenerateText(ctx context.Context, system string, user string) (string, error)
}

type ValidationMode string

const (
	// ValidationBypass skips the model gate and passes everything through.
	// This is the default operating policy.
	ValidationBypass ValidationMode = "bypass"
	ValidationLLM    ValidationMode = "llm"
)

func ParseValidationMode(s string) ValidationMode {
	if strings.EqualFold(strings.TrimSpace(s), string(ValidationLLM)) {
		return ValidationLLM
	}
	return ValidationBypass
}

// RegenerateFunc asks the seed generator for a fresh category batch given
// the model's rejection feedback.
type RegenerateFunc func(category types.SeedCategory, feedback string) []types.Seed

// SeedValidator gates generated seeds on "would a real person type this".
type SeedValidator interface {
	Validate(ctx context.Context, seeds map[types.SeedCategory][]types.Seed, regenerate RegenerateFunc) map[types.SeedCategory][]types.Seed
}

type seedValidator struct {
	log   *logger.Logger
	model TextModel
	mode  ValidationMode
}

func NewSeedValidator(baseLog *logger.Logger, model TextModel, mode ValidationMode) SeedValidator {
	return &seedValidator{
		log:   baseLog.With("service", "SeedValidator"),
		model: model,
		mode:  mode,
	}
}

const seedValidationSystem = `You review candidate search queries for a business.
Classify each numbered query: is it a natural search query a real person would type into a search engine?
Reply with strict JSON only: {"valid": [indices], "invalid": [indices], "feedback": "short note on why the invalid ones fail"}.`

func (sv *seedValidator) Validate(ctx context.Context, seeds map[types.SeedCategory][]types.Seed, regenerate RegenerateFunc) map[types.SeedCategory][]types.Seed {
	if sv.mode == ValidationBypass || sv.model == nil {
		return seeds
	}

	out := map[types.SeedCategory][]types.Seed{}
	for category, batch := range seeds {
		kept, verdict := sv.validateCategory(ctx, category, batch)

		// One regeneration round when the category mostly failed.
		if verdict.OK && len(verdict.Verdict.Invalid) > len(verdict.Verdict.Valid) && regenerate != nil {
			sv.log.Info("Category mostly invalid, regenerating once",
				"category", category,
				"invalid", len(verdict.Verdict.Invalid),
				"valid", len(verdict.Verdict.Valid),
			)
			regenerated := regenerate(category, verdict.Verdict.Feedback)
			if len(regenerated) > 0 {
				kept, _ = sv.validateCategory(ctx, category, regenerated)
			}
		}

		if len(kept) > 0 {
			out[category] = kept
		}
	}
	return out
}

func (sv *seedValidator) validateCategory(ctx context.Context, category types.SeedCategory, batch []types.Seed) ([]types.Seed, VerdictOutcome) {
	if len(batch) == 0 {
		return nil, VerdictOutcome{}
	}

	raw, err := sv.model.GenerateText(ctx, seedValidationSystem, seedPrompt(category, batch))
	if err != nil {
		// Remote faults never kill the pipeline; accept the batch.
		sv.log.Warn("Seed validation call failed, accepting batch",
			"category", category, "error", err.Error())
		return batch, VerdictOutcome{}
	}

	outcome := ParseVerdict(raw)
	if !outcome.OK {
		sv.log.Warn("Seed verdict unparseable, accepting batch", "category", category)
		return batch, outcome
	}

	accepted := ApplyVerdict(outcome, len(batch))
	kept := make([]types.Seed, 0, len(accepted))
	for _, idx := range accepted {
		kept = append(kept, batch[idx])
	}
	return kept, outcome
}

func seedPrompt(category types.SeedCategory, batch []types.Seed) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Category: %s\nQueries:\n", category)
	for i, s := range batch {
		fmt.Fprintf(&b, "%d. %s\n", i, s.Text)
	}
	return b.String()
}
