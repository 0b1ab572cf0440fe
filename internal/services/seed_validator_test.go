package services

import (
	"context"
	"errors"
	"testing"

	types "github.com/yungbote/searchlift-backend/internal/domain"
)

func seedBatch(texts ...string) map[types.SeedCategory][]types.Seed {
	seeds := make([]types.Seed, 0, len(texts))
	for _, t := range texts {
		seeds = append(seeds, types.Seed{Category: types.CategoryTransactional, Text: t})
	}
	return map[types.SeedCategory][]types.Seed{types.CategoryTransactional: seeds}
}

func TestSeedValidatorBypassPassesThrough(t *testing.T) {
	model := &scriptedModel{}
	sv := NewSeedValidator(testLogger(t), model, ValidationBypass)

	got := sv.Validate(context.Background(), seedBatch("a", "b"), nil)
	if len(got[types.CategoryTransactional]) != 2 {
		t.Fatalf("bypass dropped seeds: %v", got)
	}
	if model.calls != 0 {
		t.Fatalf("bypass mode called the model %d times", model.calls)
	}
}

func TestSeedValidatorDropsInvalidSeeds(t *testing.T) {
	model := &scriptedModel{replies: []scriptedReply{
		{text: `{"valid": [0, 2], "invalid": [1], "feedback": ""}`},
	}}
	sv := NewSeedValidator(testLogger(t), model, ValidationLLM)

	got := sv.Validate(context.Background(), seedBatch("plumber near me", "synergy solutions", "drain cleaning cost"), nil)

	seeds := got[types.CategoryTransactional]
	if len(seeds) != 2 {
		t.Fatalf("expected 2 survivors, got %d", len(seeds))
	}
	for _, s := range seeds {
		if s.Text == "synergy solutions" {
			t.Fatal("invalid seed survived")
		}
	}
}

func TestSeedValidatorRegeneratesMostlyInvalidCategory(t *testing.T) {
	model := &scriptedModel{replies: []scriptedReply{
		{text: `{"valid": [0], "invalid": [1, 2], "feedback": "too vague"}`},
		{text: `{"valid": [0, 1], "invalid": [], "feedback": ""}`},
	}}
	sv := NewSeedValidator(testLogger(t), model, ValidationLLM)

	var gotFeedback string
	regen := func(category types.SeedCategory, feedback string) []types.Seed {
		gotFeedback = feedback
		return []types.Seed{
			{Category: category, Text: "emergency plumber austin"},
			{Category: category, Text: "drain cleaning quote"},
		}
	}

	got := sv.Validate(context.Background(), seedBatch("ok", "bad one", "bad two"), regen)

	if gotFeedback != "too vague" {
		t.Fatalf("regenerate feedback = %q, want the model's note", gotFeedback)
	}
	seeds := got[types.CategoryTransactional]
	if len(seeds) != 2 {
		t.Fatalf("expected the 2 regenerated seeds, got %d", len(seeds))
	}
	if model.calls != 2 {
		t.Fatalf("expected exactly one revalidation round, model calls = %d", model.calls)
	}
}

func TestSeedValidatorAcceptsBatchOnModelError(t *testing.T) {
	model := &scriptedModel{replies: []scriptedReply{
		{err: errors.New("upstream timeout")},
	}}
	sv := NewSeedValidator(testLogger(t), model, ValidationLLM)

	got := sv.Validate(context.Background(), seedBatch("a", "b", "c"), nil)
	if len(got[types.CategoryTransactional]) != 3 {
		t.Fatalf("model failure must accept the batch, got %d of 3", len(got[types.CategoryTransactional]))
	}
}
