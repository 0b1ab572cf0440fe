package services

import (
	"context"
	"errors"
	"testing"

	types "github.com/yungbote/searchlift-backend/internal/domain"
	"github.com/yungbote/searchlift-backend/internal/pkg/backoff"
)

type scriptedReply struct {
	text string
	err  error
}

type scriptedModel struct {
	replies []scriptedReply
	calls   int
	prompts []string
}

func (m *scriptedModel) GenerateText(_ context.Context, _ string, user string) (string, error) {
	m.prompts = append(m.prompts, user)
	if m.calls >= len(m.replies) {
		m.calls++
		return "", errors.New("scriptedModel: no reply scripted")
	}
	r := m.replies[m.calls]
	m.calls++
	return r.text, r.err
}

type scriptedIdeas struct {
	batches [][]types.CandidateKeyword
	calls   int
	seeds   [][]string
}

func (s *scriptedIdeas) GenerateIdeas(_ context.Context, seeds []string, _ string, _ string) ([]types.CandidateKeyword, error) {
	s.seeds = append(s.seeds, seeds)
	if s.calls >= len(s.batches) {
		s.calls++
		return nil, errors.New("scriptedIdeas: no batch scripted")
	}
	b := s.batches[s.calls]
	s.calls++
	return b, nil
}

func makeIdeas(texts ...string) []types.CandidateKeyword {
	out := make([]types.CandidateKeyword, 0, len(texts))
	for _, t := range texts {
		out = append(out, types.CandidateKeyword{Text: t, Source: types.SourceGenerated})
	}
	return out
}

func TestIdeaValidatorBypassReturnsInput(t *testing.T) {
	model := &scriptedModel{}
	iv := NewIdeaValidator(testLogger(t), model, &scriptedIdeas{}, ValidationBypass, backoff.NoDelay(3))

	in := makeIdeas("plumber near me", "emergency plumber")
	got := iv.Validate(context.Background(), types.Seed{Text: "plumber"}, in, "US", "en")
	if len(got) != 2 {
		t.Fatalf("expected passthrough of 2 ideas, got %d", len(got))
	}
	if model.calls != 0 {
		t.Fatalf("bypass mode must not call the model, got %d calls", model.calls)
	}
}

func TestIdeaValidatorDropsInvalidIndices(t *testing.T) {
	model := &scriptedModel{replies: []scriptedReply{
		{text: `{"valid": [0, 2, 3, 4], "invalid": [1], "feedback": ""}`},
	}}
	iv := NewIdeaValidator(testLogger(t), model, &scriptedIdeas{}, ValidationLLM, backoff.NoDelay(3))

	in := makeIdeas("fix leaky faucet", "faucet brands", "faucet repair cost", "faucet repair near me", "replace faucet washer")
	got := iv.Validate(context.Background(), types.Seed{Text: "faucet repair"}, in, "US", "en")

	if len(got) != 4 {
		t.Fatalf("expected 4 survivors, got %d", len(got))
	}
	for _, c := range got {
		if c.Text == "faucet brands" {
			t.Fatalf("invalid index 1 survived validation")
		}
	}
}

func TestIdeaValidatorAcceptsBatchAfterRateLimitExhaustion(t *testing.T) {
	rl := errors.New("openai: status 429: rate limit exceeded")
	model := &scriptedModel{replies: []scriptedReply{{err: rl}, {err: rl}, {err: rl}}}
	iv := NewIdeaValidator(testLogger(t), model, &scriptedIdeas{}, ValidationLLM, backoff.NoDelay(3))

	in := makeIdeas("a", "b", "c")
	got := iv.Validate(context.Background(), types.Seed{Text: "seed"}, in, "US", "en")

	if model.calls != 3 {
		t.Fatalf("expected 3 attempts before giving up, got %d", model.calls)
	}
	if len(got) != 3 {
		t.Fatalf("exhausted rate limit must accept the whole batch, kept %d of 3", len(got))
	}
}

func TestIdeaValidatorRewritesSeedOnLowPassRate(t *testing.T) {
	model := &scriptedModel{replies: []scriptedReply{
		// 3 of 10 pass: below the floor.
		{text: `{"valid": [0, 1, 2], "invalid": [3, 4, 5, 6, 7, 8, 9], "feedback": "too generic"}`},
		{text: "licensed electrician services"},
		{text: `{"valid": [0, 1, 2, 3, 4], "invalid": [], "feedback": ""}`},
	}}
	requeried := makeIdeas("electrician near me", "licensed electrician", "electrician cost", "24 hour electrician", "electrician quote")
	ideas := &scriptedIdeas{batches: [][]types.CandidateKeyword{requeried}}
	iv := NewIdeaValidator(testLogger(t), model, ideas, ValidationLLM, backoff.NoDelay(3))

	in := makeIdeas("e0", "e1", "e2", "e3", "e4", "e5", "e6", "e7", "e8", "e9")
	got := iv.Validate(context.Background(), types.Seed{Text: "electrician"}, in, "US", "en")

	if ideas.calls != 1 {
		t.Fatalf("expected one requery, got %d", ideas.calls)
	}
	if len(ideas.seeds[0]) != 1 || ideas.seeds[0][0] != "licensed electrician services" {
		t.Fatalf("requery used wrong seed: %v", ideas.seeds[0])
	}
	if len(got) != 5 {
		t.Fatalf("expected the 5 requeried survivors, got %d", len(got))
	}
}

func TestIdeaValidatorCapsSeedRewrites(t *testing.T) {
	allInvalid := `{"valid": [], "invalid": [0, 1], "feedback": "off topic"}`
	model := &scriptedModel{replies: []scriptedReply{
		{text: allInvalid},
		{text: "seed v2"},
		{text: allInvalid},
		{text: "seed v3"},
		{text: allInvalid},
	}}
	ideas := &scriptedIdeas{batches: [][]types.CandidateKeyword{
		makeIdeas("x1", "x2"),
		makeIdeas("y1", "y2"),
	}}
	iv := NewIdeaValidator(testLogger(t), model, ideas, ValidationLLM, backoff.NoDelay(3))

	got := iv.Validate(context.Background(), types.Seed{Text: "seed v1"}, makeIdeas("a", "b"), "US", "en")

	if ideas.calls != 2 {
		t.Fatalf("expected rewrites capped at 2 requeries, got %d", ideas.calls)
	}
	if len(got) != 0 {
		t.Fatalf("everything was invalid, expected 0 survivors, got %d", len(got))
	}
}
