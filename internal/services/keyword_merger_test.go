package services

import (
	"fmt"
	"math"
	"strings"
	"testing"

	types "github.com/yungbote/searchlift-backend/internal/domain"
)

func gscPool(n int) []types.CandidateKeyword {
	out := make([]types.CandidateKeyword, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, types.CandidateKeyword{
			Text:        fmt.Sprintf("ranking query %d", i),
			Source:      types.SourceVerified,
			Position:    float64(12 + i),
			Impressions: int64(1000 - i*10),
		})
	}
	return out
}

func TestMergeRespectsTargetCountAndUniqueness(t *testing.T) {
	ideas := make([]types.CandidateKeyword, 0, 40)
	for i := 0; i < 40; i++ {
		ideas = append(ideas, types.CandidateKeyword{
			Text:   fmt.Sprintf("idea keyword %d", i),
			Source: types.SourceGenerated,
			Volume: int64(100 * (40 - i)),
		})
	}

	got := MergeKeywords(gscPool(30), ideas, nil, nil, 20)

	if len(got) != 20 {
		t.Fatalf("expected exactly 20 keywords, got %d", len(got))
	}
	seen := map[string]bool{}
	for _, k := range got {
		key := strings.ToLower(k.Text)
		if seen[key] {
			t.Fatalf("duplicate keyword text %q in output", k.Text)
		}
		seen[key] = true
	}
}

func TestMergeCapsVerifiedShare(t *testing.T) {
	ideas := make([]types.CandidateKeyword, 0, 30)
	for i := 0; i < 30; i++ {
		ideas = append(ideas, types.CandidateKeyword{
			Text:   fmt.Sprintf("generated %d", i),
			Source: types.SourceGenerated,
			Volume: int64(50 * i),
		})
	}

	got := MergeKeywords(gscPool(30), ideas, nil, nil, 20)

	verified := 0
	for _, k := range got {
		if k.Source == types.SourceVerified {
			verified++
		}
	}
	if verified > 8 {
		t.Fatalf("verified share %d exceeds floor(20*0.4)=8", verified)
	}
}

func TestCompositeScoreIsNotNormalized(t *testing.T) {
	c := types.CandidateKeyword{
		Text:             "ideal keyword",
		Source:           types.SourceVerified,
		Volume:           10000,
		CompetitionIndex: 0,
		Position:         10,
	}
	got := CompositeScore(c)
	if math.Abs(got-140.0) > 1e-9 {
		t.Fatalf("score = %v, want 140 (50 volume + 50 competition + 40 proximity)", got)
	}
}

func TestMergeDedupePriorityKeepsVerifiedTag(t *testing.T) {
	opportunity := []types.CandidateKeyword{
		{Text: "Emergency Plumber", Source: types.SourceVerified, Position: 15},
	}
	ideas := []types.CandidateKeyword{
		{Text: "emergency plumber", Source: types.SourceGenerated, Volume: 5000},
	}

	got := MergeKeywords(opportunity, ideas, nil, nil, 5)

	count := 0
	for _, k := range got {
		if strings.EqualFold(k.Text, "emergency plumber") {
			count++
			if k.Source != types.SourceVerified {
				t.Fatalf("collision resolved to %q, want verified", k.Source)
			}
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one copy of the colliding keyword, got %d", count)
	}
}

func TestMergeActionFocusedScenario(t *testing.T) {
	ideas := make([]types.CandidateKeyword, 0, 40)
	for i := 0; i < 6; i++ {
		ideas = append(ideas, types.CandidateKeyword{
			Text:   fmt.Sprintf("buy widget model %d", i),
			Source: types.SourceGenerated,
			Volume: int64(3000 - i*100),
		})
	}
	for i := 0; i < 34; i++ {
		ideas = append(ideas, types.CandidateKeyword{
			Text:   fmt.Sprintf("widget information %d", i),
			Source: types.SourceGenerated,
			Volume: int64(2000 - i*10),
		})
	}
	profile := make([]types.CandidateKeyword, 0, 10)
	for i := 0; i < 10; i++ {
		profile = append(profile, types.CandidateKeyword{
			Text:   fmt.Sprintf("declared term %d", i),
			Source: types.SourceCustom,
			Volume: int64(100 + i),
		})
	}

	got := MergeKeywords(gscPool(30), ideas, profile, []string{"action-focused"}, 20)

	if len(got) != 20 {
		t.Fatalf("expected 20 keywords, got %d", len(got))
	}
	verified := map[string]bool{}
	transactional := 0
	for _, k := range got {
		if k.Source == types.SourceVerified {
			verified[k.Text] = true
		}
		if k.Intent == types.IntentTransactional && k.Source != types.SourceVerified {
			transactional++
		}
	}
	if len(verified) != 8 {
		t.Fatalf("expected exactly 8 opportunity keywords, got %d", len(verified))
	}
	// The opportunity pool is pre-sorted: its own top 8 survive.
	for i := 0; i < 8; i++ {
		if !verified[fmt.Sprintf("ranking query %d", i)] {
			t.Fatalf("opportunity pick %d missing from output", i)
		}
	}
	// All 6 transactional ideas fit inside the 12-slot intent budget.
	if transactional != 6 {
		t.Fatalf("expected all 6 transactional ideas chosen, got %d", transactional)
	}
}

func TestMergeLongTailType(t *testing.T) {
	ideas := []types.CandidateKeyword{
		{Text: "how to fix a leaky faucet", Source: types.SourceGenerated, Volume: 900},
		{Text: "faucet repair", Source: types.SourceGenerated, Volume: 800},
	}
	got := MergeKeywords(nil, ideas, nil, []string{"research-focused"}, 5)

	byText := map[string]types.ProcessedKeyword{}
	for _, k := range got {
		byText[k.Text] = k
	}
	if byText["how to fix a leaky faucet"].KeywordType != "Long-tail" {
		t.Fatalf("expected Long-tail type, got %q", byText["how to fix a leaky faucet"].KeywordType)
	}
	if byText["faucet repair"].KeywordType != string(types.IntentInformational) {
		t.Fatalf("expected intent label type, got %q", byText["faucet repair"].KeywordType)
	}
}
