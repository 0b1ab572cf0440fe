package services

import (
	"math"
	"sort"
	"strings"

	types "github.com/yungbote/searchlift-backend/internal/domain"
)

const opportunityShare = 0.40

// transactionalTriggers flags commercial intent in keyword text. A
// keyword with none of these reads as informational.
var transactionalTriggers = map[string]bool{
	"buy":     true,
	"price":   true,
	"prices":  true,
	"pricing": true,
	"hire":    true,
	"best":    true,
	"vs":      true,
	"review":  true,
	"reviews": true,
}

// InferIntent classifies keyword text into the two coarse intent buckets
// from lexical cues alone.
func InferIntent(text string) types.KeywordIntent {
	lower := strings.ToLower(text)
	if strings.Contains(lower, "near me") {
		return types.IntentTransactional
	}
	for _, tok := range strings.Fields(lower) {
		if transactionalTriggers[strings.Trim(tok, ".,!?")] {
			return types.IntentTransactional
		}
	}
	return types.IntentInformational
}

// mapDeclaredIntents turns profile-declared intent labels into the
// keyword buckets to budget for. Unknown or empty input budgets both.
func mapDeclaredIntents(declared []string) []types.KeywordIntent {
	var buckets []types.KeywordIntent
	have := map[types.KeywordIntent]bool{}
	add := func(b types.KeywordIntent) {
		if !have[b] {
			have[b] = true
			buckets = append(buckets, b)
		}
	}
	for _, d := range declared {
		switch strings.ToLower(strings.TrimSpace(d)) {
		case "action-focused", "action focused", "transactional":
			add(types.IntentTransactional)
		case "research-focused", "research focused", "informational":
			add(types.IntentInformational)
		}
	}
	if len(buckets) == 0 {
		add(types.IntentTransactional)
		add(types.IntentInformational)
	}
	return buckets
}

// CompositeScore sums three raw components: search volume (max 50),
// competition headroom (max 50), and for verified candidates ranking
// proximity (max 40). The sum is deliberately not normalized to 0-100.
func CompositeScore(c types.CandidateKeyword) float64 {
	score := math.Min(float64(c.Volume)/10000.0, 1.0) * 50.0
	score += (100.0 - float64(c.CompetitionIndex)) / 100.0 * 50.0
	if c.Source == types.SourceVerified {
		score += clampf(0, 40, (maxNearMissPos-c.Position)/40.0*40.0)
	}
	return score
}

func difficultyFor(competitionIndex int) types.KeywordDifficulty {
	switch {
	case competitionIndex <= 33:
		return types.DifficultyLow
	case competitionIndex <= 66:
		return types.DifficultyMedium
	default:
		return types.DifficultyHigh
	}
}

// MergeKeywords folds the three validated pools into exactly targetCount
// scored records. The opportunity pool is taken pre-sorted and keeps its
// order; the rest of the budget is split across the declared intent
// buckets and filled by volume.
func MergeKeywords(opportunityPool, ideaPool, profilePool []types.CandidateKeyword, declaredIntents []string, targetCount int) []types.ProcessedKeyword {
	if targetCount <= 0 {
		return nil
	}

	seen := map[string]bool{}
	dedupe := func(pool []types.CandidateKeyword) []types.CandidateKeyword {
		out := make([]types.CandidateKeyword, 0, len(pool))
		for _, c := range pool {
			key := strings.ToLower(strings.TrimSpace(c.Text))
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, c)
		}
		return out
	}
	// Priority order fixes which source tag wins on text collisions.
	opportunity := dedupe(opportunityPool)
	ideas := dedupe(ideaPool)
	custom := dedupe(profilePool)

	opportunitySlots := int(math.Floor(float64(targetCount) * opportunityShare))

	var chosen []types.CandidateKeyword
	chosenSet := map[string]bool{}
	pick := func(c types.CandidateKeyword) {
		chosen = append(chosen, c)
		chosenSet[strings.ToLower(c.Text)] = true
	}

	for _, c := range opportunity {
		if len(chosen) >= opportunitySlots {
			break
		}
		pick(c)
	}

	rest := make([]types.CandidateKeyword, 0, len(ideas)+len(custom))
	rest = append(rest, ideas...)
	rest = append(rest, custom...)
	sort.SliceStable(rest, func(i, j int) bool { return rest[i].Volume > rest[j].Volume })

	intentSlots := targetCount - opportunitySlots
	buckets := mapDeclaredIntents(declaredIntents)
	perBucket := intentSlots / len(buckets)
	remainder := intentSlots % len(buckets)

	for i, bucket := range buckets {
		quota := perBucket
		if i == 0 {
			quota += remainder
		}
		for _, c := range rest {
			if quota == 0 {
				break
			}
			if chosenSet[strings.ToLower(c.Text)] || InferIntent(c.Text) != bucket {
				continue
			}
			pick(c)
			quota--
		}
	}

	// Backfill any bucket shortfall by volume, outside the opportunity
	// pool so its share stays capped.
	for _, c := range rest {
		if len(chosen) >= targetCount {
			break
		}
		if chosenSet[strings.ToLower(c.Text)] {
			continue
		}
		pick(c)
	}

	out := make([]types.ProcessedKeyword, 0, len(chosen))
	for _, c := range chosen {
		intent := InferIntent(c.Text)
		keywordType := string(intent)
		if len(strings.Fields(c.Text)) >= 4 {
			keywordType = "Long-tail"
		}
		out = append(out, types.ProcessedKeyword{
			Text:        c.Text,
			Source:      c.Source,
			Volume:      c.Volume,
			Difficulty:  difficultyFor(c.CompetitionIndex),
			Intent:      intent,
			KeywordType: keywordType,
			Score:       CompositeScore(c),
		})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	if len(out) > targetCount {
		out = out[:targetCount]
	}
	return out
}
