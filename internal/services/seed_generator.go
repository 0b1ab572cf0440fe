package services

import (
	"strings"

	types "github.com/yungbote/searchlift-backend/internal/domain"
	"github.com/yungbote/searchlift-backend/internal/pkg/logger"
)

// SeedGenerator turns a business profile into categorized query templates
// for the keyword-ideas API. Seeds are pipeline-internal and never shown to
// users.
type SeedGenerator interface {
	// Generate returns seeds per category, empty categories omitted.
	// feedback carries per-category rejection notes from a prior
	// validation round; it is reserved for seed rewriting and is not
	// consumed yet.
	Generate(profile *types.BusinessProfile, feedback map[types.SeedCategory]string) map[types.SeedCategory][]types.Seed
}

type seedGenerator struct {
	log *logger.Logger
}

func NewSeedGenerator(baseLog *logger.Logger) SeedGenerator {
	return &seedGenerator{log: baseLog.With("service", "SeedGenerator")}
}

const (
	maxOfferings        = 5
	maxDifferentiators  = 2
	maxFallbackPhrases  = 3
	fallbackPhraseWords = 3
)

// Declared search intents narrow the generated categories. Long-tail and
// branded seeds are always kept regardless of intent.
var intentCategories = map[string][]types.SeedCategory{
	"action-focused":   {types.CategoryTransactional, types.CategoryComparison},
	"research-focused": {types.CategoryInformational, types.CategoryComparison},
}

func (sg *seedGenerator) Generate(profile *types.BusinessProfile, feedback map[types.SeedCategory]string) map[types.SeedCategory][]types.Seed {
	_ = feedback

	if profile == nil {
		return map[types.SeedCategory][]types.Seed{}
	}

	offerings := profile.OfferingsList()
	if len(offerings) > maxOfferings {
		offerings = offerings[:maxOfferings]
	}
	if len(offerings) == 0 {
		offerings = extractPhrases(profile.Description, maxFallbackPhrases)
		sg.log.Debug("No offerings declared, extracted fallback phrases",
			"count", len(offerings))
	}

	differentiators := profile.DifferentiatorsList()
	if len(differentiators) > maxDifferentiators {
		differentiators = differentiators[:maxDifferentiators]
	}

	location := normalizePhrase(profile.PrimaryLocation())
	customer := inferCustomerType(profile.CustomerDescription)
	brand := normalizePhrase(profile.BusinessName)

	out := map[types.SeedCategory][]types.Seed{}
	for _, category := range allowedCategories(profile.SearchIntentsList()) {
		texts := sg.expand(category, brand, offerings, differentiators, location, customer)
		seeds := dedupeSeeds(category, texts)
		if len(seeds) > 0 {
			out[category] = seeds
		}
	}
	return out
}

func (sg *seedGenerator) expand(category types.SeedCategory, brand string, offerings, differentiators []string, location, customer string) []string {
	var texts []string
	add := func(parts ...string) {
		t := normalizePhrase(strings.Join(parts, " "))
		if t != "" {
			texts = append(texts, t)
		}
	}

	for _, raw := range offerings {
		offering := normalizePhrase(raw)
		if offering == "" {
			continue
		}

		switch category {
		case types.CategoryTransactional:
			add(offering)
			add(offering, "pricing")
			add(offering, "near me")
			add(offering, "services")
			if location != "" {
				add(offering, location)
			}
		case types.CategoryInformational:
			add("what is", offering)
			add("how to choose", offering)
			add(offering, "guide")
			add("benefits of", offering)
		case types.CategoryComparison:
			add("best", offering)
			add(offering, "reviews")
			add(offering, "vs alternatives")
			if customer != "" {
				add("best", offering, "for", customer)
			}
			if location != "" {
				add("top", offering, location)
			}
		case types.CategoryBranded:
			if brand != "" {
				add(brand, offering)
			}
		case types.CategoryLongTail:
			if customer != "" {
				add(offering, "for", customer)
				if location != "" {
					add("best", offering, "for", customer, "in", location)
				}
			}
			for _, d := range differentiators {
				add(offering, "with", normalizePhrase(d))
			}
			if location != "" {
				add("affordable", offering, location)
			}
		}
	}

	if category == types.CategoryBranded && brand != "" {
		texts = append(texts, brand, normalizePhrase(brand+" reviews"), normalizePhrase(brand+" pricing"))
	}

	return texts
}

func allowedCategories(declaredIntents []string) []types.SeedCategory {
	if len(declaredIntents) == 0 {
		return allCategories()
	}

	allowed := map[types.SeedCategory]bool{
		// Always retained.
		types.CategoryLongTail: true,
		types.CategoryBranded:  true,
	}
	matched := false
	for _, intent := range declaredIntents {
		cats, ok := intentCategories[strings.ToLower(strings.TrimSpace(intent))]
		if !ok {
			continue
		}
		matched = true
		for _, c := range cats {
			allowed[c] = true
		}
	}
	if !matched {
		return allCategories()
	}

	out := make([]types.SeedCategory, 0, len(allowed))
	for _, c := range allCategories() {
		if allowed[c] {
			out = append(out, c)
		}
	}
	return out
}

func allCategories() []types.SeedCategory {
	return []types.SeedCategory{
		types.CategoryTransactional,
		types.CategoryInformational,
		types.CategoryComparison,
		types.CategoryBranded,
		types.CategoryLongTail,
	}
}

func dedupeSeeds(category types.SeedCategory, texts []string) []types.Seed {
	seen := map[string]bool{}
	out := make([]types.Seed, 0, len(texts))
	for _, t := range texts {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, types.Seed{Category: category, Text: t})
	}
	return out
}

var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "in": true,
	"is": true, "it": true, "of": true, "on": true, "or": true,
	"our": true, "that": true, "the": true, "their": true, "to": true,
	"we": true, "with": true, "your": true,
}

// extractPhrases is the lossy fallback when a profile declares no
// offerings: short content-word phrases pulled from free text.
func extractPhrases(text string, max int) []string {
	words := contentWords(text)

	var phrases []string
	for i := 0; i+2 <= len(words) && len(phrases) < max; i += fallbackPhraseWords {
		end := i + fallbackPhraseWords
		if end > len(words) {
			end = len(words)
		}
		if end-i < 2 {
			break
		}
		phrases = append(phrases, strings.Join(words[i:end], " "))
	}
	return phrases
}

func contentWords(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.Trim(f, ".,;:!?\"'()")
		if f == "" || stopwords[f] {
			continue
		}
		out = append(out, f)
	}
	return out
}

// inferCustomerType reduces the customer description to a short phrase
// usable inside a query template.
func inferCustomerType(description string) string {
	words := contentWords(description)
	if len(words) == 0 {
		return ""
	}
	if len(words) > 2 {
		words = words[:2]
	}
	return strings.Join(words, " ")
}

func normalizePhrase(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
