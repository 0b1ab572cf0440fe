package services

import (
	"strings"
	"testing"

	"gorm.io/datatypes"

	types "github.com/yungbote/searchlift-backend/internal/domain"
)

func plumbingProfile() *types.BusinessProfile {
	return &types.BusinessProfile{
		BusinessName:        "Acme Plumbing",
		Description:         "Emergency plumbing and drain cleaning for homes",
		Offerings:           datatypes.JSON([]byte(`["drain cleaning","water heater repair"]`)),
		Differentiators:     datatypes.JSON([]byte(`["24/7 availability"]`)),
		Locations:           datatypes.JSON([]byte(`["Austin"]`)),
		CustomerDescription: "homeowners with urgent plumbing problems",
	}
}

func TestGenerateCoversAllCategoriesWithoutIntents(t *testing.T) {
	sg := NewSeedGenerator(testLogger(t))
	got := sg.Generate(plumbingProfile(), nil)

	for _, category := range allCategories() {
		if len(got[category]) == 0 {
			t.Errorf("category %s produced no seeds", category)
		}
	}
}

func TestGenerateHasNoDuplicatesWithinCategory(t *testing.T) {
	sg := NewSeedGenerator(testLogger(t))
	got := sg.Generate(plumbingProfile(), nil)

	for category, seeds := range got {
		seen := map[string]bool{}
		for _, s := range seeds {
			if seen[s.Text] {
				t.Errorf("category %s repeats seed %q", category, s.Text)
			}
			seen[s.Text] = true
			if s.Category != category {
				t.Errorf("seed %q carries category %s, filed under %s", s.Text, s.Category, category)
			}
		}
	}
}

func TestGenerateNarrowsCategoriesByIntent(t *testing.T) {
	profile := plumbingProfile()
	profile.SearchIntents = datatypes.JSON([]byte(`["action-focused"]`))

	sg := NewSeedGenerator(testLogger(t))
	got := sg.Generate(profile, nil)

	if len(got[types.CategoryInformational]) != 0 {
		t.Error("action-focused profile still produced informational seeds")
	}
	if len(got[types.CategoryTransactional]) == 0 {
		t.Error("action-focused profile produced no transactional seeds")
	}
	// Long-tail and branded survive any intent narrowing.
	if len(got[types.CategoryLongTail]) == 0 {
		t.Error("long-tail seeds dropped by intent narrowing")
	}
	if len(got[types.CategoryBranded]) == 0 {
		t.Error("branded seeds dropped by intent narrowing")
	}
}

func TestGenerateFallsBackToDescriptionPhrases(t *testing.T) {
	profile := plumbingProfile()
	profile.Offerings = nil

	sg := NewSeedGenerator(testLogger(t))
	got := sg.Generate(profile, nil)

	if len(got[types.CategoryTransactional]) == 0 {
		t.Fatal("no transactional seeds from description fallback")
	}
	for _, s := range got[types.CategoryTransactional] {
		if s.Text != strings.ToLower(s.Text) {
			t.Fatalf("seed %q not normalized to lowercase", s.Text)
		}
	}
}

func TestGenerateNilProfileIsEmpty(t *testing.T) {
	sg := NewSeedGenerator(testLogger(t))
	if got := sg.Generate(nil, nil); len(got) != 0 {
		t.Fatalf("nil profile produced %d categories", len(got))
	}
}
