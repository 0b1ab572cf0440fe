package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/searchlift-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedBusinessProfile(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID) *types.BusinessProfile {
	tb.Helper()
	p := &types.BusinessProfile{
		ID:                  uuid.New(),
		UserID:              userID,
		BusinessName:        "Acme Plumbing",
		WebsiteURL:          "https://acmeplumbing.example",
		Description:         "Emergency plumbing and drain cleaning",
		Offerings:           datatypes.JSON([]byte(`["drain cleaning","water heater repair"]`)),
		Differentiators:     datatypes.JSON([]byte(`["24/7 availability"]`)),
		LocationScope:       "local",
		Locations:           datatypes.JSON([]byte(`["united states"]`)),
		CustomerDescription: "homeowners with urgent plumbing problems",
		SearchIntents:       datatypes.JSON([]byte(`["action-focused"]`)),
		SeedKeywords:        datatypes.JSON([]byte(`["emergency plumber"]`)),
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed business profile: %v", err)
	}
	return p
}

func SeedUniverse(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID) *types.KeywordUniverse {
	tb.Helper()
	u := &types.KeywordUniverse{
		ID:     uuid.New(),
		UserID: userID,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed universe: %v", err)
	}
	return u
}

func SeedUniverseItem(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID, keyword string, score float64) *types.KeywordUniverseItem {
	tb.Helper()
	item := &types.KeywordUniverseItem{
		ID:          uuid.New(),
		UserID:      userID,
		Keyword:     keyword,
		Volume:      100,
		Difficulty:  string(types.DifficultyLow),
		Intent:      string(types.IntentTransactional),
		KeywordType: string(types.IntentTransactional),
		Source:      string(types.SourceGenerated),
		Score:       score,
	}
	if err := tx.WithContext(ctx).Create(item).Error; err != nil {
		tb.Fatalf("seed universe item: %v", err)
	}
	return item
}
