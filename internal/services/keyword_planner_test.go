package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/searchlift-backend/internal/data/repos"
	"github.com/yungbote/searchlift-backend/internal/data/repos/testutil"
	types "github.com/yungbote/searchlift-backend/internal/domain"
	"github.com/yungbote/searchlift-backend/internal/pkg/backoff"
	errorsx "github.com/yungbote/searchlift-backend/internal/pkg/errors"
)

type stubSeedGen struct {
	seeds map[types.SeedCategory][]types.Seed
}

func (s stubSeedGen) Generate(*types.BusinessProfile, map[types.SeedCategory]string) map[types.SeedCategory][]types.Seed {
	return s.seeds
}

// constIdeas returns the same idea set on every call, like a provider
// answering the same seed twice.
type constIdeas struct {
	ideas []types.CandidateKeyword
}

func (c constIdeas) GenerateIdeas(context.Context, []string, string, string) ([]types.CandidateKeyword, error) {
	out := make([]types.CandidateKeyword, len(c.ideas))
	copy(out, c.ideas)
	return out, nil
}

func newTestPlanner(t *testing.T, tx *gorm.DB, ideaCount int) (KeywordPlanner, *keywordPlanner) {
	t.Helper()
	log := testutil.Logger(t)

	ideas := make([]types.CandidateKeyword, 0, ideaCount)
	for i := 0; i < ideaCount; i++ {
		ideas = append(ideas, types.CandidateKeyword{
			Text:   fmt.Sprintf("drain cleaning service %d", i),
			Source: types.SourceGenerated,
			Volume: int64(5000 - i*100),
		})
	}

	p := NewKeywordPlanner(
		log,
		tx,
		repos.NewBusinessProfileRepo(tx, log),
		repos.NewUniverseRepo(tx, log),
		repos.NewUniverseItemRepo(tx, log),
		stubSeedGen{seeds: map[types.SeedCategory][]types.Seed{
			types.CategoryTransactional: {{Category: types.CategoryTransactional, Text: "emergency plumber near me"}},
		}},
		NewSeedValidator(log, nil, ValidationBypass),
		constIdeas{ideas: ideas},
		NewIdeaValidator(log, nil, nil, ValidationBypass, backoff.NoDelay(1)),
		nil,
		nil,
		20,
		backoff.NoDelay(1),
	)
	return p, p.(*keywordPlanner)
}

func itemIDSet(view *UniverseView) map[uuid.UUID]bool {
	out := map[uuid.UUID]bool{}
	for _, item := range view.Items {
		out[item.ID] = true
	}
	return out
}

func TestPlannerInitializeBuildsUniverse(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "planner-init@test.dev")
	testutil.SeedBusinessProfile(t, ctx, tx, user.ID)

	planner, _ := newTestPlanner(t, tx, 25)
	view, err := planner.Initialize(ctx, user.ID)
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if view.IsLocked {
		t.Fatal("fresh universe must not be locked")
	}
	if len(view.Items) != 20 {
		t.Fatalf("expected 20 items, got %d", len(view.Items))
	}
	for i := 1; i < len(view.Items); i++ {
		if view.Items[i].Score > view.Items[i-1].Score {
			t.Fatalf("items not sorted by score at %d", i)
		}
	}

	got, err := planner.Get(ctx, user.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Items) != 20 {
		t.Fatalf("Get returned %d items, want 20", len(got.Items))
	}
}

func TestPlannerReinitializeReplacesAllItemIDs(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "planner-replace@test.dev")
	testutil.SeedBusinessProfile(t, ctx, tx, user.ID)

	planner, _ := newTestPlanner(t, tx, 25)
	first, err := planner.Initialize(ctx, user.ID)
	if err != nil {
		t.Fatalf("first Initialize: %v", err)
	}
	second, err := planner.Initialize(ctx, user.ID)
	if err != nil {
		t.Fatalf("second Initialize: %v", err)
	}

	firstIDs := itemIDSet(first)
	for id := range itemIDSet(second) {
		if firstIDs[id] {
			t.Fatalf("item id %s survived a regeneration", id)
		}
	}
}

func TestPlannerFinalizeSelection(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "planner-finalize@test.dev")
	testutil.SeedBusinessProfile(t, ctx, tx, user.ID)

	planner, inner := newTestPlanner(t, tx, 25)
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	inner.now = func() time.Time { return t0 }

	view, err := planner.Initialize(ctx, user.ID)
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	var nine []uuid.UUID
	for _, item := range view.Items[:9] {
		nine = append(nine, item.ID)
	}
	if _, err := planner.FinalizeSelection(ctx, user.ID, nine); !errors.Is(err, errorsx.ErrInvalidArgument) {
		t.Fatalf("9 ids: want ErrInvalidArgument, got %v", err)
	}

	var fifteen []uuid.UUID
	for _, item := range view.Items[:15] {
		fifteen = append(fifteen, item.ID)
	}
	locked, err := planner.FinalizeSelection(ctx, user.ID, fifteen)
	if err != nil {
		t.Fatalf("15 ids: %v", err)
	}
	if !locked.IsLocked {
		t.Fatal("universe must read locked after finalize")
	}
	want := t0.AddDate(0, 0, 90)
	if locked.LockedUntil == nil || !locked.LockedUntil.Equal(want) {
		t.Fatalf("locked_until = %v, want %v", locked.LockedUntil, want)
	}
	if locked.SelectionCount != 15 {
		t.Fatalf("selection_count = %d, want 15", locked.SelectionCount)
	}

	selected := map[uuid.UUID]bool{}
	for _, id := range fifteen {
		selected[id] = true
	}
	for _, item := range locked.Items {
		if item.IsSelected != selected[item.ID] {
			t.Fatalf("is_selected mismatch on %q", item.Keyword)
		}
	}
}

func TestPlannerFinalizeRejectsForeignIDs(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "planner-foreign@test.dev")
	testutil.SeedBusinessProfile(t, ctx, tx, user.ID)

	planner, _ := newTestPlanner(t, tx, 25)
	if _, err := planner.Initialize(ctx, user.ID); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	foreign := make([]uuid.UUID, 10)
	for i := range foreign {
		foreign[i] = uuid.New()
	}
	if _, err := planner.FinalizeSelection(ctx, user.ID, foreign); !errors.Is(err, errorsx.ErrInvalidArgument) {
		t.Fatalf("foreign ids: want ErrInvalidArgument, got %v", err)
	}
}

func TestPlannerInitializeIsNoOpWhileLocked(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "planner-noop@test.dev")
	testutil.SeedBusinessProfile(t, ctx, tx, user.ID)

	planner, _ := newTestPlanner(t, tx, 25)
	view, err := planner.Initialize(ctx, user.ID)
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	var ids []uuid.UUID
	for _, item := range view.Items[:10] {
		ids = append(ids, item.ID)
	}
	locked, err := planner.FinalizeSelection(ctx, user.ID, ids)
	if err != nil {
		t.Fatalf("FinalizeSelection: %v", err)
	}

	again, err := planner.Initialize(ctx, user.ID)
	if err != nil {
		t.Fatalf("Initialize while locked: %v", err)
	}
	if !again.IsLocked {
		t.Fatal("locked universe must stay locked through initialize")
	}
	lockedIDs := itemIDSet(locked)
	for id := range itemIDSet(again) {
		if !lockedIDs[id] {
			t.Fatal("initialize replaced items despite lock")
		}
	}
}

func TestPlannerLockExpiresAtReadTime(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()

	user := testutil.SeedUser(t, ctx, tx, "planner-expiry@test.dev")
	testutil.SeedBusinessProfile(t, ctx, tx, user.ID)

	planner, inner := newTestPlanner(t, tx, 25)
	t0 := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	inner.now = func() time.Time { return t0 }

	view, err := planner.Initialize(ctx, user.ID)
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	var ids []uuid.UUID
	for _, item := range view.Items[:12] {
		ids = append(ids, item.ID)
	}
	if _, err := planner.FinalizeSelection(ctx, user.ID, ids); err != nil {
		t.Fatalf("FinalizeSelection: %v", err)
	}

	inner.now = func() time.Time { return t0.AddDate(0, 0, 91) }

	got, err := planner.Get(ctx, user.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.IsLocked {
		t.Fatal("expired lock must read as unlocked")
	}

	// The stored flag itself is never rewritten by expiry.
	var stored types.KeywordUniverse
	if err := tx.WithContext(ctx).Where("user_id = ?", user.ID).First(&stored).Error; err != nil {
		t.Fatalf("read universe row: %v", err)
	}
	if !stored.IsLocked {
		t.Fatal("expiry must not clear the stored is_locked flag")
	}

	// And the universe is buildable again.
	if _, err := planner.Initialize(ctx, user.ID); err != nil {
		t.Fatalf("Initialize after expiry: %v", err)
	}
}
