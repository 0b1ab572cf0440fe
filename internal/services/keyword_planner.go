package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/searchlift-backend/internal/data/repos"
	types "github.com/yungbote/searchlift-backend/internal/domain"
	"github.com/yungbote/searchlift-backend/internal/pkg/backoff"
	errorsx "github.com/yungbote/searchlift-backend/internal/pkg/errors"
	"github.com/yungbote/searchlift-backend/internal/pkg/logger"
)

const (
	defaultTargetCount = 20
	minSelectionSize   = 10
	maxSelectionSize   = 15
	lockCycleDays      = 90

	// Flat delay between idea-API calls, one per seed.
	interSeedDelay = 500 * time.Millisecond
)

// UniverseView is the read model returned by every planner operation.
// IsLocked already folds in lock expiry.
type UniverseView struct {
	IsLocked       bool                         `json:"is_locked"`
	LockedUntil    *time.Time                   `json:"locked_until,omitempty"`
	SelectionCount int                          `json:"selection_count"`
	Diagnostics    string                       `json:"diagnostics,omitempty"`
	Items          []*types.KeywordUniverseItem `json:"items"`
}

// KeywordPlanner owns the per-user universe lifecycle: build it, read it,
// lock a final selection into it.
type KeywordPlanner interface {
	// Initialize runs the full pipeline and replaces the user's items.
	// A no-op while the universe is locked.
	Initialize(ctx context.Context, userID uuid.UUID) (*UniverseView, error)

	Get(ctx context.Context, userID uuid.UUID) (*UniverseView, error)

	// FinalizeSelection marks the chosen items selected and locks the
	// universe for the 90-day cycle. Accepts 10 to 15 ids.
	FinalizeSelection(ctx context.Context, userID uuid.UUID, itemIDs []uuid.UUID) (*UniverseView, error)
}

type keywordPlanner struct {
	log       *logger.Logger
	db        *gorm.DB
	profiles  repos.BusinessProfileRepo
	universes repos.UniverseRepo
	items     repos.UniverseItemRepo

	seedGen  SeedGenerator
	seedGate SeedValidator
	ideaAPI  IdeaSource
	ideaGate IdeaValidator
	metrics  MetricsProvider
	miner    OpportunityMiner

	targetCount int
	backoff     backoff.Policy
	now         func() time.Time
}

// NewKeywordPlanner wires the pipeline. miner and metrics may be nil when
// the corresponding provider is not configured; those phases degrade to
// empty pools with a diagnostic instead of failing the run.
func NewKeywordPlanner(
	baseLog *logger.Logger,
	db *gorm.DB,
	profiles repos.BusinessProfileRepo,
	universes repos.UniverseRepo,
	items repos.UniverseItemRepo,
	seedGen SeedGenerator,
	seedGate SeedValidator,
	ideaAPI IdeaSource,
	ideaGate IdeaValidator,
	metrics MetricsProvider,
	miner OpportunityMiner,
	targetCount int,
	policy backoff.Policy,
) KeywordPlanner {
	if targetCount <= 0 {
		targetCount = defaultTargetCount
	}
	return &keywordPlanner{
		log:         baseLog.With("service", "KeywordPlanner"),
		db:          db,
		profiles:    profiles,
		universes:   universes,
		items:       items,
		seedGen:     seedGen,
		seedGate:    seedGate,
		ideaAPI:     ideaAPI,
		ideaGate:    ideaGate,
		metrics:     metrics,
		miner:       miner,
		targetCount: targetCount,
		backoff:     policy,
		now:         time.Now,
	}
}

func (kp *keywordPlanner) Initialize(ctx context.Context, userID uuid.UUID) (*UniverseView, error) {
	existing, err := kp.universes.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	if existing.EffectivelyLocked(kp.now()) {
		kp.log.Info("Universe locked, initialize is a no-op", "user_id", userID)
		return kp.Get(ctx, userID)
	}

	profile, err := kp.profiles.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("business profile for user %s: %w", userID, errorsx.ErrNotFound)
	}

	location := profile.PrimaryLocation()
	language := "en"
	var diags []string

	seedMap := kp.seedGen.Generate(profile, nil)
	seedMap = kp.seedGate.Validate(ctx, seedMap, func(category types.SeedCategory, feedback string) []types.Seed {
		regen := kp.seedGen.Generate(profile, map[types.SeedCategory]string{category: feedback})
		return regen[category]
	})

	ideaPool := kp.buildIdeaPool(ctx, seedMap, location, language, &diags)
	opportunityPool := kp.buildOpportunityPool(ctx, profile, &diags)
	profilePool := kp.buildProfilePool(ctx, profile, location, language, &diags)

	merged := MergeKeywords(opportunityPool, ideaPool, profilePool, profile.SearchIntentsList(), kp.targetCount)

	items := make([]*types.KeywordUniverseItem, 0, len(merged))
	for _, k := range merged {
		items = append(items, &types.KeywordUniverseItem{
			UserID:      userID,
			Keyword:     k.Text,
			Volume:      k.Volume,
			Difficulty:  string(k.Difficulty),
			Intent:      string(k.Intent),
			KeywordType: k.KeywordType,
			Source:      string(k.Source),
			Score:       k.Score,
		})
	}

	diagnostic := strings.Join(diags, "; ")
	err = kp.db.Transaction(func(tx *gorm.DB) error {
		universe, txErr := kp.universes.GetByUserIDForUpdate(ctx, tx, userID)
		if txErr != nil {
			return txErr
		}
		// Re-check under the row lock: a concurrent finalize may have
		// landed between the read above and here.
		if universe.EffectivelyLocked(kp.now()) {
			return errorsx.ErrUniverseLocked
		}
		if _, txErr = kp.items.ReplaceForUser(ctx, tx, userID, items); txErr != nil {
			return txErr
		}
		universe.IsLocked = false
		universe.LockedUntil = nil
		universe.SelectionCount = 0
		universe.DiagnosticMessage = diagnostic
		return kp.universes.Update(ctx, tx, universe)
	})
	if err != nil {
		return nil, err
	}

	kp.log.Info("Universe initialized",
		"user_id", userID,
		"items", len(items),
		"opportunity", len(opportunityPool),
		"ideas", len(ideaPool),
		"profile", len(profilePool),
	)
	return kp.Get(ctx, userID)
}

func (kp *keywordPlanner) Get(ctx context.Context, userID uuid.UUID) (*UniverseView, error) {
	universe, err := kp.universes.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	if universe == nil {
		return nil, fmt.Errorf("universe for user %s: %w", userID, errorsx.ErrNotFound)
	}
	items, err := kp.items.ListByUserID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	return &UniverseView{
		IsLocked:       universe.EffectivelyLocked(kp.now()),
		LockedUntil:    universe.LockedUntil,
		SelectionCount: universe.SelectionCount,
		Diagnostics:    universe.DiagnosticMessage,
		Items:          items,
	}, nil
}

func (kp *keywordPlanner) FinalizeSelection(ctx context.Context, userID uuid.UUID, itemIDs []uuid.UUID) (*UniverseView, error) {
	if len(itemIDs) < minSelectionSize || len(itemIDs) > maxSelectionSize {
		return nil, fmt.Errorf("selection size %d outside [%d,%d]: %w",
			len(itemIDs), minSelectionSize, maxSelectionSize, errorsx.ErrInvalidArgument)
	}

	err := kp.db.Transaction(func(tx *gorm.DB) error {
		universe, txErr := kp.universes.GetByUserIDForUpdate(ctx, tx, userID)
		if txErr != nil {
			return txErr
		}
		if universe.EffectivelyLocked(kp.now()) {
			return errorsx.ErrUniverseLocked
		}

		matched, txErr := kp.items.SetSelection(ctx, tx, userID, itemIDs)
		if txErr != nil {
			return txErr
		}
		if matched != int64(len(itemIDs)) {
			return fmt.Errorf("%d of %d selected ids not in universe: %w",
				int64(len(itemIDs))-matched, len(itemIDs), errorsx.ErrInvalidArgument)
		}

		until := kp.now().AddDate(0, 0, lockCycleDays)
		universe.IsLocked = true
		universe.LockedUntil = &until
		universe.SelectionCount = len(itemIDs)
		return kp.universes.Update(ctx, tx, universe)
	})
	if err != nil {
		return nil, err
	}

	kp.log.Info("Selection finalized", "user_id", userID, "count", len(itemIDs))
	return kp.Get(ctx, userID)
}

// buildIdeaPool expands each validated seed through the ideas API and
// gates the results. A provider failure ends the phase with whatever was
// collected so far.
func (kp *keywordPlanner) buildIdeaPool(ctx context.Context, seedMap map[types.SeedCategory][]types.Seed, location, language string, diags *[]string) []types.CandidateKeyword {
	if kp.ideaAPI == nil {
		*diags = append(*diags, "keyword ideas skipped: provider not configured")
		return nil
	}

	var pool []types.CandidateKeyword
	first := true
	for _, category := range types.AllCategories() {
		for _, seed := range seedMap[category] {
			if !first {
				if err := kp.backoff.Pause(ctx, interSeedDelay); err != nil {
					return pool
				}
			}
			first = false

			ideas, err := kp.ideaAPI.GenerateIdeas(ctx, []string{seed.Text}, location, language)
			if err != nil {
				kp.log.Warn("Idea generation failed, ending phase",
					"seed", seed.Text, "error", err.Error())
				*diags = append(*diags, "keyword ideas unavailable, results may be limited")
				return pool
			}
			if kp.ideaGate != nil {
				ideas = kp.ideaGate.Validate(ctx, seed, ideas, location, language)
			}
			pool = append(pool, ideas...)
		}
	}
	return pool
}

func (kp *keywordPlanner) buildOpportunityPool(ctx context.Context, profile *types.BusinessProfile, diags *[]string) []types.CandidateKeyword {
	if kp.miner == nil || strings.TrimSpace(profile.WebsiteURL) == "" {
		*diags = append(*diags, "ranking data skipped: no connected site")
		return nil
	}
	pool, err := kp.miner.Mine(ctx, profile.WebsiteURL)
	if err != nil {
		kp.log.Warn("Opportunity mining failed, continuing without it",
			"site", profile.WebsiteURL, "error", err.Error())
		*diags = append(*diags, "ranking data unavailable, results may be limited")
		return nil
	}
	return pool
}

// buildProfilePool validates the user's declared keywords against the
// metrics endpoint. Declared keywords the provider does not recognize are
// dropped; if the provider is down every declared keyword passes raw.
func (kp *keywordPlanner) buildProfilePool(ctx context.Context, profile *types.BusinessProfile, location, language string, diags *[]string) []types.CandidateKeyword {
	declared := profile.SeedKeywordsList()
	if len(declared) == 0 {
		return nil
	}

	raw := make([]types.CandidateKeyword, 0, len(declared))
	for _, kw := range declared {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		raw = append(raw, types.CandidateKeyword{Text: kw, Source: types.SourceCustom})
	}

	if kp.metrics == nil {
		return raw
	}
	metrics, err := kp.metrics.GetMetrics(ctx, declared, location, language)
	if err != nil {
		kp.log.Warn("Declared keyword metrics failed, keeping raw list", "error", err.Error())
		*diags = append(*diags, "declared keyword metrics unavailable")
		return raw
	}

	byText := make(map[string]types.CandidateKeyword, len(metrics))
	for _, m := range metrics {
		byText[strings.ToLower(strings.TrimSpace(m.Text))] = m
	}

	out := make([]types.CandidateKeyword, 0, len(raw))
	for _, c := range raw {
		m, ok := byText[strings.ToLower(c.Text)]
		if !ok {
			continue
		}
		c.Volume = m.Volume
		c.CompetitionIndex = m.CompetitionIndex
		c.Competition = m.Competition
		c.LowBidMicros = m.LowBidMicros
		c.HighBidMicros = m.HighBidMicros
		c.MeetsPrimaryThreshold = m.MeetsPrimaryThreshold
		out = append(out, c)
	}
	return out
}
