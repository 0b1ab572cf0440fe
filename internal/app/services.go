package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/searchlift-backend/internal/pkg/backoff"
	"github.com/yungbote/searchlift-backend/internal/pkg/logger"
	"github.com/yungbote/searchlift-backend/internal/services"
)

type Services struct {
	Auth    services.AuthService
	Profile services.ProfileService
	Planner services.KeywordPlanner
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, clients Clients, reposet Repos) Services {
	log.Info("Wiring services...")

	auth := services.NewAuthService(
		db, log,
		reposet.User, reposet.UserToken,
		cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL,
	)
	profile := services.NewProfileService(db, log, reposet.BusinessProfile)

	policy := backoff.Default()
	seedGen := services.NewSeedGenerator(log)
	seedGate := services.NewSeedValidator(log, clients.OpenAI, cfg.SeedValidationMode)
	ideaGate := services.NewIdeaValidator(log, clients.OpenAI, clients.GoogleAds, cfg.IdeaValidationMode, policy)

	var metrics services.MetricsProvider
	if clients.GoogleAds != nil {
		metrics = services.NewCachedMetrics(log, clients.GoogleAds, clients.Cache)
	}
	var miner services.OpportunityMiner
	if clients.SearchConsole != nil {
		miner = services.NewOpportunityMiner(log, clients.SearchConsole)
	}

	planner := services.NewKeywordPlanner(
		log, db,
		reposet.BusinessProfile, reposet.Universe, reposet.UniverseItem,
		seedGen, seedGate,
		clients.GoogleAds, ideaGate,
		metrics, miner,
		cfg.UniverseTargetCount,
		policy,
	)

	return Services{
		Auth:    auth,
		Profile: profile,
		Planner: planner,
	}
}
