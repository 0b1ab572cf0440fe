package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/searchlift-backend/internal/data/repos"
	types "github.com/yungbote/searchlift-backend/internal/domain"
	errorsx "github.com/yungbote/searchlift-backend/internal/pkg/errors"
	"github.com/yungbote/searchlift-backend/internal/pkg/logger"
)

// ProfileService manages the structured onboarding profile the planner
// reads from.
type ProfileService interface {
	Get(ctx context.Context, userID uuid.UUID) (*types.BusinessProfile, error)
	Upsert(ctx context.Context, userID uuid.UUID, profile *types.BusinessProfile) (*types.BusinessProfile, error)
}

type profileService struct {
	db          *gorm.DB
	log         *logger.Logger
	profileRepo repos.BusinessProfileRepo
}

func NewProfileService(db *gorm.DB, baseLog *logger.Logger, profileRepo repos.BusinessProfileRepo) ProfileService {
	return &profileService{
		db:          db,
		log:         baseLog.With("service", "ProfileService"),
		profileRepo: profileRepo,
	}
}

func (ps *profileService) Get(ctx context.Context, userID uuid.UUID) (*types.BusinessProfile, error) {
	profile, err := ps.profileRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("business profile for user %s: %w", userID, errorsx.ErrNotFound)
	}
	return profile, nil
}

func (ps *profileService) Upsert(ctx context.Context, userID uuid.UUID, profile *types.BusinessProfile) (*types.BusinessProfile, error) {
	if profile == nil {
		return nil, fmt.Errorf("profile payload required: %w", errorsx.ErrInvalidArgument)
	}
	profile.BusinessName = strings.TrimSpace(profile.BusinessName)
	if profile.BusinessName == "" {
		return nil, fmt.Errorf("business name required: %w", errorsx.ErrInvalidArgument)
	}
	profile.UserID = userID
	profile.WebsiteURL = strings.TrimSpace(profile.WebsiteURL)

	var saved *types.BusinessProfile
	err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txErr error
		saved, txErr = ps.profileRepo.Upsert(ctx, tx, profile)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}
