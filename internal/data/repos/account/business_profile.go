package account

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/searchlift-backend/internal/domain"
	"github.com/yungbote/searchlift-backend/internal/pkg/logger"
)

type BusinessProfileRepo interface {
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.BusinessProfile, error)
	Upsert(ctx context.Context, tx *gorm.DB, profile *types.BusinessProfile) (*types.BusinessProfile, error)
}

type businessProfileRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBusinessProfileRepo(db *gorm.DB, baseLog *logger.Logger) BusinessProfileRepo {
	repoLog := baseLog.With("repo", "BusinessProfileRepo")
	return &businessProfileRepo{db: db, log: repoLog}
}

func (pr *businessProfileRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.BusinessProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	var result types.BusinessProfile
	err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (pr *businessProfileRepo) Upsert(ctx context.Context, tx *gorm.DB, profile *types.BusinessProfile) (*types.BusinessProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}

	if profile == nil {
		return nil, nil
	}
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}

	err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"business_name", "website_url", "description", "offerings",
				"differentiators", "location_scope", "locations",
				"customer_description", "search_intents", "seed_keywords",
				"updated_at",
			}),
		}).
		Create(profile).Error
	if err != nil {
		return nil, err
	}
	return profile, nil
}
