package keywords

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/searchlift-backend/internal/domain"
	"github.com/yungbote/searchlift-backend/internal/pkg/logger"
)

type UniverseItemRepo interface {
	ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.KeywordUniverseItem, error)

	// ReplaceForUser deletes every item the user has and inserts the new
	// set. Replace, not diff: item ids never survive a regeneration.
	ReplaceForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, items []*types.KeywordUniverseItem) ([]*types.KeywordUniverseItem, error)

	// SetSelection clears all is_selected flags for the user and sets them
	// for exactly the given ids. Returns how many rows matched the id set.
	SetSelection(ctx context.Context, tx *gorm.DB, userID uuid.UUID, itemIDs []uuid.UUID) (int64, error)
}

type universeItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUniverseItemRepo(db *gorm.DB, baseLog *logger.Logger) UniverseItemRepo {
	repoLog := baseLog.With("repo", "UniverseItemRepo")
	return &universeItemRepo{db: db, log: repoLog}
}

func (ir *universeItemRepo) ListByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.KeywordUniverseItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}

	var results []*types.KeywordUniverseItem
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("score DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ir *universeItemRepo) ReplaceForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, items []*types.KeywordUniverseItem) ([]*types.KeywordUniverseItem, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}

	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&types.KeywordUniverseItem{}).Error; err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return []*types.KeywordUniverseItem{}, nil
	}

	for _, item := range items {
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.UserID = userID
	}

	if err := transaction.WithContext(ctx).Create(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (ir *universeItemRepo) SetSelection(ctx context.Context, tx *gorm.DB, userID uuid.UUID, itemIDs []uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}

	if err := transaction.WithContext(ctx).
		Model(&types.KeywordUniverseItem{}).
		Where("user_id = ?", userID).
		Update("is_selected", false).Error; err != nil {
		return 0, err
	}

	if len(itemIDs) == 0 {
		return 0, nil
	}

	res := transaction.WithContext(ctx).
		Model(&types.KeywordUniverseItem{}).
		Where("user_id = ? AND id IN ?", userID, itemIDs).
		Update("is_selected", true)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
