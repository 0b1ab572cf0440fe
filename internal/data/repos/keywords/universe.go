package keywords

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/searchlift-backend/internal/domain"
	"github.com/yungbote/searchlift-backend/internal/pkg/logger"
)

type UniverseRepo interface {
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.KeywordUniverse, error)

	// GetByUserIDForUpdate takes a row lock on the user's universe inside
	// tx, creating the row first if it does not exist. Serializes the
	// delete-then-insert replace step across concurrent runs.
	GetByUserIDForUpdate(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.KeywordUniverse, error)

	Update(ctx context.Context, tx *gorm.DB, universe *types.KeywordUniverse) error
}

type universeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUniverseRepo(db *gorm.DB, baseLog *logger.Logger) UniverseRepo {
	repoLog := baseLog.With("repo", "UniverseRepo")
	return &universeRepo{db: db, log: repoLog}
}

func (ur *universeRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.KeywordUniverse, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	var result types.KeywordUniverse
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

func (ur *universeRepo) GetByUserIDForUpdate(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.KeywordUniverse, error) {
	if tx == nil {
		return nil, errors.New("row lock requires an open transaction")
	}

	var result types.KeywordUniverse
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		created := &types.KeywordUniverse{ID: uuid.New(), UserID: userID}
		if cErr := tx.WithContext(ctx).Create(created).Error; cErr != nil {
			return nil, cErr
		}
		// Re-read under the lock so two concurrent creators serialize.
		err = tx.WithContext(ctx).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			First(&result).Error
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (ur *universeRepo) Update(ctx context.Context, tx *gorm.DB, universe *types.KeywordUniverse) error {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	if universe == nil {
		return nil
	}

	return transaction.WithContext(ctx).
		Model(&types.KeywordUniverse{}).
		Where("id = ?", universe.ID).
		Updates(map[string]any{
			"is_locked":          universe.IsLocked,
			"locked_until":       universe.LockedUntil,
			"selection_count":    universe.SelectionCount,
			"diagnostic_message": universe.DiagnosticMessage,
		}).Error
}
