package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/searchlift-backend/internal/data/repos/account"
	"github.com/yungbote/searchlift-backend/internal/data/repos/keywords"
	"github.com/yungbote/searchlift-backend/internal/pkg/logger"
)

type UserRepo = account.UserRepo
type UserTokenRepo = account.UserTokenRepo
type BusinessProfileRepo = account.BusinessProfileRepo

type UniverseRepo = keywords.UniverseRepo
type UniverseItemRepo = keywords.UniverseItemRepo

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return account.NewUserRepo(db, baseLog)
}
func NewUserTokenRepo(db *gorm.DB, baseLog *logger.Logger) UserTokenRepo {
	return account.NewUserTokenRepo(db, baseLog)
}
func NewBusinessProfileRepo(db *gorm.DB, baseLog *logger.Logger) BusinessProfileRepo {
	return account.NewBusinessProfileRepo(db, baseLog)
}

func NewUniverseRepo(db *gorm.DB, baseLog *logger.Logger) UniverseRepo {
	return keywords.NewUniverseRepo(db, baseLog)
}
func NewUniverseItemRepo(db *gorm.DB, baseLog *logger.Logger) UniverseItemRepo {
	return keywords.NewUniverseItemRepo(db, baseLog)
}
