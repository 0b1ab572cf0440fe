package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/searchlift-backend/internal/data/repos"
	"github.com/yungbote/searchlift-backend/internal/pkg/logger"
)

type Repos struct {
	User            repos.UserRepo
	UserToken       repos.UserTokenRepo
	BusinessProfile repos.BusinessProfileRepo
	Universe        repos.UniverseRepo
	UniverseItem    repos.UniverseItemRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	return Repos{
		User:            repos.NewUserRepo(db, log),
		UserToken:       repos.NewUserTokenRepo(db, log),
		BusinessProfile: repos.NewBusinessProfileRepo(db, log),
		Universe:        repos.NewUniverseRepo(db, log),
		UniverseItem:    repos.NewUniverseItemRepo(db, log),
	}
}
