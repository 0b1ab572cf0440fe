package app

import (
	"github.com/yungbote/searchlift-backend/internal/http/handlers"
)

type Handlers struct {
	Auth     *handlers.AuthHandler
	Profile  *handlers.ProfileHandler
	Keywords *handlers.KeywordsHandler
}

func wireHandlers(serviceset Services) Handlers {
	return Handlers{
		Auth:     handlers.NewAuthHandler(serviceset.Auth),
		Profile:  handlers.NewProfileHandler(serviceset.Profile),
		Keywords: handlers.NewKeywordsHandler(serviceset.Planner),
	}
}
