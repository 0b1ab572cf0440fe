package app

import (
	"time"

	"github.com/yungbote/searchlift-backend/internal/pkg/envutil"
	"github.com/yungbote/searchlift-backend/internal/services"
)

type Config struct {
	Port            string
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	// llm or bypass; bypass is the default operating policy for both
	// gates.
	SeedValidationMode services.ValidationMode
	IdeaValidationMode services.ValidationMode

	UniverseTargetCount int
}

func LoadConfig() Config {
	return Config{
		Port:            envutil.Str("PORT", "8080"),
		JWTSecretKey:    envutil.Str("JWT_SECRET_KEY", "defaultsecret"),
		AccessTokenTTL:  time.Duration(envutil.Int("ACCESS_TOKEN_TTL", 3600)) * time.Second,
		RefreshTokenTTL: time.Duration(envutil.Int("REFRESH_TOKEN_TTL", 86400)) * time.Second,

		SeedValidationMode: services.ParseValidationMode(envutil.Str("SEED_VALIDATION_MODE", "bypass")),
		IdeaValidationMode: services.ParseValidationMode(envutil.Str("IDEA_VALIDATION_MODE", "bypass")),

		UniverseTargetCount: envutil.Int("UNIVERSE_TARGET_COUNT", 20),
	}
}
