package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/yungbote/searchlift-backend/internal/clients/googleads"
	"github.com/yungbote/searchlift-backend/internal/clients/openai"
	redisclient "github.com/yungbote/searchlift-backend/internal/clients/redis"
	"github.com/yungbote/searchlift-backend/internal/clients/searchconsole"
	"github.com/yungbote/searchlift-backend/internal/pkg/logger"
)

type Clients struct {
	OpenAI        openai.Client
	GoogleAds     googleads.Client
	SearchConsole searchconsole.Client
	Cache         redisclient.Cache
}

// wireClients builds the external providers. Optional ones (ads, search
// console, cache, and the model when both gates bypass) wire as nil and
// the dependent pipeline phases degrade.
func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var out Clients

	if strings.TrimSpace(os.Getenv("OPENAI_API_KEY")) != "" {
		oc, err := openai.NewClient(log)
		if err != nil {
			return Clients{}, fmt.Errorf("init openai client: %w", err)
		}
		out.OpenAI = oc
	} else if cfg.SeedValidationMode == "llm" || cfg.IdeaValidationMode == "llm" {
		return Clients{}, fmt.Errorf("llm validation mode requires OPENAI_API_KEY")
	}

	if strings.TrimSpace(os.Getenv("GOOGLEADS_DEVELOPER_TOKEN")) != "" {
		ga, err := googleads.NewClient(log)
		if err != nil {
			return Clients{}, fmt.Errorf("init google ads client: %w", err)
		}
		out.GoogleAds = ga
	} else {
		log.Warn("Google Ads credentials absent, idea generation disabled")
	}

	if strings.TrimSpace(os.Getenv("GSC_CLIENT_ID")) != "" ||
		strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")) != "" ||
		strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON")) != "" {
		sc, err := searchconsole.NewClient(log)
		if err != nil {
			return Clients{}, fmt.Errorf("init search console client: %w", err)
		}
		out.SearchConsole = sc
	} else {
		log.Warn("Search Console credentials absent, opportunity mining disabled")
	}

	if strings.TrimSpace(os.Getenv("REDIS_ADDR")) != "" {
		cache, err := redisclient.NewCache(log)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis cache: %w", err)
		}
		out.Cache = cache
	}

	return out, nil
}
