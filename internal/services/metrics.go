package services

import (
	"context"

	"github.com/yungbote/searchlift-backend/internal/clients/googleads"
	redisclient "github.com/yungbote/searchlift-backend/internal/clients/redis"
	types "github.com/yungbote/searchlift-backend/internal/domain"
	"github.com/yungbote/searchlift-backend/internal/pkg/logger"
)

// MetricsProvider resolves search metrics for an explicit keyword list.
type MetricsProvider interface {
	GetMetrics(ctx context.Context, kws []string, location string, language string) ([]types.CandidateKeyword, error)
}

// cachedMetrics fronts the paid metrics endpoint with a read-through
// cache. Metric values move slowly; a day-old answer is fine and a cache
// hit saves quota.
type cachedMetrics struct {
	log   *logger.Logger
	ads   googleads.Client
	cache redisclient.Cache
}

func NewCachedMetrics(baseLog *logger.Logger, ads googleads.Client, cache redisclient.Cache) MetricsProvider {
	return &cachedMetrics{
		log:   baseLog.With("service", "CachedMetrics"),
		ads:   ads,
		cache: cache,
	}
}

func (cm *cachedMetrics) GetMetrics(ctx context.Context, kws []string, location string, language string) ([]types.CandidateKeyword, error) {
	if len(kws) == 0 {
		return nil, nil
	}
	key := redisclient.MetricsKey(location, language, kws)

	if cm.cache != nil {
		var cached []types.CandidateKeyword
		hit, err := cm.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			cm.log.Warn("Metrics cache read failed", "error", err.Error())
		}
		if hit {
			return cached, nil
		}
	}

	metrics, err := cm.ads.GetMetrics(ctx, kws, location, language)
	if err != nil {
		return nil, err
	}

	if cm.cache != nil {
		if err := cm.cache.SetJSON(ctx, key, metrics); err != nil {
			cm.log.Warn("Metrics cache write failed", "error", err.Error())
		}
	}
	return metrics, nil
}
