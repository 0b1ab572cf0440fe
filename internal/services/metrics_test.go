package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	redisclient "github.com/yungbote/searchlift-backend/internal/clients/redis"
	types "github.com/yungbote/searchlift-backend/internal/domain"
)

type fakeAds struct {
	metricsCalls int
	metrics      []types.CandidateKeyword
	err          error
}

func (f *fakeAds) GenerateIdeas(ctx context.Context, seeds []string, location string, language string) ([]types.CandidateKeyword, error) {
	return nil, nil
}

func (f *fakeAds) GetMetrics(ctx context.Context, kws []string, location string, language string) ([]types.CandidateKeyword, error) {
	f.metricsCalls++
	return f.metrics, f.err
}

type fakeCache struct {
	store    map[string][]byte
	getErr   error
	getCalls int
	setCalls int
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: map[string][]byte{}}
}

func (f *fakeCache) GetJSON(ctx context.Context, key string, out any) (bool, error) {
	f.getCalls++
	if f.getErr != nil {
		return false, f.getErr
	}
	raw, ok := f.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, out)
}

func (f *fakeCache) SetJSON(ctx context.Context, key string, val any) error {
	f.setCalls++
	raw, err := json.Marshal(val)
	if err != nil {
		return err
	}
	f.store[key] = raw
	return nil
}

func (f *fakeCache) Close() error { return nil }

func TestCachedMetricsMissFallsThroughAndStores(t *testing.T) {
	log := testLogger(t)
	ads := &fakeAds{metrics: []types.CandidateKeyword{{Text: "drain cleaning", Volume: 320}}}
	cache := newFakeCache()
	cm := NewCachedMetrics(log, ads, cache)

	kws := []string{"drain cleaning"}
	got, err := cm.GetMetrics(context.Background(), kws, "Austin, TX", "en")
	if err != nil {
		t.Fatalf("GetMetrics: %v", err)
	}
	if len(got) != 1 || got[0].Text != "drain cleaning" {
		t.Fatalf("unexpected metrics: %+v", got)
	}
	if ads.metricsCalls != 1 {
		t.Fatalf("provider calls = %d, want 1", ads.metricsCalls)
	}
	if cache.setCalls != 1 {
		t.Fatalf("cache writes = %d, want 1", cache.setCalls)
	}
	key := redisclient.MetricsKey("Austin, TX", "en", kws)
	if _, ok := cache.store[key]; !ok {
		t.Fatalf("result not stored under derived key")
	}

	// Second lookup is served from the cache.
	got, err = cm.GetMetrics(context.Background(), kws, "Austin, TX", "en")
	if err != nil {
		t.Fatalf("GetMetrics (cached): %v", err)
	}
	if len(got) != 1 || got[0].Volume != 320 {
		t.Fatalf("unexpected cached metrics: %+v", got)
	}
	if ads.metricsCalls != 1 {
		t.Fatalf("provider calls after hit = %d, want 1", ads.metricsCalls)
	}
}

func TestCachedMetricsCacheErrorIsSoft(t *testing.T) {
	log := testLogger(t)
	ads := &fakeAds{metrics: []types.CandidateKeyword{{Text: "water heater repair", Volume: 880}}}
	cache := newFakeCache()
	cache.getErr = errors.New("redis: connection refused")
	cm := NewCachedMetrics(log, ads, cache)

	got, err := cm.GetMetrics(context.Background(), []string{"water heater repair"}, "Austin, TX", "en")
	if err != nil {
		t.Fatalf("GetMetrics: %v", err)
	}
	if len(got) != 1 || ads.metricsCalls != 1 {
		t.Fatalf("expected provider fallback, got %+v (calls=%d)", got, ads.metricsCalls)
	}
}

func TestCachedMetricsNilCachePassesThrough(t *testing.T) {
	log := testLogger(t)
	ads := &fakeAds{metrics: []types.CandidateKeyword{{Text: "sewer line inspection"}}}
	cm := NewCachedMetrics(log, ads, nil)

	got, err := cm.GetMetrics(context.Background(), []string{"sewer line inspection"}, "", "en")
	if err != nil {
		t.Fatalf("GetMetrics: %v", err)
	}
	if len(got) != 1 || ads.metricsCalls != 1 {
		t.Fatalf("expected direct provider call, got %+v (calls=%d)", got, ads.metricsCalls)
	}
}

func TestCachedMetricsEmptyInput(t *testing.T) {
	log := testLogger(t)
	ads := &fakeAds{}
	cm := NewCachedMetrics(log, ads, newFakeCache())

	got, err := cm.GetMetrics(context.Background(), nil, "Austin, TX", "en")
	if err != nil {
		t.Fatalf("GetMetrics: %v", err)
	}
	if got != nil || ads.metricsCalls != 0 {
		t.Fatalf("expected no-op for empty list, got %+v (calls=%d)", got, ads.metricsCalls)
	}
}
