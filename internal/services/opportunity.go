package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/yungbote/searchlift-backend/internal/clients/searchconsole"
	types "github.com/yungbote/searchlift-backend/internal/domain"
	"github.com/yungbote/searchlift-backend/internal/pkg/logger"
)

const (
	miningWindowDays = 30
	miningRowLimit   = 500
	minNearMissPos   = 11.0
	maxNearMissPos   = 50.0
	defaultTopN      = 50

	// Search analytics data lags a couple of days behind real time.
	analyticsLagDays = 2
)

// OpportunityMiner finds queries where the site already ranks just off
// page 1 (position 11-50): the cheapest keywords to move.
type OpportunityMiner interface {
	Mine(ctx context.Context, siteURL string) ([]types.CandidateKeyword, error)

	// AlreadyRanking returns the current position for each keyword the
	// site already ranks for, keyed by lowercased keyword text.
	AlreadyRanking(ctx context.Context, siteURL string, kws []string) (map[string]float64, error)
}

type opportunityMiner struct {
	log  *logger.Logger
	gsc  searchconsole.Client
	topN int
}

func NewOpportunityMiner(baseLog *logger.Logger, gsc searchconsole.Client) OpportunityMiner {
	return &opportunityMiner{
		log:  baseLog.With("service", "OpportunityMiner"),
		gsc:  gsc,
		topN: defaultTopN,
	}
}

// OpportunityScore weighs proximity to page 1, impression volume, and
// proven clicks. Max 100.
func OpportunityScore(position float64, clicks float64, impressions float64) float64 {
	return clampf(0, 40, (maxNearMissPos-position)/40.0*40.0) +
		clampf(0, 40, impressions/1000.0*40.0) +
		clampf(0, 20, clicks*2.0)
}

func clampf(lo, hi, v float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (om *opportunityMiner) Mine(ctx context.Context, siteURL string) ([]types.CandidateKeyword, error) {
	rows, err := om.queryWindow(ctx, siteURL)
	if err != nil {
		return nil, err
	}

	scored := make([]types.CandidateKeyword, 0, len(rows))
	scores := map[string]float64{}
	for _, r := range rows {
		if r.Position < minNearMissPos || r.Position > maxNearMissPos {
			continue
		}
		c := types.CandidateKeyword{
			Text:        r.Query,
			Source:      types.SourceVerified,
			Position:    r.Position,
			Clicks:      int64(r.Clicks),
			Impressions: int64(r.Impressions),
		}
		scored = append(scored, c)
		scores[c.Text] = OpportunityScore(r.Position, r.Clicks, r.Impressions)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scores[scored[i].Text] > scores[scored[j].Text]
	})
	if len(scored) > om.topN {
		scored = scored[:om.topN]
	}

	om.log.Info("Mined opportunity keywords",
		"site", siteURL, "rows", len(rows), "near_miss", len(scored))
	return scored, nil
}

func (om *opportunityMiner) AlreadyRanking(ctx context.Context, siteURL string, kws []string) (map[string]float64, error) {
	if len(kws) == 0 {
		return map[string]float64{}, nil
	}
	rows, err := om.queryWindow(ctx, siteURL)
	if err != nil {
		return nil, err
	}

	byQuery := make(map[string]float64, len(rows))
	for _, r := range rows {
		byQuery[strings.ToLower(r.Query)] = r.Position
	}

	out := map[string]float64{}
	for _, kw := range kws {
		key := strings.ToLower(strings.TrimSpace(kw))
		if pos, ok := byQuery[key]; ok {
			out[key] = pos
		}
	}
	return out, nil
}

func (om *opportunityMiner) queryWindow(ctx context.Context, siteURL string) ([]searchconsole.Row, error) {
	verified, err := om.gsc.SiteVerified(ctx, siteURL)
	if err != nil {
		return nil, fmt.Errorf("verify site %q: %w", siteURL, err)
	}
	if !verified {
		return nil, fmt.Errorf("site %q: %w", siteURL, errNotSiteOwner)
	}

	end := time.Now().AddDate(0, 0, -analyticsLagDays)
	start := end.AddDate(0, 0, -miningWindowDays)
	return om.gsc.Query(ctx, siteURL, start, end, miningRowLimit)
}

var errNotSiteOwner = fmt.Errorf("search console property not owned by the connected account")
