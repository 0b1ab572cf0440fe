package services

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/yungbote/searchlift-backend/internal/clients/searchconsole"
	types "github.com/yungbote/searchlift-backend/internal/domain"
)

type fakeGSC struct {
	verified bool
	rows     []searchconsole.Row
	queries  int
}

func (f *fakeGSC) SiteVerified(context.Context, string) (bool, error) {
	return f.verified, nil
}

func (f *fakeGSC) Query(_ context.Context, _ string, _ time.Time, _ time.Time, _ int64) ([]searchconsole.Row, error) {
	f.queries++
	return f.rows, nil
}

func TestOpportunityScoreComponents(t *testing.T) {
	cases := []struct {
		name                         string
		position, clicks, impression float64
		want                         float64
	}{
		{"near page 1 heavy traffic", 11, 10, 1000, 39 + 40 + 20},
		{"far edge no traffic", 50, 0, 0, 0},
		{"impressions capped", 20, 0, 50000, 30 + 40},
		{"clicks capped", 30, 100, 0, 20 + 20},
	}
	for _, tc := range cases {
		got := OpportunityScore(tc.position, tc.clicks, tc.impression)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("%s: score = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestMineFiltersToNearMissWindow(t *testing.T) {
	gsc := &fakeGSC{verified: true, rows: []searchconsole.Row{
		{Query: "page one winner", Position: 5, Clicks: 500, Impressions: 9000},
		{Query: "near miss high", Position: 12, Clicks: 30, Impressions: 2000},
		{Query: "near miss low", Position: 48, Clicks: 0, Impressions: 40},
		{Query: "deep obscurity", Position: 80, Clicks: 0, Impressions: 10},
	}}
	om := NewOpportunityMiner(testLogger(t), gsc)

	got, err := om.Mine(context.Background(), "https://example.com/")
	if err != nil {
		t.Fatalf("Mine: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 near-miss keywords, got %d", len(got))
	}
	if got[0].Text != "near miss high" {
		t.Fatalf("expected highest score first, got %q", got[0].Text)
	}
	for _, c := range got {
		if c.Source != types.SourceVerified {
			t.Fatalf("mined keyword %q tagged %q, want verified", c.Text, c.Source)
		}
	}
}

func TestMineRejectsUnverifiedSite(t *testing.T) {
	om := NewOpportunityMiner(testLogger(t), &fakeGSC{verified: false})
	if _, err := om.Mine(context.Background(), "https://example.com/"); err == nil {
		t.Fatal("expected error for unowned property")
	}
}

func TestAlreadyRankingMatchesCaseInsensitively(t *testing.T) {
	gsc := &fakeGSC{verified: true, rows: []searchconsole.Row{
		{Query: "Emergency Plumber", Position: 3},
		{Query: "water heater repair", Position: 22},
	}}
	om := NewOpportunityMiner(testLogger(t), gsc)

	got, err := om.AlreadyRanking(context.Background(), "https://example.com/",
		[]string{"emergency plumber", "Water Heater Repair", "drain cleaning"})
	if err != nil {
		t.Fatalf("AlreadyRanking: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 ranked keywords, got %d", len(got))
	}
	if got["emergency plumber"] != 3 {
		t.Fatalf("position mismatch: %v", got)
	}
	if _, ok := got["drain cleaning"]; ok {
		t.Fatal("unranked keyword reported as ranking")
	}
}
