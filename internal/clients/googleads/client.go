package googleads

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"

	types "github.com/yungbote/searchlift-backend/internal/domain"
	errorsx "github.com/yungbote/searchlift-backend/internal/pkg/errors"
	"github.com/yungbote/searchlift-backend/internal/pkg/envutil"
	"github.com/yungbote/searchlift-backend/internal/pkg/httpx"
	"github.com/yungbote/searchlift-backend/internal/pkg/logger"
)

// Client wraps the paid keyword-ideas provider. Two operations: expand seed
// queries into candidate keywords, and fetch the same metric shape for an
// explicit keyword list.
type Client interface {
	GenerateIdeas(ctx context.Context, seeds []string, location string, language string) ([]types.CandidateKeyword, error)
	GetMetrics(ctx context.Context, keywordList []string, location string, language string) ([]types.CandidateKeyword, error)
}

// Location strings map through a fixed lookup to provider geo-target ids.
// Unmapped locations degrade to "no geo filter" rather than erroring.
var geoTargets = map[string]string{
	"united states":  "geoTargetConstants/2840",
	"usa":            "geoTargetConstants/2840",
	"canada":         "geoTargetConstants/2124",
	"united kingdom": "geoTargetConstants/2826",
	"uk":             "geoTargetConstants/2826",
	"australia":      "geoTargetConstants/2036",
	"germany":        "geoTargetConstants/2276",
	"france":         "geoTargetConstants/2250",
	"india":          "geoTargetConstants/2356",
}

var languageConstants = map[string]string{
	"en": "languageConstants/1000",
	"fr": "languageConstants/1002",
	"de": "languageConstants/1001",
	"es": "languageConstants/1003",
}

type client struct {
	log          *logger.Logger
	baseURL      string
	developerTok string
	customerID   string
	httpClient   *http.Client
	maxRetries   int
	volumeFloor  int64
	primaryFloor int64
}

// NewClient fails fast when any of the five required credential fields is
// absent. Credential problems never degrade at runtime.
func NewClient(log *logger.Logger) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	required := map[string]string{
		"GOOGLEADS_DEVELOPER_TOKEN": strings.TrimSpace(os.Getenv("GOOGLEADS_DEVELOPER_TOKEN")),
		"GOOGLEADS_CLIENT_ID":       strings.TrimSpace(os.Getenv("GOOGLEADS_CLIENT_ID")),
		"GOOGLEADS_CLIENT_SECRET":   strings.TrimSpace(os.Getenv("GOOGLEADS_CLIENT_SECRET")),
		"GOOGLEADS_REFRESH_TOKEN":   strings.TrimSpace(os.Getenv("GOOGLEADS_REFRESH_TOKEN")),
		"GOOGLEADS_CUSTOMER_ID":     strings.TrimSpace(os.Getenv("GOOGLEADS_CUSTOMER_ID")),
	}
	for name, val := range required {
		if val == "" {
			return nil, fmt.Errorf("%w: %s", errorsx.ErrMissingCredentials, name)
		}
	}

	baseURL := envutil.Str("GOOGLEADS_BASE_URL", "https://googleads.googleapis.com/v18")
	baseURL = strings.TrimRight(baseURL, "/")

	conf := &oauth2.Config{
		ClientID:     required["GOOGLEADS_CLIENT_ID"],
		ClientSecret: required["GOOGLEADS_CLIENT_SECRET"],
		Endpoint: oauth2.Endpoint{
			TokenURL: "https://oauth2.googleapis.com/token",
		},
	}
	src := conf.TokenSource(context.Background(), &oauth2.Token{
		RefreshToken: required["GOOGLEADS_REFRESH_TOKEN"],
	})
	httpClient := oauth2.NewClient(context.Background(), src)
	httpClient.Timeout = time.Duration(envutil.Int("GOOGLEADS_TIMEOUT_SECONDS", 60)) * time.Second

	return &client{
		log:          log.With("service", "GoogleAdsClient"),
		baseURL:      baseURL,
		developerTok: required["GOOGLEADS_DEVELOPER_TOKEN"],
		customerID:   strings.ReplaceAll(required["GOOGLEADS_CUSTOMER_ID"], "-", ""),
		httpClient:   httpClient,
		maxRetries:   envutil.Int("GOOGLEADS_MAX_RETRIES", 3),
		volumeFloor:  int64(envutil.Int("GOOGLEADS_VOLUME_FLOOR", 10)),
		primaryFloor: int64(envutil.Int("GOOGLEADS_PRIMARY_VOLUME_FLOOR", 50)),
	}, nil
}

type adsHTTPError struct {
	StatusCode int
	Body       string
}

func (e *adsHTTPError) Error() string {
	return fmt.Sprintf("googleads http %d: %s", e.StatusCode, e.Body)
}

func (e *adsHTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

func (c *client) doOnce(ctx context.Context, path string, body any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("developer-token", c.developerTok)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}

	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &adsHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}

func (c *client) do(ctx context.Context, path string, body any, out any) error {
	backoff := 1 * time.Second

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		resp, raw, err := c.doOnce(ctx, path, body)
		if err == nil {
			if out == nil {
				return nil
			}
			if uErr := json.Unmarshal(raw, out); uErr != nil {
				return fmt.Errorf("googleads decode error: %w", uErr)
			}
			return nil
		}

		if !httpx.IsRetryableError(err) {
			return err
		}
		if attempt == c.maxRetries {
			return err
		}

		sleepFor := httpx.RetryAfterDuration(resp, backoff, 10*time.Second)
		sleepFor = httpx.JitterSleep(sleepFor)

		c.log.Warn("GoogleAds request retrying",
			"path", path,
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)

		time.Sleep(sleepFor)
		backoff *= 2
	}

	return fmt.Errorf("unreachable retry loop")
}

type keywordIdeaMetrics struct {
	AvgMonthlySearches     string `json:"avgMonthlySearches"`
	Competition            string `json:"competition"`
	CompetitionIndex       string `json:"competitionIndex"`
	LowTopOfPageBidMicros  string `json:"lowTopOfPageBidMicros"`
	HighTopOfPageBidMicros string `json:"highTopOfPageBidMicros"`
}

func (m keywordIdeaMetrics) volume() int64       { return parseInt64(m.AvgMonthlySearches) }
func (m keywordIdeaMetrics) competitionIdx() int { return int(parseInt64(m.CompetitionIndex)) }
func (m keywordIdeaMetrics) lowBid() int64       { return parseInt64(m.LowTopOfPageBidMicros) }
func (m keywordIdeaMetrics) highBid() int64      { return parseInt64(m.HighTopOfPageBidMicros) }

// Numeric metric fields arrive as JSON strings (proto int64 encoding).
func parseInt64(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

type generateIdeasRequest struct {
	Language           string   `json:"language,omitempty"`
	GeoTargetConstants []string `json:"geoTargetConstants,omitempty"`
	KeywordSeed        *struct {
		Keywords []string `json:"keywords"`
	} `json:"keywordSeed,omitempty"`
	IncludeAdultKeywords bool `json:"includeAdultKeywords"`
}

type generateIdeasResponse struct {
	Results []struct {
		Text               string             `json:"text"`
		KeywordIdeaMetrics keywordIdeaMetrics `json:"keywordIdeaMetrics"`
	} `json:"results"`
}

// GenerateIdeas expands seed queries into candidates. Results under the
// volume floor are dropped client-side; candidates clearing the stricter
// primary floor are tagged.
func (c *client) GenerateIdeas(ctx context.Context, seeds []string, location string, language string) ([]types.CandidateKeyword, error) {
	if len(seeds) == 0 {
		return []types.CandidateKeyword{}, nil
	}

	req := generateIdeasRequest{Language: languageConstant(language)}
	if geo, ok := geoTargets[strings.ToLower(strings.TrimSpace(location))]; ok {
		req.GeoTargetConstants = []string{geo}
	} else if strings.TrimSpace(location) != "" {
		c.log.Debug("Unmapped location, querying without geo filter", "location", location)
	}
	req.KeywordSeed = &struct {
		Keywords []string `json:"keywords"`
	}{Keywords: seeds}

	var resp generateIdeasResponse
	path := fmt.Sprintf("/customers/%s:generateKeywordIdeas", c.customerID)
	if err := c.do(ctx, path, req, &resp); err != nil {
		return nil, err
	}

	out := make([]types.CandidateKeyword, 0, len(resp.Results))
	for _, r := range resp.Results {
		text := strings.TrimSpace(r.Text)
		if text == "" {
			continue
		}
		vol := r.KeywordIdeaMetrics.volume()
		if vol < c.volumeFloor {
			continue
		}
		out = append(out, types.CandidateKeyword{
			Text:                  text,
			Source:                types.SourceGenerated,
			Volume:                vol,
			CompetitionIndex:      r.KeywordIdeaMetrics.competitionIdx(),
			Competition:           r.KeywordIdeaMetrics.Competition,
			LowBidMicros:          r.KeywordIdeaMetrics.lowBid(),
			HighBidMicros:         r.KeywordIdeaMetrics.highBid(),
			MeetsPrimaryThreshold: vol >= c.primaryFloor,
		})
	}
	return out, nil
}

type historicalMetricsRequest struct {
	KeywordList        []string `json:"keywords"`
	Language           string   `json:"language,omitempty"`
	GeoTargetConstants []string `json:"geoTargetConstants,omitempty"`
}

type historicalMetricsResponse struct {
	Results []struct {
		Text           string             `json:"text"`
		KeywordMetrics keywordIdeaMetrics `json:"keywordMetrics"`
	} `json:"results"`
}

// GetMetrics returns the idea metric shape for an explicit keyword list.
// Used to validate externally-sourced (profile-declared) keywords. No
// volume floor is applied; callers see the metrics as reported.
func (c *client) GetMetrics(ctx context.Context, keywordList []string, location string, language string) ([]types.CandidateKeyword, error) {
	if len(keywordList) == 0 {
		return []types.CandidateKeyword{}, nil
	}

	req := historicalMetricsRequest{
		KeywordList: keywordList,
		Language:    languageConstant(language),
	}
	if geo, ok := geoTargets[strings.ToLower(strings.TrimSpace(location))]; ok {
		req.GeoTargetConstants = []string{geo}
	}

	var resp historicalMetricsResponse
	path := fmt.Sprintf("/customers/%s:generateKeywordHistoricalMetrics", c.customerID)
	if err := c.do(ctx, path, req, &resp); err != nil {
		return nil, err
	}

	out := make([]types.CandidateKeyword, 0, len(resp.Results))
	for _, r := range resp.Results {
		text := strings.TrimSpace(r.Text)
		if text == "" {
			continue
		}
		vol := r.KeywordMetrics.volume()
		out = append(out, types.CandidateKeyword{
			Text:                  text,
			Source:                types.SourceCustom,
			Volume:                vol,
			CompetitionIndex:      r.KeywordMetrics.competitionIdx(),
			Competition:           r.KeywordMetrics.Competition,
			LowBidMicros:          r.KeywordMetrics.lowBid(),
			HighBidMicros:         r.KeywordMetrics.highBid(),
			MeetsPrimaryThreshold: vol >= c.primaryFloor,
		})
	}
	return out, nil
}

func languageConstant(lang string) string {
	if v, ok := languageConstants[strings.ToLower(strings.TrimSpace(lang))]; ok {
		return v
	}
	return languageConstants["en"]
}
