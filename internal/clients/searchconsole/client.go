package searchconsole

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	searchconsole "google.golang.org/api/searchconsole/v1"

	"github.com/yungbote/searchlift-backend/internal/pkg/ctxutil"
	"github.com/yungbote/searchlift-backend/internal/pkg/logger"
)

// Row is one search-analytics result for a single query dimension.
type Row struct {
	Query       string
	Clicks      float64
	Impressions float64
	CTR         float64
	Position    float64
}

// Client wraps the Search Console search-analytics API for a verified site.
type Client interface {
	// SiteVerified reports whether the authenticated principal owns the
	// property. Mining requires a prior ownership check.
	SiteVerified(ctx context.Context, siteURL string) (bool, error)

	// Query pulls query-dimension rows for the window, newest analytics
	// availability lag included by the caller's date choice.
	Query(ctx context.Context, siteURL string, start, end time.Time, rowLimit int64) ([]Row, error)
}

type client struct {
	log *logger.Logger
	svc *searchconsole.Service
}

func NewClient(log *logger.Logger) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	opts, err := clientOptionsFromEnv()
	if err != nil {
		return nil, err
	}

	svc, err := searchconsole.NewService(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("init searchconsole service: %w", err)
	}

	return &client{
		log: log.With("service", "SearchConsoleClient"),
		svc: svc,
	}, nil
}

// clientOptionsFromEnv prefers a user refresh token (same grant as the ads
// client), falling back to application-default style credentials.
func clientOptionsFromEnv() ([]option.ClientOption, error) {
	clientID := strings.TrimSpace(os.Getenv("GSC_CLIENT_ID"))
	clientSecret := strings.TrimSpace(os.Getenv("GSC_CLIENT_SECRET"))
	refreshToken := strings.TrimSpace(os.Getenv("GSC_REFRESH_TOKEN"))

	if clientID != "" && clientSecret != "" && refreshToken != "" {
		conf := &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint: oauth2.Endpoint{
				TokenURL: "https://oauth2.googleapis.com/token",
			},
			Scopes: []string{searchconsole.WebmastersReadonlyScope},
		}
		src := conf.TokenSource(context.Background(), &oauth2.Token{RefreshToken: refreshToken})
		return []option.ClientOption{option.WithTokenSource(src)}, nil
	}

	creds := strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON"))
	if creds == "" {
		creds = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if creds == "" {
		return nil, fmt.Errorf("missing search console credentials (GSC_* or GOOGLE_APPLICATION_CREDENTIALS)")
	}
	if strings.HasPrefix(creds, "{") {
		return []option.ClientOption{option.WithCredentialsJSON([]byte(creds))}, nil
	}
	return []option.ClientOption{option.WithCredentialsFile(creds)}, nil
}

func (c *client) SiteVerified(ctx context.Context, siteURL string) (bool, error) {
	site, err := c.svc.Sites.Get(siteURL).Context(ctxutil.Default(ctx)).Do()
	if err != nil {
		return false, fmt.Errorf("searchconsole sites.get: %w", err)
	}
	level := strings.ToLower(strings.TrimSpace(site.PermissionLevel))
	return level == "siteowner" || level == "sitefulluser", nil
}

func (c *client) Query(ctx context.Context, siteURL string, start, end time.Time, rowLimit int64) ([]Row, error) {
	req := &searchconsole.SearchAnalyticsQueryRequest{
		StartDate:  start.Format("2006-01-02"),
		EndDate:    end.Format("2006-01-02"),
		Dimensions: []string{"query"},
		RowLimit:   rowLimit,
	}

	resp, err := c.svc.Searchanalytics.Query(siteURL, req).Context(ctxutil.Default(ctx)).Do()
	if err != nil {
		return nil, fmt.Errorf("searchconsole query: %w", err)
	}

	out := make([]Row, 0, len(resp.Rows))
	for _, r := range resp.Rows {
		if r == nil || len(r.Keys) == 0 {
			continue
		}
		query := strings.TrimSpace(r.Keys[0])
		if query == "" {
			continue
		}
		out = append(out, Row{
			Query:       query,
			Clicks:      r.Clicks,
			Impressions: r.Impressions,
			CTR:         r.Ctr,
			Position:    r.Position,
		})
	}
	return out, nil
}
