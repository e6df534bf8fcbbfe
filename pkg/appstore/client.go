// Package appstore fetches iOS app metadata through the RapidAPI App Store
// scraper endpoint.
package appstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://appstore-scrapper-api.p.rapidapi.com"
	defaultHost    = "appstore-scrapper-api.p.rapidapi.com"
	defaultTimeout = 30 * time.Second
)

// AppDetail is the metadata returned for a single app. Field names follow
// the scraper API payload.
type AppDetail struct {
	ID          json.Number `json:"id"`
	Name        string      `json:"name"`
	Title       string      `json:"title"` // some endpoint versions use title
	Category    string      `json:"category"`
	Genre       string      `json:"primaryGenre"`
	Rating      float64     `json:"rating"`
	Score       float64     `json:"score"` // alternate rating field
	Reviews     int64       `json:"reviews"`
	Price       float64     `json:"price"`
	Description string      `json:"description"`
}

// DisplayName returns the app name regardless of payload variant.
func (d AppDetail) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	return d.Title
}

// DisplayCategory returns the category regardless of payload variant.
func (d AppDetail) DisplayCategory() string {
	if d.Category != "" {
		return d.Category
	}
	return d.Genre
}

// DisplayRating returns the rating regardless of payload variant.
func (d AppDetail) DisplayRating() float64 {
	if d.Rating > 0 {
		return d.Rating
	}
	return d.Score
}

// Client fetches app details.
type Client interface {
	AppDetail(ctx context.Context, appID string) (*AppDetail, error)
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the API base URL.
func WithBaseURL(base string) Option {
	return func(c *httpClient) {
		if base != "" {
			c.baseURL = base
		}
	}
}

// WithHost overrides the RapidAPI host header.
func WithHost(host string) Option {
	return func(c *httpClient) {
		if host != "" {
			c.host = host
		}
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithLimiter sets the request rate limiter.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *httpClient) {
		c.limiter = l
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	host    string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a RapidAPI App Store client. Requests are rate limited
// (default 2/s) and retried once on transient failure.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		host:    defaultHost,
		http:    &http.Client{Timeout: defaultTimeout},
		limiter: rate.NewLimiter(2, 2),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AppDetail fetches metadata for one app ID in the US storefront.
func (c *httpClient) AppDetail(ctx context.Context, appID string) (*AppDetail, error) {
	endpoint := fmt.Sprintf("%s/getAppDetail?%s", c.baseURL, url.Values{
		"appId":   {appID},
		"country": {"us"},
	}.Encode())

	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		// Every attempt takes a limiter token; a retry after a 429 must not
		// skip the wait.
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "appstore: rate limit wait")
		}

		detail, retryable, err := c.fetch(ctx, endpoint)
		if err == nil {
			return detail, nil
		}
		lastErr = err
		if !retryable || ctx.Err() != nil {
			break
		}
		zap.L().Warn("appstore: fetch failed, retrying",
			zap.String("app_id", appID),
			zap.Error(err),
		)
	}
	return nil, eris.Wrapf(lastErr, "appstore: fetch app %s", appID)
}

func (c *httpClient) fetch(ctx context.Context, endpoint string) (*AppDetail, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false, eris.Wrap(err, "build request")
	}
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.host)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		retryable := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
		return nil, retryable, eris.Errorf("status %d: %s", resp.StatusCode, body)
	}

	var detail AppDetail
	if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
		return nil, false, eris.Wrap(err, "decode response")
	}
	return &detail, false, nil
}
