package omdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Digital-Shane/omdb"
	"github.com/Digital-Shane/rlz-tidy/internal/media"
	"github.com/Digital-Shane/rlz-tidy/internal/provider"
	"github.com/patrickmn/go-cache"
)

const providerName = "omdb"

// Enricher implements provider.Enricher on top of the Open Movie Database.
// Lookups are memoized per title, year and kind for the lifetime of the
// enricher.
type Enricher struct {
	client     *omdb.Client
	httpClient *http.Client
	apiKey     string
	baseURL    string
	plot       string
	cache      *cache.Cache
	limiter    *rateLimiter
}

// Option customizes an Enricher.
type Option func(*Enricher)

// WithHTTPClient replaces the default HTTP client (useful for tests).
func WithHTTPClient(c *http.Client) Option {
	return func(e *Enricher) { e.httpClient = c }
}

// WithPlot selects the plot length requested from OMDb: "short" or "full".
func WithPlot(plot string) Option {
	return func(e *Enricher) {
		if plot == "short" || plot == "full" {
			e.plot = plot
		}
	}
}

// WithCacheExpiration sets how long a lookup result is reused.
func WithCacheExpiration(d time.Duration) Option {
	return func(e *Enricher) { e.cache = cache.New(d, 10*time.Minute) }
}

// WithRateLimit caps the requests sent to OMDb to n per window.
func WithRateLimit(n int, window time.Duration) Option {
	return func(e *Enricher) { e.limiter = newRateLimiter(n, window) }
}

// New creates an OMDb enricher for the given API key.
func New(apiKey string, opts ...Option) (*Enricher, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("api_key is required")
	}

	e := &Enricher{
		apiKey:  apiKey,
		baseURL: omdb.DefaultURL,
		plot:    "full",
		cache:   cache.New(24*time.Hour, 10*time.Minute),
		limiter: newRateLimiter(10, time.Second),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.httpClient == nil {
		e.httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	e.client = omdb.NewClient(e.apiKey, e.httpClient)
	return e, nil
}

// Name returns the provider name.
func (e *Enricher) Name() string {
	return providerName
}

// SupportedVariables returns the template variables filled by OMDb.
func (e *Enricher) SupportedVariables() []provider.TemplateVariable {
	return []provider.TemplateVariable{
		{
			Name:        "plot",
			DisplayName: "Plot",
			Description: "Synopsis of the movie or series",
			Example:     "A team of explorers travel through a wormhole in space.",
			Category:    "catalog",
			Provider:    providerName,
		},
		{
			Name:        "genres",
			DisplayName: "Genres",
			Description: "Comma separated list of genres",
			Example:     "Adventure, Drama, Sci-Fi",
			Category:    "catalog",
			Provider:    providerName,
		},
		{
			Name:        "rating",
			DisplayName: "Rating",
			Description: "IMDb user rating",
			Example:     "8.6",
			Category:    "catalog",
			Provider:    providerName,
		},
		{
			Name:        "rating_count",
			DisplayName: "Rating Count",
			Description: "Number of IMDb votes",
			Example:     "2150",
			Category:    "catalog",
			Provider:    providerName,
		},
		{
			Name:        "poster",
			DisplayName: "Poster",
			Description: "Poster image URL",
			Example:     "https://m.media-amazon.com/images/M/poster.jpg",
			Category:    "catalog",
			Provider:    providerName,
		},
	}
}

// Enrich looks the record up by title and year and copies the catalog fields
// into it. Records with a season/episode are looked up as series.
func (e *Enricher) Enrich(ctx context.Context, rec *media.Record) error {
	if rec == nil {
		return nil
	}
	req := newLookup(rec)
	if req.title == "" {
		return &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeInvalidRequest,
			Message:  "lookup requires a title",
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	key := req.key()
	if cached, found := e.cache.Get(key); found {
		if d, ok := cached.(*details); ok {
			d.apply(rec)
			return nil
		}
	}

	d, err := e.fetch(ctx, req)
	if err != nil {
		return err
	}
	e.cache.Set(key, d, cache.DefaultExpiration)
	d.apply(rec)
	return nil
}

func (e *Enricher) mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	msg := err.Error()
	lower := strings.ToLower(msg)

	switch {
	case strings.Contains(lower, "invalid api key"), strings.Contains(lower, "missing omdb api key"):
		return &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeAuthFailed,
			Message:  "OMDb authentication failed: " + msg,
			Retry:    false,
		}
	case strings.Contains(lower, "not found"):
		return &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeNotFound,
			Message:  msg,
			Retry:    false,
		}
	case strings.Contains(lower, "limit reached"), strings.Contains(lower, "too many requests"):
		return &provider.ProviderError{
			Provider:   providerName,
			Code:       provider.CodeRateLimited,
			Message:    msg,
			Retry:      true,
			RetryAfter: 5,
		}
	default:
		return &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeUnknown,
			Message:  msg,
			Retry:    false,
		}
	}
}

// buildRequest constructs an HTTP request with common parameters applied.
func (e *Enricher) buildRequest(ctx context.Context, params map[string]string) (*http.Request, error) {
	if e.httpClient == nil {
		return nil, fmt.Errorf("http client not configured")
	}

	values := url.Values{}
	for k, v := range params {
		if v == "" {
			continue
		}
		values.Set(k, v)
	}
	values.Set("apikey", e.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL, nil)
	if err != nil {
		return nil, err
	}
	req.URL.RawQuery = values.Encode()
	return req, nil
}

// parseVotes converts "1,234,567" to 1234567.
func parseVotes(value string) (int, bool) {
	value = strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	if value == "" || value == "N/A" {
		return 0, false
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return n, true
}
