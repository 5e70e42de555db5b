// Package geonames is the place-ID lookup client. It keeps a per-run cache
// of lookups plus the list of IDs that failed, and paces outbound calls so a
// large batch stays inside the service's courtesy limits.
package geonames

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"

	"golang.org/x/time/rate"

	pstrings "rorcheck/pkg/platform/strings"
)

// DefaultBaseURL is the public place-ID endpoint.
const DefaultBaseURL = "http://api.geonames.org"

// Place is the service's view of a numeric place-ID.
type Place struct {
	GeonamesID  int    `json:"geonameId"`
	Name        string `json:"name"`
	CountryName string `json:"countryName"`
	CountryCode string `json:"countryCode"`
	AdminName1  string `json:"adminName1"`
	AdminCode1  string `json:"adminCode1"`
	Lat         string `json:"lat"`
	Lng         string `json:"lng"`
}

// Client looks up place-IDs. The cache and failure list live for one run.
type Client struct {
	baseURL  string
	username string
	httpc    *http.Client
	limiter  *rate.Limiter
	logger   *slog.Logger

	mu       sync.Mutex
	cache    map[string]*Place
	failures []string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) { c.httpc = httpc }
}

// WithBaseURL overrides the service endpoint.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithLimiter overrides the pacing limiter.
func WithLimiter(limiter *rate.Limiter) Option {
	return func(c *Client) { c.limiter = limiter }
}

// New builds a Client for the given service username.
func New(username string, opts ...Option) *Client {
	c := &Client{
		baseURL:  DefaultBaseURL,
		username: username,
		httpc:    http.DefaultClient,
		limiter:  rate.NewLimiter(rate.Limit(4), 1),
		logger:   slog.Default(),
		cache:    make(map[string]*Place),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Lookup resolves a place-ID. Repeat lookups of the same ID are served from
// the cache. Transport failures and unknown IDs are recorded on the failure
// list and returned as errors; callers degrade them to findings, not aborts.
func (c *Client) Lookup(ctx context.Context, id string) (*Place, error) {
	c.mu.Lock()
	if place, ok := c.cache[id]; ok {
		c.mu.Unlock()
		return place, nil
	}
	c.mu.Unlock()

	place, err := c.fetch(ctx, id)
	if err != nil {
		c.mu.Lock()
		c.failures = append(c.failures, id)
		c.mu.Unlock()
		c.logger.Warn("geonames lookup failed", "geonames_id", id, "error", err)
		return nil, err
	}

	c.mu.Lock()
	c.cache[id] = place
	c.mu.Unlock()
	return place, nil
}

// Failures returns the distinct place-IDs that failed to resolve during this
// run. An ID that failed on several records is reported once.
func (c *Client) Failures() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return pstrings.DedupeAndTrim(c.failures)
}

func (c *Client) fetch(ctx context.Context, id string) (*Place, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("geonameId", id)
	q.Set("username", c.username)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/getJSON?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geonames returned %s", resp.Status)
	}

	var place Place
	if err := json.NewDecoder(resp.Body).Decode(&place); err != nil {
		return nil, fmt.Errorf("decode geonames response: %w", err)
	}
	if place.Name == "" {
		return nil, fmt.Errorf("geonames has no place for id %s", id)
	}
	return &place, nil
}
