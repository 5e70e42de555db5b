// Package rorapi is the organization-search client used to hunt for records
// that already exist in the live registry. All outbound calls share one
// sliding-window rate limiter for the run.
package rorapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"rorcheck/internal/record"
)

// DefaultBaseURL is the public search endpoint.
const DefaultBaseURL = "https://api.ror.org/v2/organizations"

// Default rate-limit window: 1000 calls per 300 seconds.
const (
	DefaultRateLimit  = 1000
	DefaultRateWindow = 300 * time.Second
)

// Organization is a search hit.
type Organization struct {
	ID        string            `json:"id"`
	Names     []record.Name     `json:"names"`
	Locations []record.Location `json:"locations"`
}

// NameValues returns every name string carried by the hit.
func (o Organization) NameValues() []string {
	values := make([]string, 0, len(o.Names))
	for _, n := range o.Names {
		if n.Value != "" {
			values = append(values, n.Value)
		}
	}
	return values
}

// CountryCode returns the country code of the first location.
func (o Organization) CountryCode() string {
	if len(o.Locations) == 0 {
		return ""
	}
	return o.Locations[0].GeonamesDetails.CountryCode
}

// Client queries the organization-search service.
type Client struct {
	baseURL string
	httpc   *http.Client
	limiter *Limiter
	logger  *slog.Logger
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

// WithLimiter overrides the shared rate limiter.
func WithLimiter(limiter *Limiter) Option {
	return func(c *Client) { c.limiter = limiter }
}

// New builds a search client with the default rate-limit window.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpc:   http.DefaultClient,
		limiter: NewLimiter(DefaultRateLimit, DefaultRateWindow),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SearchQuery runs a query= search.
func (c *Client) SearchQuery(ctx context.Context, q string) ([]Organization, error) {
	body, err := c.get(ctx, url.Values{"query": {q}})
	if err != nil {
		return nil, err
	}
	var resp struct {
		Items []Organization `json:"items"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode query response: %w", err)
	}
	return resp.Items, nil
}

// SearchAffiliation runs an affiliation= search. Affiliation hits nest the
// organization under a scored wrapper.
func (c *Client) SearchAffiliation(ctx context.Context, q string) ([]Organization, error) {
	body, err := c.get(ctx, url.Values{"affiliation": {q}})
	if err != nil {
		return nil, err
	}
	var resp struct {
		Items []struct {
			Organization Organization `json:"organization"`
		} `json:"items"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode affiliation response: %w", err)
	}
	orgs := make([]Organization, 0, len(resp.Items))
	for _, item := range resp.Items {
		orgs = append(orgs, item.Organization)
	}
	return orgs, nil
}

func (c *Client) get(ctx context.Context, q url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("search request rejected", "status", resp.Status)
		return nil, fmt.Errorf("search returned %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}
