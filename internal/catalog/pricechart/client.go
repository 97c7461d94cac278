package pricechart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"gameshelf/internal/catalog"
	"gameshelf/internal/textutil"
)

// product models one record of the catalog API. Prices arrive in cents.
type product struct {
	ID          string `json:"id"`
	ProductName string `json:"product-name"`
	ConsoleName string `json:"console-name"`
	LoosePrice  *int64 `json:"loose-price"`
	CIBPrice    *int64 `json:"cib-price"`
	NewPrice    *int64 `json:"new-price"`
}

type searchResponse struct {
	Status       string    `json:"status"`
	ErrorMessage string    `json:"error-message"`
	Products     []product `json:"products"`
}

type productResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error-message"`
	product
}

// Client provides access to the pricecharting-compatible catalog API.
type Client struct {
	apiKey     string
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

var _ catalog.Client = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// New creates a catalog client.
func New(apiKey, baseURL, userAgent string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("catalog api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("catalog base url required")
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  strings.TrimSpace(userAgent),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Search queries the catalog for products matching the title and platform.
// An empty result is a valid answer, not an error.
func (c *Client) Search(ctx context.Context, title, platform string) ([]catalog.Candidate, error) {
	query := strings.TrimSpace(strings.TrimSpace(title) + " " + strings.TrimSpace(platform))
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	endpoint, err := url.Parse(c.baseURL + "/api/products")
	if err != nil {
		return nil, fmt.Errorf("parse catalog url: %w", err)
	}
	params := url.Values{}
	params.Set("t", c.apiKey)
	params.Set("q", query)
	endpoint.RawQuery = params.Encode()

	var payload searchResponse
	if err := c.get(ctx, endpoint.String(), "catalog search", &payload); err != nil {
		return nil, err
	}
	if payload.Status == "error" {
		return nil, fmt.Errorf("catalog search rejected: %s", payload.ErrorMessage)
	}

	candidates := make([]catalog.Candidate, 0, len(payload.Products))
	for _, item := range payload.Products {
		if item.ID == "" {
			continue
		}
		candidates = append(candidates, catalog.Candidate{
			CatalogID: item.ID,
			Title:     item.ProductName,
			Platform:  item.ConsoleName,
			URL:       c.productURL(item.ConsoleName, item.ProductName),
		})
	}
	return candidates, nil
}

// FetchPrices retrieves the current snapshot for a catalog id. An unknown id
// yields an empty snapshot, not an error.
func (c *Client) FetchPrices(ctx context.Context, catalogID string) (catalog.Prices, error) {
	catalogID = strings.TrimSpace(catalogID)
	if catalogID == "" {
		return catalog.Prices{}, errors.New("catalog id required")
	}
	endpoint, err := url.Parse(c.baseURL + "/api/product")
	if err != nil {
		return catalog.Prices{}, fmt.Errorf("parse catalog url: %w", err)
	}
	params := url.Values{}
	params.Set("t", c.apiKey)
	params.Set("id", catalogID)
	endpoint.RawQuery = params.Encode()

	var payload productResponse
	if err := c.get(ctx, endpoint.String(), "catalog product", &payload); err != nil {
		if errors.Is(err, errNotFound) {
			return catalog.Prices{}, nil
		}
		return catalog.Prices{}, err
	}
	if payload.Status == "error" {
		return catalog.Prices{}, fmt.Errorf("catalog product rejected: %s", payload.ErrorMessage)
	}

	return catalog.Prices{
		Loose:    centsToDollars(payload.LoosePrice),
		Complete: centsToDollars(payload.CIBPrice),
		New:      centsToDollars(payload.NewPrice),
	}, nil
}

var errNotFound = errors.New("catalog record not found")

func (c *Client) get(ctx context.Context, endpoint, operation string, payload any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return errNotFound
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%s returned %d (latency=%v)", operation, resp.StatusCode, latency)
	}

	if err := json.NewDecoder(resp.Body).Decode(payload); err != nil {
		return fmt.Errorf("decode %s response: %w", operation, err)
	}
	return nil
}

func (c *Client) productURL(console, name string) string {
	consoleSlug := textutil.PlatformSlug(console)
	nameSlug := textutil.Slug(name)
	if consoleSlug == "" || nameSlug == "" {
		return ""
	}
	return fmt.Sprintf("%s/game/%s/%s", c.baseURL, consoleSlug, nameSlug)
}

func centsToDollars(cents *int64) *float64 {
	if cents == nil || *cents <= 0 {
		return nil
	}
	dollars := float64(*cents) / 100
	return &dollars
}
