// Package usda talks to the USDA FoodData Central API.
package usda

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://api.nal.usda.gov/fdc/v1"

	// searchPageSize is how many Foundation matches are fetched per query.
	searchPageSize = 3
	searchDataType = "Foundation"
)

// ErrMissingAPIKey is returned by NewClient when no key is given.
var ErrMissingAPIKey = errors.New("usda: api key is required")

// Client performs rate limited FoodData Central requests.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	logger     *logrus.Logger
}

// Option configures a Client.
type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRateLimit sets the request rate. rate.Inf disables limiting.
func WithRateLimit(limit rate.Limit) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(limit, 1) }
}

func WithLogger(logger *logrus.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// NewClient creates a Client limited to one request every four seconds.
// FoodData Central allows 1,000 requests per hour per key.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	c := &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		limiter:    rate.NewLimiter(rate.Every(4*time.Second), 1),
		logger:     logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// SearchResult is one hit of a food search.
type SearchResult struct {
	FdcID       int64  `json:"fdcId"`
	Description string `json:"description"`
}

type searchResponse struct {
	Foods []SearchResult `json:"foods"`
}

// Search returns the top Foundation foods matching query.
func (c *Client) Search(ctx context.Context, query string) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("pageSize", strconv.Itoa(searchPageSize))
	params.Set("dataType", searchDataType)

	var resp searchResponse
	if err := c.get(ctx, "/foods/search", params, &resp); err != nil {
		return nil, fmt.Errorf("failed to search %q: %w", query, err)
	}
	return resp.Foods, nil
}

// Detail fetches the full record of one food.
func (c *Client) Detail(ctx context.Context, fdcID int64) (*FoodDetail, error) {
	var detail FoodDetail
	if err := c.get(ctx, "/food/"+strconv.FormatInt(fdcID, 10), url.Values{}, &detail); err != nil {
		return nil, fmt.Errorf("failed to fetch food %d: %w", fdcID, err)
	}
	return &detail, nil
}

// FetchAll searches every query and fetches the details of each hit, one
// request at a time. Failed searches and lookups are logged and skipped; only
// a cancelled context aborts the run.
func (c *Client) FetchAll(ctx context.Context, queries []string) (map[string][]Food, error) {
	results := make(map[string][]Food, len(queries))
	for _, q := range queries {
		c.logger.WithField("query", q).Info("Searching FoodData Central")
		hits, err := c.Search(ctx, q)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.logger.WithError(err).Warn("Search failed")
			continue
		}

		foods := make([]Food, 0, len(hits))
		for _, hit := range hits {
			detail, err := c.Detail(ctx, hit.FdcID)
			if err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				c.logger.WithError(err).WithField("fdc_id", hit.FdcID).Warn("Detail fetch failed")
				continue
			}
			foods = append(foods, detail.Food())
		}
		if len(foods) > 0 {
			results[q] = foods
		}
	}
	return results, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, dst any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	params.Set("api_key", c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Code: resp.StatusCode, Body: string(body)}
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// StatusError is a non-200 reply from the API.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("usda api error %d: %s", e.Code, e.Body)
}
