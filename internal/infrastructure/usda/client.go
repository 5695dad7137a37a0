package usda

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/macrolens/diary/internal/domain"
	applog "github.com/macrolens/diary/internal/log"
	"golang.org/x/time/rate"
)

const (
	// DefaultRequestsPerHour is the FoodData Central quota for a regular key
	DefaultRequestsPerHour = 1000
	defaultBurst           = 10
	maxAttempts            = 3
	maxBodyBytes           = 8 << 20
)

// Client handles communication with the USDA FoodData Central API
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	backoff     func(attempt int) time.Duration
}

// Option customizes a Client
type Option func(*Client)

// WithRequestsPerHour replaces the default request budget
func WithRequestsPerHour(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.rateLimiter = rate.NewLimiter(rate.Limit(float64(n)/3600), defaultBurst)
		}
	}
}

// WithHTTPClient replaces the default http client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a new USDA API client
func NewClient(apiKey, baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		apiKey:      apiKey,
		baseURL:     baseURL,
		rateLimiter: rate.NewLimiter(rate.Limit(float64(DefaultRequestsPerHour)/3600), defaultBurst),
		backoff:     exponentialBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// exponentialBackoff returns the pause before retrying after attempt
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// retryable reports whether a non-200 status is worth another attempt.
// Client errors other than 429 are final.
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// readLimitedBody reads at most limit bytes from r
func readLimitedBody(r io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, limit))
}

// doRequest executes an HTTP GET request with proper headers and error handling
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "MacroLens-Diary/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUSDAAPIFailure, err)
	}

	return resp, nil
}

// getJSON fetches reqURL into out, retrying transient failures. A 404 maps to
// ErrProductNotFound and is not retried.
func (c *Client) getJSON(ctx context.Context, reqURL string, out any) error {
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.backoff(attempt - 1)):
			}
		}

		// Wait fails fast when the budget can't refill before the deadline
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: request budget exhausted: %w", domain.ErrUSDAAPIFailure, err)
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			applog.Warn(ctx, "[USDA] request error", "attempt", attempt, "error", err)
			lastErr = err
			continue
		}

		body, err := readLimitedBody(resp.Body, maxBodyBytes)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("%w: reading body: %v", domain.ErrUSDAAPIFailure, err)
			continue
		}

		if resp.StatusCode == http.StatusNotFound {
			return domain.ErrProductNotFound
		}
		if resp.StatusCode != http.StatusOK {
			applog.Warn(ctx, "[USDA] API error", "attempt", attempt, "status", resp.StatusCode)
			applog.Debug(ctx, "[USDA] API error body", "body", string(body))
			lastErr = fmt.Errorf("%w: status %d", domain.ErrUSDAAPIFailure, resp.StatusCode)
			if !retryable(resp.StatusCode) {
				return lastErr
			}
			continue
		}

		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", domain.ErrUSDAAPIFailure, err)
		}
		return nil
	}

	return lastErr
}

// SearchFoods searches for foods in the USDA database
func (c *Client) SearchFoods(ctx context.Context, query string) (*domain.USDASearchResponse, error) {
	applog.Debug(ctx, "[USDA] SearchFoods", "query", query)

	params := url.Values{}
	params.Add("query", query)
	params.Add("api_key", c.apiKey)
	params.Add("dataType", "Survey (FNDDS),Foundation,SR Legacy,Branded")
	params.Add("pageSize", "10")
	reqURL := fmt.Sprintf("%s/v1/foods/search?%s", c.baseURL, params.Encode())

	var searchResp domain.USDASearchResponse
	if err := c.getJSON(ctx, reqURL, &searchResp); err != nil {
		return nil, err
	}
	if len(searchResp.Foods) == 0 {
		return nil, domain.ErrProductNotFound
	}

	applog.Debug(ctx, "[USDA] search results", "query", query, "count", len(searchResp.Foods))
	return &searchResp, nil
}

// GetFoodDetails retrieves detailed nutrition information for a specific food by FDC ID
func (c *Client) GetFoodDetails(ctx context.Context, fdcID string) (*domain.USDAFood, error) {
	params := url.Values{}
	params.Add("api_key", c.apiKey)
	reqURL := fmt.Sprintf("%s/v1/food/%s?%s", c.baseURL, url.PathEscape(fdcID), params.Encode())

	var food domain.USDAFood
	if err := c.getJSON(ctx, reqURL, &food); err != nil {
		return nil, err
	}
	return &food, nil
}
