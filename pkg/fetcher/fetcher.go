package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/chowgpt/vector-pipeline/internal/models"
	"golang.org/x/time/rate"
)

// ErrDetailUnavailable is returned by FetchDetail once every retry has
// been exhausted. Callers must treat it as "skip this restaurant", not
// as a pipeline failure.
var ErrDetailUnavailable = errors.New("restaurant detail unavailable")

type ClientConfig struct {
	BaseURL        string
	PageLimit      int           // list pagination page size
	MaxRetries     int           // detail fetch attempts
	RetryBaseDelay time.Duration // doubles each failed attempt
	RateLimit      float64       // detail requests per second
	Timeout        time.Duration
	Logger         *slog.Logger
	Sleep          func(time.Duration) // overridable in tests
}

// Client talks to the restaurant API: one paginated list endpoint and
// one per-restaurant detail endpoint.
type Client struct {
	config  ClientConfig
	client  *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

func NewWithConfig(config ClientConfig) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if config.PageLimit == 0 {
		config.PageLimit = 50
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = 5
	}
	if config.RetryBaseDelay == 0 {
		config.RetryBaseDelay = 5 * time.Second
	}
	if config.RateLimit == 0 {
		config.RateLimit = 2 // one detail request per 500ms
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Sleep == nil {
		config.Sleep = time.Sleep
	}

	return &Client{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(config.RateLimit), 1),
		logger:  config.Logger.With("component", "fetcher"),
	}, nil
}

// listResponse is the envelope of the list endpoint.
type listResponse struct {
	Data struct {
		Restaurants []models.RestaurantSummary `json:"restaurants"`
		Total       int                        `json:"total"`
	} `json:"data"`
}

// FetchSummaries walks the paginated list endpoint until the server
// reports no more records or a page comes back shorter than requested.
// Any page error is fatal; list pagination is not retried.
func (c *Client) FetchSummaries(ctx context.Context) ([]models.RestaurantSummary, error) {
	var all []models.RestaurantSummary
	limit := c.config.PageLimit
	offset := 0

	for {
		page, total, err := c.fetchPage(ctx, limit, offset)
		if err != nil {
			return nil, fmt.Errorf("fetching restaurant list at offset %d: %w", offset, err)
		}
		if len(page) == 0 {
			break
		}

		all = append(all, page...)
		c.logger.Info("fetched restaurant page",
			"page_size", len(page), "fetched", len(all), "total", total)

		if len(all) >= total || len(page) < limit {
			break
		}
		offset += limit
	}

	return all, nil
}

func (c *Client) fetchPage(ctx context.Context, limit, offset int) ([]models.RestaurantSummary, int, error) {
	url := fmt.Sprintf("%s/restaurants?enhanced=true&limit=%d&offset=%d", c.config.BaseURL, limit, offset)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("received status code %d for URL: %s", resp.StatusCode, url)
	}

	var body listResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, 0, fmt.Errorf("decoding list response: %w", err)
	}
	return body.Data.Restaurants, body.Data.Total, nil
}

// FetchDetail fetches the detail payload for one restaurant. HTTP 429
// and transient errors retry with exponential backoff (base delay
// doubling per attempt); after MaxRetries the result is
// ErrDetailUnavailable. Successful calls are paced by the rate limiter
// to stay under the upstream service's rate limit.
func (c *Client) FetchDetail(ctx context.Context, id string) (*models.RestaurantDetail, error) {
	var lastErr error

	for attempt := 0; attempt < c.config.MaxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		detail, retryable, err := c.fetchDetailOnce(ctx, id)
		if err == nil {
			return detail, nil
		}
		lastErr = err
		if !retryable {
			break
		}

		if attempt < c.config.MaxRetries-1 {
			wait := c.config.RetryBaseDelay * (1 << attempt)
			c.logger.Warn("retrying detail fetch",
				"restaurant_id", id, "attempt", attempt+1, "wait", wait, "err", err)
			c.config.Sleep(wait)
		}
	}

	c.logger.Warn("detail fetch exhausted retries", "restaurant_id", id, "err", lastErr)
	return nil, fmt.Errorf("%w: %s: %v", ErrDetailUnavailable, id, lastErr)
}

func (c *Client) fetchDetailOnce(ctx context.Context, id string) (*models.RestaurantDetail, bool, error) {
	url := fmt.Sprintf("%s/restaurants/%s", c.config.BaseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, true, fmt.Errorf("rate limited fetching %s", id)
	case resp.StatusCode != http.StatusOK:
		return nil, true, fmt.Errorf("received status code %d for URL: %s", resp.StatusCode, url)
	}

	var detail models.RestaurantDetail
	if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
		return nil, true, fmt.Errorf("decoding detail response: %w", err)
	}
	return &detail, false, nil
}
