package omdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://www.omdbapi.com/"

	// Rate limiting: the free OMDb tier allows 1000 requests per day, so
	// stay well under one request per second with a small burst.
	rateLimit = 1
	rateBurst = 3

	// Retry configuration for transport failures.
	maxRetries   = 3
	initialDelay = 1 * time.Second
	maxDelay     = 8 * time.Second
)

// APIError is a logical failure reported by OMDb (Response: "False"), e.g.
// "Movie not found!". Transport failures surface as ordinary errors.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

// Client handles OMDb API requests with rate limiting and retry logic.
type Client struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

// NewClient creates a new OMDb API client. An empty baseURL falls back to
// the public endpoint.
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL:     baseURL,
		apiKey:      apiKey,
		rateLimiter: rate.NewLimiter(rate.Limit(rateLimit), rateBurst),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// SearchByTitle searches movies by title with pagination.
func (c *Client) SearchByTitle(ctx context.Context, title string, page int) (*SearchResponse, error) {
	params := url.Values{}
	params.Set("s", title)
	if page > 0 {
		params.Set("page", strconv.Itoa(page))
	}

	var result SearchResponse
	if err := c.doRequest(ctx, params, &result); err != nil {
		return nil, fmt.Errorf("search %q: %w", title, err)
	}
	if result.Response == "False" {
		return nil, &APIError{Message: result.Error}
	}
	return &result, nil
}

// GetByID fetches full movie details by IMDb id.
func (c *Client) GetByID(ctx context.Context, imdbID string) (*MovieData, error) {
	params := url.Values{}
	params.Set("i", imdbID)
	params.Set("plot", "full")

	var result MovieData
	if err := c.doRequest(ctx, params, &result); err != nil {
		return nil, fmt.Errorf("fetch %s: %w", imdbID, err)
	}
	if result.Response == "False" {
		return nil, &APIError{Message: result.Error}
	}
	return &result, nil
}

// GetByTitle fetches full movie details by exact title, optionally narrowed
// to a release year.
func (c *Client) GetByTitle(ctx context.Context, title string, year *int) (*MovieData, error) {
	params := url.Values{}
	params.Set("t", title)
	params.Set("plot", "full")
	if year != nil {
		params.Set("y", strconv.Itoa(*year))
	}

	var result MovieData
	if err := c.doRequest(ctx, params, &result); err != nil {
		return nil, fmt.Errorf("fetch %q: %w", title, err)
	}
	if result.Response == "False" {
		return nil, &APIError{Message: result.Error}
	}
	return &result, nil
}

// doRequest performs one rate-limited GET against the OMDb endpoint,
// retrying transport failures with exponential backoff.
func (c *Client) doRequest(ctx context.Context, params url.Values, result interface{}) error {
	params.Set("apikey", c.apiKey)
	fullURL := c.baseURL + "?" + params.Encode()

	var lastErr error
	delay := initialDelay

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if attempt < maxRetries {
				log.Printf("[OMDb] request failed (attempt %d/%d): %v, retrying in %v",
					attempt+1, maxRetries, err, delay)
				time.Sleep(delay)
				delay = minDuration(delay*2, maxDelay)
				continue
			}
			return fmt.Errorf("request failed after %d attempts: %w", maxRetries, lastErr)
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("read response: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body)
		}
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
	return lastErr
}

func minDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}
