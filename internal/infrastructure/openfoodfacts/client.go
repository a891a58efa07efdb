package openfoodfacts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/prohanzla/CalorieTracker-sub000/internal/domain"
)

// DefaultBaseURL is the public Open Food Facts API host.
const DefaultBaseURL = "https://world.openfoodfacts.org"

const maxAttempts = 3

// Client resolves barcodes against the Open Food Facts database.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	rateLimiter *rate.Limiter
	logger      zerolog.Logger
}

// NewClient creates an Open Food Facts client. The public API asks for a
// descriptive User-Agent and at most 100 product queries per minute.
func NewClient(baseURL, userAgent string, logger zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if userAgent == "" {
		userAgent = "CalorieTracker/1.0"
	}
	limiter := rate.NewLimiter(rate.Limit(100.0/60.0), 10)

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:     baseURL,
		userAgent:   userAgent,
		rateLimiter: limiter,
		logger:      logger.With().Str("component", "openfoodfacts").Logger(),
	}
}

type productResponse struct {
	Status  int    `json:"status"`
	Product Record `json:"product"`
}

// LookupBarcode fetches a product by barcode and maps it to a draft product
// on a per-100 basis. A clean miss, and a record too incomplete to use, both
// come back as ErrProductNotFound. Transient failures are retried with
// backoff before the lookup is reported as failed.
func (c *Client) LookupBarcode(ctx context.Context, barcode string) (*domain.Product, error) {
	reqURL := fmt.Sprintf("%s/api/v2/product/%s.json", c.baseURL, url.PathEscape(barcode))

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			time.Sleep(exponentialBackoff(attempt - 1))
		}
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		body, status, err := c.get(ctx, reqURL)
		if err != nil {
			c.logger.Warn().Err(err).Int("attempt", attempt).Str("barcode", barcode).Msg("lookup request failed")
			lastErr = err
			continue
		}

		switch {
		case status == http.StatusOK:
			// fall through to decode
		case status == http.StatusNotFound:
			return nil, fmt.Errorf("%w: barcode %s", domain.ErrProductNotFound, barcode)
		case status == http.StatusTooManyRequests:
			c.logger.Warn().Int("attempt", attempt).Str("barcode", barcode).Msg("lookup rate limited")
			lastErr = fmt.Errorf("%w: status %d", domain.ErrRateLimited, status)
			continue
		case status >= 500:
			c.logger.Warn().Int("status", status).Int("attempt", attempt).Msg("lookup upstream error")
			lastErr = fmt.Errorf("%w: status %d", domain.ErrLookupFailed, status)
			continue
		default:
			return nil, fmt.Errorf("%w: status %d", domain.ErrLookupFailed, status)
		}

		var decoded productResponse
		if err := json.Unmarshal(body, &decoded); err != nil {
			return nil, fmt.Errorf("%w: decode response: %v", domain.ErrLookupFailed, err)
		}
		if decoded.Status != 1 {
			return nil, fmt.Errorf("%w: barcode %s", domain.ErrProductNotFound, barcode)
		}

		product, err := MapProduct(&decoded.Product)
		if err != nil {
			return nil, err
		}
		product.Barcode = &barcode
		c.logger.Debug().Str("barcode", barcode).Str("name", product.Name).Msg("lookup hit")
		return product, nil
	}

	return nil, lastErr
}

func (c *Client) get(ctx context.Context, reqURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", domain.ErrLookupFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: read response: %v", domain.ErrLookupFailed, err)
	}
	return body, resp.StatusCode, nil
}

// exponentialBackoff returns 500ms, 1s, 2s for attempts 1, 2, 3.
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(1<<(attempt-1)) * 500 * time.Millisecond
}
