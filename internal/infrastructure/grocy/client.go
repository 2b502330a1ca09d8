package grocy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/grocyscan/backend/internal/domain"
	"golang.org/x/time/rate"
)

const maxAttempts = 3

// Client handles communication with the Grocy REST API
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new Grocy API client.
// requestsPerSecond <= 0 falls back to 5 requests per second.
func NewClient(apiKey, baseURL string, requestsPerSecond float64, timeout time.Duration) *Client {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 5
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		apiKey:      apiKey,
		baseURL:     strings.TrimRight(baseURL, "/"),
		rateLimiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 10),
	}
}

// SetDebug enables logging of every request
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// exponentialBackoff returns the wait before the next retry
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// doRequest executes an HTTP request with the Grocy API key header
func (c *Client) doRequest(ctx context.Context, method, reqURL string, body io.Reader) (*http.Response, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("GROCY-API-KEY", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.debug {
		log.Printf("[GROCY] %s %s", method, reqURL)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGrocyAPIFailure, err)
	}
	return resp, nil
}

// getJSON GETs path and decodes the body into out, retrying transient failures
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	reqURL := c.baseURL + path

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(exponentialBackoff(attempt - 1)):
			}
		}

		resp, err := c.doRequest(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			log.Printf("[GROCY] Request error (attempt %d): %v", attempt, err)
			lastErr = err
			if ctx.Err() != nil {
				return lastErr
			}
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: status %d", domain.ErrGrocyAPIFailure, resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			log.Printf("[GROCY] API error (attempt %d) - Status: %d, Body: %s", attempt, resp.StatusCode, string(body))
			lastErr = fmt.Errorf("%w: status %d", domain.ErrGrocyAPIFailure, resp.StatusCode)
			continue
		}
		if readErr != nil {
			lastErr = fmt.Errorf("%w: read body: %v", domain.ErrGrocyAPIFailure, readErr)
			continue
		}

		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
		return nil
	}

	log.Printf("[GROCY] All retries failed for %s", path)
	return lastErr
}

// ListProducts returns every Grocy product in API order
func (c *Client) ListProducts(ctx context.Context) ([]domain.CatalogEntry, error) {
	var products []product
	if err := c.getJSON(ctx, "/objects/products", &products); err != nil {
		return nil, err
	}
	log.Printf("[GROCY] Loaded %d products", len(products))
	return mapToCatalog(products), nil
}

// FindStoreID returns the shopping location id whose name matches shopName ignoring case
func (c *Client) FindStoreID(ctx context.Context, shopName string) (string, error) {
	if shopName == "" {
		return "", domain.ErrStoreNotFound
	}

	var locations []shoppingLocation
	if err := c.getJSON(ctx, "/objects/shopping_locations", &locations); err != nil {
		return "", err
	}

	id, ok := findStore(locations, shopName)
	if !ok {
		return "", domain.ErrStoreNotFound
	}
	return id, nil
}

// AddProductToStock books a purchase of one product
func (c *Client) AddProductToStock(ctx context.Context, entry domain.StockEntry) error {
	if entry.ProductID == "" {
		return domain.ErrInvalidRequest
	}

	payload, err := json.Marshal(newStockAddPayload(entry))
	if err != nil {
		return fmt.Errorf("failed to encode stock entry: %w", err)
	}

	reqURL := fmt.Sprintf("%s/stock/products/%s/add", c.baseURL, url.PathEscape(entry.ProductID))
	resp, err := c.doRequest(ctx, http.MethodPost, reqURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.ErrProductNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: status %d, body: %s", domain.ErrGrocyAPIFailure, resp.StatusCode, string(body))
	}
	return nil
}
