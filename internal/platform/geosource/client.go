package geosource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/weiwei-tsao/state-stats-dashboard/pkg/model"
)

// ErrDisabled signals that no feature URL is configured.
var ErrDisabled = errors.New("feature source disabled")

// HTTPClient matches net/http.Client Do signature for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config defines settings for the feature source client.
type Config struct {
	URL        string
	TTL        time.Duration
	MaxRetries int
	Backoff    time.Duration
	MaxBytes   int64
	// OnFetch is told the outcome of every lookup: hit, miss, stale or error.
	OnFetch func(result string)
}

// Client fetches the shape file once and serves it from memory until the TTL passes.
type Client struct {
	url        string
	httpClient HTTPClient
	ttl        time.Duration
	maxRetries int
	backoff    time.Duration
	maxBytes   int64
	onFetch    func(string)
	now        func() time.Time

	mu        sync.RWMutex
	features  []model.Feature
	fetchedAt time.Time
}

// New creates a feature source client.
func New(httpClient HTTPClient, cfg Config) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	backoff := cfg.Backoff
	if backoff <= 0 {
		backoff = 200 * time.Millisecond
	}
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = 32 << 20
	}
	onFetch := cfg.OnFetch
	if onFetch == nil {
		onFetch = func(string) {}
	}

	return &Client{
		url:        cfg.URL,
		httpClient: httpClient,
		ttl:        cfg.TTL,
		maxRetries: maxRetries,
		backoff:    backoff,
		maxBytes:   maxBytes,
		onFetch:    onFetch,
		now:        time.Now,
	}
}

// Enabled reports whether a feature URL is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.url != ""
}

// Features returns the cached feature set, fetching it when absent or expired.
// When a refresh fails and an older copy exists, the older copy is served.
func (c *Client) Features(ctx context.Context) ([]model.Feature, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}

	c.mu.RLock()
	if c.fresh() {
		out := slices.Clone(c.features)
		c.mu.RUnlock()
		c.onFetch("hit")
		return out, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fresh() {
		c.onFetch("hit")
		return slices.Clone(c.features), nil
	}

	features, err := c.fetch(ctx)
	if err != nil {
		if c.features != nil {
			c.onFetch("stale")
			return slices.Clone(c.features), nil
		}
		c.onFetch("error")
		return nil, err
	}
	c.onFetch("miss")
	c.features = features
	c.fetchedAt = c.now()
	return slices.Clone(features), nil
}

// fresh must be called with mu held.
func (c *Client) fresh() bool {
	if c.features == nil {
		return false
	}
	return c.ttl <= 0 || c.now().Sub(c.fetchedAt) < c.ttl
}

func (c *Client) fetch(ctx context.Context) ([]model.Feature, error) {
	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.backoff * time.Duration(attempt)):
			}
		}

		features, retry, err := c.fetchOnce(ctx)
		if err == nil {
			return features, nil
		}
		lastErr = err
		if !retry {
			break
		}
	}
	return nil, fmt.Errorf("fetch features from %s: %w", c.url, lastErr)
}

func (c *Client) fetchOnce(ctx context.Context) ([]model.Feature, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, ctx.Err() == nil, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		retry := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
		return nil, retry, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	features, err := Decode(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		return nil, false, err
	}
	return features, false, nil
}
