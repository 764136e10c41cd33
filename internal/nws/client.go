// Package nws is a client for the api.weather.gov alert endpoints.
package nws

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/hailscout/hailscout/internal/metrics"
	"github.com/hailscout/hailscout/internal/models"
)

const (
	DefaultBaseURL = "https://api.weather.gov"

	// requestTimeout bounds one upstream request. A timeout is treated the
	// same as any other per-zone failure: skip and continue.
	requestTimeout = 15 * time.Second

	// maxRetries bounds rate-limit retries for one URL before the caller
	// skips that zone.
	maxRetries = 3

	// defaultRetryAfter applies when a 429 carries no Retry-After header.
	defaultRetryAfter = 5 * time.Second

	// maxRetryAfter caps how long a server-specified backoff is honored.
	maxRetryAfter = 60 * time.Second
)

// Client fetches raw alerts from the NWS API. The NWS requires every client
// to identify itself with a contact label in the User-Agent.
type Client struct {
	baseURL   string
	userAgent string
	client    *http.Client
	logger    *slog.Logger
}

func NewClient(contact string, logger *slog.Logger) *Client {
	return &Client{
		baseURL:   DefaultBaseURL,
		userAgent: fmt.Sprintf("hailscout/1.0 (%s)", contact),
		client:    &http.Client{Timeout: requestTimeout},
		logger:    logger,
	}
}

// SetBaseURL overrides the upstream endpoint, for tests.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = u
}

// ActiveAlertsForZone returns the currently active alerts for one forecast zone.
func (c *Client) ActiveAlertsForZone(ctx context.Context, zoneID string) ([]models.RawAlert, error) {
	u := fmt.Sprintf("%s/alerts/active?zone=%s", c.baseURL, url.QueryEscape(zoneID))
	return c.fetchAlerts(ctx, u, "active_zone")
}

// AlertsForArea returns all alerts tagged to a state over the upstream's
// retention horizon. Broader and slower than the per-zone endpoint; callers
// filter the result locally.
func (c *Client) AlertsForArea(ctx context.Context, area string) ([]models.RawAlert, error) {
	u := fmt.Sprintf("%s/alerts?area=%s", c.baseURL, url.QueryEscape(area))
	return c.fetchAlerts(ctx, u, "area")
}

func (c *Client) fetchAlerts(ctx context.Context, u, endpoint string) ([]models.RawAlert, error) {
	var body []byte
	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("create request: %w", err))
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/geo+json")

		resp, err := c.client.Do(req)
		if err != nil {
			metrics.NWSAPICallsTotal.WithLabelValues(endpoint, "error").Inc()
			return fmt.Errorf("fetch alerts: %w", err)
		}
		defer resp.Body.Close()
		metrics.NWSAPICallsTotal.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Inc()

		if resp.StatusCode == http.StatusTooManyRequests {
			wait := retryAfter(resp)
			c.logger.Warn("nws rate limited", "endpoint", endpoint, "retry_after", wait)
			if !sleepCtx(ctx, wait) {
				return backoff.Permanent(ctx.Err())
			}
			return fmt.Errorf("rate limited: status %d", resp.StatusCode)
		}
		if resp.StatusCode >= 500 {
			return fmt.Errorf("fetch alerts: status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			b, _ := io.ReadAll(resp.Body)
			return backoff.Permanent(fmt.Errorf("fetch alerts: status %d: %s", resp.StatusCode, string(b)))
		}

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("read body: %w", err)
		}
		return nil
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxRetries), ctx)
	if err := backoff.Retry(operation, bo); err != nil {
		return nil, err
	}

	var feed alertFeed
	if err := json.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("decode alert feed: %w", err)
	}

	alerts := make([]models.RawAlert, 0, len(feed.Features))
	for _, f := range feed.Features {
		alerts = append(alerts, toRawAlert(f))
	}
	return alerts, nil
}

// retryAfter reads the server-specified backoff, falling back to a default
// and capping pathological values.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return defaultRetryAfter
	}
	secs, err := strconv.Atoi(h)
	if err != nil || secs <= 0 {
		return defaultRetryAfter
	}
	d := time.Duration(secs) * time.Second
	if d > maxRetryAfter {
		return maxRetryAfter
	}
	return d
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
