package donki

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/ecsitomi/donki-dashboard/internal/domain"
	"github.com/ecsitomi/donki-dashboard/internal/observability"
)

// DefaultBaseURL is the public DONKI API root.
const DefaultBaseURL = "https://api.nasa.gov/DONKI"

// errNotArray marks a response body that decoded to something other than a JSON array.
var errNotArray = errors.New("response is not a JSON array")

// Client fetches event lists from the NASA DONKI API.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
	lastErr    atomic.Pointer[fetchFailure]
}

type fetchFailure struct {
	eventType domain.EventType
	err       error
}

// NewClient creates a DONKI client. An empty baseURL selects DefaultBaseURL.
func NewClient(apiKey, baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		metrics: metrics,
		logger:  logger,
	}
}

// FetchEvents returns the events of one type within r.
//
// Failures never reach the caller: a transport error, a non-2xx status, an
// undecodable body, or a body that is not a JSON array are logged and yield
// an empty slice. Array elements that are not objects are dropped.
func (c *Client) FetchEvents(ctx context.Context, eventType domain.EventType, r domain.DateRange) []domain.Event {
	start := time.Now()
	events, err := c.fetch(ctx, eventType, r)
	c.metrics.FetchDuration.WithLabelValues(string(eventType)).Observe(time.Since(start).Seconds())

	if err != nil {
		outcome := "error"
		if errors.Is(err, errNotArray) {
			outcome = "not_array"
		}
		c.metrics.FetchRequests.WithLabelValues(string(eventType), outcome).Inc()
		c.lastErr.Store(&fetchFailure{eventType: eventType, err: err})
		c.logger.Warn("fetch events failed",
			"type", eventType,
			"start_date", r.StartDate(),
			"end_date", r.EndDate(),
			"error", err,
		)
		return []domain.Event{}
	}

	c.metrics.FetchRequests.WithLabelValues(string(eventType), "success").Inc()
	c.metrics.EventsFetched.WithLabelValues(string(eventType)).Add(float64(len(events)))
	c.lastErr.Store(nil)
	c.logger.Debug("fetched events",
		"type", eventType,
		"start_date", r.StartDate(),
		"end_date", r.EndDate(),
		"count", len(events),
	)
	return events
}

// FetchCME returns coronal mass ejections within r.
func (c *Client) FetchCME(ctx context.Context, r domain.DateRange) []domain.Event {
	return c.FetchEvents(ctx, domain.EventTypeCME, r)
}

// FetchFLR returns solar flares within r.
func (c *Client) FetchFLR(ctx context.Context, r domain.DateRange) []domain.Event {
	return c.FetchEvents(ctx, domain.EventTypeFLR, r)
}

// FetchGST returns geomagnetic storms within r.
func (c *Client) FetchGST(ctx context.Context, r domain.DateRange) []domain.Event {
	return c.FetchEvents(ctx, domain.EventTypeGST, r)
}

// LastFetchError reports the most recent fetch failure, or nil if the last
// request succeeded. It describes upstream health only and never gates readiness.
func (c *Client) LastFetchError() error {
	if f := c.lastErr.Load(); f != nil {
		return fmt.Errorf("last %s fetch failed: %w", f.eventType, f.err)
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, eventType domain.EventType, r domain.DateRange) ([]domain.Event, error) {
	params := url.Values{
		"startDate": {r.StartDate()},
		"endDate":   {r.EndDate()},
		"api_key":   {c.apiKey},
	}
	u := fmt.Sprintf("%s/%s?%s", c.baseURL, url.PathEscape(string(eventType)), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", eventType, redactKey(err, c.apiKey))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	// An error status is a failure even if the body is a JSON array.
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("donki API error: status %d: %s", resp.StatusCode, truncate(body, 256))
	}

	// DONKI answers an empty range with an empty body rather than "[]".
	if len(strings.TrimSpace(string(body))) == 0 {
		return []domain.Event{}, nil
	}

	v, err := domain.DecodeValue(body)
	if err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: got %T", errNotArray, v)
	}

	events := make([]domain.Event, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(*domain.Object); ok {
			events = append(events, domain.NewEvent(obj))
		}
	}
	return events, nil
}

// redactKey strips the API key from errors that echo the request URL.
func redactKey(err error, key string) error {
	if key == "" || !strings.Contains(err.Error(), key) {
		return err
	}
	return errors.New(strings.ReplaceAll(err.Error(), key, "REDACTED"))
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
