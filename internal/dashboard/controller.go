package dashboard

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/ecsitomi/donki-dashboard/internal/domain"
	"github.com/ecsitomi/donki-dashboard/internal/observability"
)

// shortIDSuffix is cut from activity IDs to form the panel title.
const shortIDSuffix = "-CME-001"

// Fetcher returns the events of one type within a date range. Implementations
// are fail-soft: an unavailable source yields an empty slice.
type Fetcher interface {
	FetchEvents(ctx context.Context, eventType domain.EventType, r domain.DateRange) []domain.Event
}

// UpstreamReporter is implemented by fetchers that remember their last failure.
type UpstreamReporter interface {
	LastFetchError() error
}

// Publisher forwards fetched events to a downstream feed.
type Publisher interface {
	Publish(ctx context.Context, eventType domain.EventType, events []domain.Event, fetchedAt time.Time) error
}

// Controller runs the fetch, extract, aggregate, and render pipeline for one selection.
type Controller struct {
	fetcher   Fetcher
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a Controller. Pass a nil publisher to disable the event feed.
func New(f Fetcher, p Publisher, logger *slog.Logger, metrics *observability.Metrics) *Controller {
	return &Controller{
		fetcher:   f,
		publisher: p,
		logger:    logger,
		metrics:   metrics,
	}
}

// CheckReadiness reports whether the controller can serve pages. It depends on
// process state only: an unavailable DONKI API yields empty pages, not an
// unready service.
func (c *Controller) CheckReadiness(_ context.Context) error {
	return nil
}

// UpstreamError returns the fetcher's most recent failure, or nil when the
// last fetch succeeded or the fetcher does not track failures.
func (c *Controller) UpstreamError() error {
	if r, ok := c.fetcher.(UpstreamReporter); ok {
		return r.LastFetchError()
	}
	return nil
}

// Build fetches the selected events and derives everything the page shows.
func (c *Controller) Build(ctx context.Context, sel Selection) Page {
	r := domain.NewDateRange(sel.Days)
	events := c.fetcher.FetchEvents(ctx, sel.Type, r)

	c.publish(ctx, sel.Type, events)

	sorted := SortNewestFirst(events)
	page := Page{
		Selection: sel,
		Range:     r,
		Events:    sorted,
		Impacts:   domain.ExtractImpacts(events).Latest(),
	}

	result := "empty"
	if len(events) > 0 {
		result = "events"
		page.Series = domain.AggregateDaily(r, events)
		page.Panels = buildPanels(sorted)
	}
	c.metrics.Renders.WithLabelValues(string(sel.Type), result).Inc()

	c.logger.Info("dashboard built",
		"type", sel.Type,
		"days", sel.Days,
		"start_date", r.StartDate(),
		"end_date", r.EndDate(),
		"events", len(events),
		"earth_impacts", len(page.Impacts.Earth),
		"other_impacts", len(page.Impacts.Other),
	)
	return page
}

// publish forwards events to the feed. Feed failures never affect the page.
func (c *Controller) publish(ctx context.Context, eventType domain.EventType, events []domain.Event) {
	if c.publisher == nil || len(events) == 0 {
		return
	}
	if err := c.publisher.Publish(ctx, eventType, events, time.Now().UTC()); err != nil {
		c.metrics.PublishErrors.Inc()
		c.logger.Warn("publish events failed", "type", eventType, "count", len(events), "error", err)
		return
	}
	c.metrics.PublishedEvents.Add(float64(len(events)))
}

func buildPanels(events []domain.Event) []Panel {
	panels := make([]Panel, len(events))
	for i, e := range events {
		panels[i] = Panel{
			Index:   i + 1,
			ShortID: ShortID(e),
			Summary: domain.Summarize(e),
			Lines:   domain.RenderEvent(e),
		}
	}
	return panels
}

// SortNewestFirst returns a copy of events ordered by representative time,
// newest first. Events without a timestamp sort last; ties keep their order.
func SortNewestFirst(events []domain.Event) []domain.Event {
	sorted := slices.Clone(events)
	slices.SortStableFunc(sorted, func(a, b domain.Event) int {
		return strings.Compare(domain.RepresentativeTime(b), domain.RepresentativeTime(a))
	})
	return sorted
}

// ShortID returns the activity ID with the "-CME-001" suffix and anything
// after it removed, or NotAvailable when the ID is absent or not text.
func ShortID(e domain.Event) string {
	id, ok := e.Text("activityID")
	if !ok {
		return domain.NotAvailable
	}
	before, _, _ := strings.Cut(id, shortIDSuffix)
	return before
}
