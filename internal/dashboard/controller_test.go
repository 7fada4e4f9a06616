package dashboard_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/url"
	"testing"
	"time"

	"github.com/ecsitomi/donki-dashboard/internal/dashboard"
	"github.com/ecsitomi/donki-dashboard/internal/domain"
	"github.com/ecsitomi/donki-dashboard/internal/observability"
	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockFetcher struct {
	events []domain.Event
	calls  []fetchCall
}

type fetchCall struct {
	eventType domain.EventType
	r         domain.DateRange
}

func (m *mockFetcher) FetchEvents(_ context.Context, eventType domain.EventType, r domain.DateRange) []domain.Event {
	m.calls = append(m.calls, fetchCall{eventType: eventType, r: r})
	return m.events
}

type mockPublisher struct {
	err       error
	published []domain.Event
	eventType domain.EventType
}

func (m *mockPublisher) Publish(_ context.Context, eventType domain.EventType, events []domain.Event, _ time.Time) error {
	if m.err != nil {
		return m.err
	}
	m.eventType = eventType
	m.published = append(m.published, events...)
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func freezeClock(t *testing.T, at time.Time) {
	t.Helper()
	domain.SetClock(clockwork.NewFakeClockAt(at))
	t.Cleanup(func() {
		domain.SetClock(nil)
	})
}

// --- tests ---

func TestController_Build_EndToEnd(t *testing.T) {
	freezeClock(t, time.Date(2024, time.January, 3, 12, 0, 0, 0, time.UTC))

	fetcher := &mockFetcher{events: decodeEvents(t, `[
		{"activityID":"a-CME-001","startTime":"2024-01-01T10:00:00Z"},
		{"activityID":"b-CME-001","startTime":"2024-01-01T14:00:00Z"},
		{"activityID":"c-CME-001"}
	]`)}
	metrics := observability.NewMetricsForTesting()
	c := dashboard.New(fetcher, nil, discardLogger(), metrics)

	page := c.Build(context.Background(), dashboard.Selection{Days: 3, Type: domain.EventTypeCME})

	require.Len(t, fetcher.calls, 1)
	assert.Equal(t, domain.EventTypeCME, fetcher.calls[0].eventType)
	assert.Equal(t, "2024-01-01", fetcher.calls[0].r.StartDate())
	assert.Equal(t, "2024-01-03", fetcher.calls[0].r.EndDate())

	want := []domain.DailyCount{
		{Date: "2024-01-01", Count: 2},
		{Date: "2024-01-02", Count: 0},
		{Date: "2024-01-03", Count: 0},
	}
	if diff := cmp.Diff(want, page.Series); diff != "" {
		t.Fatalf("series mismatch (-want +got):\n%s", diff)
	}

	assert.False(t, page.Empty())
	assert.Equal(t, "Showing CME events from 2024-01-01 to 2024-01-03", page.Caption())
	assert.Equal(t, 60, page.ChartWidth())

	ids := make([]string, 0, len(page.Panels))
	for _, p := range page.Panels {
		ids = append(ids, p.ShortID)
	}
	assert.Equal(t, []string{"b", "a", "c"}, ids, "newest first, untimed last")
	assert.Equal(t, "CME #1 – b", page.PanelTitle(page.Panels[0]))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Renders.WithLabelValues("CME", "events")))
}

func TestController_Build_NoEvents(t *testing.T) {
	fetcher := &mockFetcher{events: []domain.Event{}}
	metrics := observability.NewMetricsForTesting()
	pub := &mockPublisher{}
	c := dashboard.New(fetcher, pub, discardLogger(), metrics)

	page := c.Build(context.Background(), dashboard.Selection{Days: 30, Type: domain.EventTypeGST})

	assert.True(t, page.Empty())
	assert.Equal(t, "No GST events found.", page.NoEventsNotice())
	assert.Empty(t, page.Series)
	assert.Empty(t, page.Panels)
	assert.Empty(t, page.Impacts.Earth)
	assert.Empty(t, pub.published, "nothing to publish")
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Renders.WithLabelValues("GST", "empty")))
}

func TestController_Build_Publishes(t *testing.T) {
	events := decodeEvents(t, `[{"activityID":"x","peakTime":"2024-01-01T00:00Z"}]`)
	metrics := observability.NewMetricsForTesting()
	pub := &mockPublisher{}
	c := dashboard.New(&mockFetcher{events: events}, pub, discardLogger(), metrics)

	c.Build(context.Background(), dashboard.Selection{Days: 7, Type: domain.EventTypeFLR})

	assert.Equal(t, domain.EventTypeFLR, pub.eventType)
	assert.Len(t, pub.published, 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.PublishedEvents))
}

func TestController_Build_PublishFailureDoesNotAffectPage(t *testing.T) {
	events := decodeEvents(t, `[{"activityID":"x","peakTime":"2024-01-01T00:00Z"}]`)
	metrics := observability.NewMetricsForTesting()
	pub := &mockPublisher{err: errors.New("broker down")}
	c := dashboard.New(&mockFetcher{events: events}, pub, discardLogger(), metrics)

	page := c.Build(context.Background(), dashboard.Selection{Days: 7, Type: domain.EventTypeFLR})

	assert.Len(t, page.Panels, 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.PublishErrors))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.PublishedEvents))
}

type failingFetcher struct {
	mockFetcher
	err error
}

func (f *failingFetcher) LastFetchError() error { return f.err }

func TestController_ReadinessIgnoresUpstream(t *testing.T) {
	fetcher := &failingFetcher{err: errors.New("status 429")}
	c := dashboard.New(fetcher, nil, discardLogger(), observability.NewMetricsForTesting())

	page := c.Build(context.Background(), dashboard.Selection{Days: 1, Type: domain.EventTypeCME})

	assert.True(t, page.Empty())
	assert.NoError(t, c.CheckReadiness(context.Background()))
	assert.EqualError(t, c.UpstreamError(), "status 429")

	fetcher.err = nil
	assert.NoError(t, c.UpstreamError())
}

func TestController_UpstreamErrorWithoutReporter(t *testing.T) {
	c := dashboard.New(&mockFetcher{}, nil, discardLogger(), observability.NewMetricsForTesting())
	assert.NoError(t, c.UpstreamError())
}

func TestSortNewestFirst(t *testing.T) {
	events := decodeEvents(t, `[
		{"activityID":"none"},
		{"activityID":"peak","peakTime":"2024-01-02T00:00Z"},
		{"activityID":"start","startTime":"2024-01-03T00:00Z","peakTime":"2023-01-01T00:00Z"},
		{"activityID":"tie-1","startTime":"2024-01-01T00:00Z"},
		{"activityID":"tie-2","startTime":"2024-01-01T00:00Z"},
		{"activityID":"none-2","startTime":""}
	]`)

	sorted := dashboard.SortNewestFirst(events)

	got := make([]string, 0, len(sorted))
	for _, e := range sorted {
		got = append(got, e.ActivityID())
	}
	assert.Equal(t, []string{"start", "peak", "tie-1", "tie-2", "none", "none-2"}, got)
	assert.Equal(t, "none", events[0].ActivityID(), "input is not reordered")
}

func TestShortID(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"cme suffix", `{"activityID":"2024-05-10T06:36:00-CME-001"}`, "2024-05-10T06:36:00"},
		{"text after suffix", `{"activityID":"2024-05-10T06:36:00-CME-001-extra"}`, "2024-05-10T06:36:00"},
		{"other suffix kept", `{"activityID":"2024-05-10T06:27:00-FLR-001"}`, "2024-05-10T06:27:00-FLR-001"},
		{"second cme kept", `{"activityID":"2024-05-10T06:36:00-CME-002"}`, "2024-05-10T06:36:00-CME-002"},
		{"absent", `{}`, domain.NotAvailable},
		{"not text", `{"activityID":42}`, domain.NotAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := decodeEvents(t, "["+tt.raw+"]")[0]
			assert.Equal(t, tt.want, dashboard.ShortID(e))
		})
	}
}

func TestParseSelection(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  dashboard.Selection
	}{
		{"defaults", "", dashboard.Selection{Days: 30, Type: domain.EventTypeCME}},
		{"explicit", "days=90&type=GST", dashboard.Selection{Days: 90, Type: domain.EventTypeGST}},
		{"lowercase type", "type=flr", dashboard.Selection{Days: 30, Type: domain.EventTypeFLR}},
		{"clamp low", "days=0", dashboard.Selection{Days: 1, Type: domain.EventTypeCME}},
		{"clamp high", "days=1000", dashboard.Selection{Days: 365, Type: domain.EventTypeCME}},
		{"invalid days", "days=lots", dashboard.Selection{Days: 30, Type: domain.EventTypeCME}},
		{"unknown type", "type=SEP", dashboard.Selection{Days: 30, Type: domain.EventTypeCME}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.want, dashboard.ParseSelection(q, 30))
		})
	}
}

func TestSelection_Query(t *testing.T) {
	sel := dashboard.Selection{Days: 14, Type: domain.EventTypeFLR}
	q, err := url.ParseQuery(sel.Query())
	require.NoError(t, err)
	assert.Equal(t, sel, dashboard.ParseSelection(q, 30))
}

// --- helpers ---

func decodeEvents(t *testing.T, raw string) []domain.Event {
	t.Helper()
	v, err := domain.DecodeValue([]byte(raw))
	require.NoError(t, err)
	items, ok := v.([]any)
	require.True(t, ok, "fixture must be a JSON array")

	events := make([]domain.Event, 0, len(items))
	for _, item := range items {
		obj, ok := item.(*domain.Object)
		require.True(t, ok, "fixture elements must be objects")
		events = append(events, domain.NewEvent(obj))
	}
	return events
}
