package dashboard

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/ecsitomi/donki-dashboard/internal/config"
	"github.com/ecsitomi/donki-dashboard/internal/domain"
)

// barWidth is the chart width allotted to one day, in pixels.
const barWidth = 20

// Selection is the user's choice of lookback window and event type.
type Selection struct {
	Days int              `json:"days"`
	Type domain.EventType `json:"type"`
}

// DefaultSelection is the CME view over the configured default window.
func DefaultSelection(defaultDays int) Selection {
	return Selection{Days: clampDays(defaultDays), Type: domain.EventTypeCME}
}

// ParseSelection reads "days" and "type" from query parameters. Days are
// clamped to [1, 365]; missing or invalid values fall back to the defaults.
func ParseSelection(q url.Values, defaultDays int) Selection {
	sel := DefaultSelection(defaultDays)
	if s := q.Get("days"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			sel.Days = clampDays(n)
		}
	}
	if s := q.Get("type"); s != "" {
		if t, err := domain.ParseEventType(s); err == nil {
			sel.Type = t
		}
	}
	return sel
}

// Query encodes the selection as URL query parameters.
func (s Selection) Query() string {
	return url.Values{
		"days": {strconv.Itoa(s.Days)},
		"type": {string(s.Type)},
	}.Encode()
}

func clampDays(n int) int {
	return min(max(n, config.MinWindowDays), config.MaxWindowDays)
}

// Panel is the expandable detail view of one event.
type Panel struct {
	Index   int
	ShortID string
	Summary domain.Summary
	Lines   []domain.Line
}

// Page is everything the dashboard shows for one selection.
type Page struct {
	Selection Selection
	Range     domain.DateRange
	Events    []domain.Event
	Series    []domain.DailyCount
	Impacts   domain.Impacts
	Panels    []Panel
}

// Empty reports whether no events were found. A failed fetch also yields an empty page.
func (p Page) Empty() bool {
	return len(p.Events) == 0
}

// Caption is the line describing the current selection.
func (p Page) Caption() string {
	return fmt.Sprintf("Showing %s events from %s to %s", p.Selection.Type, p.Range.StartDate(), p.Range.EndDate())
}

// NoEventsNotice is shown in place of the chart and list when the page is empty.
func (p Page) NoEventsNotice() string {
	return fmt.Sprintf("No %s events found.", p.Selection.Type)
}

// PanelTitle labels a detail panel, e.g. "CME #1 – 2024-05-10T06:36:00".
func (p Page) PanelTitle(panel Panel) string {
	return fmt.Sprintf("%s #%d – %s", p.Selection.Type, panel.Index, panel.ShortID)
}

// ChartWidth is the preferred chart width in pixels.
func (p Page) ChartWidth() int {
	return p.Selection.Days * barWidth
}
