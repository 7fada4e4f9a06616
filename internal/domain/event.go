package domain

import (
	"fmt"
	"strings"
)

// NotAvailable is the placeholder shown for absent fields in derived records.
const NotAvailable = "N/A"

// EventType identifies a DONKI event category and its API path segment.
type EventType string

const (
	EventTypeCME EventType = "CME"
	EventTypeFLR EventType = "FLR"
	EventTypeGST EventType = "GST"
)

// EventTypes lists the supported event types in selector order.
var EventTypes = []EventType{EventTypeCME, EventTypeFLR, EventTypeGST}

// ParseEventType validates an event type tag. Matching is case-insensitive.
func ParseEventType(s string) (EventType, error) {
	switch t := EventType(strings.ToUpper(strings.TrimSpace(s))); t {
	case EventTypeCME, EventTypeFLR, EventTypeGST:
		return t, nil
	default:
		return "", fmt.Errorf("unknown event type %q", s)
	}
}

// Event is a single DONKI record. No schema is enforced; fields are read
// through the Object accessors.
type Event struct {
	*Object
}

// NewEvent wraps an Object as an Event. A nil object yields an empty event.
func NewEvent(obj *Object) Event {
	if obj == nil {
		obj = NewObject()
	}
	return Event{Object: obj}
}

// UnmarshalJSON decodes an event, preserving field order.
func (e *Event) UnmarshalJSON(data []byte) error {
	obj := NewObject()
	if err := obj.UnmarshalJSON(data); err != nil {
		return err
	}
	e.Object = obj
	return nil
}

// MarshalJSON encodes the event with fields in their original order.
func (e Event) MarshalJSON() ([]byte, error) {
	return e.Object.MarshalJSON()
}

// ActivityID returns the DONKI activity identifier, or NotAvailable.
func (e Event) ActivityID() string {
	return e.TextOr("activityID", NotAvailable)
}

// RepresentativeTime returns the first non-empty of startTime and peakTime,
// or "" when the event has neither.
func RepresentativeTime(e Event) string {
	if s, _ := e.Text("startTime"); s != "" {
		return s
	}
	if s, _ := e.Text("peakTime"); s != "" {
		return s
	}
	return ""
}

// RepresentativeDate truncates the representative time to its first ten
// characters. The value is expected to be "YYYY-MM-DD" but is not validated.
func RepresentativeDate(e Event) string {
	t := RepresentativeTime(e)
	if len(t) > 10 {
		return t[:10]
	}
	return t
}

// Summary is the short headline of an event.
type Summary struct {
	StartTime      string `json:"start_time,omitempty"`
	SourceLocation string `json:"source_location,omitempty"`
	Note           string `json:"note,omitempty"`
	Link           string `json:"link,omitempty"`
}

// Summarize extracts the headline fields shown above an event's details.
// Absent or non-text fields are left empty.
func Summarize(e Event) Summary {
	return Summary{
		StartTime:      e.TextOr("startTime", ""),
		SourceLocation: e.TextOr("sourceLocation", ""),
		Note:           e.TextOr("note", ""),
		Link:           e.TextOr("link", ""),
	}
}
