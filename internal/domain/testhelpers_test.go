package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// mustEvent decodes a JSON object literal into an Event.
func mustEvent(t *testing.T, raw string) Event {
	t.Helper()
	var e Event
	require.NoError(t, e.UnmarshalJSON([]byte(raw)))
	return e
}

func mustEvents(t *testing.T, raws ...string) []Event {
	t.Helper()
	events := make([]Event, 0, len(raws))
	for _, raw := range raws {
		events = append(events, mustEvent(t, raw))
	}
	return events
}
