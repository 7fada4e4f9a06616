package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/ecsitomi/donki-dashboard/internal/dashboard"
	"github.com/ecsitomi/donki-dashboard/internal/domain"
	"gopkg.in/yaml.v3"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// barScale caps the width of the longest text chart bar.
const barScale = 40

// snapshot is the serializable form of a dashboard page.
type snapshot struct {
	Caption      string              `json:"caption" yaml:"caption"`
	Type         domain.EventType    `json:"type" yaml:"type"`
	Start        string              `json:"start" yaml:"start"`
	End          string              `json:"end" yaml:"end"`
	EventCount   int                 `json:"event_count" yaml:"event_count"`
	Notice       string              `json:"notice,omitempty" yaml:"notice,omitempty"`
	Series       []domain.DailyCount `json:"series" yaml:"series"`
	EarthImpacts []domain.Impact     `json:"earth_impacts" yaml:"earth_impacts"`
	OtherImpacts []domain.Impact     `json:"other_impacts" yaml:"other_impacts"`
	Events       []eventSnapshot     `json:"events" yaml:"events"`
}

type eventSnapshot struct {
	Title   string         `json:"title" yaml:"title"`
	Summary domain.Summary `json:"summary" yaml:"summary"`
	Lines   []string       `json:"lines" yaml:"lines"`
}

func newSnapshot(p dashboard.Page) snapshot {
	s := snapshot{
		Caption:      p.Caption(),
		Type:         p.Selection.Type,
		Start:        p.Range.StartDate(),
		End:          p.Range.EndDate(),
		EventCount:   len(p.Events),
		Series:       orEmpty(p.Series),
		EarthImpacts: orEmpty(p.Impacts.Earth),
		OtherImpacts: orEmpty(p.Impacts.Other),
		Events:       make([]eventSnapshot, 0, len(p.Panels)),
	}
	if p.Empty() {
		s.Notice = p.NoEventsNotice()
	}
	for _, panel := range p.Panels {
		lines := make([]string, len(panel.Lines))
		for i, l := range panel.Lines {
			lines[i] = l.Text()
		}
		s.Events = append(s.Events, eventSnapshot{
			Title:   p.PanelTitle(panel),
			Summary: panel.Summary,
			Lines:   lines,
		})
	}
	return s
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func formatter(name string) (func(io.Writer, snapshot) error, error) {
	switch strings.ToLower(name) {
	case formatText:
		return writeText, nil
	case formatJSON:
		return func(w io.Writer, s snapshot) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(s)
		}, nil
	case formatYAML:
		return func(w io.Writer, s snapshot) error {
			enc := yaml.NewEncoder(w)
			enc.SetIndent(2)
			if err := enc.Encode(s); err != nil {
				return err
			}
			return enc.Close()
		}, nil
	default:
		return nil, fmt.Errorf("unknown format %q", name)
	}
}

func writeText(w io.Writer, s snapshot) error {
	var b strings.Builder

	fmt.Fprintln(&b, s.Caption)

	fmt.Fprintln(&b, "\n🌍 Earth Impacts")
	if len(s.EarthImpacts) == 0 {
		fmt.Fprintln(&b, "  No Earth-directed impacts found.")
	}
	for _, i := range s.EarthImpacts {
		fmt.Fprintf(&b, "  Earth: %s\n", i.Arrival)
	}

	fmt.Fprintln(&b, "\n🪐 Other Impacts")
	if len(s.OtherImpacts) == 0 {
		fmt.Fprintln(&b, "  No other planetary impacts found.")
	}
	for _, i := range s.OtherImpacts {
		fmt.Fprintf(&b, "  %s: %s\n", i.Location, i.Arrival)
	}

	if s.Notice != "" {
		fmt.Fprintf(&b, "\n%s\n", s.Notice)
		_, err := io.WriteString(w, b.String())
		return err
	}

	fmt.Fprintln(&b, "\n📊 Event Distribution Over Time")
	peak := domain.MaxCount(s.Series)
	for _, c := range s.Series {
		width := 0
		if peak > 0 {
			width = c.Count * barScale / peak
		}
		fmt.Fprintf(&b, "  %s %-*s %d\n", c.Date, barScale, strings.Repeat("█", width), c.Count)
	}

	for _, e := range s.Events {
		fmt.Fprintf(&b, "\n📡 %s\n", e.Title)
		for _, l := range e.Lines {
			fmt.Fprintf(&b, "  %s\n", l)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
