// Command validate checks a saved DONKI event dump (for example one written by
// snapshot -raw) before it is used as a test fixture. It verifies record
// shape, timestamps, the simulation structure the impact extractor walks, and
// that every record renders completely.
//
// Usage:
//
//	go run ./cmd/validate -file internal/dashboard/testdata/cme_sample.json
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ecsitomi/donki-dashboard/internal/domain"
)

// phase tracks pass/fail for a validation phase. Warnings describe data the
// dashboard tolerates but skips.
type phase struct {
	name     string
	errors   []string
	warnings []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) warnf(format string, args ...any) {
	p.warnings = append(p.warnings, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	file := flag.String("file", "", "path to a JSON array of DONKI events")
	flag.Parse()

	if *file == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*file, os.Stdout); code != 0 {
		os.Exit(code)
	}
}

func run(path string, out io.Writer) int {
	fmt.Fprintln(out, "=== DONKI Event Dump Validation ===")
	fmt.Fprintln(out)

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(out, "FATAL: read %s: %v\n", path, err)
		return 1
	}
	v, err := domain.DecodeValue(data)
	if err != nil {
		fmt.Fprintf(out, "FATAL: decode %s: %v\n", path, err)
		return 1
	}
	items, ok := v.([]any)
	if !ok {
		fmt.Fprintf(out, "FATAL: %s is not a JSON array\n", path)
		return 1
	}

	shape, events := validateShape(items)
	phases := []*phase{
		shape,
		validateTimestamps(events),
		validateSimulations(events),
		validateRendering(events),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-42s %s\n", p.name, status)
	}

	impacts := domain.ExtractImpacts(events)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Records: %d, Earth impacts: %d, other impacts: %d\n",
		len(events), len(impacts.Earth), len(impacts.Other))

	for _, p := range phases {
		if len(p.errors) == 0 && len(p.warnings) == 0 {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
		for _, w := range p.warnings {
			fmt.Fprintf(out, "  warning: %s\n", w)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(out, "\nValidation FAILED.")
	return 1
}

// ── Phase 1: Record Shape ──

func validateShape(items []any) (*phase, []domain.Event) {
	p := &phase{name: "Phase 1: Record Shape"}
	events := make([]domain.Event, 0, len(items))
	seen := make(map[string]int)

	for i, item := range items {
		obj, ok := item.(*domain.Object)
		if !ok {
			p.errorf("record %d: not an object (%T)", i, item)
			continue
		}
		e := domain.NewEvent(obj)
		events = append(events, e)

		id, ok := e.Text("activityID")
		if !ok || id == "" {
			p.errorf("record %d: activityID missing or not text", i)
			continue
		}
		if prev, dup := seen[id]; dup {
			p.errorf("record %d: duplicate activityID %s (first at %d)", i, id, prev)
		}
		seen[id] = i
	}
	return p, events
}

// ── Phase 2: Timestamps ──
// The daily series buckets on the first ten characters of startTime or peakTime.

func validateTimestamps(events []domain.Event) *phase {
	p := &phase{name: "Phase 2: Timestamps"}
	for _, e := range events {
		ts := domain.RepresentativeTime(e)
		if ts == "" {
			p.warnf("%s: no startTime or peakTime, left out of the daily series", e.ActivityID())
			continue
		}
		if _, err := time.Parse(domain.DateLayout, domain.RepresentativeDate(e)); err != nil {
			p.errorf("%s: %q does not start with a YYYY-MM-DD date", e.ActivityID(), ts)
		}
	}
	return p
}

// ── Phase 3: Simulations ──

func validateSimulations(events []domain.Event) *phase {
	p := &phase{name: "Phase 3: Simulations (cmeAnalyses/enlilList)"}
	for _, e := range events {
		id := e.ActivityID()
		for ai, analysis := range e.List("cmeAnalyses") {
			a, ok := analysis.(*domain.Object)
			if !ok {
				p.warnf("%s: cmeAnalyses[%d] is not an object and is skipped", id, ai)
				continue
			}
			for si, sim := range a.List("enlilList") {
				s, ok := sim.(*domain.Object)
				if !ok {
					p.warnf("%s: enlilList[%d] is not an object and is skipped", id, si)
					continue
				}
				checkSimulation(p, id, si, s)
			}
		}
	}
	return p
}

func checkSimulation(p *phase, id string, si int, sim *domain.Object) {
	if v, ok := sim.Get("isEarthGB"); ok && v != nil {
		if _, isBool := v.(bool); !isBool {
			p.errorf("%s: enlilList[%d].isEarthGB is %T, want bool", id, si, v)
		}
	}
	for ii, impact := range sim.List("impactList") {
		obj, ok := impact.(*domain.Object)
		if !ok {
			p.warnf("%s: enlilList[%d].impactList[%d] is not an object and is skipped", id, si, ii)
			continue
		}
		if _, ok := obj.Text("location"); !ok {
			p.warnf("%s: enlilList[%d].impactList[%d] has no location", id, si, ii)
		}
		if _, ok := obj.Text("arrivalTime"); !ok {
			p.warnf("%s: enlilList[%d].impactList[%d] has no arrivalTime", id, si, ii)
		}
	}
}

// ── Phase 4: Rendering ──

func validateRendering(events []domain.Event) *phase {
	p := &phase{name: "Phase 4: Rendering"}
	for _, e := range events {
		lines := domain.RenderEvent(e)
		top := make(map[string]domain.Line)
		for _, l := range lines {
			if l.Depth == 0 {
				if _, ok := top[l.Key]; !ok {
					top[l.Key] = l
				}
			}
		}
		for _, key := range e.Keys() {
			l, ok := top[key]
			if !ok {
				p.errorf("%s: key %q not rendered", e.ActivityID(), key)
				continue
			}
			v, _ := e.Get(key)
			if _, isText := v.(string); isText && strings.Contains(strings.ToLower(key), "link") && l.Kind != domain.LineLink {
				p.errorf("%s: key %q rendered as plain text, want a link", e.ActivityID(), key)
			}
		}
	}
	return p
}
