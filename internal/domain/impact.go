package domain

import "slices"

// earthLocation is the impactList location name DONKI uses for Earth.
const earthLocation = "Earth"

// Impact is a predicted arrival of a CME at a location.
type Impact struct {
	Location string `json:"location"`
	Arrival  string `json:"arrival"`
	EventID  string `json:"event_id"`
}

// Impacts splits predicted arrivals into Earth-directed and other-body lists,
// each in encounter order.
type Impacts struct {
	Earth []Impact `json:"earth"`
	Other []Impact `json:"other"`
}

// Latest returns a copy with both lists reversed, most recently encountered first.
func (i Impacts) Latest() Impacts {
	earth := slices.Clone(i.Earth)
	other := slices.Clone(i.Other)
	slices.Reverse(earth)
	slices.Reverse(other)
	return Impacts{Earth: earth, Other: other}
}

// ExtractImpacts walks cmeAnalyses[].enlilList[].impactList[] of every event.
//
// A simulation whose isEarthGB flag is exactly true contributes one Earth
// impact per impact entry located at "Earth". Any other simulation contributes
// every impact entry as an other-body impact. Entries that are not objects
// are skipped; missing fields become NotAvailable.
func ExtractImpacts(events []Event) Impacts {
	var out Impacts
	for _, e := range events {
		eventID := e.ActivityID()
		for _, analysis := range objects(e.List("cmeAnalyses")) {
			for _, sim := range objects(analysis.List("enlilList")) {
				impacts := objects(sim.List("impactList"))
				if isEarthGlancingBlow(sim) {
					out.Earth = append(out.Earth, earthImpacts(impacts, eventID)...)
					continue
				}
				out.Other = append(out.Other, otherImpacts(impacts, eventID)...)
			}
		}
	}
	return out
}

func isEarthGlancingBlow(sim *Object) bool {
	v, _ := sim.Get("isEarthGB")
	b, ok := v.(bool)
	return ok && b
}

func earthImpacts(impacts []*Object, eventID string) []Impact {
	var out []Impact
	for _, impact := range impacts {
		if loc, _ := impact.Text("location"); loc != earthLocation {
			continue
		}
		arrival, _ := impact.Text("arrivalTime")
		if arrival == "" {
			arrival = NotAvailable
		}
		out = append(out, Impact{Location: earthLocation, Arrival: arrival, EventID: eventID})
	}
	return out
}

func otherImpacts(impacts []*Object, eventID string) []Impact {
	out := make([]Impact, 0, len(impacts))
	for _, impact := range impacts {
		out = append(out, Impact{
			Location: impact.TextOr("location", NotAvailable),
			Arrival:  impact.TextOr("arrivalTime", NotAvailable),
			EventID:  eventID,
		})
	}
	return out
}

// objects keeps the mapping elements of a sequence.
func objects(items []any) []*Object {
	out := make([]*Object, 0, len(items))
	for _, item := range items {
		if obj, ok := item.(*Object); ok && obj != nil {
			out = append(out, obj)
		}
	}
	return out
}
