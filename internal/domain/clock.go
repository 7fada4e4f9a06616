package domain

import "github.com/jonboulle/clockwork"

// clock is the package-level time source used to resolve "today".
// Production code uses the real clock; tests inject a fake for deterministic ranges.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source for date range calculation. Pass nil to reset to real time.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
