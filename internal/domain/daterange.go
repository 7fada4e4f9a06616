package domain

import "time"

// DateLayout is the calendar date format used by the DONKI API and the daily series.
const DateLayout = "2006-01-02"

// DateRange is an inclusive span of UTC calendar dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange returns the range of the given number of days ending today (UTC).
// days is expected to be in [1, 365]; callers enforce the bound.
func NewDateRange(days int) DateRange {
	end := today()
	return DateRange{
		Start: end.AddDate(0, 0, -(days - 1)),
		End:   end,
	}
}

func today() time.Time {
	y, m, d := clock.Now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// StartDate formats the first day as YYYY-MM-DD.
func (r DateRange) StartDate() string { return r.Start.Format(DateLayout) }

// EndDate formats the last day as YYYY-MM-DD.
func (r DateRange) EndDate() string { return r.End.Format(DateLayout) }

// Days returns the number of calendar days in the range, or 0 if End precedes Start.
func (r DateRange) Days() int {
	n := int(r.End.Sub(r.Start).Hours()/24) + 1
	if n < 0 {
		return 0
	}
	return n
}

// Dates lists every day in the range in ascending order.
func (r DateRange) Dates() []string {
	dates := make([]string, 0, r.Days())
	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(DateLayout))
	}
	return dates
}

// Contains reports whether a YYYY-MM-DD date falls inside the range.
func (r DateRange) Contains(date string) bool {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return false
	}
	return !t.Before(r.Start) && !t.After(r.End)
}
