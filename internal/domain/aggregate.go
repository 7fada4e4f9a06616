package domain

// DailyCount is the number of events whose representative date is Date.
type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// CountByDate tallies events by representative date. Events without a start
// or peak time are left out.
func CountByDate(events []Event) map[string]int {
	counts := make(map[string]int)
	for _, e := range events {
		if date := RepresentativeDate(e); date != "" {
			counts[date]++
		}
	}
	return counts
}

// AggregateDaily builds the daily series over every day of r, including
// days with no events. Counts for dates outside r are dropped.
func AggregateDaily(r DateRange, events []Event) []DailyCount {
	counts := CountByDate(events)
	dates := r.Dates()
	series := make([]DailyCount, len(dates))
	for i, date := range dates {
		series[i] = DailyCount{Date: date, Count: counts[date]}
	}
	return series
}

// TotalCount sums the counts of a series.
func TotalCount(series []DailyCount) int {
	total := 0
	for _, c := range series {
		total += c.Count
	}
	return total
}

// MaxCount returns the largest count in a series, or 0 for an empty series.
func MaxCount(series []DailyCount) int {
	peak := 0
	for _, c := range series {
		if c.Count > peak {
			peak = c.Count
		}
	}
	return peak
}
