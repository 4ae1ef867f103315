package model

import "time"

// Interval is a closed run of consecutive hours [Start, End].
type Interval struct {
	Start int
	End   int
}

// Len returns the number of hours covered.
func (iv Interval) Len() int { return iv.End - iv.Start + 1 }

// Hours expands the interval into its member hours.
func (iv Interval) Hours() []int {
	hours := make([]int, 0, iv.Len())
	for h := iv.Start; h <= iv.End; h++ {
		hours = append(hours, h)
	}
	return hours
}

// SeriesStats summarises one day's prices.
type SeriesStats struct {
	Min     float64
	MinHour int
	Max     float64
	MaxHour int
	Mean    float64
}

// Report is the outcome of checking one day against the price limit.
// No intervals means every hour was at or above the limit.
type Report struct {
	Day       time.Time
	Threshold float64
	Intervals []Interval
	Series    PriceSeries
	Stats     SeriesStats
}

// Below reports whether at least one hour was priced under the limit.
func (r *Report) Below() bool { return len(r.Intervals) > 0 }

// BelowHours counts the hours priced under the limit.
func (r *Report) BelowHours() int {
	n := 0
	for _, iv := range r.Intervals {
		n += iv.Len()
	}
	return n
}
