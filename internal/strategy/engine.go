package strategy

import (
	"github.com/StaryMuz/elektrina-monitor/internal/calculator"
	"github.com/StaryMuz/elektrina-monitor/internal/model"
)

// SelectBelow returns the hours priced strictly below limit, in series order.
// A price equal to the limit does not count.
func SelectBelow(series model.PriceSeries, limit float64) []int {
	var hours []int
	for _, r := range series.Rows {
		if r.Price < limit {
			hours = append(hours, r.Hour)
		}
	}
	return hours
}

// Evaluate builds the day's report from a filtered series.
// It returns model.ErrEmptyDataset when the series has no rows.
func Evaluate(series model.PriceSeries, limit float64) (*model.Report, error) {
	if series.Len() == 0 {
		return nil, model.ErrEmptyDataset
	}

	// Step a: hours under the limit
	below := SelectBelow(series, limit)

	// Step b: merge into contiguous intervals
	intervals := calculator.MergeHours(below)

	return &model.Report{
		Day:       series.Day,
		Threshold: limit,
		Intervals: intervals,
		Series:    series,
		Stats:     Summarize(series),
	}, nil
}
