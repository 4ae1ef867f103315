package calculator

import "github.com/StaryMuz/elektrina-monitor/internal/model"

// MergeHours collapses an ascending, duplicate-free list of hours into the
// minimal list of closed intervals covering exactly those hours. Consecutive
// hours share an interval; any gap starts a new one. No hours, no intervals.
func MergeHours(hours []int) []model.Interval {
	var (
		out  []model.Interval
		cur  model.Interval
		open bool
	)
	for _, h := range hours {
		switch {
		case !open:
			cur = model.Interval{Start: h, End: h}
			open = true
		case h == cur.End+1:
			cur.End = h
		default:
			out = append(out, cur)
			cur = model.Interval{Start: h, End: h}
		}
	}
	if open {
		out = append(out, cur)
	}
	return out
}

// ExpandIntervals returns the hours covered by the intervals, in order.
func ExpandIntervals(intervals []model.Interval) []int {
	var hours []int
	for _, iv := range intervals {
		hours = append(hours, iv.Hours()...)
	}
	return hours
}
