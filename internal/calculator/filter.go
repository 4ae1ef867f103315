package calculator

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/StaryMuz/elektrina-monitor/internal/model"
)

// ParseHour coerces a raw hour cell to an integer. Decimal renderings such as
// "3.0" or "3,0" are truncated; anything else yields 0, which the filter drops.
func ParseHour(token string) int {
	s := compact(token)
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || math.IsNaN(v) || v < math.MinInt32 || v > math.MaxInt32 {
		return 0
	}
	return int(v)
}

// MaxHour is the last hour label of the longest day, the 25-hour day of the
// autumn clock change.
const MaxHour = 25

// Reasons a row is dropped by Partition.
const (
	DropNoPrice   = "no price"
	DropHourRange = "hour out of range"
	DropDuplicate = "duplicate hour"
)

// DroppedRow is a row the filter discarded, with the reason.
type DroppedRow struct {
	Row    model.PriceRow
	Reason string
}

// FilterRows drops rows without a price or with an hour outside 1..MaxHour,
// keeps the first row for a repeated hour and returns the rest in ascending
// hour order.
func FilterRows(rows []model.PriceRow) []model.PriceRow {
	kept, _ := Partition(rows)
	return kept
}

// Partition is FilterRows that also reports every discarded row in input order.
func Partition(rows []model.PriceRow) ([]model.PriceRow, []DroppedRow) {
	seen := make(map[int]bool, len(rows))
	kept := make([]model.PriceRow, 0, len(rows))
	var dropped []DroppedRow
	for _, r := range rows {
		switch {
		case !r.Valid:
			dropped = append(dropped, DroppedRow{Row: r, Reason: DropNoPrice})
		case r.Hour < 1 || r.Hour > MaxHour:
			dropped = append(dropped, DroppedRow{Row: r, Reason: DropHourRange})
		case seen[r.Hour]:
			dropped = append(dropped, DroppedRow{Row: r, Reason: DropDuplicate})
		default:
			seen[r.Hour] = true
			kept = append(kept, r)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Hour < kept[j].Hour })
	return kept, dropped
}
