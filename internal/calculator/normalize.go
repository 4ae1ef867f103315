package calculator

import (
	"math"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/StaryMuz/elektrina-monitor/internal/model"
)

// ParsePrice converts a locale-formatted price token such as "12,34" or
// "1 234,5" into a float. The second result is false when the token is not a
// finite number.
func ParsePrice(token string) (float64, bool) {
	s := compact(token)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Normalize maps every raw row to a PriceRow. Unparseable prices become
// invalid rows rather than errors so the filter can drop them.
func Normalize(raw []model.RawRow) []model.PriceRow {
	rows := make([]model.PriceRow, len(raw))
	for i, r := range raw {
		price, ok := ParsePrice(r.Price)
		rows[i] = model.PriceRow{
			Hour:  ParseHour(r.Hour),
			Price: price,
			Valid: ok,
		}
	}
	return rows
}

// compact folds compatibility characters (fullwidth digits, no-break spaces)
// and strips every space, so grouped thousands parse as one number.
func compact(token string) string {
	s := norm.NFKC.String(strings.TrimSpace(token))
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
