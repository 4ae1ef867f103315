package model

import "time"

// RawRow is one tabulated row exactly as the price source published it.
type RawRow struct {
	Hour  string
	Price string
}

// PriceRow is a single hourly price. Hour h labels the hour ending at h.
type PriceRow struct {
	Hour  int
	Price float64
	Valid bool // false when the price token was not a number
}

// PriceSeries holds one day's prices in ascending, duplicate-free hour order.
type PriceSeries struct {
	Day  time.Time
	Rows []PriceRow
}

func (s PriceSeries) Len() int { return len(s.Rows) }

// Hours returns the hour labels of the series.
func (s PriceSeries) Hours() []int {
	hours := make([]int, len(s.Rows))
	for i, r := range s.Rows {
		hours[i] = r.Hour
	}
	return hours
}

// Prices returns the prices of the series.
func (s PriceSeries) Prices() []float64 {
	prices := make([]float64, len(s.Rows))
	for i, r := range s.Rows {
		prices[i] = r.Price
	}
	return prices
}
