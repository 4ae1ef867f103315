package strategy

import "github.com/StaryMuz/elektrina-monitor/internal/model"

// Summarize computes min, max and mean over the series. The earliest hour
// wins ties. An empty series yields zero stats.
func Summarize(series model.PriceSeries) model.SeriesStats {
	if series.Len() == 0 {
		return model.SeriesStats{}
	}
	first := series.Rows[0]
	st := model.SeriesStats{
		Min:     first.Price,
		MinHour: first.Hour,
		Max:     first.Price,
		MaxHour: first.Hour,
	}
	sum := 0.0
	for _, r := range series.Rows {
		sum += r.Price
		if r.Price < st.Min {
			st.Min, st.MinHour = r.Price, r.Hour
		}
		if r.Price > st.Max {
			st.Max, st.MaxHour = r.Price, r.Hour
		}
	}
	st.Mean = sum / float64(series.Len())
	return st
}
