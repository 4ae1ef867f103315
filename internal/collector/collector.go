package collector

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/StaryMuz/elektrina-monitor/internal/calculator"
	"github.com/StaryMuz/elektrina-monitor/internal/model"
)

// MockFetcher returns controllable fixed rows for development and testing.
type MockFetcher struct {
	Rows  []model.RawRow
	Err   error
	Calls int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDay(_ context.Context, _ time.Time) ([]model.RawRow, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Rows, nil
}

// Collector fetches a day's table and turns it into a clean price series.
type Collector struct {
	Fetcher Fetcher
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher) *Collector {
	return &Collector{Fetcher: fetcher}
}

// Collect fetches the day's rows, normalizes prices and filters out malformed
// rows. Only retrieval failures are returned; bad rows are dropped.
func (c *Collector) Collect(ctx context.Context, day time.Time) (model.PriceSeries, error) {
	raw, err := c.Fetcher.FetchDay(ctx, day)
	if err != nil {
		var fe *FetchError
		if errors.As(err, &fe) {
			return model.PriceSeries{}, err
		}
		return model.PriceSeries{}, &FetchError{Source: c.Fetcher.Name(), Day: day, Err: err}
	}

	kept, dropped := calculator.Partition(calculator.Normalize(raw))
	for _, d := range dropped {
		log.WithFields(log.Fields{
			"hour":   d.Row.Hour,
			"valid":  d.Row.Valid,
			"reason": d.Reason,
		}).Debug("dropped row")
	}
	log.WithFields(log.Fields{
		"source":  c.Fetcher.Name(),
		"fetched": len(raw),
		"usable":  len(kept),
		"dropped": len(dropped),
	}).Info("price table collected")

	return model.PriceSeries{Day: day, Rows: kept}, nil
}
