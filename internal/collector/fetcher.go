package collector

import (
	"context"
	"time"

	"github.com/StaryMuz/elektrina-monitor/internal/model"
)

// Fetcher retrieves the published hourly price table for one calendar day.
// Rows come back as raw text; parsing is left to the calculator.
type Fetcher interface {
	FetchDay(ctx context.Context, day time.Time) ([]model.RawRow, error)
	Name() string
}
