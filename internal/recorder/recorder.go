package recorder

import (
	"context"
	"time"

	"github.com/StaryMuz/elektrina-monitor/internal/model"
)

// DayLayout is the key format for days in the run ledger.
const DayLayout = "2006-01-02"

// Recorder keeps the run ledger. It stores run outcomes only, never prices.
type Recorder interface {
	RecordRun(ctx context.Context, rec *model.RunRecord) error
	// Delivered reports whether a report for day already reached at least one
	// channel.
	Delivered(ctx context.Context, day time.Time) (bool, error)
	// Latest returns the most recent run, or nil when the ledger is empty.
	Latest(ctx context.Context) (*model.RunRecord, error)
	Close() error
}
