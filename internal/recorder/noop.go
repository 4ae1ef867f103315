package recorder

import (
	"context"
	"time"

	"github.com/StaryMuz/elektrina-monitor/internal/model"
)

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(context.Context, *model.RunRecord) error  { return nil }
func (n *NoopRecorder) Delivered(context.Context, time.Time) (bool, error) { return false, nil }
func (n *NoopRecorder) Latest(context.Context) (*model.RunRecord, error)   { return nil, nil }
func (n *NoopRecorder) Close() error                                       { return nil }
