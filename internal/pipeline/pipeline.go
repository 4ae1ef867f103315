package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/StaryMuz/elektrina-monitor/internal/chart"
	"github.com/StaryMuz/elektrina-monitor/internal/collector"
	"github.com/StaryMuz/elektrina-monitor/internal/metrics"
	"github.com/StaryMuz/elektrina-monitor/internal/model"
	"github.com/StaryMuz/elektrina-monitor/internal/notifier"
	"github.com/StaryMuz/elektrina-monitor/internal/recorder"
	"github.com/StaryMuz/elektrina-monitor/internal/strategy"
)

// RunOptions controls a single run.
type RunOptions struct {
	Trigger model.TriggerType
	// DryRun builds the report and chart but skips delivery.
	DryRun bool
	// Force sends even if the day was already delivered.
	Force bool
}

// Result describes what a run produced.
type Result struct {
	RunID     string
	Report    *model.Report
	Message   string
	ChartPath string
	Delivered bool
	// Skipped is set when the day had already been delivered.
	Skipped bool
}

// Pipeline runs fetch, evaluate, render and notify for one day.
type Pipeline struct {
	Collector *collector.Collector
	Renderer  chart.Renderer // nil sends text only
	Notifier  notifier.Notifier
	Recorder  recorder.Recorder
	Threshold float64

	mu sync.Mutex
}

// New creates a pipeline. A nil recorder disables the run ledger.
func New(c *collector.Collector, r chart.Renderer, n notifier.Notifier, rec recorder.Recorder, threshold float64) *Pipeline {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Pipeline{
		Collector: c,
		Renderer:  r,
		Notifier:  n,
		Recorder:  rec,
		Threshold: threshold,
	}
}

// Run executes one pass for day. Runs are serialized. Any failure is returned
// as a *StageError and nothing is delivered for fetch, evaluate or render
// failures.
func (p *Pipeline) Run(ctx context.Context, day time.Time, opts RunOptions) (*Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	res := &Result{RunID: uuid.New().String()}

	if !opts.Force && !opts.DryRun {
		delivered, err := p.Recorder.Delivered(ctx, day)
		if err != nil {
			log.WithError(err).Warn("check run ledger")
		} else if delivered {
			log.Infof("report for %s already delivered, skipping", day.Format(notifier.DateLayout))
			res.Skipped = true
			return res, nil
		}
	}

	rec := &model.RunRecord{
		ID:        res.RunID,
		Day:       day,
		Trigger:   opts.Trigger,
		Threshold: p.Threshold,
		StartedAt: time.Now(),
	}
	log.Infof("run %s: %s for %s (limit %s EUR/MWh)",
		res.RunID, opts.Trigger, day.Format(notifier.DateLayout), notifier.FormatLimit(p.Threshold))

	err := p.run(ctx, day, opts, res, rec)
	p.finish(ctx, rec, opts, err)
	return res, err
}

func (p *Pipeline) run(ctx context.Context, day time.Time, opts RunOptions, res *Result, rec *model.RunRecord) error {
	series, err := p.Collector.Collect(ctx, day)
	if err != nil {
		return &StageError{Stage: StageFetch, Err: err}
	}
	rec.Rows = series.Len()

	report, err := strategy.Evaluate(series, p.Threshold)
	if err != nil {
		return &StageError{Stage: StageEvaluate, Err: err}
	}
	res.Report = report
	res.Message = notifier.FormatReport(report)
	rec.BelowHours = report.BelowHours()
	rec.Intervals = len(report.Intervals)

	if p.Renderer != nil {
		path, err := p.Renderer.Render(ctx, series, p.Threshold)
		if err != nil {
			return &StageError{Stage: StageRender, Err: err}
		}
		res.ChartPath = path
	}

	if opts.DryRun {
		log.Infof("dry run, not sending:\n%s", res.Message)
		return nil
	}

	if err := p.Notifier.Notify(ctx, res.Message, res.ChartPath); err != nil {
		var pe *notifier.PartialError
		res.Delivered = errors.As(err, &pe)
		return &StageError{Stage: StageNotify, Err: err}
	}
	res.Delivered = true
	return nil
}

func (p *Pipeline) finish(ctx context.Context, rec *model.RunRecord, opts RunOptions, err error) {
	rec.FinishedAt = time.Now()
	var partial *notifier.PartialError
	switch {
	case errors.As(err, &partial):
		rec.Status = model.RunPartial
		rec.Stage = string(StageOf(err))
		rec.Error = err.Error()
		log.WithError(err).WithFields(log.Fields{
			"run_id":    rec.ID,
			"delivered": partial.Delivered,
		}).Error("run partially delivered")
	case err != nil:
		rec.Status = model.RunFailed
		rec.Stage = string(StageOf(err))
		rec.Error = err.Error()
		log.WithError(err).WithField("run_id", rec.ID).Error("run failed")
	case opts.DryRun:
		rec.Status = model.RunDryRun
	default:
		rec.Status = model.RunDelivered
		log.Infof("run %s delivered (%d hours below limit)", rec.ID, rec.BelowHours)
	}

	if rerr := p.Recorder.RecordRun(ctx, rec); rerr != nil {
		log.WithError(rerr).WithField("run_id", rec.ID).Warn("record run")
	}
	metrics.ObserveRun(rec)
}

// ReportFailure sends the user-facing message for a failed run. Notify
// failures are not reported again through the same channel.
func (p *Pipeline) ReportFailure(ctx context.Context, day time.Time, err error) error {
	stage := StageOf(err)
	if stage == StageNotify {
		return nil
	}
	msg := notifier.FormatFailure(day, string(stage), unwrapStage(err))
	if nerr := p.Notifier.Notify(ctx, msg, ""); nerr != nil {
		return fmt.Errorf("send failure message: %w", nerr)
	}
	return nil
}

// LastRun returns the latest ledger entry, or nil if none exists.
func (p *Pipeline) LastRun(ctx context.Context) (*model.RunRecord, error) {
	return p.Recorder.Latest(ctx)
}

func unwrapStage(err error) error {
	if se, ok := err.(*StageError); ok {
		return se.Err
	}
	return err
}
