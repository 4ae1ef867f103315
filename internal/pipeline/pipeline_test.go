package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StaryMuz/elektrina-monitor/internal/chart"
	"github.com/StaryMuz/elektrina-monitor/internal/collector"
	"github.com/StaryMuz/elektrina-monitor/internal/model"
	"github.com/StaryMuz/elektrina-monitor/internal/notifier"
	"github.com/StaryMuz/elektrina-monitor/internal/recorder"
)

type captureNotifier struct {
	texts  []string
	images []string
	err    error
}

func (c *captureNotifier) Name() string { return "capture" }

func (c *captureNotifier) Notify(_ context.Context, text, imagePath string) error {
	c.texts = append(c.texts, text)
	c.images = append(c.images, imagePath)
	return c.err
}

type stubRenderer struct {
	path  string
	err   error
	calls int
}

func (s *stubRenderer) Render(context.Context, model.PriceSeries, float64) (string, error) {
	s.calls++
	if s.err != nil {
		return "", &chart.RenderError{Path: s.path, Err: s.err}
	}
	return s.path, nil
}

var testDay = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func scenarioRows() []model.RawRow {
	return []model.RawRow{
		{Hour: "1", Price: "14,0"},
		{Hour: "2", Price: "12,5"},
		{Hour: "3", Price: "12,0"},
		{Hour: "4", Price: "13,0"},
	}
}

func newTestPipeline(t *testing.T, f *collector.MockFetcher) (*Pipeline, *captureNotifier, *stubRenderer) {
	t.Helper()
	rec, err := recorder.NewSQLiteRecorder(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { rec.Close() })

	n := &captureNotifier{}
	r := &stubRenderer{path: "graf.png"}
	return New(collector.NewCollector(f), r, n, rec, 13.0), n, r
}

func TestRun_EndToEnd(t *testing.T) {
	p, n, r := newTestPipeline(t, &collector.MockFetcher{Rows: scenarioRows()})

	res, err := p.Run(context.Background(), testDay.Add(15*time.Hour), RunOptions{Trigger: model.TriggerManual})
	require.NoError(t, err)

	assert.True(t, res.Delivered)
	assert.NotEmpty(t, res.RunID)
	assert.Contains(t, res.Message, "(01.01.2025)")
	assert.Contains(t, res.Message, "1.–3. hod")
	assert.Equal(t, []model.Interval{{Start: 2, End: 3}}, res.Report.Intervals)
	assert.Equal(t, 1, r.calls)
	require.Len(t, n.texts, 1)
	assert.Equal(t, res.Message, n.texts[0])
	assert.Equal(t, "graf.png", n.images[0])

	last, err := p.LastRun(context.Background())
	require.NoError(t, err)
	require.NotNil(t, last)
	assert.Equal(t, res.RunID, last.ID)
	assert.Equal(t, model.RunDelivered, last.Status)
	assert.Equal(t, 4, last.Rows)
	assert.Equal(t, 2, last.BelowHours)
}

func TestRun_SkipsDeliveredDay(t *testing.T) {
	f := &collector.MockFetcher{Rows: scenarioRows()}
	p, n, _ := newTestPipeline(t, f)
	ctx := context.Background()

	_, err := p.Run(ctx, testDay, RunOptions{Trigger: model.TriggerSchedule})
	require.NoError(t, err)

	res, err := p.Run(ctx, testDay, RunOptions{Trigger: model.TriggerSchedule})
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Equal(t, 1, f.Calls)
	assert.Len(t, n.texts, 1)

	res, err = p.Run(ctx, testDay, RunOptions{Trigger: model.TriggerCommand, Force: true})
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	assert.Len(t, n.texts, 2)
}

func TestRun_DryRun(t *testing.T) {
	p, n, r := newTestPipeline(t, &collector.MockFetcher{Rows: scenarioRows()})

	res, err := p.Run(context.Background(), testDay, RunOptions{Trigger: model.TriggerManual, DryRun: true})
	require.NoError(t, err)
	assert.False(t, res.Delivered)
	assert.NotEmpty(t, res.Message)
	assert.Equal(t, 1, r.calls)
	assert.Empty(t, n.texts)

	last, err := p.LastRun(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.RunDryRun, last.Status)
}

func TestRun_AllAbove(t *testing.T) {
	p, n, _ := newTestPipeline(t, &collector.MockFetcher{Rows: []model.RawRow{
		{Hour: "1", Price: "20,0"},
		{Hour: "2", Price: "13,0"},
	}})

	res, err := p.Run(context.Background(), testDay, RunOptions{})
	require.NoError(t, err)
	assert.Contains(t, res.Message, "❌ Cena neklesla pod 13.0 EUR/MWh")
	assert.Len(t, n.texts, 1)
}

func TestRun_EmptyDataset(t *testing.T) {
	p, n, r := newTestPipeline(t, &collector.MockFetcher{Rows: []model.RawRow{
		{Hour: "0", Price: "5,0"},
		{Hour: "1", Price: "n/a"},
	}})
	ctx := context.Background()

	_, err := p.Run(ctx, testDay, RunOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrEmptyDataset)
	assert.Equal(t, StageEvaluate, StageOf(err))
	assert.Zero(t, r.calls)
	assert.Empty(t, n.texts, "no partial report on evaluate failure")

	require.NoError(t, p.ReportFailure(ctx, testDay, err))
	require.Len(t, n.texts, 1)
	assert.Contains(t, n.texts[0], "nezveřejnil")
	assert.NotContains(t, n.texts[0], "neklesla")

	last, err := p.LastRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.RunFailed, last.Status)
	assert.Equal(t, "evaluate", last.Stage)
}

func TestRun_FetchError(t *testing.T) {
	boom := errors.New("connection refused")
	p, n, _ := newTestPipeline(t, &collector.MockFetcher{Err: boom})

	_, err := p.Run(context.Background(), testDay, RunOptions{})
	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StageFetch, se.Stage)
	assert.ErrorIs(t, err, boom)

	var fe *collector.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "mock", fe.Source)
	assert.Empty(t, n.texts)
}

func TestRun_RenderError(t *testing.T) {
	p, n, r := newTestPipeline(t, &collector.MockFetcher{Rows: scenarioRows()})
	r.err = errors.New("disk full")

	_, err := p.Run(context.Background(), testDay, RunOptions{})
	assert.Equal(t, StageRender, StageOf(err))
	var re *chart.RenderError
	assert.ErrorAs(t, err, &re)
	assert.Empty(t, n.texts)
}

func TestRun_NotifyErrorNotRetriedOrResent(t *testing.T) {
	p, n, _ := newTestPipeline(t, &collector.MockFetcher{Rows: scenarioRows()})
	n.err = &notifier.NotifyError{Notifier: "capture", Err: errors.New("status 502")}
	ctx := context.Background()

	res, err := p.Run(ctx, testDay, RunOptions{})
	assert.Equal(t, StageNotify, StageOf(err))
	assert.False(t, res.Delivered)
	assert.Len(t, n.texts, 1)

	require.NoError(t, p.ReportFailure(ctx, testDay, err))
	assert.Len(t, n.texts, 1)

	delivered, err := p.Recorder.Delivered(ctx, testDay)
	require.NoError(t, err)
	assert.False(t, delivered)
}

func TestRun_PartialDeliveryNotResent(t *testing.T) {
	f := &collector.MockFetcher{Rows: scenarioRows()}
	p, _, _ := newTestPipeline(t, f)
	ok := &captureNotifier{}
	down := &captureNotifier{err: &notifier.NotifyError{Notifier: "webhook", Err: errors.New("status 503")}}
	p.Notifier = notifier.Multi{ok, down}
	ctx := context.Background()

	res, err := p.Run(ctx, testDay, RunOptions{Trigger: model.TriggerSchedule})
	require.Error(t, err)
	assert.Equal(t, StageNotify, StageOf(err))
	assert.True(t, res.Delivered)

	last, err := p.LastRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.RunPartial, last.Status)
	assert.Equal(t, string(StageNotify), last.Stage)

	res, err = p.Run(ctx, testDay, RunOptions{Trigger: model.TriggerManual})
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Len(t, ok.texts, 1)
	assert.Equal(t, 1, f.Calls)
}

func TestRun_NoRenderer(t *testing.T) {
	n := &captureNotifier{}
	p := New(collector.NewCollector(&collector.MockFetcher{Rows: scenarioRows()}), nil, n, nil, 13.0)

	res, err := p.Run(context.Background(), testDay, RunOptions{})
	require.NoError(t, err)
	assert.Empty(t, res.ChartPath)
	assert.Equal(t, []string{""}, n.images)
}
