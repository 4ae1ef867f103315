package chart

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	charts "github.com/vicanso/go-charts/v2"

	"github.com/StaryMuz/elektrina-monitor/internal/model"
	"github.com/StaryMuz/elektrina-monitor/internal/notifier"
	"github.com/StaryMuz/elektrina-monitor/internal/strategy"
)

// DefaultPath is where the chart is written when no path is configured.
const DefaultPath = "graf.png"

// Renderer draws a day's price series and writes it to an image file.
type Renderer interface {
	Render(ctx context.Context, series model.PriceSeries, threshold float64) (string, error)
}

// RenderError reports a chart that could not be produced.
type RenderError struct {
	Path string
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render chart %s: %v", e.Path, e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// GoChartsRenderer renders PNG line charts.
type GoChartsRenderer struct {
	Path   string
	Width  int
	Height int
	Theme  string
}

// NewGoChartsRenderer creates a renderer with defaults for unset fields.
func NewGoChartsRenderer(path string, width, height int, theme string) *GoChartsRenderer {
	if path == "" {
		path = DefaultPath
	}
	if width <= 0 {
		width = 1000
	}
	if height <= 0 {
		height = 500
	}
	if theme == "" {
		theme = "light"
	}
	return &GoChartsRenderer{Path: path, Width: width, Height: height, Theme: theme}
}

// Render plots the hourly prices against a flat limit line and writes the PNG.
// It returns the path of the written file.
func (r *GoChartsRenderer) Render(ctx context.Context, series model.PriceSeries, threshold float64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &RenderError{Path: r.Path, Err: err}
	}
	if series.Len() == 0 {
		return "", &RenderError{Path: r.Path, Err: model.ErrEmptyDataset}
	}

	buf, err := r.png(series, threshold)
	if err != nil {
		return "", &RenderError{Path: r.Path, Err: err}
	}

	if dir := filepath.Dir(r.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", &RenderError{Path: r.Path, Err: fmt.Errorf("create directory: %w", err)}
		}
	}
	if err := os.WriteFile(r.Path, buf, 0o644); err != nil {
		return "", &RenderError{Path: r.Path, Err: fmt.Errorf("write file: %w", err)}
	}
	return r.Path, nil
}

func (r *GoChartsRenderer) png(series model.PriceSeries, threshold float64) ([]byte, error) {
	prices := series.Prices()
	limit := make([]float64, len(prices))
	labels := make([]string, len(prices))
	for i, h := range series.Hours() {
		limit[i] = threshold
		labels[i] = strconv.Itoa(h)
	}

	stats := strategy.Summarize(series)
	subtitle := fmt.Sprintf("min %.2f (%d. h), max %.2f (%d. h), průměr %.2f EUR/MWh",
		stats.Min, stats.MinHour, stats.Max, stats.MaxHour, stats.Mean)

	p, err := charts.LineRender(
		[][]float64{prices, limit},
		charts.TitleTextOptionFunc("Cena elektřiny "+series.Day.Format(notifier.DateLayout), subtitle),
		charts.XAxisDataOptionFunc(labels),
		charts.LegendLabelsOptionFunc(legendLabels(threshold), charts.PositionRight),
		charts.ThemeOptionFunc(r.Theme),
		charts.WidthOptionFunc(r.Width),
		charts.HeightOptionFunc(r.Height),
		charts.PaddingOptionFunc(charts.Box{
			Top:    20,
			Right:  20,
			Bottom: 20,
			Left:   20,
		}),
		charts.PNGTypeOption(),
	)
	if err != nil {
		return nil, fmt.Errorf("line render: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("chart bytes: %w", err)
	}
	return buf, nil
}

// legendLabels spells the limit the same way the alert text does.
func legendLabels(threshold float64) []string {
	return []string{
		"Cena (EUR/MWh)",
		"Limit " + notifier.FormatLimit(threshold) + " EUR",
	}
}
