package chart

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StaryMuz/elektrina-monitor/internal/model"
)

func testSeries() model.PriceSeries {
	return model.PriceSeries{
		Day: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		Rows: []model.PriceRow{
			{Hour: 1, Price: 14.0, Valid: true},
			{Hour: 2, Price: 12.5, Valid: true},
			{Hour: 3, Price: 12.0, Valid: true},
			{Hour: 4, Price: 13.0, Valid: true},
		},
	}
}

func TestGoChartsRenderer_WritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "graf.png")
	r := NewGoChartsRenderer(path, 600, 300, "")

	got, err := r.Render(context.Background(), testSeries(), 13.0)
	require.NoError(t, err)
	assert.Equal(t, path, got)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")), "expected PNG signature")
}

func TestGoChartsRenderer_EmptySeries(t *testing.T) {
	r := NewGoChartsRenderer(filepath.Join(t.TempDir(), "graf.png"), 0, 0, "")
	_, err := r.Render(context.Background(), model.PriceSeries{}, 13.0)

	var re *RenderError
	require.ErrorAs(t, err, &re)
	assert.ErrorIs(t, err, model.ErrEmptyDataset)
}

func TestNewGoChartsRenderer_Defaults(t *testing.T) {
	r := NewGoChartsRenderer("", 0, 0, "")
	assert.Equal(t, DefaultPath, r.Path)
	assert.Equal(t, 1000, r.Width)
	assert.Equal(t, 500, r.Height)
	assert.Equal(t, "light", r.Theme)
}

func TestLegendLabels_MatchesMessageLimit(t *testing.T) {
	assert.Equal(t, []string{"Cena (EUR/MWh)", "Limit 12.0 EUR"}, legendLabels(12))
	assert.Equal(t, []string{"Cena (EUR/MWh)", "Limit 12.5 EUR"}, legendLabels(12.5))
	assert.Equal(t, []string{"Cena (EUR/MWh)", "Limit -3.0 EUR"}, legendLabels(-3))
}
