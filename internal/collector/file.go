package collector

import (
	"context"
	"os"
	"time"

	"github.com/StaryMuz/elektrina-monitor/internal/model"
)

// FileFetcher reads a locally saved OTE workbook. The day argument is only
// used for error reporting; the file is trusted to hold the requested day.
type FileFetcher struct {
	Path string
}

// NewFileFetcher creates a fetcher for a workbook on disk.
func NewFileFetcher(path string) *FileFetcher {
	return &FileFetcher{Path: path}
}

func (f *FileFetcher) Name() string { return "file" }

func (f *FileFetcher) FetchDay(_ context.Context, day time.Time) ([]model.RawRow, error) {
	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, &FetchError{Source: f.Name(), Day: day, Err: err}
	}
	defer fh.Close()

	rows, err := parseWorkbook(fh)
	if err != nil {
		return nil, &FetchError{Source: f.Name(), Day: day, Err: err}
	}
	return rows, nil
}
