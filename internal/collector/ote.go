package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/StaryMuz/elektrina-monitor/internal/model"
)

// DefaultOTEBaseURL is where OTE publishes the day-ahead market reports.
const DefaultOTEBaseURL = "https://www.ote-cr.cz/kratkodobe-trhy/elektrina/denni-trh/attached"

const maxReportSize = 16 << 20

// OTEFetcher downloads the daily day-ahead market workbook published by OTE.
type OTEFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewOTEFetcher creates a fetcher with optional proxy support.
func NewOTEFetcher(baseURL, proxyURL string) *OTEFetcher {
	if baseURL == "" {
		baseURL = DefaultOTEBaseURL
	}
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &OTEFetcher{
		BaseURL: baseURL,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *OTEFetcher) Name() string { return "ote" }

// ReportURL builds the workbook address for the given day.
func (f *OTEFetcher) ReportURL(day time.Time) string {
	y, m, d := day.Date()
	return fmt.Sprintf("%s/%d/month%02d/day%02d/DT_%02d_%02d_%d_CZ.xls", f.BaseURL, y, int(m), d, d, int(m), y)
}

func (f *OTEFetcher) FetchDay(ctx context.Context, day time.Time) ([]model.RawRow, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.ReportURL(day), nil)
	if err != nil {
		return nil, &FetchError{Source: f.Name(), Day: day, Err: err}
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, &FetchError{Source: f.Name(), Day: day, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &FetchError{
			Source:     f.Name(),
			Day:        day,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected response: %s", string(body)),
		}
	}

	rows, err := parseWorkbook(io.LimitReader(resp.Body, maxReportSize))
	if err != nil {
		return nil, &FetchError{Source: f.Name(), Day: day, Err: err}
	}
	return rows, nil
}
