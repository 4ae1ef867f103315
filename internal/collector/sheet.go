package collector

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/StaryMuz/elektrina-monitor/internal/model"
)

// The daily market report starts with 23 rows of titles and notes, followed
// by a header row. Column A holds the hour, column B the price in EUR/MWh.
const (
	preambleRows = 23
	headerRows   = 1
)

// parseWorkbook extracts the hour and price columns of the first sheet as text.
func parseWorkbook(r io.Reader) ([]model.RawRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	skip := preambleRows + headerRows
	if len(rows) <= skip {
		return nil, nil
	}
	out := make([]model.RawRow, 0, len(rows)-skip)
	for _, row := range rows[skip:] {
		out = append(out, model.RawRow{Hour: cell(row, 0), Price: cell(row, 1)})
	}
	return out, nil
}

// cell returns the i-th cell of a row; excelize trims trailing empty cells.
func cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
