package cli

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "CHAT_ID", "WEBHOOK_URL", "WEBHOOK_SECRET",
		"OTE_BASE_URL", "HTTPS_PROXY", "PRICE_LIMIT_EUR", "CRON_DAILY", "SQLITE_PATH",
		"METRICS_LISTEN", "DEBUG", "CONFIG_PATH",
	} {
		t.Setenv(k, "")
	}
}

// writeWorkbook stores a day report with 23 preamble rows and a header.
func writeWorkbook(t *testing.T, path string, prices []string) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	for i := 1; i <= 23; i++ {
		require.NoError(t, f.SetCellValue(sheet, fmt.Sprintf("A%d", i), "OTE"))
	}
	require.NoError(t, f.SetCellValue(sheet, "A24", "Hodina"))
	for i, p := range prices {
		require.NoError(t, f.SetCellValue(sheet, fmt.Sprintf("A%d", 25+i), i+1))
		require.NoError(t, f.SetCellValue(sheet, fmt.Sprintf("B%d", 25+i), p))
	}
	require.NoError(t, f.SaveAs(path))
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "monitor version dev\n", out)
}

func TestRunCommand_DryRun(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	wb := filepath.Join(dir, "day.xlsx")
	writeWorkbook(t, wb, []string{"14,0", "12,5", "12,0", "13,0"})

	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(fmt.Sprintf(`
data_source:
  file: %q
threshold:
  limit_eur: 13.0
chart:
  path: %q
  width: 600
  height: 300
database:
  sqlite_path: %q
`, wb, filepath.Join(dir, "graf.png"), filepath.Join(dir, "runs.db"))), 0o644))

	out, err := execute(t, "run", "--config", cfgPath, "--date", "01.01.2025", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "📊 Denní ceny elektřiny (01.01.2025)")
	assert.Contains(t, out, "1.–3. hod")
	assert.Contains(t, out, "chart: ")
	assert.FileExists(t, filepath.Join(dir, "graf.png"))

	_, err = execute(t, "run", "--config", cfgPath, "--date", "2025-01-01", "--dry-run")
	assert.ErrorContains(t, err, "DD.MM.YYYY")
}

func TestParseDay(t *testing.T) {
	loc := time.UTC
	day, err := parseDay("07.03.2025", loc)
	require.NoError(t, err)
	assert.True(t, time.Date(2025, 3, 7, 0, 0, 0, 0, loc).Equal(day))

	_, err = parseDay("32.01.2025", loc)
	assert.Error(t, err)
}

func TestRouter(t *testing.T) {
	r := newRouter()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/healthz", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
