package notifier

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/StaryMuz/elektrina-monitor/internal/model"
)

// DateLayout is the Czech day format used in every message.
const DateLayout = "02.01.2006"

// FormatReport renders the day's outcome as the chat message.
func FormatReport(r *model.Report) string {
	var b strings.Builder

	b.WriteString(header(r.Day))
	if !r.Below() {
		b.WriteString(fmt.Sprintf("❌ Cena neklesla pod %s EUR/MWh", FormatLimit(r.Threshold)))
		return b.String()
	}

	b.WriteString(fmt.Sprintf("✅ Cena pod %s EUR/MWh v těchto hodinách:", FormatLimit(r.Threshold)))
	for _, iv := range r.Intervals {
		b.WriteString("\n")
		b.WriteString(FormatInterval(iv))
	}
	return b.String()
}

// FormatInterval labels an interval by the end of hour Start-1 through the
// end of hour End, so [2,3] reads "1.–3. hod".
func FormatInterval(iv model.Interval) string {
	return fmt.Sprintf("%d.–%d. hod", iv.Start-1, iv.End)
}

// FormatLimit prints the limit with at least one decimal place.
func FormatLimit(limit float64) string {
	s := strconv.FormatFloat(limit, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// FormatFailure renders the single message sent when a run fails at stage.
func FormatFailure(day time.Time, stage string, err error) string {
	var b strings.Builder
	b.WriteString(header(day))
	if errors.Is(err, model.ErrEmptyDataset) {
		b.WriteString("⚠️ OTE pro tento den nezveřejnil žádné platné ceny")
		return b.String()
	}
	b.WriteString(fmt.Sprintf("⚠️ Chyba ve fázi %s: %v", stage, err))
	return b.String()
}

// FormatLastRun describes a ledger entry for the status command.
func FormatLastRun(rec *model.RunRecord) string {
	if rec == nil {
		return "Zatím neproběhl žádný běh."
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🗂 Poslední běh: %s (%s)\n", rec.Day.Format(DateLayout), rec.Trigger))
	b.WriteString(fmt.Sprintf("Stav: %s\n", rec.Status))
	if rec.Stage != "" {
		b.WriteString(fmt.Sprintf("Fáze: %s\n", rec.Stage))
	}
	b.WriteString(fmt.Sprintf("Hodin pod limitem %s EUR/MWh: %d (%d intervalů)\n",
		FormatLimit(rec.Threshold), rec.BelowHours, rec.Intervals))
	b.WriteString(fmt.Sprintf("Dokončeno: %s", rec.FinishedAt.Format("02.01.2006 15:04")))
	return b.String()
}

// FormatHelp lists the chat commands.
func FormatHelp() string {
	return "Dostupné příkazy:\n" +
		"• /dnes – ceny pro dnešek\n" +
		"• /zitra – ceny pro zítřek\n" +
		"• /limit – aktuální cenový limit\n" +
		"• /stav – poslední běh"
}

func header(day time.Time) string {
	return fmt.Sprintf("📊 Denní ceny elektřiny (%s)\n", day.Format(DateLayout))
}
