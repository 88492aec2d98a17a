package stats

import (
	"fmt"
	"io"

	"github.com/verte-zerg/glyphdrill/internal/model"
)

// FormatMs renders a per-entry duration. The sentinel minimum of an empty
// record renders as "-".
func FormatMs(ms float64) string {
	if ms >= model.SentinelMinMs {
		return "-"
	}
	return fmt.Sprintf("%.1f", ms)
}

// RenderSummary prints totals over all records.
func RenderSummary(w io.Writer, records []model.Record) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No statistics found.")
		return err
	}
	var drills int
	var weighted float64
	for _, rec := range records {
		drills += rec.Count
		weighted += rec.AverageMs * float64(rec.Count)
	}
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Keys: %d\n", len(records)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Drills: %d\n", drills); err != nil {
		return err
	}
	if drills > 0 {
		if _, err := fmt.Fprintf(w, "Avg per entry: %s ms\n", FormatMs(weighted/float64(drills))); err != nil {
			return err
		}
	}
	if slowest := SlowestKeys(records, 1); len(slowest) == 1 {
		if _, err := fmt.Fprintf(w, "Slowest: %s\n", slowest[0]); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RecordRows formats records for table rendering.
func RecordRows(records []model.Record) [][]string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			rec.Key,
			fmt.Sprintf("%d", rec.Count),
			FormatMs(rec.AverageMs),
			FormatMs(rec.MinMs),
			FormatMs(rec.MaxMs),
		})
	}
	return rows
}

// RecordHeaders are the column titles used by RecordRows.
var RecordHeaders = []string{"Key", "Drills", "Avg (ms)", "Min (ms)", "Max (ms)"}

// RenderRecordTable prints one row per record in store order.
func RenderRecordTable(w io.Writer, records []model.Record) error {
	if len(records) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Per-Key"); err != nil {
		return err
	}
	table := newTextTable(RecordHeaders, alignLeft, alignRight, alignRight, alignRight, alignRight)
	for _, row := range RecordRows(records) {
		table.add(row...)
	}
	for _, line := range table.lines() {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}
