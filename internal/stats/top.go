package stats

import (
	"sort"

	"github.com/verte-zerg/glyphdrill/internal/model"
)

// SlowestKeys returns the top N keys by average per-entry time.
func SlowestKeys(records []model.Record, n int) []string {
	if n <= 0 || len(records) == 0 {
		return nil
	}
	items := make([]model.Record, 0, len(records))
	for _, rec := range records {
		if rec.Count > 0 {
			items = append(items, rec)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].AverageMs == items[j].AverageMs {
			return items[i].Key < items[j].Key
		}
		return items[i].AverageMs > items[j].AverageMs
	})
	if n > len(items) {
		n = len(items)
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, items[i].Key)
	}
	return out
}
