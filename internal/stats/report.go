package stats

import (
	"context"
	"fmt"
	"strings"

	"github.com/verte-zerg/glyphdrill/internal/model"
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Version uint64
	Records []model.Record
}

// BuildReport loads the store and keeps the records matching cfg.
func BuildReport(ctx context.Context, backend Backend, cfg model.StatsConfig) (Report, error) {
	snapshot, err := backend.ReadStore(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return Report{
		Version: snapshot.Version,
		Records: FilterRecords(snapshot.Records, cfg.KeyFilter),
	}, nil
}

// FilterRecords keeps records whose key contains filter, ignoring case.
// Store order is preserved.
func FilterRecords(records []model.Record, filter string) []model.Record {
	filter = strings.ToLower(strings.TrimSpace(filter))
	out := make([]model.Record, 0, len(records))
	for _, rec := range records {
		if filter == "" || strings.Contains(strings.ToLower(rec.Key), filter) {
			out = append(out, rec)
		}
	}
	return out
}
