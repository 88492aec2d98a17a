package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/glyphdrill/internal/model"
	"github.com/verte-zerg/glyphdrill/internal/stats"
)

type backendCase struct {
	name string
	open func(t *testing.T, path string) Backend
	file string
}

func backendCases() []backendCase {
	return []backendCase{
		{
			name: "file",
			file: "statistics.yaml",
			open: func(t *testing.T, path string) Backend { return NewFileStore(path, nil) },
		},
		{
			name: "sqlite",
			file: "statistics.db",
			open: func(t *testing.T, path string) Backend {
				st, err := OpenSQLite(path, nil)
				require.NoError(t, err)
				return st
			},
		},
		{
			name: "bolt",
			file: "statistics.bolt",
			open: func(t *testing.T, path string) Backend {
				st, err := OpenBolt(path, nil)
				require.NoError(t, err)
				return st
			},
		},
	}
}

func openCase(t *testing.T, bc backendCase) Backend {
	t.Helper()
	st := bc.open(t, filepath.Join(t.TempDir(), "nested", bc.file))
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestBackendEmptyRead(t *testing.T) {
	for _, bc := range backendCases() {
		t.Run(bc.name, func(t *testing.T) {
			st := openCase(t, bc)
			snapshot, err := st.ReadStore(context.Background())
			require.NoError(t, err)
			assert.Zero(t, snapshot.Version)
			assert.Empty(t, snapshot.Records)
		})
	}
}

func TestBackendRoundTripKeepsOrderAndBumpsVersion(t *testing.T) {
	records := []model.Record{
		{Key: "word-exercise-characters", Count: 3, AverageMs: 812.5, MinMs: 640, MaxMs: 1020},
		{Key: "glyph-exercise-character", Count: 1, AverageMs: 50, MinMs: 50, MaxMs: 50},
		{Key: "glyph-exercise-type", Count: 0, AverageMs: 0, MinMs: model.SentinelMinMs, MaxMs: 0},
	}
	for _, bc := range backendCases() {
		t.Run(bc.name, func(t *testing.T) {
			st := openCase(t, bc)
			ctx := context.Background()
			require.NoError(t, st.WriteStore(ctx, model.Snapshot{Version: 0, Records: records}))

			snapshot, err := st.ReadStore(ctx)
			require.NoError(t, err)
			assert.Equal(t, uint64(1), snapshot.Version)
			assert.Equal(t, records, snapshot.Records)
		})
	}
}

func TestBackendRejectsStaleVersion(t *testing.T) {
	for _, bc := range backendCases() {
		t.Run(bc.name, func(t *testing.T) {
			st := openCase(t, bc)
			ctx := context.Background()
			first := model.Snapshot{Records: []model.Record{{Key: "a", Count: 1, AverageMs: 1, MinMs: 1, MaxMs: 1}}}
			require.NoError(t, st.WriteStore(ctx, first))

			err := st.WriteStore(ctx, model.Snapshot{Version: 0, Records: []model.Record{{Key: "b"}}})
			require.ErrorIs(t, err, stats.ErrVersionConflict)

			snapshot, err := st.ReadStore(ctx)
			require.NoError(t, err)
			assert.Equal(t, first.Records, snapshot.Records)
		})
	}
}

func TestBackendWithAggregator(t *testing.T) {
	for _, bc := range backendCases() {
		t.Run(bc.name, func(t *testing.T) {
			st := openCase(t, bc)
			agg := stats.NewAggregator(st)
			ctx := context.Background()

			res, err := agg.Process(ctx, stats.Observation{Key: "k", DurationMs: 500.0 / 10, Persist: true})
			require.NoError(t, err)
			assert.Equal(t, model.SentinelMinMs, res.MinMs)

			_, err = agg.Process(ctx, stats.Observation{Key: "k", DurationMs: 300.0 / 10, Persist: true})
			require.NoError(t, err)

			_, err = agg.Process(ctx, stats.Observation{Key: "k", DurationMs: 1, Persist: false})
			require.NoError(t, err)

			snapshot, err := st.ReadStore(ctx)
			require.NoError(t, err)
			require.Len(t, snapshot.Records, 1)
			rec := snapshot.Records[0]
			assert.Equal(t, 2, rec.Count)
			assert.InDelta(t, 40.0, rec.AverageMs, 1e-9)
			assert.Equal(t, 30.0, rec.MinMs)
			assert.Equal(t, 50.0, rec.MaxMs)
		})
	}
}

func TestFileStoreSeparateHandlesLoseNoUpdates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statistics.yaml")
	a := NewFileStore(path, nil)
	b := NewFileStore(path, nil)
	t.Cleanup(func() {
		_ = a.Close()
		_ = b.Close()
	})

	var g errgroup.Group
	for _, st := range []*FileStore{a, b} {
		agg := stats.NewAggregator(st, stats.WithWriteAttempts(100), stats.WithRetryDelay(0))
		g.Go(func() error {
			for i := 0; i < 10; i++ {
				if _, err := agg.Process(context.Background(), stats.Observation{Key: "k", DurationMs: 10, Persist: true}); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	snapshot, err := a.ReadStore(context.Background())
	require.NoError(t, err)
	require.Len(t, snapshot.Records, 1)
	assert.Equal(t, 20, snapshot.Records[0].Count)
	assert.Equal(t, uint64(20), snapshot.Version)
}

func TestBackendSharedByAggregatorsLosesNoUpdates(t *testing.T) {
	const writers, perWriter = 4, 25
	for _, bc := range backendCases() {
		t.Run(bc.name, func(t *testing.T) {
			st := openCase(t, bc)

			var g errgroup.Group
			for w := 0; w < writers; w++ {
				agg := stats.NewAggregator(st, stats.WithWriteAttempts(1000), stats.WithRetryDelay(0))
				g.Go(func() error {
					for i := 0; i < perWriter; i++ {
						if _, err := agg.Process(context.Background(), stats.Observation{Key: "k", DurationMs: 10, Persist: true}); err != nil {
							return err
						}
					}
					return nil
				})
			}
			require.NoError(t, g.Wait())

			snapshot, err := st.ReadStore(context.Background())
			require.NoError(t, err)
			require.Len(t, snapshot.Records, 1)
			assert.Equal(t, writers*perWriter, snapshot.Records[0].Count)
			assert.Equal(t, uint64(writers*perWriter), snapshot.Version)
		})
	}
}

func TestFileStoreCorruptFileIsReadError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statistics.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sections: [unterminated"), 0o644))
	st := NewFileStore(path, nil)

	_, err := st.ReadStore(context.Background())
	require.Error(t, err)

	agg := stats.NewAggregator(st)
	_, err = agg.Process(context.Background(), stats.Observation{Key: "k", DurationMs: 1, Persist: true})
	require.ErrorIs(t, err, stats.ErrStoreUnavailable)
}

func TestParseKind(t *testing.T) {
	kind, err := ParseKind("SQLite")
	require.NoError(t, err)
	assert.Equal(t, KindSQLite, kind)

	kind, err = ParseKind("")
	require.NoError(t, err)
	assert.Equal(t, KindFile, kind)

	_, err = ParseKind("postgres")
	require.Error(t, err)
}

func TestOpenEachKind(t *testing.T) {
	dir := t.TempDir()
	for _, kind := range []Kind{KindFile, KindSQLite, KindBolt} {
		st, err := Open(kind, filepath.Join(dir, string(kind), "statistics"), nil)
		require.NoError(t, err, kind)
		_, err = st.ReadStore(context.Background())
		require.NoError(t, err, kind)
		require.NoError(t, st.Close(), kind)
	}
}
