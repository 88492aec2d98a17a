package sampler

import (
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/glyphdrill/internal/model"
)

func entry(display string, tags ...string) model.Entry {
	return model.Entry{Kind: model.KindHiragana, Display: display, Tags: tags}
}

func seeded() *Sampler {
	return NewWithSource(rand.New(rand.NewPCG(7, 11)))
}

func countByDisplay(entries []model.Entry) map[string]int {
	counts := map[string]int{}
	for _, e := range entries {
		counts[e.Display]++
	}
	return counts
}

func TestSampleUniformDrawsWithReplacement(t *testing.T) {
	pool := []model.Entry{entry("あ"), entry("い")}
	res, err := seeded().Sample(Request{Pool: pool, Size: 10})
	require.NoError(t, err)
	require.Len(t, res.Entries, 10)
	assert.False(t, res.Underfilled())
	for _, e := range res.Entries {
		assert.Contains(t, []string{"あ", "い"}, e.Display)
	}
}

func TestSampleRejectsInvalidInput(t *testing.T) {
	s := seeded()

	_, err := s.Sample(Request{Pool: nil, Size: 3})
	require.ErrorIs(t, err, ErrEmptyPool)
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = s.Sample(Request{Pool: []model.Entry{entry("あ")}, Size: 0})
	require.ErrorIs(t, err, ErrInvalidSize)

	_, err = s.Sample(Request{
		Pool:   []model.Entry{entry("あ")},
		Size:   1,
		Quotas: model.Quotas{{Tag: "x", Count: -1}},
	})
	require.ErrorIs(t, err, ErrInvalidQuota)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestSampleUniformDistribution(t *testing.T) {
	pool := []model.Entry{entry("a"), entry("b"), entry("c"), entry("d")}
	s := seeded()
	const calls = 40000
	counts := map[string]int{}
	for i := 0; i < calls; i++ {
		res, err := s.Sample(Request{Pool: pool, Size: 1})
		require.NoError(t, err)
		counts[res.Entries[0].Display]++
	}
	expected := calls / len(pool)
	for _, e := range pool {
		assert.InDelta(t, expected, counts[e.Display], float64(expected)*0.05, "entry %s", e.Display)
	}
}

func TestSampleQuotaThenFallback(t *testing.T) {
	pool := []model.Entry{entry("A", "x"), entry("B", "x"), entry("C")}
	for i := 0; i < 50; i++ {
		res, err := seeded().Sample(Request{Pool: pool, Size: 3, Quotas: model.Quotas{{Tag: "x", Count: 2}}})
		require.NoError(t, err)
		require.Len(t, res.Entries, 3)
		counts := countByDisplay(res.Entries)
		assert.Equal(t, 2, counts["A"]+counts["B"])
		assert.Equal(t, 1, counts["C"])
	}
}

func TestSampleUnderfillIsReported(t *testing.T) {
	pool := []model.Entry{entry("A", "x"), entry("B", "x")}
	res, err := seeded().Sample(Request{Pool: pool, Size: 3, Quotas: model.Quotas{{Tag: "x", Count: 2}}})
	require.NoError(t, err)
	assert.Len(t, res.Entries, 2)
	assert.Equal(t, 3, res.Requested)
	assert.Equal(t, 2, res.Filled())
	assert.Equal(t, 1, res.Missing())
	assert.True(t, res.Underfilled())
}

func TestSampleQuotaOrderDecidesTruncation(t *testing.T) {
	pool := []model.Entry{entry("X", "x"), entry("Y", "y")}

	res, err := seeded().Sample(Request{Pool: pool, Size: 3, Quotas: model.Quotas{{Tag: "x", Count: 2}, {Tag: "y", Count: 2}}})
	require.NoError(t, err)
	counts := countByDisplay(res.Entries)
	assert.Equal(t, 2, counts["X"])
	assert.Equal(t, 1, counts["Y"])

	res, err = seeded().Sample(Request{Pool: pool, Size: 3, Quotas: model.Quotas{{Tag: "y", Count: 2}, {Tag: "x", Count: 2}}})
	require.NoError(t, err)
	counts = countByDisplay(res.Entries)
	assert.Equal(t, 1, counts["X"])
	assert.Equal(t, 2, counts["Y"])
}

func TestSampleFallbackIgnoresUnusedTaggedEntries(t *testing.T) {
	pool := []model.Entry{entry("A", "x"), entry("B", "y"), entry("C")}
	res, err := seeded().Sample(Request{Pool: pool, Size: 4, Quotas: model.Quotas{{Tag: "x", Count: 1}}})
	require.NoError(t, err)
	counts := countByDisplay(res.Entries)
	assert.Equal(t, 1, counts["A"])
	assert.Zero(t, counts["B"])
	assert.Equal(t, 3, counts["C"])
}

func TestSampleUnknownTagContributesNothing(t *testing.T) {
	pool := []model.Entry{entry("A", "x"), entry("C")}
	res, err := seeded().Sample(Request{Pool: pool, Size: 2, Quotas: model.Quotas{{Tag: "missing", Count: 2}}})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"C": 2}, countByDisplay(res.Entries))
}

func TestSampleTagMatchIgnoresCase(t *testing.T) {
	pool := []model.Entry{entry("A", "Dakuten")}
	res, err := seeded().Sample(Request{Pool: pool, Size: 2, Quotas: model.Quotas{{Tag: "dakuten", Count: 5}}})
	require.NoError(t, err)
	assert.Len(t, res.Entries, 2)
}

func TestSampleZeroQuotaFallsThrough(t *testing.T) {
	pool := []model.Entry{entry("A", "x"), entry("C")}
	res, err := seeded().Sample(Request{Pool: pool, Size: 2, Quotas: model.Quotas{{Tag: "x", Count: 0}}})
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"C": 2}, countByDisplay(res.Entries))
}

func TestSampleShufflesQuotaOrder(t *testing.T) {
	pool := []model.Entry{entry("A", "x"), entry("C")}
	s := seeded()
	firsts := map[string]int{}
	for i := 0; i < 200; i++ {
		res, err := s.Sample(Request{Pool: pool, Size: 2, Quotas: model.Quotas{{Tag: "x", Count: 1}}})
		require.NoError(t, err)
		firsts[res.Entries[0].Display]++
	}
	assert.Positive(t, firsts["A"])
	assert.Positive(t, firsts["C"])
}

func TestSampleSharedSourceConcurrent(t *testing.T) {
	s := New()
	pool := []model.Entry{entry("A", "x"), entry("B"), entry("C")}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				res, err := s.Sample(Request{Pool: pool, Size: 5, Quotas: model.Quotas{{Tag: "x", Count: 2}}})
				if err != nil || len(res.Entries) != 5 {
					t.Errorf("unexpected result: %v, %d entries", err, len(res.Entries))
					return
				}
			}
		}()
	}
	wg.Wait()
}
