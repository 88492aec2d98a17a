package statsui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/glyphdrill/internal/model"
)

type staticBackend struct {
	snapshot model.Snapshot
	err      error
}

func (b *staticBackend) ReadStore(context.Context) (model.Snapshot, error) {
	return b.snapshot.Clone(), b.err
}

func (b *staticBackend) WriteStore(context.Context, model.Snapshot) error {
	return errors.New("read only")
}

func sampleBackend() *staticBackend {
	return &staticBackend{snapshot: model.Snapshot{
		Version: 3,
		Records: []model.Record{
			{Key: "glyph-exercise-character", Count: 2, AverageMs: 40, MinMs: 30, MaxMs: 50},
			{Key: "word-exercise-characters", Count: 1, AverageMs: 90, MinMs: 90, MaxMs: 90},
		},
	}}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelLoadsRecords(t *testing.T) {
	m := NewModel(context.Background(), sampleBackend(), model.StatsConfig{})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	require.NoError(t, m.loadErr)
	assert.Len(t, m.report.Records, 2)
	assert.Len(t, m.records.Rows(), 2)

	view := m.View()
	assert.Contains(t, view, "Overview")
	assert.Contains(t, view, "records=2")
	assert.Contains(t, view, "word-exercise-characters")
}

func TestModelFilterByKey(t *testing.T) {
	m := NewModel(context.Background(), sampleBackend(), model.StatsConfig{})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	m.Update(runes("/"))
	require.True(t, m.filtering)
	for _, r := range "word" {
		m.Update(runes(string(r)))
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, m.filtering)
	assert.Equal(t, "word", m.cfg.KeyFilter)
	require.Len(t, m.report.Records, 1)
	assert.Equal(t, "word-exercise-characters", m.report.Records[0].Key)

	m.Update(runes("/"))
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.filtering)
	assert.Equal(t, "word", m.cfg.KeyFilter)
}

func TestModelTabsWrap(t *testing.T) {
	m := NewModel(context.Background(), sampleBackend(), model.StatsConfig{})
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, tabRanges, m.activeTab)
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, tabOverview, m.activeTab)
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, tabRecords, m.activeTab)
}

func TestModelShowsLoadError(t *testing.T) {
	backend := &staticBackend{err: errors.New("locked")}
	m := NewModel(context.Background(), backend, model.StatsConfig{})
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	assert.ErrorContains(t, m.loadErr, "locked")
	assert.True(t, strings.Contains(m.View(), "Failed to load stats."))
}

func TestQuit(t *testing.T) {
	m := NewModel(context.Background(), sampleBackend(), model.StatsConfig{})
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestTruncateLine(t *testing.T) {
	assert.Equal(t, "abc", truncateLine("abc", 5))
	assert.Equal(t, "ab...", truncateLine("abcdefgh", 5))
}

func TestFrameClipsAndPads(t *testing.T) {
	assert.Equal(t, "ab  \n    ", frame("ab", 4, 2))
	assert.Equal(t, "a\nb", frame("a\nb\nc", 1, 2))
	assert.Equal(t, "raw", frame("raw", 0, 0))
}

func TestFooterListsBindings(t *testing.T) {
	m := NewModel(context.Background(), sampleBackend(), model.StatsConfig{})
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 20})
	assert.Contains(t, m.viewFooter(), "reload")
	m.Update(runes("/"))
	assert.Contains(t, m.viewFooter(), "apply")
}
