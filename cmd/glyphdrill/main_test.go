package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/glyphdrill/internal/config"
	"github.com/verte-zerg/glyphdrill/internal/dictionary"
	"github.com/verte-zerg/glyphdrill/internal/model"
	"github.com/verte-zerg/glyphdrill/internal/practice"
	"github.com/verte-zerg/glyphdrill/internal/stats"
)

func isolateXDG(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestParseQuotasKeepsOrder(t *testing.T) {
	got, err := parseQuotas([]string{"vowel=2", " n5 = 3", "loan=0"})
	require.NoError(t, err)
	assert.Equal(t, model.Quotas{{Tag: "vowel", Count: 2}, {Tag: "n5", Count: 3}, {Tag: "loan", Count: 0}}, got)

	for _, bad := range []string{"vowel", "=2", "vowel=x", "vowel=-1"} {
		_, err := parseQuotas([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestValidateDrillConfig(t *testing.T) {
	assert.NoError(t, validateDrillConfig(model.DrillConfig{Size: 5}))
	assert.NoError(t, validateDrillConfig(model.DrillConfig{Size: 5, Words: true, Mode: "characters"}))
	assert.Error(t, validateDrillConfig(model.DrillConfig{Size: 0}))
	assert.Error(t, validateDrillConfig(model.DrillConfig{Size: 5, Words: true, UseKanji: true}))

	err := validateDrillConfig(model.DrillConfig{Size: 5, Mode: "characters"})
	require.ErrorIs(t, err, practice.ErrUnknownMode)
	assert.Contains(t, err.Error(), "full-description")
}

func TestDrillOptions(t *testing.T) {
	quotas := model.Quotas{{Tag: "vowel", Count: 1}}
	opts := drillOptions(model.DrillConfig{Words: true, Size: 7, Mode: "type", Quotas: quotas})
	assert.Equal(t, practice.DrillWords, opts.Kind)
	assert.Equal(t, practice.WordDrillRequest{Size: 7, Mode: "type", Quotas: quotas}, opts.Word)

	opts = drillOptions(model.DrillConfig{Size: 3, KanjiOnly: true})
	assert.Equal(t, practice.DrillGlyphs, opts.Kind)
	assert.True(t, opts.Glyph.KanjiOnly)
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	isolateXDG(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644))
	cfg, err := config.LoadConfig(path)
	require.NoError(t, err)
	assert.Nil(t, cfg.Practice.Size)
	assert.Nil(t, cfg.Statistics.Backend)

	uncommented := strings.NewReplacer("# size =", "size =", "# backend =", "backend =").Replace(defaultConfigTemplate())
	require.NoError(t, os.WriteFile(path, []byte(uncommented), 0o644))
	cfg, err = config.LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Practice.Size)
	assert.Equal(t, practice.DefaultExerciseSize, *cfg.Practice.Size)
	require.NotNil(t, cfg.Statistics.Backend)
	assert.Equal(t, defaultBackend, *cfg.Statistics.Backend)
}

func TestLoadDictionaryFallsBackToBuiltin(t *testing.T) {
	isolateXDG(t)
	dict, err := loadDictionary("")
	require.NoError(t, err)
	assert.NotEmpty(t, dict.GlyphPool(dictionary.AllKinds))

	_, err = loadDictionary(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestWriteStarterDictionary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dictionary.toml")
	require.NoError(t, writeStarterDictionary(path, false))

	dict, err := dictionary.Load(path)
	require.NoError(t, err)
	assert.NotEmpty(t, dict.WordPool(dictionary.AllKinds))

	assert.Error(t, writeStarterDictionary(path, false))
	assert.NoError(t, writeStarterDictionary(path, true))
}

func TestWriteGroups(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeGroups(&buf, nil))
	assert.Equal(t, "No groups defined.\n", buf.String())

	buf.Reset()
	require.NoError(t, writeGroups(&buf, []dictionary.GroupSummary{
		{Section: "glyphs", Name: "dakuten", Size: 2},
		{Section: "words", Name: "greetings", Enabled: true, Size: 1, Comment: "morning"},
	}))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "SECTION"))
	assert.Contains(t, lines[1], "dakuten")
	assert.Contains(t, lines[1], "false")
	assert.Contains(t, lines[2], "morning")
}

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, stats.Report{}, 80))
	assert.Equal(t, "No statistics found.\n", buf.String())

	buf.Reset()
	report := stats.Report{Records: []model.Record{
		{Key: "glyph-exercise-character", Count: 2, AverageMs: 900, MinMs: 800, MaxMs: 1000},
	}}
	require.NoError(t, writeReport(&buf, report, 80))
	out := buf.String()
	assert.Contains(t, out, "Drills: 2")
	assert.Contains(t, out, "Per-Key")
	assert.Contains(t, out, "Per-entry range")
}

func TestSampleCommand(t *testing.T) {
	isolateXDG(t)
	out, err := execute(t, "sample", "--size", "4", "--quota", "vowel=2")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.Contains(t, lines[0], "key=glyph-exercise-character")
	assert.Contains(t, lines[0], "entries=4/4")

	_, err = execute(t, "sample", "--mode", "bogus")
	assert.ErrorIs(t, err, practice.ErrUnknownMode)
}

func TestRecordCommandPersists(t *testing.T) {
	dir := isolateXDG(t)
	statsFile := filepath.Join(dir, "stats.yaml")
	args := []string{"record", "--stats-path", statsFile, "--key", "word-exercise-type", "--size", "4", "--total-ms", "100"}

	out, err := execute(t, args...)
	require.NoError(t, err)
	assert.Regexp(t, `current\s+25\.0 ms`, out)
	assert.Regexp(t, `drills\s+0\n`, out)
	assert.Regexp(t, `persisted\s+true`, out)

	out, err = execute(t, args...)
	require.NoError(t, err)
	assert.Regexp(t, `drills\s+1\n`, out)
	assert.Regexp(t, `average\s+25\.0 ms`, out)

	out, err = execute(t, append(args, "--no-write")...)
	require.NoError(t, err)
	assert.Regexp(t, `drills\s+2\n`, out)
	assert.Regexp(t, `persisted\s+false`, out)

	out, err = execute(t, "report", "--stats-path", statsFile)
	require.NoError(t, err)
	assert.Contains(t, out, "Drills: 2")
}

func TestConfigCommandPrintsPath(t *testing.T) {
	dir := isolateXDG(t)
	path := filepath.Join(dir, "custom.toml")
	out, err := execute(t, "config", "--config", path, "--path")
	require.NoError(t, err)
	assert.Equal(t, path+"\n", out)
	_, err = os.Stat(path)
	assert.NoError(t, err)
}
