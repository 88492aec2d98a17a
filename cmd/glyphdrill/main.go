// Package main provides the CLI entrypoint for glyphdrill.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/verte-zerg/glyphdrill/internal/config"
	"github.com/verte-zerg/glyphdrill/internal/dictionary"
	"github.com/verte-zerg/glyphdrill/internal/model"
	"github.com/verte-zerg/glyphdrill/internal/practice"
	"github.com/verte-zerg/glyphdrill/internal/stats"
	"github.com/verte-zerg/glyphdrill/internal/statsui"
	"github.com/verte-zerg/glyphdrill/internal/store"
	"github.com/verte-zerg/glyphdrill/internal/tui"
)

const (
	defaultBackend = "file"
	annotationTUI  = "tui"
)

var (
	configPath string
	verbose    bool
	logger     = zap.NewNop()

	practiceDictionary string
	practiceWords      bool
	practiceSize       int
	practiceMode       string
	practiceUseKanji   bool
	practiceKanjiOnly  bool
	practiceQuotas     []string

	statsBackend       string
	statsPath          string
	statsWriteAttempts int
	statsRetryDelay    time.Duration

	recordKey     string
	recordSize    int
	recordTotalMs float64
	recordNoWrite bool

	reportFilter string
	statsFilter  string

	dictionaryForce bool
	configPrint     bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "glyphdrill",
		Short:             "Glyph and word recall drills",
		SilenceUsage:      true,
		SilenceErrors:     false,
		Annotations:       map[string]string{annotationTUI: "true"},
		PersistentPreRunE: setupLogger,
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = logger.Sync()
		},
		RunE: runDrillCmd,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: XDG config dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&statsBackend, "backend", defaultBackend, "statistics backend: file, sqlite or bolt")
	rootCmd.PersistentFlags().StringVar(&statsPath, "stats-path", "", "statistics location (default: XDG data dir)")
	rootCmd.PersistentFlags().IntVar(&statsWriteAttempts, "write-attempts", stats.DefaultWriteAttempts, "statistics write attempts")
	rootCmd.PersistentFlags().DurationVar(&statsRetryDelay, "retry-delay", stats.DefaultRetryDelay, "delay between statistics write attempts")
	addPracticeFlags(rootCmd)

	rootCmd.AddCommand(newSampleCmd())
	rootCmd.AddCommand(newRecordCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newGroupsCmd())
	rootCmd.AddCommand(newDictionaryCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func addPracticeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&practiceDictionary, "dictionary", "", "dictionary file (.toml, .yaml, .yml or .json)")
	cmd.Flags().BoolVar(&practiceWords, "words", false, "drill words instead of glyphs")
	cmd.Flags().IntVar(&practiceSize, "size", practice.DefaultExerciseSize, "entries per drill")
	cmd.Flags().StringVar(&practiceMode, "mode", "", "exercise mode (default: character for glyphs, characters for words)")
	cmd.Flags().BoolVar(&practiceUseKanji, "use-kanji", false, "include kanji in glyph drills")
	cmd.Flags().BoolVar(&practiceKanjiOnly, "kanji-only", false, "drill kanji only (implies --use-kanji)")
	cmd.Flags().StringArrayVar(&practiceQuotas, "quota", nil, "tag quota as tag=count, repeatable and applied in order")
}

func setupLogger(cmd *cobra.Command, _ []string) error {
	cfg := zap.NewProductionConfig()
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	if cmd.Annotations[annotationTUI] == "true" {
		// The alt screen owns stderr.
		path := config.DefaultLogPath()
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		cfg.OutputPaths = []string{path}
		cfg.ErrorOutputPaths = []string{path}
	}
	built, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger = built
	return nil
}

func runDrillCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	drillCfg, err := resolveDrillConfig(cmd, fileCfg.Practice)
	if err != nil {
		return err
	}
	svc, closeFn, err := openService(cmd, fileCfg, drillCfg)
	if err != nil {
		return err
	}
	defer closeFn()

	opts := drillOptions(drillCfg)
	opts.Logger = logger
	m, err := tui.NewModel(cmd.Context(), svc, opts)
	if err != nil {
		return fmt.Errorf("failed to start drill: %w", err)
	}
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newSampleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Print one generated drill",
		Args:  cobra.NoArgs,
		RunE:  runSampleCmd,
	}
	addPracticeFlags(cmd)
	return cmd
}

func runSampleCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	drillCfg, err := resolveDrillConfig(cmd, fileCfg.Practice)
	if err != nil {
		return err
	}
	dict, err := loadDictionary(drillCfg.DictionaryPath)
	if err != nil {
		return err
	}
	svc := practice.NewService(dict, nil, logger)
	drill, err := generateDrill(cmd.Context(), svc, drillOptions(drillCfg))
	if err != nil {
		return err
	}
	return writeDrill(cmd.OutOrStdout(), drill)
}

func generateDrill(ctx context.Context, svc *practice.Service, opts tui.Options) (practice.Drill, error) {
	if opts.Kind == practice.DrillWords {
		return svc.GenerateWordDrill(ctx, opts.Word)
	}
	return svc.GenerateGlyphDrill(ctx, opts.Glyph)
}

func writeDrill(w io.Writer, drill practice.Drill) error {
	if _, err := fmt.Fprintf(w, "Drill %s  key=%s  entries=%d/%d\n", drill.ID, drill.Key, len(drill.Entries), drill.Requested); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, e := range drill.Entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", i+1, e.Display, e.Kind, e.Pronunciation, strings.Join(e.Readings, ","), e.Meaning)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if drill.Underfilled {
		if _, err := fmt.Fprintf(w, "underfilled: %d of %d entries\n", len(drill.Entries), drill.Requested); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newRecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record one finished drill",
		Args:  cobra.NoArgs,
		RunE:  runRecordCmd,
	}
	cmd.Flags().StringVar(&recordKey, "key", "", "exercise key, e.g. glyph-exercise-character")
	cmd.Flags().IntVar(&recordSize, "size", practice.DefaultExerciseSize, "entries in the drill")
	cmd.Flags().Float64Var(&recordTotalMs, "total-ms", 0, "total drill duration in milliseconds")
	cmd.Flags().BoolVar(&recordNoWrite, "no-write", false, "report without persisting")
	_ = cmd.MarkFlagRequired("key")
	_ = cmd.MarkFlagRequired("total-ms")
	return cmd
}

func runRecordCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	backend, err := openBackend(cmd, fileCfg.Statistics)
	if err != nil {
		return err
	}
	defer closeBackend(backend)
	agg, err := newAggregator(cmd, backend, fileCfg.Statistics)
	if err != nil {
		return err
	}

	svc := practice.NewService(nil, agg, logger)
	res, err := svc.RecordObservation(cmd.Context(), practice.ObservationRequest{
		Key:             recordKey,
		ExerciseSize:    recordSize,
		TotalDurationMs: recordTotalMs,
		WriteStatistics: !recordNoWrite,
	})
	if err != nil {
		return err
	}
	return writeResult(cmd.OutOrStdout(), res)
}

func writeResult(w io.Writer, res stats.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "key\t%s\n", res.Key)
	fmt.Fprintf(tw, "current\t%s ms\n", stats.FormatMs(res.CurrentMs))
	fmt.Fprintf(tw, "drills\t%d\n", res.Count)
	fmt.Fprintf(tw, "average\t%s ms\n", stats.FormatMs(res.AverageMs))
	fmt.Fprintf(tw, "min\t%s ms\n", stats.FormatMs(res.MinMs))
	fmt.Fprintf(tw, "max\t%s ms\n", stats.FormatMs(res.MaxMs))
	fmt.Fprintf(tw, "persisted\t%t\n", res.Persisted)
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "stats",
		Short:       "Browse statistics",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationTUI: "true"},
		RunE:        runStatsCmd,
	}
	cmd.Flags().StringVar(&statsFilter, "filter", "", "key substring filter")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	backend, err := openBackend(cmd, fileCfg.Statistics)
	if err != nil {
		return err
	}
	defer closeBackend(backend)

	m := statsui.NewModel(cmd.Context(), backend, model.StatsConfig{KeyFilter: statsFilter})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print statistics as text",
		Args:  cobra.NoArgs,
		RunE:  runReportCmd,
	}
	cmd.Flags().StringVar(&reportFilter, "filter", "", "key substring filter")
	return cmd
}

func runReportCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	backend, err := openBackend(cmd, fileCfg.Statistics)
	if err != nil {
		return err
	}
	defer closeBackend(backend)

	report, err := stats.BuildReport(cmd.Context(), backend, model.StatsConfig{KeyFilter: reportFilter})
	if err != nil {
		return err
	}
	return writeReport(cmd.OutOrStdout(), report, stats.TerminalWidth())
}

func writeReport(w io.Writer, report stats.Report, width int) error {
	if err := stats.RenderSummary(w, report.Records); err != nil {
		return err
	}
	if len(report.Records) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderRecordTable(w, report.Records); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return stats.PlotRanges(w, "Per-entry range (min · avg · max)", report.Records, width)
}

func newGroupsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "List dictionary groups",
		Args:  cobra.NoArgs,
		RunE:  runGroupsCmd,
	}
	cmd.Flags().StringVar(&practiceDictionary, "dictionary", "", "dictionary file (.toml, .yaml, .yml or .json)")
	return cmd
}

func runGroupsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig()
	if err != nil {
		return err
	}
	path := practiceDictionary
	applyStringConfig(cmd, "dictionary", &path, fileCfg.Practice.Dictionary)
	dict, err := loadDictionary(path)
	if err != nil {
		return err
	}
	return writeGroups(cmd.OutOrStdout(), dict.GroupSummaries())
}

func writeGroups(w io.Writer, groups []dictionary.GroupSummary) error {
	if len(groups) == 0 {
		if _, err := fmt.Fprintln(w, "No groups defined."); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SECTION\tGROUP\tENABLED\tSIZE\tCOMMENT")
	for _, g := range groups {
		fmt.Fprintf(tw, "%s\t%s\t%t\t%d\t%s\n", g.Section, g.Name, g.Enabled, g.Size, g.Comment)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newDictionaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dictionary [path]",
		Short: "Write the starter dictionary",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runDictionaryCmd,
	}
	cmd.Flags().BoolVar(&dictionaryForce, "force", false, "overwrite an existing dictionary")
	return cmd
}

func runDictionaryCmd(cmd *cobra.Command, args []string) error {
	path := config.DefaultDictionaryPath()
	if len(args) == 1 {
		path = args[0]
	}
	if err := writeStarterDictionary(path, dictionaryForce); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func writeStarterDictionary(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("dictionary already exists: %s (use --force to overwrite)", path)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat dictionary: %w", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create dictionary directory: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "dictionary-*.toml")
	if err != nil {
		return fmt.Errorf("failed to create temp dictionary: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()
	if _, err := tmpFile.Write(dictionary.BuiltinSource()); err != nil {
		return fmt.Errorf("failed to write dictionary: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close dictionary: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write dictionary: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
	cmd.Flags().BoolVar(&configPrint, "path", false, "print the config path instead of opening an editor")
	return cmd
}

func runConfigCmd(cmd *cobra.Command, _ []string) error {
	path := resolvedConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}
	if configPrint {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), path); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	edit := exec.Command(parts[0], append(parts[1:], path)...)
	edit.Stdin = os.Stdin
	edit.Stdout = os.Stdout
	edit.Stderr = os.Stderr
	if err := edit.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func resolvedConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return config.DefaultConfigPath()
}

func loadFileConfig() (config.FileConfig, error) {
	fileCfg, err := config.LoadConfig(resolvedConfigPath())
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	return fileCfg, nil
}

func resolveDrillConfig(cmd *cobra.Command, p config.PracticeConfig) (model.DrillConfig, error) {
	applyStringConfig(cmd, "dictionary", &practiceDictionary, p.Dictionary)
	applyBoolConfig(cmd, "words", &practiceWords, p.Words)
	applyIntConfig(cmd, "size", &practiceSize, p.Size)
	applyStringConfig(cmd, "mode", &practiceMode, p.Mode)
	applyBoolConfig(cmd, "use-kanji", &practiceUseKanji, p.UseKanji)
	applyBoolConfig(cmd, "kanji-only", &practiceKanjiOnly, p.KanjiOnly)

	quotas := p.Quotas()
	if cmd.Flags().Changed("quota") {
		parsed, err := parseQuotas(practiceQuotas)
		if err != nil {
			return model.DrillConfig{}, err
		}
		quotas = parsed
	}

	cfg := model.DrillConfig{
		DictionaryPath: practiceDictionary,
		Words:          practiceWords,
		Size:           practiceSize,
		Mode:           practiceMode,
		UseKanji:       practiceUseKanji,
		KanjiOnly:      practiceKanjiOnly,
		Quotas:         quotas,
	}
	if err := validateDrillConfig(cfg); err != nil {
		return model.DrillConfig{}, err
	}
	return cfg, nil
}

func validateDrillConfig(cfg model.DrillConfig) error {
	if cfg.Size <= 0 {
		return fmt.Errorf("--size must be > 0")
	}
	kind := practice.DrillGlyphs
	if cfg.Words {
		kind = practice.DrillWords
		if cfg.UseKanji || cfg.KanjiOnly {
			return fmt.Errorf("--use-kanji and --kanji-only apply to glyph drills only")
		}
	}
	if _, err := practice.LookupMode(kind, cfg.Mode); err != nil {
		var names []string
		for _, m := range practice.Modes(kind) {
			names = append(names, m.Name)
		}
		return fmt.Errorf("%w (available: %s)", err, strings.Join(names, ", "))
	}
	for _, q := range cfg.Quotas {
		if q.Count < 0 {
			return fmt.Errorf("quota %q must be >= 0", q.Tag)
		}
	}
	return nil
}

// parseQuotas parses tag=count pairs, keeping their order.
func parseQuotas(values []string) (model.Quotas, error) {
	out := make(model.Quotas, 0, len(values))
	for _, v := range values {
		tag, count, ok := strings.Cut(v, "=")
		tag = strings.TrimSpace(tag)
		if !ok || tag == "" {
			return nil, fmt.Errorf("invalid --quota %q (want tag=count)", v)
		}
		n, err := strconv.Atoi(strings.TrimSpace(count))
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid --quota count in %q", v)
		}
		out = append(out, model.TagQuota{Tag: tag, Count: n})
	}
	return out, nil
}

func drillOptions(cfg model.DrillConfig) tui.Options {
	opts := tui.Options{Kind: practice.DrillGlyphs}
	if cfg.Words {
		opts.Kind = practice.DrillWords
	}
	opts.Glyph = practice.GlyphDrillRequest{
		UseKanji:  cfg.UseKanji,
		KanjiOnly: cfg.KanjiOnly,
		Size:      cfg.Size,
		Mode:      cfg.Mode,
		Quotas:    cfg.Quotas,
	}
	opts.Word = practice.WordDrillRequest{
		Size:   cfg.Size,
		Mode:   cfg.Mode,
		Quotas: cfg.Quotas,
	}
	return opts
}

// loadDictionary reads path, or the default path. A missing default
// dictionary falls back to the built-in one.
func loadDictionary(path string) (*dictionary.Dictionary, error) {
	explicit := path != ""
	if !explicit {
		path = config.DefaultDictionaryPath()
	}
	dict, err := dictionary.Load(path)
	if err == nil {
		logger.Debug("dictionary loaded", zap.String("path", path))
		return dict, nil
	}
	if explicit || !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load dictionary: %w", err)
	}
	logger.Info("no dictionary found, using built-in", zap.String("expected", path))
	return dictionary.Builtin()
}

func openService(cmd *cobra.Command, fileCfg config.FileConfig, drillCfg model.DrillConfig) (*practice.Service, func(), error) {
	dict, err := loadDictionary(drillCfg.DictionaryPath)
	if err != nil {
		return nil, nil, err
	}
	backend, err := openBackend(cmd, fileCfg.Statistics)
	if err != nil {
		return nil, nil, err
	}
	agg, err := newAggregator(cmd, backend, fileCfg.Statistics)
	if err != nil {
		closeBackend(backend)
		return nil, nil, err
	}
	svc := practice.NewService(dict, agg, logger)
	svc.DefaultSize = drillCfg.Size
	return svc, func() { closeBackend(backend) }, nil
}

func openBackend(cmd *cobra.Command, s config.StatisticsConfig) (store.Backend, error) {
	applyStringConfig(cmd, "backend", &statsBackend, s.Backend)
	applyStringConfig(cmd, "stats-path", &statsPath, s.Path)
	kind, err := store.ParseKind(statsBackend)
	if err != nil {
		return nil, err
	}
	path := statsPath
	if path == "" {
		path = config.DefaultStatisticsPath(string(kind))
	}
	backend, err := store.Open(kind, path, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open statistics: %w", err)
	}
	logger.Debug("statistics backend opened", zap.String("backend", string(kind)), zap.String("path", path))
	return backend, nil
}

func closeBackend(backend store.Backend) {
	if err := backend.Close(); err != nil {
		logger.Warn("failed to close statistics backend", zap.Error(err))
	}
}

func newAggregator(cmd *cobra.Command, backend stats.Backend, s config.StatisticsConfig) (*stats.Aggregator, error) {
	applyIntConfig(cmd, "write-attempts", &statsWriteAttempts, s.WriteAttempts)
	if !cmd.Flags().Changed("retry-delay") {
		d, ok, err := s.RetryDelayDuration()
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if ok {
			statsRetryDelay = d
		}
	}
	if statsWriteAttempts <= 0 {
		return nil, fmt.Errorf("--write-attempts must be > 0")
	}
	if statsRetryDelay < 0 {
		return nil, fmt.Errorf("--retry-delay must be >= 0")
	}
	return stats.NewAggregator(backend,
		stats.WithWriteAttempts(statsWriteAttempts),
		stats.WithRetryDelay(statsRetryDelay),
		stats.WithLogger(logger),
	), nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# glyphdrill configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# dictionary = %q
# words = false           # Drill words instead of glyphs
# size = %d               # Entries per drill
# mode = "character"      # Exercise mode
# use-kanji = false       # Include kanji in glyph drills
# kanji-only = false      # Drill kanji only

# Quotas are applied in order; the rest of the drill comes from untagged entries.
# [[practice.quota]]
# tag = "vowel"
# count = 4

[statistics]
# backend = %q            # file, sqlite or bolt
# path = %q
# write-attempts = %d
# retry-delay = %q
`,
		config.DefaultDictionaryPath(),
		practice.DefaultExerciseSize,
		defaultBackend,
		config.DefaultStatisticsPath(defaultBackend),
		stats.DefaultWriteAttempts,
		stats.DefaultRetryDelay.String(),
	)
}
