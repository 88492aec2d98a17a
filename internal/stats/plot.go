package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/verte-zerg/glyphdrill/internal/model"
)

type ansiColor struct {
	name string
	code string
}

const (
	minPlotWidth        = 10
	maxLabelWidth       = 32
	axisSeparator       = " │ "
	rangeNote           = "Scale 0 to slowest max; ━ spans min..max, ● marks the average."
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80

	rangeEmpty = '·'
	rangeSpan  = '━'
	rangeMean  = '●'
)

var colorPalette = []ansiColor{
	{name: "cyan", code: "\x1b[36m"},
	{name: "magenta", code: "\x1b[35m"},
	{name: "yellow", code: "\x1b[33m"},
	{name: "green", code: "\x1b[32m"},
	{name: "blue", code: "\x1b[34m"},
}

// PlotRanges renders one min/avg/max bar per record on a shared scale.
func PlotRanges(w io.Writer, title string, records []model.Record, totalWidth int) error {
	return plotRanges(w, title, records, totalWidth, false)
}

// PlotRangesWithColor renders range bars with optional forced color output.
func PlotRangesWithColor(w io.Writer, title string, records []model.Record, totalWidth int, forceColor bool) error {
	return plotRanges(w, title, records, totalWidth, forceColor)
}

func plotRanges(w io.Writer, title string, records []model.Record, totalWidth int, forceColor bool) error {
	records = filterRanged(records)
	if len(records) == 0 {
		return nil
	}
	if totalWidth <= 0 {
		totalWidth = terminalWidth()
	}
	labelWidth := rangeLabelWidth(records)
	width := PlotWidthFor(totalWidth, labelWidth)
	scale := 0.0
	for _, rec := range records {
		scale = math.Max(scale, rec.MaxMs)
	}
	if scale <= 0 {
		scale = 1
	}

	useColor := shouldUseColor(w, forceColor)
	if title != "" {
		if _, err := fmt.Fprintln(w, title); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, rangeNote); err != nil {
		return err
	}
	for i, rec := range records {
		bar := RangeBar(rec, scale, width)
		if useColor {
			bar = colorPalette[i%len(colorPalette)].code + bar + colorReset
		}
		label := runewidth.FillRight(runewidth.Truncate(rec.Key, labelWidth, "…"), labelWidth)
		if _, err := fmt.Fprintf(w, "%s%s%s %s..%s ms\n", label, axisSeparator, bar, FormatMs(rec.MinMs), FormatMs(rec.MaxMs)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "%*s%s0%s%s ms\n\n", labelWidth, "", axisSeparator, strings.Repeat(" ", max(width-2, 1)), FormatMs(scale)); err != nil {
		return err
	}
	return nil
}

// RangeBar draws a width-cell bar for rec scaled so that scale maps to the
// last cell.
func RangeBar(rec model.Record, scale float64, width int) string {
	if width < 1 {
		width = 1
	}
	cells := make([]rune, width)
	for i := range cells {
		cells[i] = rangeEmpty
	}
	lo := valueToCell(rec.MinMs, scale, width)
	hi := valueToCell(rec.MaxMs, scale, width)
	for i := lo; i <= hi; i++ {
		cells[i] = rangeSpan
	}
	cells[valueToCell(rec.AverageMs, scale, width)] = rangeMean
	return string(cells)
}

func filterRanged(records []model.Record) []model.Record {
	out := make([]model.Record, 0, len(records))
	for _, rec := range records {
		if rec.Count == 0 {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func rangeLabelWidth(records []model.Record) int {
	width := 0
	for _, rec := range records {
		width = max(width, runewidth.StringWidth(rec.Key))
	}
	return min(width, maxLabelWidth)
}

// PlotWidthFor computes a bar width that fits within the total available
// width next to labels of labelWidth cells and the min..max suffix.
func PlotWidthFor(totalWidth, labelWidth int) int {
	if totalWidth <= 0 {
		return minPlotWidth
	}
	suffix := len(" 99999.9..99999.9 ms")
	plotWidth := totalWidth - labelWidth - runewidth.StringWidth(axisSeparator) - suffix
	if plotWidth < minPlotWidth {
		plotWidth = minPlotWidth
	}
	return plotWidth
}

// TerminalWidth reports the stdout width or a fallback.
func TerminalWidth() int {
	return terminalWidth()
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func valueToCell(v, scale float64, width int) int {
	if width <= 1 || scale <= 0 {
		return 0
	}
	cell := int(math.Round(v / scale * float64(width-1)))
	if cell < 0 {
		cell = 0
	}
	if cell >= width {
		cell = width - 1
	}
	return cell
}
