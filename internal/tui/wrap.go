package tui

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/glyphdrill/internal/model"
	"github.com/verte-zerg/glyphdrill/internal/practice"
)

const (
	cellGap         = "  "
	hiddenValue     = "???"
	placeholderCell = "?"
)

type styledCell struct {
	s     string
	width int
}

// cellState tracks what the user did with one entry.
type cellState struct {
	revealed bool
	peeked   bool
}

func (c cellState) done() bool {
	return c.revealed || c.peeked
}

func buildCells(entries []model.Entry, states []cellState, hidden practice.Field, cursor int) []styledCell {
	out := make([]styledCell, 0, len(entries))
	for i, e := range entries {
		label := cellLabel(e, hidden, states[i].done())
		style := pendingStyle
		switch {
		case states[i].peeked:
			style = peekedStyle
		case states[i].revealed:
			style = revealedStyle
		}
		if i == cursor {
			style = style.Underline(true)
		}
		out = append(out, styledCell{
			s:     style.Render(label),
			width: runewidth.StringWidth(label),
		})
	}
	return out
}

// cellLabel picks the first visible of display, pronunciation, meaning and
// kind. A completed entry always shows its display form.
func cellLabel(e model.Entry, hidden practice.Field, shown bool) string {
	if shown || !hidden.Has(practice.FieldDisplay) {
		return e.Display
	}
	if v := pronunciationOf(e); v != "" && !hidden.Has(practice.FieldPronunciation) {
		return v
	}
	if e.Meaning != "" && !hidden.Has(practice.FieldMeaning) {
		return e.Meaning
	}
	if !hidden.Has(practice.FieldKind) {
		return string(e.Kind)
	}
	return placeholderCell
}

func pronunciationOf(e model.Entry) string {
	if e.Pronunciation != "" {
		return e.Pronunciation
	}
	return strings.Join(e.Readings, "/")
}

func renderDetail(e model.Entry, hidden practice.Field, shown bool) string {
	field := func(f practice.Field, v string) string {
		if v == "" {
			return ""
		}
		if hidden.Has(f) && !shown {
			return hiddenValue
		}
		return v
	}
	parts := []string{}
	add := func(label, v string) {
		if v != "" {
			parts = append(parts, label+" "+v)
		}
	}
	add("Glyph", field(practice.FieldDisplay, e.Display))
	add("Kind", field(practice.FieldKind, string(e.Kind)))
	add("Pronunciation", field(practice.FieldPronunciation, e.Pronunciation))
	add("Readings", field(practice.FieldReadings, strings.Join(e.Readings, "/")))
	add("Syllable", field(practice.FieldSyllable, e.Syllable))
	add("Meaning", field(practice.FieldMeaning, e.Meaning))
	return strings.Join(parts, " · ")
}

func maxCellWidth(cells []styledCell) int {
	width := 0
	for _, c := range cells {
		width = max(width, c.width)
	}
	return width
}

// gridColumns returns how many cells fit on a line of width cells.
func gridColumns(cells []styledCell, width int) int {
	if len(cells) == 0 {
		return 1
	}
	if width <= 0 {
		return len(cells)
	}
	step := maxCellWidth(cells) + runewidth.StringWidth(cellGap)
	cols := (width + runewidth.StringWidth(cellGap)) / step
	return max(1, min(cols, len(cells)))
}

func wrapCells(cells []styledCell, width int) string {
	cols := gridColumns(cells, width)
	cellWidth := maxCellWidth(cells)
	var out strings.Builder
	for i, c := range cells {
		col := i % cols
		if col == 0 && i > 0 {
			out.WriteRune('\n')
		}
		if col > 0 {
			out.WriteString(cellGap)
		}
		out.WriteString(c.s)
		if col < cols-1 && i < len(cells)-1 {
			out.WriteString(strings.Repeat(" ", cellWidth-c.width))
		}
	}
	return out.String()
}
