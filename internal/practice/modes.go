package practice

import (
	"fmt"
	"strings"
)

// DrillKind separates glyph drills from word drills.
type DrillKind string

const (
	DrillGlyphs DrillKind = "glyphs"
	DrillWords  DrillKind = "words"
)

// Field is a bit set of entry fields shown in a drill.
type Field uint8

const (
	FieldKind Field = 1 << iota
	FieldDisplay
	FieldReadings
	FieldPronunciation
	FieldSyllable
	FieldMeaning
)

// Has reports whether every bit of other is set in f.
func (f Field) Has(other Field) bool {
	return f&other == other
}

// Mode decides which fields stay hidden until an entry is revealed.
type Mode struct {
	Name   string
	Hidden Field
}

var glyphModes = []Mode{
	{Name: "type", Hidden: FieldKind},
	{Name: "type-pronunciation", Hidden: FieldKind | FieldReadings | FieldPronunciation},
	{Name: "character", Hidden: FieldDisplay},
	{Name: "character-pronunciation", Hidden: FieldDisplay | FieldReadings | FieldPronunciation},
	{Name: "full-description", Hidden: FieldKind | FieldReadings | FieldPronunciation | FieldSyllable | FieldMeaning},
}

var wordModes = []Mode{
	{Name: "type", Hidden: FieldKind},
	{Name: "type-pronunciation", Hidden: FieldKind | FieldPronunciation},
	{Name: "characters", Hidden: FieldDisplay},
	{Name: "full-description", Hidden: FieldKind | FieldPronunciation | FieldMeaning},
}

// DefaultMode returns the mode used when none is requested.
func DefaultMode(kind DrillKind) string {
	if kind == DrillWords {
		return "characters"
	}
	return "character"
}

// Modes lists the modes available for a drill kind.
func Modes(kind DrillKind) []Mode {
	if kind == DrillWords {
		return append([]Mode(nil), wordModes...)
	}
	return append([]Mode(nil), glyphModes...)
}

// LookupMode resolves a mode name for a drill kind. An empty name selects the
// default mode.
func LookupMode(kind DrillKind, name string) (Mode, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultMode(kind)
	}
	for _, m := range Modes(kind) {
		if m.Name == name {
			return m, nil
		}
	}
	return Mode{}, fmt.Errorf("%w: %q for %s", ErrUnknownMode, name, kind)
}

// HiddenFields returns the fields hidden by a mode.
func HiddenFields(kind DrillKind, name string) (Field, error) {
	m, err := LookupMode(kind, name)
	if err != nil {
		return 0, err
	}
	return m.Hidden, nil
}

// StatisticsKey builds the aggregate key for a drill kind and mode.
func StatisticsKey(kind DrillKind, mode string) string {
	if kind == DrillWords {
		return "word-exercise-" + mode
	}
	return "glyph-exercise-" + mode
}
