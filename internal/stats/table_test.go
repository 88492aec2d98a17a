package stats

import "testing"

func TestTextTableAlignsColumns(t *testing.T) {
	table := newTextTable([]string{"Key", "Count", "Avg"}, alignLeft, alignRight, alignRight)
	table.add("type", "12", "97.5")
	table.add("word-exercise", "3", "8.0")

	lines := table.lines()
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "Key           Count  Avg" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[1] != "type             12 97.5" {
		t.Fatalf("unexpected row line: %q", lines[1])
	}
	if lines[2] != "word-exercise     3  8.0" {
		t.Fatalf("unexpected row line: %q", lines[2])
	}
}

func TestTextTableUsesCellWidth(t *testing.T) {
	table := newTextTable([]string{"Glyph", "N"})
	table.add("日本", "1")
	table.add("a", "2")
	lines := table.lines()
	if lines[1] != "日本  1" {
		t.Fatalf("unexpected wide row: %q", lines[1])
	}
	if lines[2] != "a     2" {
		t.Fatalf("unexpected narrow row: %q", lines[2])
	}
}

func TestTextTableShortRows(t *testing.T) {
	table := newTextTable(nil)
	table.add("a", "bb")
	table.add("ccc")
	lines := table.lines()
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[1] != "ccc   " {
		t.Fatalf("unexpected padded row: %q", lines[1])
	}
	if got := newTextTable(nil).lines(); got != nil {
		t.Fatalf("expected no lines, got %q", got)
	}
}
