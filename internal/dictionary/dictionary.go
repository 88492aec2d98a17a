// Package dictionary holds the glyph and word dictionary and flattens it into
// sampling pools.
package dictionary

import (
	"github.com/verte-zerg/glyphdrill/internal/model"
)

// Group is a named set of entries that is enabled or disabled as a whole.
type Group struct {
	Name    string
	Enabled bool
	Comment string
	Entries []model.Entry
}

// Dictionary is the loaded dictionary. Entries are never mutated after
// loading.
type Dictionary struct {
	Glyphs      []model.Entry
	GlyphGroups []Group
	Words       []model.Entry
	WordGroups  []Group
}

// GroupSummary describes one group for listing.
type GroupSummary struct {
	Section string
	Name    string
	Enabled bool
	Comment string
	Size    int
}

// GlyphPool returns the flat glyph entries plus enabled glyph groups,
// filtered by f.
func (d *Dictionary) GlyphPool(f KindFilter) []model.Entry {
	return flatten(d.Glyphs, d.GlyphGroups, f)
}

// WordPool returns the flat word entries plus enabled word groups, filtered
// by f.
func (d *Dictionary) WordPool(f KindFilter) []model.Entry {
	return flatten(d.Words, d.WordGroups, f)
}

// GroupSummaries lists every glyph group followed by every word group.
func (d *Dictionary) GroupSummaries() []GroupSummary {
	out := make([]GroupSummary, 0, len(d.GlyphGroups)+len(d.WordGroups))
	for _, g := range d.GlyphGroups {
		out = append(out, summarize("glyphs", g))
	}
	for _, g := range d.WordGroups {
		out = append(out, summarize("words", g))
	}
	return out
}

func summarize(section string, g Group) GroupSummary {
	return GroupSummary{
		Section: section,
		Name:    g.Name,
		Enabled: g.Enabled,
		Comment: g.Comment,
		Size:    len(g.Entries),
	}
}

func flatten(flat []model.Entry, groups []Group, f KindFilter) []model.Entry {
	keep := f.Func()
	var pool []model.Entry
	for _, e := range flat {
		if keep(e) {
			pool = append(pool, e)
		}
	}
	for _, g := range groups {
		if !g.Enabled {
			continue
		}
		for _, e := range g.Entries {
			if keep(e) {
				pool = append(pool, e)
			}
		}
	}
	return pool
}
