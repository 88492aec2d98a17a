package dictionary

import "github.com/verte-zerg/glyphdrill/internal/model"

// FilterFunc returns true when an entry should be kept.
type FilterFunc func(model.Entry) bool

// KindFilter selects entries by kind. KanjiOnly implies UseKanji.
type KindFilter struct {
	UseKanji  bool
	KanjiOnly bool
}

// AllKinds keeps every entry.
var AllKinds = KindFilter{UseKanji: true}

// Func returns the predicate for the filter.
func (f KindFilter) Func() FilterFunc {
	useKanji := f.UseKanji || f.KanjiOnly
	return func(e model.Entry) bool {
		if f.KanjiOnly && e.Kind != model.KindKanji {
			return false
		}
		if !useKanji && e.Kind == model.KindKanji {
			return false
		}
		return true
	}
}
