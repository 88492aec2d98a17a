// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Kind is the script an entry is written in.
type Kind string

// Supported entry kinds.
const (
	KindHiragana Kind = "hiragana"
	KindKatakana Kind = "katakana"
	KindKanji    Kind = "kanji"
)

// ParseKind parses a kind name case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindHiragana, KindKatakana, KindKanji:
		return k, nil
	default:
		return "", fmt.Errorf("unknown kind %q", s)
	}
}

// Entry is one dictionary item: a single glyph or a word.
type Entry struct {
	Kind          Kind
	Display       string
	Pronunciation string
	Readings      []string
	Syllable      string
	Meaning       string
	Tags          []string
}

// HasTag reports whether the entry carries tag, ignoring case.
func (e Entry) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// Untagged reports whether the entry has no tags.
func (e Entry) Untagged() bool {
	return len(e.Tags) == 0
}

// TagQuota requests Count entries carrying Tag.
type TagQuota struct {
	Tag   string
	Count int
}

// Quotas is processed in slice order.
type Quotas []TagQuota

// Total returns the sum of all quota counts.
func (q Quotas) Total() int {
	total := 0
	for _, quota := range q {
		total += quota.Count
	}
	return total
}

// SentinelMinMs seeds MinMs of a new record so the first observation always
// replaces it.
const SentinelMinMs = float64(time.Hour / time.Millisecond)

// Record holds the running aggregate for one statistics key.
// All durations are per-entry milliseconds.
type Record struct {
	Key       string
	Count     int
	AverageMs float64
	MinMs     float64
	MaxMs     float64
}

// NewRecord returns an empty record with sentinel bounds.
func NewRecord(key string) Record {
	return Record{Key: key, MinMs: SentinelMinMs}
}

// Snapshot is the full statistics store as read from a backend.
// Version is owned by the backend and increases on every successful write.
type Snapshot struct {
	Version uint64
	Records []Record
}

// Index returns the position of key in Records or -1.
func (s Snapshot) Index(key string) int {
	for i := range s.Records {
		if s.Records[i].Key == key {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{Version: s.Version}
	if s.Records != nil {
		out.Records = make([]Record, len(s.Records))
		copy(out.Records, s.Records)
	}
	return out
}

// DrillConfig defines practice settings.
type DrillConfig struct {
	DictionaryPath string
	Words          bool
	Size           int
	Mode           string
	UseKanji       bool
	KanjiOnly      bool
	Quotas         Quotas
}

// StatsConfig defines filters for stats output.
type StatsConfig struct {
	KeyFilter string
}
