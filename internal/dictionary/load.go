package dictionary

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/glyphdrill/internal/model"
)

// Format is a dictionary file encoding.
type Format string

// Supported formats. JSON is decoded by the YAML decoder.
const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// ErrUnknownFormat is returned for an unsupported file extension.
var ErrUnknownFormat = errors.New("unknown dictionary format")

type fileDictionary struct {
	Glyphs      []fileEntry `toml:"glyphs" yaml:"glyphs"`
	GlyphGroups []fileGroup `toml:"glyph_groups" yaml:"glyph_groups"`
	Words       []fileEntry `toml:"words" yaml:"words"`
	WordGroups  []fileGroup `toml:"word_groups" yaml:"word_groups"`
}

type fileGroup struct {
	Name    string      `toml:"name" yaml:"name"`
	Enabled bool        `toml:"enabled" yaml:"enabled"`
	Comment string      `toml:"comment" yaml:"comment"`
	Entries []fileEntry `toml:"entries" yaml:"entries"`
}

type fileEntry struct {
	Kind          string   `toml:"kind" yaml:"kind"`
	Display       string   `toml:"display" yaml:"display"`
	Pronunciation string   `toml:"pronunciation" yaml:"pronunciation"`
	Readings      []string `toml:"readings" yaml:"readings"`
	Syllable      string   `toml:"syllable" yaml:"syllable"`
	Meaning       string   `toml:"meaning" yaml:"meaning"`
	Tags          []string `toml:"tags" yaml:"tags"`
}

// FormatForPath picks the format from the file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml", ".json":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// Load reads a dictionary file.
func Load(path string) (*Dictionary, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dictionary: %w", err)
	}
	dict, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to load dictionary %s: %w", path, err)
	}
	return dict, nil
}

// Decode parses dictionary data. Unknown fields are rejected.
func Decode(data []byte, format Format) (*Dictionary, error) {
	var doc fileDictionary
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), &doc)
		if err != nil {
			return nil, fmt.Errorf("failed to decode toml: %w", err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown dictionary field %q", undecoded[0].String())
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to decode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return doc.convert()
}

func (doc fileDictionary) convert() (*Dictionary, error) {
	var (
		dict Dictionary
		err  error
	)
	if dict.Glyphs, err = convertEntries("glyphs", doc.Glyphs); err != nil {
		return nil, err
	}
	if dict.Words, err = convertEntries("words", doc.Words); err != nil {
		return nil, err
	}
	if dict.GlyphGroups, err = convertGroups("glyph_groups", doc.GlyphGroups); err != nil {
		return nil, err
	}
	if dict.WordGroups, err = convertGroups("word_groups", doc.WordGroups); err != nil {
		return nil, err
	}
	return &dict, nil
}

func convertGroups(section string, groups []fileGroup) ([]Group, error) {
	out := make([]Group, 0, len(groups))
	for i, g := range groups {
		name := strings.TrimSpace(g.Name)
		if name == "" {
			return nil, fmt.Errorf("%s[%d]: group name is empty", section, i)
		}
		entries, err := convertEntries(fmt.Sprintf("%s[%s]", section, name), g.Entries)
		if err != nil {
			return nil, err
		}
		out = append(out, Group{Name: name, Enabled: g.Enabled, Comment: g.Comment, Entries: entries})
	}
	return out, nil
}

func convertEntries(section string, entries []fileEntry) ([]model.Entry, error) {
	out := make([]model.Entry, 0, len(entries))
	for i, fe := range entries {
		kind, err := model.ParseKind(fe.Kind)
		if err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", section, i, err)
		}
		display := strings.TrimSpace(fe.Display)
		if display == "" {
			return nil, fmt.Errorf("%s[%d]: display is empty", section, i)
		}
		out = append(out, model.Entry{
			Kind:          kind,
			Display:       display,
			Pronunciation: strings.TrimSpace(fe.Pronunciation),
			Readings:      cleanList(fe.Readings),
			Syllable:      strings.TrimSpace(fe.Syllable),
			Meaning:       strings.TrimSpace(fe.Meaning),
			Tags:          cleanList(fe.Tags),
		})
	}
	return out, nil
}

func cleanList(items []string) []string {
	var out []string
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
