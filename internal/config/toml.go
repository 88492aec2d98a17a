// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/glyphdrill/internal/model"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Practice   PracticeConfig   `toml:"practice"`
	Statistics StatisticsConfig `toml:"statistics"`
}

// PracticeConfig maps practice-related settings.
type PracticeConfig struct {
	Dictionary *string       `toml:"dictionary"`
	Words      *bool         `toml:"words"`
	Size       *int          `toml:"size"`
	Mode       *string       `toml:"mode"`
	UseKanji   *bool         `toml:"use-kanji"`
	KanjiOnly  *bool         `toml:"kanji-only"`
	Quota      []QuotaConfig `toml:"quota"`
}

// QuotaConfig is one [[practice.quota]] table. Tables are applied in file
// order.
type QuotaConfig struct {
	Tag   string `toml:"tag"`
	Count int    `toml:"count"`
}

// StatisticsConfig maps statistics storage settings.
type StatisticsConfig struct {
	Backend       *string `toml:"backend"`
	Path          *string `toml:"path"`
	WriteAttempts *int    `toml:"write-attempts"`
	RetryDelay    *string `toml:"retry-delay"`
}

// Quotas converts the quota tables, keeping their order.
func (p PracticeConfig) Quotas() model.Quotas {
	if len(p.Quota) == 0 {
		return nil
	}
	out := make(model.Quotas, 0, len(p.Quota))
	for _, q := range p.Quota {
		out = append(out, model.TagQuota{Tag: q.Tag, Count: q.Count})
	}
	return out
}

// RetryDelayDuration parses retry-delay. A nil value returns ok=false.
func (s StatisticsConfig) RetryDelayDuration() (time.Duration, bool, error) {
	if s.RetryDelay == nil {
		return 0, false, nil
	}
	d, err := time.ParseDuration(*s.RetryDelay)
	if err != nil {
		return 0, false, fmt.Errorf("invalid retry-delay %q: %w", *s.RetryDelay, err)
	}
	if d < 0 {
		return 0, false, fmt.Errorf("retry-delay must be >= 0")
	}
	return d, true, nil
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
