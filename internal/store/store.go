// Package store persists the statistics store. Every backend rewrites the
// whole store on write and rejects a snapshot whose version is stale.
package store

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/verte-zerg/glyphdrill/internal/stats"
)

// Kind names a persistence backend.
type Kind string

// Supported backends.
const (
	KindFile   Kind = "file"
	KindSQLite Kind = "sqlite"
	KindBolt   Kind = "bolt"
)

// Backend is a stats.Backend that holds resources.
type Backend interface {
	stats.Backend
	Close() error
}

// ParseKind parses a backend name.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindFile, KindSQLite, KindBolt:
		return k, nil
	case "":
		return KindFile, nil
	default:
		return "", fmt.Errorf("unknown statistics backend %q (want file, sqlite or bolt)", s)
	}
}

// Open opens the backend of the given kind at path.
func Open(kind Kind, path string, logger *zap.Logger) (Backend, error) {
	switch kind {
	case KindFile, "":
		return NewFileStore(path, logger), nil
	case KindSQLite:
		st, err := OpenSQLite(path, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to open db: %w", err)
		}
		return st, nil
	case KindBolt:
		st, err := OpenBolt(path, logger)
		if err != nil {
			return nil, err
		}
		return st, nil
	default:
		return nil, fmt.Errorf("unknown statistics backend %q", kind)
	}
}
