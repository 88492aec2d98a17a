package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/glyphdrill/internal/model"
	"github.com/verte-zerg/glyphdrill/internal/stats"
)

const (
	defaultLockTimeout = 2 * time.Second
	lockRetryDelay     = 10 * time.Millisecond
)

// ErrLockTimeout is returned when the write lock could not be acquired.
var ErrLockTimeout = errors.New("timed out waiting for statistics file lock")

type fileDocument struct {
	Version  uint64        `yaml:"version"`
	Sections []fileSection `yaml:"sections"`
}

type fileSection struct {
	Key            string  `yaml:"key"`
	ExercisesCount int     `yaml:"exercises_count"`
	AverageTimeMs  float64 `yaml:"average_time_ms"`
	MinTimeMs      float64 `yaml:"min_time_ms"`
	MaxTimeMs      float64 `yaml:"max_time_ms"`
}

// FileStore keeps the statistics store in a single YAML file that is
// rewritten in full on every write. The file lock covers other processes;
// mu covers writers sharing one FileStore, since a flock handle that is
// already locked grants the lock to every caller.
type FileStore struct {
	path        string
	mu          sync.Mutex
	lock        *flock.Flock
	lockTimeout time.Duration
	logger      *zap.Logger
}

// NewFileStore returns a FileStore for path. The file is created on the
// first write.
func NewFileStore(path string, logger *zap.Logger) *FileStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStore{
		path:        path,
		lock:        flock.New(path + ".lock"),
		lockTimeout: defaultLockTimeout,
		logger:      logger,
	}
}

// Path returns the statistics file path.
func (s *FileStore) Path() string {
	return s.path
}

// Close releases the write lock if still held.
func (s *FileStore) Close() error {
	return s.lock.Close()
}

// ReadStore reads the whole file. A missing file is an empty store.
func (s *FileStore) ReadStore(_ context.Context) (model.Snapshot, error) {
	doc, err := s.readDocument()
	if err != nil {
		return model.Snapshot{}, err
	}
	snapshot := model.Snapshot{Version: doc.Version, Records: make([]model.Record, 0, len(doc.Sections))}
	for _, sec := range doc.Sections {
		snapshot.Records = append(snapshot.Records, model.Record{
			Key:       sec.Key,
			Count:     sec.ExercisesCount,
			AverageMs: sec.AverageTimeMs,
			MinMs:     sec.MinTimeMs,
			MaxMs:     sec.MaxTimeMs,
		})
	}
	return snapshot, nil
}

// WriteStore replaces the file with snapshot if the file still has
// snapshot.Version, otherwise it returns stats.ErrVersionConflict.
func (s *FileStore) WriteStore(ctx context.Context, snapshot model.Snapshot) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create statistics directory: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lockCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()
	locked, err := s.lock.TryLockContext(lockCtx, lockRetryDelay)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrLockTimeout
		}
		return fmt.Errorf("failed to lock statistics file: %w", err)
	}
	if !locked {
		return ErrLockTimeout
	}
	defer func() {
		if uerr := s.lock.Unlock(); uerr != nil {
			s.logger.Warn("failed to unlock statistics file", zap.String("path", s.path), zap.Error(uerr))
		}
	}()

	current, err := s.readDocument()
	if err != nil {
		return err
	}
	if current.Version != snapshot.Version {
		return fmt.Errorf("%w: file at version %d, snapshot at %d", stats.ErrVersionConflict, current.Version, snapshot.Version)
	}

	doc := fileDocument{Version: snapshot.Version + 1, Sections: make([]fileSection, 0, len(snapshot.Records))}
	for _, rec := range snapshot.Records {
		doc.Sections = append(doc.Sections, fileSection{
			Key:            rec.Key,
			ExercisesCount: rec.Count,
			AverageTimeMs:  rec.AverageMs,
			MinTimeMs:      rec.MinMs,
			MaxTimeMs:      rec.MaxMs,
		})
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode statistics: %w", err)
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		return err
	}
	s.logger.Debug("statistics file written", zap.String("path", s.path), zap.Uint64("version", doc.Version), zap.Int("records", len(doc.Sections)))
	return nil
}

func (s *FileStore) readDocument() (fileDocument, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fileDocument{}, nil
		}
		return fileDocument{}, fmt.Errorf("failed to read statistics file: %w", err)
	}
	var doc fileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fileDocument{}, fmt.Errorf("failed to decode statistics file %s: %w", s.path, err)
	}
	return doc, nil
}

// writeFileAtomic writes through a temp file so readers never observe a
// partially written store.
func writeFileAtomic(path string, data []byte) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "statistics-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp statistics file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write statistics: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync statistics: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close statistics: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace statistics file: %w", err)
	}
	return nil
}
