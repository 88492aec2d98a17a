package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/verte-zerg/glyphdrill/internal/model"
	"github.com/verte-zerg/glyphdrill/internal/stats"
)

var (
	bucketStatistics = []byte("statistics")
	keyStore         = []byte("store")
)

// boltDocument is the JSON form of a snapshot.
type boltDocument struct {
	Version uint64       `json:"version"`
	Records []boltRecord `json:"records"`
}

type boltRecord struct {
	Key       string  `json:"key"`
	Count     int     `json:"exercises_count"`
	AverageMs float64 `json:"average_ms"`
	MinMs     float64 `json:"min_ms"`
	MaxMs     float64 `json:"max_ms"`
}

// BoltStore keeps the statistics store as one JSON document in bbolt.
type BoltStore struct {
	db     *bolt.DB
	logger *zap.Logger
}

// OpenBolt opens (or creates) a bbolt database at path.
func OpenBolt(path string, logger *zap.Logger) (*BoltStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("bbolt open: %w", err)
	}
	return &BoltStore{db: db, logger: logger}, nil
}

// Close closes the underlying bbolt database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// ReadStore returns the stored snapshot, or an empty one.
func (s *BoltStore) ReadStore(_ context.Context) (model.Snapshot, error) {
	var doc boltDocument
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		doc, err = loadDocument(tx)
		return err
	})
	if err != nil {
		return model.Snapshot{}, err
	}
	snapshot := model.Snapshot{Version: doc.Version, Records: make([]model.Record, 0, len(doc.Records))}
	for _, r := range doc.Records {
		snapshot.Records = append(snapshot.Records, model.Record{
			Key:       r.Key,
			Count:     r.Count,
			AverageMs: r.AverageMs,
			MinMs:     r.MinMs,
			MaxMs:     r.MaxMs,
		})
	}
	return snapshot, nil
}

// WriteStore replaces the document inside one update transaction.
func (s *BoltStore) WriteStore(_ context.Context, snapshot model.Snapshot) error {
	doc := boltDocument{Version: snapshot.Version + 1, Records: make([]boltRecord, 0, len(snapshot.Records))}
	for _, r := range snapshot.Records {
		doc.Records = append(doc.Records, boltRecord{
			Key:       r.Key,
			Count:     r.Count,
			AverageMs: r.AverageMs,
			MinMs:     r.MinMs,
			MaxMs:     r.MaxMs,
		})
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal statistics: %w", err)
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		current, err := loadDocument(tx)
		if err != nil {
			return err
		}
		if current.Version != snapshot.Version {
			return fmt.Errorf("%w: bolt at version %d, snapshot at %d", stats.ErrVersionConflict, current.Version, snapshot.Version)
		}
		b, err := tx.CreateBucketIfNotExists(bucketStatistics)
		if err != nil {
			return err
		}
		return b.Put(keyStore, data)
	})
	if err != nil {
		return err
	}
	s.logger.Debug("statistics bolt document written", zap.Uint64("version", doc.Version), zap.Int("records", len(doc.Records)))
	return nil
}

func loadDocument(tx *bolt.Tx) (boltDocument, error) {
	var doc boltDocument
	b := tx.Bucket(bucketStatistics)
	if b == nil {
		return doc, nil
	}
	data := b.Get(keyStore)
	if data == nil {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return boltDocument{}, fmt.Errorf("unmarshal statistics: %w", err)
	}
	return doc, nil
}
