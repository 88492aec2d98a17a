// Package stats contains statistics calculations and reporting.
package stats

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/verte-zerg/glyphdrill/internal/model"
)

const (
	// DefaultWriteAttempts bounds how often a store write is tried.
	DefaultWriteAttempts = 5
	// DefaultRetryDelay separates two write attempts.
	DefaultRetryDelay = 50 * time.Millisecond
)

var (
	// ErrInvalidObservation is returned for an empty key or a duration that
	// is negative or not finite.
	ErrInvalidObservation = errors.New("invalid observation")
	// ErrStoreUnavailable wraps a failed store read. Reads are not retried.
	ErrStoreUnavailable = errors.New("statistics store unavailable")
	// ErrPersistenceFailure is returned once every write attempt failed or the
	// store could not be re-read after a version conflict.
	ErrPersistenceFailure = errors.New("failed to persist statistics")
	// ErrVersionConflict is returned by a Backend when the store changed
	// since the snapshot being written was read.
	ErrVersionConflict = errors.New("statistics store version conflict")
)

// Backend reads and rewrites the whole statistics store.
type Backend interface {
	ReadStore(ctx context.Context) (model.Snapshot, error)
	WriteStore(ctx context.Context, snapshot model.Snapshot) error
}

// Observation is one completed exercise. DurationMs is per entry.
type Observation struct {
	Key        string
	DurationMs float64
	Persist    bool
}

// Result pairs the observed duration with the aggregates as they were
// before the observation was folded in.
type Result struct {
	Key       string
	CurrentMs float64
	AverageMs float64
	MinMs     float64
	MaxMs     float64
	Count     int
	Persisted bool
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithWriteAttempts overrides DefaultWriteAttempts.
func WithWriteAttempts(n int) Option {
	return func(a *Aggregator) {
		if n > 0 {
			a.attempts = n
		}
	}
}

// WithRetryDelay overrides DefaultRetryDelay.
func WithRetryDelay(d time.Duration) Option {
	return func(a *Aggregator) {
		if d >= 0 {
			a.delay = d
		}
	}
}

// WithLogger sets the logger used for retry warnings.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Aggregator) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// Aggregator maintains running mean/min/max per key.
//
// Persisting calls on one Aggregator are serialized. Writers in other
// processes are detected through the backend's version check.
type Aggregator struct {
	backend  Backend
	attempts int
	delay    time.Duration
	logger   *zap.Logger
	sleep    func(time.Duration)

	mu sync.Mutex
}

// NewAggregator returns an Aggregator over backend.
func NewAggregator(backend Backend, opts ...Option) *Aggregator {
	a := &Aggregator{
		backend:  backend,
		attempts: DefaultWriteAttempts,
		delay:    DefaultRetryDelay,
		logger:   zap.NewNop(),
		sleep:    time.Sleep,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Process folds obs into the aggregate for obs.Key when obs.Persist is set
// and returns the aggregate as it was before.
func (a *Aggregator) Process(ctx context.Context, obs Observation) (Result, error) {
	if err := validate(obs); err != nil {
		return Result{}, err
	}
	if !obs.Persist {
		snapshot, err := a.read(ctx)
		if err != nil {
			return Result{}, err
		}
		_, before := locate(&snapshot, obs.Key)
		return resultFrom(obs, before, false), nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	// A cancelled caller must not interrupt a write already under way.
	writeCtx := context.WithoutCancel(ctx)

	snapshot, err := a.read(ctx)
	if err != nil {
		return Result{}, err
	}
	var lastErr error
	for attempt := 1; attempt <= a.attempts; attempt++ {
		updated := snapshot.Clone()
		idx, before := locate(&updated, obs.Key)
		fold(&updated.Records[idx], obs.DurationMs)

		err := a.backend.WriteStore(writeCtx, updated)
		if err == nil {
			return resultFrom(obs, before, true), nil
		}
		lastErr = err
		a.logger.Warn("statistics write failed",
			zap.String("key", obs.Key),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", a.attempts),
			zap.Error(err))
		if attempt == a.attempts {
			break
		}
		if errors.Is(err, ErrVersionConflict) {
			snapshot, err = a.read(writeCtx)
			if err != nil {
				return Result{}, fmt.Errorf("%w: re-read after %w: %w", ErrPersistenceFailure, lastErr, err)
			}
			continue
		}
		a.sleep(a.delay)
	}
	return Result{}, fmt.Errorf("%w after %d attempts: %w", ErrPersistenceFailure, a.attempts, lastErr)
}

func (a *Aggregator) read(ctx context.Context) (model.Snapshot, error) {
	snapshot, err := a.backend.ReadStore(ctx)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return snapshot, nil
}

func validate(obs Observation) error {
	if obs.Key == "" {
		return fmt.Errorf("%w: key is empty", ErrInvalidObservation)
	}
	if math.IsNaN(obs.DurationMs) || math.IsInf(obs.DurationMs, 0) || obs.DurationMs < 0 {
		return fmt.Errorf("%w: duration %v", ErrInvalidObservation, obs.DurationMs)
	}
	return nil
}

// locate returns the index of key, appending a fresh record if needed, and
// a copy of the record before any update.
func locate(snapshot *model.Snapshot, key string) (int, model.Record) {
	idx := snapshot.Index(key)
	if idx < 0 {
		snapshot.Records = append(snapshot.Records, model.NewRecord(key))
		idx = len(snapshot.Records) - 1
	}
	return idx, snapshot.Records[idx]
}

// fold applies one observation to the running aggregate.
func fold(rec *model.Record, ms float64) {
	prev := float64(rec.Count)
	rec.Count++
	rec.AverageMs = (ms + rec.AverageMs*prev) / float64(rec.Count)
	rec.MinMs = math.Min(rec.MinMs, ms)
	rec.MaxMs = math.Max(rec.MaxMs, ms)
}

func resultFrom(obs Observation, before model.Record, persisted bool) Result {
	return Result{
		Key:       obs.Key,
		CurrentMs: obs.DurationMs,
		AverageMs: before.AverageMs,
		MinMs:     before.MinMs,
		MaxMs:     before.MaxMs,
		Count:     before.Count,
		Persisted: persisted,
	}
}
