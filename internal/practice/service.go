// Package practice turns dictionary, sampler and statistics into drills.
package practice

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/verte-zerg/glyphdrill/internal/dictionary"
	"github.com/verte-zerg/glyphdrill/internal/model"
	"github.com/verte-zerg/glyphdrill/internal/sampler"
	"github.com/verte-zerg/glyphdrill/internal/stats"
)

// DefaultExerciseSize is used when neither the request nor the service sets a
// size.
const DefaultExerciseSize = 36

var (
	// ErrUnknownMode is returned for a mode the drill kind does not offer.
	ErrUnknownMode = errors.New("unknown exercise mode")
	// ErrInvalidRequest wraps request validation failures.
	ErrInvalidRequest = errors.New("invalid practice request")
)

var validate = validator.New()

// GlyphDrillRequest asks for a glyph drill. Zero Size means the default size.
type GlyphDrillRequest struct {
	UseKanji  bool
	KanjiOnly bool
	Size      int    `validate:"gte=0"`
	Mode      string `validate:"omitempty,max=64"`
	Quotas    model.Quotas
}

// WordDrillRequest asks for a word drill. Zero Size means the default size.
type WordDrillRequest struct {
	Size   int    `validate:"gte=0"`
	Mode   string `validate:"omitempty,max=64"`
	Quotas model.Quotas
}

// ObservationRequest reports one completed drill.
type ObservationRequest struct {
	Key             string  `validate:"required"`
	ExerciseSize    int     `validate:"gt=0"`
	TotalDurationMs float64 `validate:"gte=0"`
	WriteStatistics bool
}

// Drill is a generated exercise.
type Drill struct {
	ID          uuid.UUID
	Kind        DrillKind
	Mode        Mode
	Key         string
	Entries     []model.Entry
	Requested   int
	Underfilled bool
}

// Service wires the dictionary, the sampler and the aggregator together.
type Service struct {
	Dictionary  *dictionary.Dictionary
	Sampler     *sampler.Sampler
	Aggregator  *stats.Aggregator
	DefaultSize int
	Logger      *zap.Logger
}

// NewService returns a Service with a default sampler and logger.
func NewService(dict *dictionary.Dictionary, agg *stats.Aggregator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		Dictionary:  dict,
		Sampler:     sampler.New(),
		Aggregator:  agg,
		DefaultSize: DefaultExerciseSize,
		Logger:      logger,
	}
}

// DefaultExerciseSize returns the size used for requests without one.
func (s *Service) DefaultExerciseSize() int {
	if s.DefaultSize > 0 {
		return s.DefaultSize
	}
	return DefaultExerciseSize
}

// GenerateGlyphDrill samples glyphs. KanjiOnly implies UseKanji.
func (s *Service) GenerateGlyphDrill(ctx context.Context, req GlyphDrillRequest) (Drill, error) {
	if err := s.check(req); err != nil {
		return Drill{}, err
	}
	filter := dictionary.KindFilter{UseKanji: req.UseKanji || req.KanjiOnly, KanjiOnly: req.KanjiOnly}
	return s.generate(ctx, DrillGlyphs, s.Dictionary.GlyphPool(filter), req.Size, req.Mode, req.Quotas)
}

// GenerateWordDrill samples words.
func (s *Service) GenerateWordDrill(ctx context.Context, req WordDrillRequest) (Drill, error) {
	if err := s.check(req); err != nil {
		return Drill{}, err
	}
	return s.generate(ctx, DrillWords, s.Dictionary.WordPool(dictionary.AllKinds), req.Size, req.Mode, req.Quotas)
}

func (s *Service) generate(ctx context.Context, kind DrillKind, pool []model.Entry, size int, modeName string, quotas model.Quotas) (Drill, error) {
	if err := ctx.Err(); err != nil {
		return Drill{}, err
	}
	mode, err := LookupMode(kind, modeName)
	if err != nil {
		return Drill{}, err
	}
	if size == 0 {
		size = s.DefaultExerciseSize()
	}
	smp := s.Sampler
	if smp == nil {
		smp = sampler.New()
	}
	res, err := smp.Sample(sampler.Request{Pool: pool, Size: size, Quotas: quotas})
	if err != nil {
		return Drill{}, fmt.Errorf("failed to sample %s drill: %w", kind, err)
	}
	drill := Drill{
		ID:          uuid.New(),
		Kind:        kind,
		Mode:        mode,
		Key:         StatisticsKey(kind, mode.Name),
		Entries:     res.Entries,
		Requested:   res.Requested,
		Underfilled: res.Underfilled(),
	}
	s.logger().Debug("drill generated",
		zap.Stringer("id", drill.ID),
		zap.String("key", drill.Key),
		zap.Int("pool", len(pool)),
		zap.Int("requested", res.Requested),
		zap.Int("filled", res.Filled()))
	if drill.Underfilled {
		s.logger().Info("drill underfilled",
			zap.String("key", drill.Key),
			zap.Int("missing", res.Missing()))
	}
	return drill, nil
}

// RecordObservation normalizes the total duration to a per-entry duration and
// hands it to the aggregator.
func (s *Service) RecordObservation(ctx context.Context, req ObservationRequest) (stats.Result, error) {
	if err := s.check(req); err != nil {
		return stats.Result{}, err
	}
	if s.Aggregator == nil {
		return stats.Result{}, errors.New("statistics aggregator is not configured")
	}
	perEntry := req.TotalDurationMs / float64(req.ExerciseSize)
	res, err := s.Aggregator.Process(ctx, stats.Observation{
		Key:        req.Key,
		DurationMs: perEntry,
		Persist:    req.WriteStatistics,
	})
	if err != nil {
		s.logger().Error("failed to record observation", zap.String("key", req.Key), zap.Error(err))
		return stats.Result{}, err
	}
	s.logger().Debug("observation recorded",
		zap.String("key", req.Key),
		zap.Float64("per_entry_ms", perEntry),
		zap.Bool("persisted", res.Persisted))
	return res, nil
}

// Observe builds the observation for a finished drill. Any peek keeps the
// result out of the statistics.
func (d Drill) Observe(totalDurationMs float64, peeked int) ObservationRequest {
	return ObservationRequest{
		Key:             d.Key,
		ExerciseSize:    len(d.Entries),
		TotalDurationMs: totalDurationMs,
		WriteStatistics: peeked == 0,
	}
}

func (s *Service) check(req any) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return nil
}

func (s *Service) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
