// Package sampler builds randomized drill selections from a dictionary pool.
package sampler

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/verte-zerg/glyphdrill/internal/model"
)

var (
	// ErrInvalidInput is the class of all request validation errors.
	ErrInvalidInput = errors.New("invalid sampling request")
	// ErrEmptyPool is returned when there is nothing to draw from.
	ErrEmptyPool = fmt.Errorf("%w: pool is empty", ErrInvalidInput)
	// ErrInvalidSize is returned for a non-positive size.
	ErrInvalidSize = fmt.Errorf("%w: size must be > 0", ErrInvalidInput)
	// ErrInvalidQuota is returned for a negative quota count.
	ErrInvalidQuota = fmt.Errorf("%w: quota must be >= 0", ErrInvalidInput)
)

// Source yields uniform integers in [0, n).
type Source interface {
	IntN(n int) int
}

// sharedSource draws from the math/rand/v2 top-level generator, which is
// safe for concurrent use.
type sharedSource struct{}

func (sharedSource) IntN(n int) int { return rand.IntN(n) }

// Request describes one selection.
type Request struct {
	Pool   []model.Entry
	Size   int
	Quotas model.Quotas
}

// Result is the shuffled selection. Entries may be shorter than Requested
// when neither the quota pools nor the untagged pool could fill it.
type Result struct {
	Entries   []model.Entry
	Requested int
}

// Filled returns the number of selected entries.
func (r Result) Filled() int { return len(r.Entries) }

// Missing returns how many entries could not be drawn.
func (r Result) Missing() int { return r.Requested - len(r.Entries) }

// Underfilled reports whether fewer entries than requested were drawn.
func (r Result) Underfilled() bool { return len(r.Entries) < r.Requested }

// Sampler produces randomized drill selections.
type Sampler struct {
	rnd Source
}

// New returns a Sampler backed by the shared generator.
func New() *Sampler {
	return &Sampler{rnd: sharedSource{}}
}

// NewWithSource returns a Sampler drawing from src. src must be safe for
// concurrent use if the Sampler is shared.
func NewWithSource(src Source) *Sampler {
	if src == nil {
		src = sharedSource{}
	}
	return &Sampler{rnd: src}
}

// Sample selects req.Size entries. Without quotas entries are drawn
// uniformly with replacement. With quotas each tag is drawn in order, then
// the remainder comes from untagged entries only.
func (s *Sampler) Sample(req Request) (Result, error) {
	if req.Size <= 0 {
		return Result{}, ErrInvalidSize
	}
	if len(req.Pool) == 0 {
		return Result{}, ErrEmptyPool
	}
	for _, q := range req.Quotas {
		if q.Count < 0 {
			return Result{}, fmt.Errorf("%w: tag %q has %d", ErrInvalidQuota, q.Tag, q.Count)
		}
	}

	if len(req.Quotas) == 0 {
		entries := s.draw(make([]model.Entry, 0, req.Size), req.Pool, req.Size)
		return Result{Entries: entries, Requested: req.Size}, nil
	}

	entries := make([]model.Entry, 0, req.Size)
	for _, q := range req.Quotas {
		remaining := req.Size - len(entries)
		if remaining <= 0 {
			break
		}
		tagged := filter(req.Pool, func(e model.Entry) bool { return e.HasTag(q.Tag) })
		entries = s.draw(entries, tagged, min(q.Count, remaining))
	}
	if remaining := req.Size - len(entries); remaining > 0 {
		untagged := filter(req.Pool, model.Entry.Untagged)
		entries = s.draw(entries, untagged, remaining)
	}
	s.shuffle(entries)
	return Result{Entries: entries, Requested: req.Size}, nil
}

// draw appends count entries picked with replacement from pool. An empty
// pool contributes nothing.
func (s *Sampler) draw(dst, pool []model.Entry, count int) []model.Entry {
	if len(pool) == 0 {
		return dst
	}
	for i := 0; i < count; i++ {
		dst = append(dst, pool[s.rnd.IntN(len(pool))])
	}
	return dst
}

func (s *Sampler) shuffle(entries []model.Entry) {
	for i := len(entries) - 1; i > 0; i-- {
		j := s.rnd.IntN(i + 1)
		entries[i], entries[j] = entries[j], entries[i]
	}
}

func filter(pool []model.Entry, keep func(model.Entry) bool) []model.Entry {
	var out []model.Entry
	for _, e := range pool {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
