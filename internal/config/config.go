// Package config holds the comparator/index tuning knobs as an
// immutable snapshot published behind an atomic pointer. Setters build
// a new Snapshot and swap it in; a query loads the snapshot once at
// entry and uses it throughout, so concurrent setters never produce a
// mid-query inconsistency (spec §3, §9 "dynamic config setters →
// immutable snapshot").
package config

import (
	"sync/atomic"

	"github.com/audiodup/audiodup/internal/errors"
)

// Snapshot is a fully-resolved, read-only configuration in effect for
// the duration of one query.
type Snapshot struct {
	SimilarityThreshold float64
	BitErrorThreshold   float64
	MinimumOverlap      int
	MaxAlignmentOffset  int
	AlignmentStep       int
	HashThreshold       int

	SlidingWindowSize          int
	SlidingWindowStride        int
	SegmentMinSimilarityFactor float64

	GroupCoverageMin         float64
	GroupMinMatchingSegments int

	// QuickFilterSlack is the factor applied to SimilarityThreshold when
	// deciding the Jaccard admission bound in the comparator's quick
	// filter (spec §4.3.4, §9). 0.6 is the default carried from the
	// source implementation.
	QuickFilterSlack float64
}

// Default returns the spec's default configuration (spec §3).
func Default() *Snapshot {
	return &Snapshot{
		SimilarityThreshold: 0.85,
		BitErrorThreshold:   0.15,
		MinimumOverlap:      10,
		MaxAlignmentOffset:  360,
		AlignmentStep:       6,
		HashThreshold:       5,

		SlidingWindowSize:          60,
		SlidingWindowStride:        30,
		SegmentMinSimilarityFactor: 0.8,

		GroupCoverageMin:         0.5,
		GroupMinMatchingSegments: 3,

		QuickFilterSlack: 0.6,
	}
}

// clone returns a shallow copy so setters never mutate a snapshot that
// a concurrent reader may still be holding.
func (s *Snapshot) clone() *Snapshot {
	c := *s
	return &c
}

// Manager owns the atomically-published active Snapshot.
type Manager struct {
	active atomic.Pointer[Snapshot]
}

// NewManager creates a Manager seeded with the default Snapshot.
func NewManager() *Manager {
	m := &Manager{}
	m.active.Store(Default())
	return m
}

// Load returns the Snapshot in effect right now. Callers that need
// stability across a multi-step query should call this once and reuse
// the result rather than calling Load repeatedly.
func (m *Manager) Load() *Snapshot {
	return m.active.Load()
}

// Update applies mutate to a clone of the current snapshot and
// publishes the result atomically. mutate should validate its own
// field and return a *errors.DomainError (via the Invalid* helpers) on
// rejection; on error the active snapshot is left untouched.
func (m *Manager) Update(mutate func(*Snapshot) error) error {
	next := m.Load().clone()
	if err := mutate(next); err != nil {
		return err
	}
	m.active.Store(next)
	return nil
}

// SetSimilarityThreshold validates and publishes a new similarity
// threshold.
func (m *Manager) SetSimilarityThreshold(v float64) error {
	return m.Update(func(s *Snapshot) error {
		if v < 0 || v > 1 {
			return errors.InvalidConfiguration("similarity_threshold", "must be in [0,1]")
		}
		s.SimilarityThreshold = v
		return nil
	})
}

// SetBitErrorThreshold validates and publishes a new BER threshold.
func (m *Manager) SetBitErrorThreshold(v float64) error {
	return m.Update(func(s *Snapshot) error {
		if v < 0 || v > 1 {
			return errors.InvalidConfiguration("bit_error_threshold", "must be in [0,1]")
		}
		s.BitErrorThreshold = v
		return nil
	})
}

// SetMinimumOverlap validates and publishes a new minimum overlap.
func (m *Manager) SetMinimumOverlap(v int) error {
	return m.Update(func(s *Snapshot) error {
		if v < 1 {
			return errors.InvalidConfiguration("minimum_overlap", "must be >= 1")
		}
		s.MinimumOverlap = v
		return nil
	})
}

// SetMaxAlignmentOffset validates and publishes a new alignment
// half-range.
func (m *Manager) SetMaxAlignmentOffset(v int) error {
	return m.Update(func(s *Snapshot) error {
		if v < 0 {
			return errors.InvalidConfiguration("max_alignment_offset", "must be >= 0")
		}
		s.MaxAlignmentOffset = v
		return nil
	})
}

// SetAlignmentStep validates and publishes a new correlation stride.
func (m *Manager) SetAlignmentStep(v int) error {
	return m.Update(func(s *Snapshot) error {
		if v < 1 {
			return errors.InvalidConfiguration("alignment_step", "must be >= 1")
		}
		s.AlignmentStep = v
		return nil
	})
}

// SetHashThreshold validates and publishes a new candidate hash
// threshold.
func (m *Manager) SetHashThreshold(v int) error {
	return m.Update(func(s *Snapshot) error {
		if v < 1 {
			return errors.InvalidConfiguration("hash_threshold", "must be >= 1")
		}
		s.HashThreshold = v
		return nil
	})
}

// SetSlidingWindow validates and publishes a new sliding-window size
// and stride together, since stride defaults from size.
func (m *Manager) SetSlidingWindow(size, stride int) error {
	return m.Update(func(s *Snapshot) error {
		if size < 1 {
			return errors.InvalidConfiguration("sliding_window_size", "must be >= 1")
		}
		if stride < 1 {
			return errors.InvalidConfiguration("sliding_window_stride", "must be >= 1")
		}
		s.SlidingWindowSize = size
		s.SlidingWindowStride = stride
		return nil
	})
}

// SetGroupCoverageMin validates and publishes a new minimum coverage
// ratio for sliding-window group membership.
func (m *Manager) SetGroupCoverageMin(v float64) error {
	return m.Update(func(s *Snapshot) error {
		if v < 0 || v > 1 {
			return errors.InvalidConfiguration("group_coverage_min", "must be in [0,1]")
		}
		s.GroupCoverageMin = v
		return nil
	})
}
