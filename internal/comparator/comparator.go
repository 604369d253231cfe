// Package comparator implements the two fingerprint-comparison modes
// spec §4.3 describes: a single-offset Hamming comparison and a
// sliding-window segment comparison tolerant to silence padding and
// partial overlap. A Comparator is a pure function of the config
// snapshot it was built with and is safe to call concurrently from any
// number of goroutines; it never returns an error (spec §4.3.7) — bad
// inputs or empty overlaps simply yield a zeroed, non-duplicate result.
package comparator

import (
	"time"

	"github.com/audiodup/audiodup/internal/bitutil"
	"github.com/audiodup/audiodup/internal/config"
	"github.com/audiodup/audiodup/internal/fingerprint"
	"github.com/audiodup/audiodup/internal/metrics"
)

// SegmentMatch is one kept sliding-window segment match.
type SegmentMatch struct {
	Offset     int
	Similarity float64
}

// MatchResult is the outcome of comparing two fingerprints (spec §3).
type MatchResult struct {
	SimilarityScore float64
	BestOffset      int
	MatchedSegments int
	BitErrorRate    float64
	IsDuplicate     bool
	SegmentMatches  []SegmentMatch
	CoverageRatio   float64
}

// Comparator compares fingerprints under a fixed configuration
// snapshot captured at construction time.
type Comparator struct {
	cfg *config.Snapshot
}

// New builds a Comparator bound to snap. Callers (typically the
// catalog façade) should call config.Manager.Load once per query and
// pass the result here so the whole query runs against one consistent
// snapshot even if a setter publishes a new one concurrently.
func New(snap *config.Snapshot) *Comparator {
	return &Comparator{cfg: snap}
}

// Compare performs the single-offset Hamming-based comparison (spec
// §4.3.1, §4.3.5).
func (c *Comparator) Compare(a, b *fingerprint.Fingerprint) MatchResult {
	start := time.Now()
	defer func() {
		metrics.Get().CompareDuration.WithLabelValues("single").Observe(time.Since(start).Seconds())
		metrics.Get().CompareTotal.WithLabelValues("single").Inc()
	}()

	if a.Len() < c.cfg.MinimumOverlap || b.Len() < c.cfg.MinimumOverlap {
		return MatchResult{}
	}
	if !c.quickFilter(a, b) {
		return MatchResult{}
	}

	k0 := c.searchAlignment(a, b)
	bestOffset := c.refine(a, b, k0)

	sim, overlapLen := c.similarityAt(a, b, bestOffset)
	ber := 1 - sim

	result := MatchResult{
		SimilarityScore: sim,
		BestOffset:      bestOffset,
		MatchedSegments: overlapLen,
		BitErrorRate:    ber,
		CoverageRatio:   coverageRatio(overlapLen, a.Len(), b.Len()),
	}
	result.IsDuplicate = sim >= c.cfg.SimilarityThreshold &&
		ber <= c.cfg.BitErrorThreshold &&
		overlapLen >= c.cfg.MinimumOverlap
	if result.IsDuplicate {
		metrics.Get().DuplicatesFound.WithLabelValues("single").Inc()
	}
	return result
}

// similarityAt computes similarity(k) and the overlap length for
// integer offset k (spec §4.3.2).
func (c *Comparator) similarityAt(a, b *fingerprint.Fingerprint, k int) (float64, int) {
	lenA, lenB := a.Len(), b.Len()

	start := 0
	if -k > start {
		start = -k
	}
	end := lenA
	if lenB-k < end {
		end = lenB - k
	}
	if end <= start {
		return 0, 0
	}

	overlapLen := end - start
	matchingBits := 0
	for i := start; i < end; i++ {
		j := i + k
		matchingBits += 32 - bitutil.Hamming32(a.At(i), b.At(j))
	}
	totalBits := 32 * overlapLen
	return float64(matchingBits) / float64(totalBits), overlapLen
}

func coverageRatio(overlapLen, lenA, lenB int) float64 {
	denom := lenA
	if lenB > denom {
		denom = lenB
	}
	if denom == 0 {
		return 0
	}
	r := float64(overlapLen) / float64(denom)
	if r > 1 {
		r = 1
	}
	return r
}

// quickFilter rejects pairs whose low-16-bit hash sets are too
// dissimilar to possibly be duplicates (spec §4.3.4). It must never
// reject a pair Compare would mark duplicate; QuickFilterSlack is the
// empirical safety margin that guarantees this in practice.
func (c *Comparator) quickFilter(a, b *fingerprint.Fingerprint) bool {
	setA, setB := a.LowHashes(), b.LowHashes()

	small, large := setA, setB
	if len(large) < len(small) {
		small, large = large, small
	}

	intersection := 0
	for h := range small {
		if _, ok := large[h]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return false
	}

	jaccard := float64(intersection) / float64(union)
	return jaccard >= c.cfg.QuickFilterSlack*c.cfg.SimilarityThreshold
}

// searchAlignment runs the histogram and correlation searches (spec
// §4.3.3a/b) and returns the offset with the higher similarity.
func (c *Comparator) searchAlignment(a, b *fingerprint.Fingerprint) int {
	histOffset, histFound := c.histogramSearch(a, b)
	corrOffset := c.correlationSearch(a, b)

	if !histFound {
		return corrOffset
	}

	histSim, _ := c.similarityAt(a, b, histOffset)
	corrSim, _ := c.similarityAt(a, b, corrOffset)
	if histSim > corrSim {
		return histOffset
	}
	if corrSim > histSim {
		return corrOffset
	}
	return smallerAbs(histOffset, corrOffset)
}

// refine evaluates similarity(k) for k in [k0-2, k0+2] (clamped to the
// configured offset range) and returns the best such k (spec §4.3.3
// "Refinement").
func (c *Comparator) refine(a, b *fingerprint.Fingerprint, k0 int) int {
	best := k0
	bestSim, _ := c.similarityAt(a, b, k0)

	for delta := -2; delta <= 2; delta++ {
		if delta == 0 {
			continue
		}
		k := k0 + delta
		if k < -c.cfg.MaxAlignmentOffset || k > c.cfg.MaxAlignmentOffset {
			continue
		}
		sim, _ := c.similarityAt(a, b, k)
		if sim > bestSim || (sim == bestSim && absInt(k) < absInt(best)) {
			best = k
			bestSim = sim
		}
	}
	return best
}

func smallerAbs(x, y int) int {
	if absInt(x) <= absInt(y) {
		return x
	}
	return y
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
