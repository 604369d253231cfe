package comparator

import (
	"sort"
	"time"

	"github.com/audiodup/audiodup/internal/bitutil"
	"github.com/audiodup/audiodup/internal/fingerprint"
	"github.com/audiodup/audiodup/internal/metrics"
)

// CompareSlidingWindow implements spec §4.3.6: a segment-level
// comparison tolerant to non-uniform silence padding and partial
// overlaps. It never errors; fingerprints shorter than the configured
// window, or pairs with no accepted segment matches, yield a zeroed,
// non-duplicate result.
func (c *Comparator) CompareSlidingWindow(a, b *fingerprint.Fingerprint) MatchResult {
	start := time.Now()
	defer func() {
		metrics.Get().CompareDuration.WithLabelValues("sliding_window").Observe(time.Since(start).Seconds())
		metrics.Get().CompareTotal.WithLabelValues("sliding_window").Inc()
	}()

	windowSize := c.cfg.SlidingWindowSize
	if a.Len() < windowSize || b.Len() < windowSize {
		return MatchResult{}
	}

	candidates := c.findSegmentMatches(a, b)
	kept := dropOverlapping(candidates, windowSize)

	if len(kept) == 0 {
		return MatchResult{}
	}

	segmentMatches := make([]SegmentMatch, len(kept))
	for i, s := range kept {
		segmentMatches[i] = SegmentMatch{Offset: s.bStart - s.aStart, Similarity: s.similarity}
	}

	overallSim := weightedAverage(segmentMatches)
	bestOffset := segmentMatches[0].Offset

	ber := c.bitErrorRateAt(a, b, bestOffset)
	coverage := slidingCoverageRatio(len(kept), windowSize, a.Len(), b.Len())

	result := MatchResult{
		SimilarityScore: overallSim,
		BestOffset:      bestOffset,
		MatchedSegments: len(kept),
		BitErrorRate:    ber,
		SegmentMatches:  segmentMatches,
		CoverageRatio:   coverage,
	}
	result.IsDuplicate = overallSim >= c.cfg.SimilarityThreshold &&
		ber <= c.cfg.BitErrorThreshold &&
		coverage >= c.cfg.GroupCoverageMin &&
		len(kept) >= c.cfg.GroupMinMatchingSegments
	if result.IsDuplicate {
		metrics.Get().DuplicatesFound.WithLabelValues("sliding_window").Inc()
	}
	return result
}

// segment is the internal representation of a candidate sliding-window
// match, carrying both A and B positions so overlap filtering can
// compare A-window proximity directly.
type segment struct {
	aStart     int
	bStart     int
	similarity float64
}

// findSegmentMatches slides a window of SlidingWindowSize words over A
// with stride SlidingWindowStride; for each window it scans B for the
// best-aligned equal-size window using a coarse AlignmentStep stride,
// and keeps the match if it clears SegmentMinSimilarityFactor *
// SimilarityThreshold (spec §4.3.6 step 2).
func (c *Comparator) findSegmentMatches(a, b *fingerprint.Fingerprint) []segment {
	windowSize := c.cfg.SlidingWindowSize
	stride := c.cfg.SlidingWindowStride
	if stride < 1 {
		stride = 1
	}
	step := c.cfg.AlignmentStep
	if step < 1 {
		step = 1
	}
	admission := c.cfg.SegmentMinSimilarityFactor * c.cfg.SimilarityThreshold

	var matches []segment
	for aStart := 0; aStart+windowSize <= a.Len(); aStart += stride {
		bestSim := -1.0
		bestBStart := 0
		found := false

		for bStart := 0; bStart+windowSize <= b.Len(); bStart += step {
			sim := windowSimilarity(a, aStart, b, bStart, windowSize)
			if sim > bestSim {
				bestSim = sim
				bestBStart = bStart
				found = true
			}
		}

		if found && bestSim >= admission {
			matches = append(matches, segment{aStart: aStart, bStart: bestBStart, similarity: bestSim})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].similarity != matches[j].similarity {
			return matches[i].similarity > matches[j].similarity
		}
		return matches[i].aStart < matches[j].aStart
	})
	return matches
}

// windowSimilarity computes similarity(0) between an equal-size window
// of a starting at aStart and a window of b starting at bStart.
func windowSimilarity(a *fingerprint.Fingerprint, aStart int, b *fingerprint.Fingerprint, bStart, size int) float64 {
	matchingBits := 0
	for i := 0; i < size; i++ {
		matchingBits += 32 - bitutil.Hamming32(a.At(aStart+i), b.At(bStart+i))
	}
	return float64(matchingBits) / float64(32*size)
}

// dropOverlapping keeps segments sorted by similarity descending and
// greedily discards any whose A-position lies within
// SlidingWindowSize/2 of an already-kept segment (spec §4.3.6 step 3).
func dropOverlapping(sortedBySim []segment, windowSize int) []segment {
	minSeparation := windowSize / 2

	var kept []segment
	for _, s := range sortedBySim {
		tooClose := false
		for _, k := range kept {
			if absInt(s.aStart-k.aStart) < minSeparation {
				tooClose = true
				break
			}
		}
		if !tooClose {
			kept = append(kept, s)
		}
	}
	return kept
}

// weightedAverage computes Σ s_i^2 / Σ s_i, the similarity-weighted
// mean the source implementation uses (spec §4.3.6 step 4, §9): it
// upweights strong segments relative to a plain mean.
func weightedAverage(matches []SegmentMatch) float64 {
	var sumSq, sum float64
	for _, m := range matches {
		sumSq += m.Similarity * m.Similarity
		sum += m.Similarity
	}
	if sum == 0 {
		return 0
	}
	return sumSq / sum
}

// slidingCoverageRatio mirrors the source's estimate: kept segments
// times window size, divided by the longer fingerprint's length (spec
// §4.3.6 step 6, §9 Open Questions — kept as-is rather than the
// stricter union-of-matched-intervals definition).
func slidingCoverageRatio(keptCount, windowSize, lenA, lenB int) float64 {
	denom := lenA
	if lenB > denom {
		denom = lenB
	}
	if denom == 0 {
		return 0
	}
	r := float64(keptCount*windowSize) / float64(denom)
	if r > 1 {
		r = 1
	}
	return r
}

// bitErrorRateAt computes BER over the full fingerprints at the given
// offset (spec §4.3.6 step 7, §9 Open Questions — this can reject
// otherwise-valid partial-overlap duplicates and is kept as
// documented).
func (c *Comparator) bitErrorRateAt(a, b *fingerprint.Fingerprint, offset int) float64 {
	sim, overlapLen := c.similarityAt(a, b, offset)
	if overlapLen == 0 {
		return 1
	}
	return 1 - sim
}
