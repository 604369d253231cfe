package comparator

import (
	"math"

	"github.com/audiodup/audiodup/internal/bitutil"
	"github.com/audiodup/audiodup/internal/fingerprint"
)

// histogramSearch implements spec §4.3.3a via a posting-list join keyed
// on the 16-bit hash, rather than the O(|A|·|B|) pairwise scan the
// original implementation used (spec §9 Open Questions: "an equivalent
// posting-list join is strongly preferred in the rewrite"). It returns
// the offset of the tallest smoothed local maximum above 0.1 and
// whether any qualifying peak was found at all.
func (c *Comparator) histogramSearch(a, b *fingerprint.Fingerprint) (offset int, found bool) {
	maxOffset := c.cfg.MaxAlignmentOffset
	size := 2*maxOffset + 1
	hist := make([]float64, size)

	positionsA := postingsByHash(a)
	positionsB := postingsByHash(b)

	for hash, posA := range positionsA {
		posB, ok := positionsB[hash]
		if !ok {
			continue
		}
		for _, i := range posA {
			for _, j := range posB {
				delta := j - i
				if delta < -maxOffset || delta > maxOffset {
					continue
				}
				hist[delta+maxOffset]++
			}
		}
	}

	smoothed := gaussianSmooth(hist, 2.0)

	bestIdx := -1
	bestVal := 0.0
	for i, v := range smoothed {
		if v <= 0.1 { // local maxima must exceed this value
			continue
		}
		leftOK := i == 0 || smoothed[i-1] <= v
		rightOK := i == len(smoothed)-1 || smoothed[i+1] <= v
		if !leftOK || !rightOK {
			continue
		}
		candidateOffset := i - maxOffset
		if bestIdx == -1 {
			bestIdx, bestVal = i, v
			continue
		}
		if v > bestVal {
			bestIdx, bestVal = i, v
		} else if v == bestVal && absInt(candidateOffset) < absInt(bestIdx-maxOffset) {
			bestIdx = i
		}
	}

	if bestIdx == -1 {
		return 0, false
	}
	return bestIdx - maxOffset, true
}

// postingsByHash buckets a fingerprint's word positions by their
// low-16-bit hash, the same keying the inverted index uses.
func postingsByHash(fp *fingerprint.Fingerprint) map[uint16][]int {
	out := make(map[uint16][]int)
	for i := 0; i < fp.Len(); i++ {
		h := bitutil.LowHash16(fp.At(i))
		out[h] = append(out[h], i)
	}
	return out
}

// gaussianSmooth convolves hist with a discrete Gaussian kernel of the
// given sigma, truncated at +/-3 sigma (spec §4.3.3a step 2).
func gaussianSmooth(hist []float64, sigma float64) []float64 {
	radius := int(math.Ceil(3 * sigma))
	kernel := make([]float64, 2*radius+1)
	sum := 0.0
	for i := -radius; i <= radius; i++ {
		v := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		kernel[i+radius] = v
		sum += v
	}
	for i := range kernel {
		kernel[i] /= sum
	}

	out := make([]float64, len(hist))
	for i := range hist {
		acc := 0.0
		for k := -radius; k <= radius; k++ {
			idx := i + k
			if idx < 0 || idx >= len(hist) {
				continue
			}
			acc += hist[idx] * kernel[k+radius]
		}
		out[i] = acc
	}
	return out
}

// correlationSearch implements spec §4.3.3b: evaluate similarity(k) on
// a coarse grid and keep the best, ties broken by smaller |k|.
func (c *Comparator) correlationSearch(a, b *fingerprint.Fingerprint) int {
	maxOffset := c.cfg.MaxAlignmentOffset
	step := c.cfg.AlignmentStep

	best := 0
	bestSim := -1.0
	consider := func(k int) {
		sim, _ := c.similarityAt(a, b, k)
		if sim > bestSim || (sim == bestSim && absInt(k) < absInt(best)) {
			best = k
			bestSim = sim
		}
	}

	k := -maxOffset
	for ; k <= maxOffset; k += step {
		consider(k)
	}
	// The grid "-max, -max+step, ..., +max" always includes the
	// upper endpoint explicitly even when step does not evenly divide
	// 2*maxOffset.
	if k-step != maxOffset {
		consider(maxOffset)
	}
	return best
}
