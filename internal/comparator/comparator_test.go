package comparator

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audiodup/audiodup/internal/config"
	"github.com/audiodup/audiodup/internal/fingerprint"
)

func mustFP(t *testing.T, path string, data []uint32) *fingerprint.Fingerprint {
	t.Helper()
	fp, err := fingerprint.New(path, data, 11025, time.Duration(len(data))*124*time.Millisecond)
	require.NoError(t, err)
	return fp
}

func randomWords(n int, seed int64) []uint32 {
	r := rand.New(rand.NewSource(seed))
	out := make([]uint32, n)
	for i := range out {
		out[i] = r.Uint32()
	}
	return out
}

func newDefaultComparator() *Comparator {
	return New(config.Default())
}

// S1 — Identity
func TestCompareIdentity(t *testing.T) {
	c := newDefaultComparator()
	a := mustFP(t, "a.wav", randomWords(200, 1))

	result := c.Compare(a, a)

	assert.Equal(t, 1.0, result.SimilarityScore)
	assert.Zero(t, result.BitErrorRate)
	assert.Equal(t, 0, result.BestOffset)
	assert.Equal(t, 200, result.MatchedSegments)
	assert.True(t, result.IsDuplicate)
}

// S2 — Prepend 5 words
func TestComparePrependFiveWords(t *testing.T) {
	c := newDefaultComparator()
	words := randomWords(200, 2)
	a := mustFP(t, "a.wav", words)
	bWords := append([]uint32{0, 0, 0, 0, 0}, words...)
	b := mustFP(t, "b.wav", bWords)

	result := c.Compare(a, b)

	assert.Equal(t, 5, result.BestOffset)
	assert.GreaterOrEqual(t, result.SimilarityScore, 0.999)
	assert.True(t, result.IsDuplicate)
}

// S3 — Single-bit corruption
func TestCompareSingleBitCorruption(t *testing.T) {
	c := newDefaultComparator()
	words := randomWords(200, 3)
	a := mustFP(t, "a.wav", words)

	bWords := make([]uint32, len(words))
	copy(bWords, words)
	bWords[100] ^= 1 << 3
	b := mustFP(t, "b.wav", bWords)

	result := c.Compare(a, b)

	wantBER := 1.0 / (200.0 * 32.0)
	assert.InDelta(t, wantBER, result.BitErrorRate, 1e-9)
	assert.True(t, result.IsDuplicate)
}

// S4 — Disjoint
func TestCompareDisjoint(t *testing.T) {
	c := newDefaultComparator()
	a := mustFP(t, "a.wav", randomWords(300, 4))
	b := mustFP(t, "b.wav", randomWords(300, 5))

	result := c.Compare(a, b)

	assert.False(t, result.IsDuplicate, "independent random fingerprints must not be flagged as duplicates")
}

func TestCompareTooShortIsNotDuplicate(t *testing.T) {
	c := newDefaultComparator()
	a := mustFP(t, "a.wav", randomWords(5, 6))
	b := mustFP(t, "b.wav", randomWords(5, 6))

	result := c.Compare(a, b)
	assert.False(t, result.IsDuplicate)
	assert.Zero(t, result.SimilarityScore)
}

// Property: symmetry
func TestCompareSymmetry(t *testing.T) {
	c := newDefaultComparator()
	words := randomWords(200, 7)
	a := mustFP(t, "a.wav", words)
	bWords := append([]uint32{0, 0, 0}, words...)
	b := mustFP(t, "b.wav", bWords)

	ab := c.Compare(a, b)
	ba := c.Compare(b, a)

	assert.Equal(t, ab.SimilarityScore, ba.SimilarityScore)
	assert.Equal(t, ab.BestOffset, -ba.BestOffset)
}

// Property: threshold monotonicity
func TestThresholdMonotonicity(t *testing.T) {
	words := randomWords(200, 8)
	a := mustFP(t, "a.wav", words)
	bWords := make([]uint32, len(words))
	copy(bWords, words)
	for i := 0; i < 20; i++ {
		bWords[i*10] ^= 1 << uint(i%32)
	}
	b := mustFP(t, "b.wav", bWords)

	low := config.Default()
	low.SimilarityThreshold = 0.5
	high := config.Default()
	high.SimilarityThreshold = 0.99

	lowResult := New(low).Compare(a, b)
	highResult := New(high).Compare(a, b)

	if !lowResult.IsDuplicate {
		assert.False(t, highResult.IsDuplicate, "raising similarity_threshold must never turn a non-duplicate into a duplicate")
	}
}

// S6 — Sliding-window with silence padding
func TestCompareSlidingWindowWithPadding(t *testing.T) {
	cfg := config.Default()
	cfg.MaxAlignmentOffset = 360
	c := New(cfg)

	a := mustFP(t, "a.wav", randomWords(500, 9))
	silence := make([]uint32, 80)
	bWords := append(append(append([]uint32{}, silence...), a.Data()...), silence...)
	b := mustFP(t, "b.wav", bWords)

	result := c.CompareSlidingWindow(a, b)

	assert.True(t, result.IsDuplicate)
	assert.GreaterOrEqual(t, result.CoverageRatio, 0.5)
}

func TestCompareSlidingWindowTooShort(t *testing.T) {
	c := newDefaultComparator()
	a := mustFP(t, "a.wav", randomWords(10, 10))
	b := mustFP(t, "b.wav", randomWords(10, 11))

	result := c.CompareSlidingWindow(a, b)
	assert.False(t, result.IsDuplicate)
	assert.Zero(t, result.SimilarityScore)
}

func TestWeightedAverageUpweightsStrongSegments(t *testing.T) {
	matches := []SegmentMatch{{Similarity: 0.9}, {Similarity: 0.5}}
	got := weightedAverage(matches)
	assert.Greater(t, got, 0.7, "weighted average should exceed the plain mean")
}

func TestQuickFilterNeverRejectsADuplicate(t *testing.T) {
	c := newDefaultComparator()
	words := randomWords(300, 12)
	a := mustFP(t, "a.wav", words)
	bWords := make([]uint32, len(words))
	copy(bWords, words)
	b := mustFP(t, "b.wav", bWords)

	require.True(t, c.quickFilter(a, b), "quick filter rejected a pair Compare marks duplicate")
	result := c.Compare(a, b)
	require.True(t, result.IsDuplicate)
}
