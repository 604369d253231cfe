package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplySmartDoublingDoublesShortClips(t *testing.T) {
	p := NewChromaprintProducer(nil)
	words := []uint32{1, 2, 3}

	got := p.applySmartDoubling(words, 2.0, 2.0)
	assert.Equal(t, []uint32{1, 2, 3, 1, 2, 3}, got)
}

func TestApplySmartDoublingSkipsLongClips(t *testing.T) {
	p := NewChromaprintProducer(nil)
	words := []uint32{1, 2, 3}

	got := p.applySmartDoubling(words, 5.0, 3.5)
	assert.Equal(t, words, got)
}

func TestApplySmartDoublingSuppressedAfterSignificantTrim(t *testing.T) {
	pre := NewPreprocessor(DefaultPreprocessOptions())
	p := NewChromaprintProducer(pre)
	words := []uint32{1, 2, 3}

	// original 1.0s, post-trim 0.3s: ratio 0.3 < 0.5 and original < 1.5s
	got := p.applySmartDoubling(words, 1.0, 0.3)
	assert.Equal(t, words, got, "doubling should be suppressed for aggressively-trimmed very short clips")
}

func TestApplySmartDoublingNotSuppressedWhenOriginalLongEnough(t *testing.T) {
	pre := NewPreprocessor(DefaultPreprocessOptions())
	p := NewChromaprintProducer(pre)
	words := []uint32{1, 2, 3}

	// original 2.0s (>= 1.5s threshold), post-trim 0.5s: ratio 0.25 < 0.5 but original too long to suppress
	got := p.applySmartDoubling(words, 2.0, 0.5)
	assert.Equal(t, []uint32{1, 2, 3, 1, 2, 3}, got)
}
