package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeWordsRoundTrip(t *testing.T) {
	words := []uint32{0, 1, 0xDEADBEEF, 0xFFFFFFFF, 42}
	assert.Equal(t, words, DecodeWords(EncodeWords(words)))
}

func TestEncodeWordsEmpty(t *testing.T) {
	assert.Empty(t, EncodeWords(nil))
}
