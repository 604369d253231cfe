package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCandidateKeyStableForSameHashSet(t *testing.T) {
	hashes := map[uint16]struct{}{1: {}, 2: {}, 3: {}}
	assert.Equal(t, candidateKey(5, hashes), candidateKey(5, hashes))
}

func TestCandidateKeyStableAcrossInsertionOrder(t *testing.T) {
	a := map[uint16]struct{}{7: {}, 300: {}, 42: {}, 1: {}}
	b := map[uint16]struct{}{1: {}, 42: {}, 300: {}, 7: {}}
	assert.Equal(t, candidateKey(5, a), candidateKey(5, b))
}

func TestCandidateKeyDiffersByHashThreshold(t *testing.T) {
	hashes := map[uint16]struct{}{1: {}}
	assert.NotEqual(t, candidateKey(3, hashes), candidateKey(5, hashes))
}

func TestGlobalIsNilBeforeNew(t *testing.T) {
	// Global is only set by a successful New(); in a package that has
	// not connected to redis in this test binary, it stays nil rather
	// than panicking callers that check it first.
	if Global() != nil {
		t.Skip("a prior test in this binary already connected a global client")
	}
}
