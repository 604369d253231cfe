package invindex

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audiodup/audiodup/internal/fingerprint"
)

func mustFP(t *testing.T, data []uint32) *fingerprint.Fingerprint {
	t.Helper()
	fp, err := fingerprint.New("x.wav", data, 11025, time.Second)
	require.NoError(t, err)
	return fp
}

func TestCandidatesRanksByHitCount(t *testing.T) {
	idx := New()
	a := mustFP(t, []uint32{0x0001, 0x0002, 0x0003})
	b := mustFP(t, []uint32{0x0001, 0x0002, 0x9999})
	c := mustFP(t, []uint32{0x0001, 0x8888, 0x7777})

	idx.Insert("a", a)
	idx.Insert("b", b)
	idx.Insert("c", c)

	query := mustFP(t, []uint32{0x0001, 0x0002})
	got := idx.Candidates(query, 1)

	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestCandidatesAppliesHashThreshold(t *testing.T) {
	idx := New()
	a := mustFP(t, []uint32{0x0001, 0x0002, 0x0003})
	idx.Insert("a", a)

	query := mustFP(t, []uint32{0x0001, 0x0002, 0x0003})
	assert.Equal(t, []string{"a"}, idx.Candidates(query, 3))
	assert.Empty(t, idx.Candidates(query, 4))
}

func TestCandidatesTieBreakByFileIDAscending(t *testing.T) {
	idx := New()
	idx.Insert("z", mustFP(t, []uint32{0x1}))
	idx.Insert("a", mustFP(t, []uint32{0x1}))

	got := idx.Candidates(mustFP(t, []uint32{0x1}), 1)
	assert.Equal(t, []string{"a", "z"}, got)
}

func TestClearRemovesAllPostings(t *testing.T) {
	idx := New()
	idx.Insert("a", mustFP(t, []uint32{0x1}))
	require.NotZero(t, idx.BucketCount())

	idx.Clear()
	assert.Zero(t, idx.BucketCount())
	assert.Empty(t, idx.Candidates(mustFP(t, []uint32{0x1}), 1))
}
