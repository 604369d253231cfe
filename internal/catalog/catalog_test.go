package catalog

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audiodup/audiodup/internal/fingerprint"
)

func randomWords(n int, seed int64) []uint32 {
	r := rand.New(rand.NewSource(seed))
	out := make([]uint32, n)
	for i := range out {
		out[i] = r.Uint32()
	}
	return out
}

func mustFP(t *testing.T, data []uint32) *fingerprint.Fingerprint {
	t.Helper()
	fp, err := fingerprint.New("x.wav", data, 11025, time.Second)
	require.NoError(t, err)
	return fp
}

func TestAddFileAndGetFile(t *testing.T) {
	c := New()
	id, err := c.AddFile("a.wav", mustFP(t, randomWords(50, 1)))
	require.NoError(t, err)

	entry, ok := c.GetFile(id)
	require.True(t, ok)
	assert.Equal(t, "a.wav", entry.Path)
	assert.Equal(t, 1, c.Len())
}

func TestAddFileRejectsEmptyFingerprint(t *testing.T) {
	c := New()
	_, err := c.AddFile("a.wav", nil)
	assert.Error(t, err)
}

func TestGetFileUnknownIDReturnsNotFound(t *testing.T) {
	c := New()
	_, ok := c.GetFile("unknown")
	assert.False(t, ok)
}

func TestClearRemovesEverything(t *testing.T) {
	c := New()
	_, err := c.AddFile("a.wav", mustFP(t, randomWords(50, 2)))
	require.NoError(t, err)

	c.Clear()
	assert.Zero(t, c.Len())
}

func TestAddFilesBatchSkipsInvalidEntries(t *testing.T) {
	c := New()
	ids := c.AddFilesBatch(
		[]string{"a.wav", "bad.wav"},
		[]*fingerprint.Fingerprint{mustFP(t, randomWords(50, 3)), nil},
	)

	assert.NotEmpty(t, ids[0])
	assert.Empty(t, ids[1])
	assert.Equal(t, 1, c.Len())
}

func TestFindAllDuplicatesParallelFindsIdenticalFiles(t *testing.T) {
	c := New()
	words := randomWords(200, 4)
	_, err := c.AddFile("a.wav", mustFP(t, words))
	require.NoError(t, err)
	_, err = c.AddFile("b.wav", mustFP(t, words))
	require.NoError(t, err)
	_, err = c.AddFile("c.wav", mustFP(t, randomWords(200, 5)))
	require.NoError(t, err)

	groups := c.FindAllDuplicatesParallel(context.Background(), 4)
	require.Len(t, groups, 1)
	assert.Len(t, groups[0].FileIDs, 2)
}

func TestConfigSettersDelegateToSnapshot(t *testing.T) {
	c := New()
	require.NoError(t, c.SetSimilarityThreshold(0.9))
	assert.Equal(t, 0.9, c.Config().SimilarityThreshold)

	assert.Error(t, c.SetSimilarityThreshold(2.0))
	assert.Equal(t, 0.9, c.Config().SimilarityThreshold, "rejected update must not change the active snapshot")
}

func TestCandidatesCachedFallsBackWithoutAttachedCache(t *testing.T) {
	c := New()
	words := randomWords(200, 7)
	id, err := c.AddFile("a.wav", mustFP(t, words))
	require.NoError(t, err)

	got := c.CandidatesCached(context.Background(), mustFP(t, words))
	assert.Contains(t, got, id)
}
