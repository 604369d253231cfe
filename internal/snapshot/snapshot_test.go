package snapshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audiodup/audiodup/internal/catalog"
	"github.com/audiodup/audiodup/internal/fingerprint"
)

func mustFingerprint(t *testing.T, words []uint32) *fingerprint.Fingerprint {
	t.Helper()
	fp, err := fingerprint.New("", words, 11025, 5*time.Second)
	require.NoError(t, err)
	return fp
}

func TestBuildCapturesEveryFileEntry(t *testing.T) {
	cat := catalog.New()
	_, err := cat.AddFile("/a.wav", mustFingerprint(t, []uint32{1, 2, 3}))
	require.NoError(t, err)
	_, err = cat.AddFile("/b.wav", mustFingerprint(t, []uint32{4, 5, 6}))
	require.NoError(t, err)

	archive := Build(cat, time.Unix(0, 0).UTC())
	assert.Len(t, archive.Entries, 2)
}

func TestCompressProducesNonEmptyOutputWithMagicHeader(t *testing.T) {
	cat := catalog.New()
	_, err := cat.AddFile("/a.wav", mustFingerprint(t, []uint32{1, 2, 3, 4, 5}))
	require.NoError(t, err)

	archive := Build(cat, time.Unix(0, 0).UTC())
	out, err := Compress(archive, 9)
	require.NoError(t, err)
	assert.Greater(t, len(out), 4)
	assert.Equal(t, []byte("ADUP"), out[:4])
}

func TestCompressionRatioIsNonNegative(t *testing.T) {
	cat := catalog.New()
	for i := 0; i < 20; i++ {
		_, err := cat.AddFile("/a.wav", mustFingerprint(t, []uint32{1, 2, 3, 4, 5, 6, 7, 8}))
		require.NoError(t, err)
	}

	archive := Build(cat, time.Unix(0, 0).UTC())
	ratio, err := CompressionRatio(archive, 9)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, ratio, 0.0)
}

func TestCompressionRatioEmptyArchiveIsZero(t *testing.T) {
	ratio, err := CompressionRatio(Archive{}, 9)
	require.NoError(t, err)
	assert.Equal(t, 0.0, ratio)
}
