package fingerprint

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidates(t *testing.T) {
	_, err := New("a.wav", nil, 11025, time.Second)
	assert.Error(t, err, "expected error for empty data")

	_, err = New("a.wav", []uint32{1, 2}, 11025, 0)
	assert.Error(t, err, "expected error for non-positive duration")

	big := make([]uint32, MaxLength+1)
	_, err = New("a.wav", big, 11025, time.Second)
	assert.Error(t, err, "expected error for over-length data")

	_, err = New("a.wav", []uint32{1, 2, 3}, 11025, time.Second)
	assert.NoError(t, err)
}

func TestNewCopiesData(t *testing.T) {
	data := []uint32{1, 2, 3}
	fp, err := New("a.wav", data, 11025, time.Second)
	require.NoError(t, err)

	data[0] = 999
	assert.Equal(t, uint32(1), fp.At(0), "Fingerprint must copy its input data, not alias it")
}

func TestLowHashesAndMatchesAny(t *testing.T) {
	a, err := New("a.wav", []uint32{0x0001ABCD, 0x00021234}, 11025, time.Second)
	require.NoError(t, err)
	b, err := New("b.wav", []uint32{0x9999ABCD}, 11025, time.Second)
	require.NoError(t, err)
	c, err := New("c.wav", []uint32{0x99990000}, 11025, time.Second)
	require.NoError(t, err)

	assert.True(t, a.MatchesAnyHashOf(b), "a and b share low hash 0xABCD")
	assert.False(t, a.MatchesAnyHashOf(c), "a and c share no low hash")
}
