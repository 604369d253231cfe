package audio

import (
	"math"
	"testing"

	"github.com/go-audio/audio"
	"github.com/stretchr/testify/assert"
)

func TestComputeRMSDBSilenceIsNegativeInfinity(t *testing.T) {
	buf := &audio.IntBuffer{
		Data:           make([]int, 1000),
		SourceBitDepth: 16,
	}
	got := ComputeRMSDB(buf)
	assert.True(t, math.IsInf(got, -1))
}

func TestComputeRMSDBFullScaleIsNearZeroDB(t *testing.T) {
	data := make([]int, 1000)
	for i := range data {
		if i%2 == 0 {
			data[i] = 32767
		} else {
			data[i] = -32768
		}
	}
	buf := &audio.IntBuffer{Data: data, SourceBitDepth: 16}

	got := ComputeRMSDB(buf)
	assert.InDelta(t, 0, got, 0.5)
}

func TestComputeRMSDBNilBuffer(t *testing.T) {
	assert.True(t, math.IsInf(ComputeRMSDB(nil), -1))
}
