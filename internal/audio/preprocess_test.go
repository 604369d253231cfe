package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPreprocessOptionsMatchSpecDefaults(t *testing.T) {
	d := DefaultPreprocessOptions()
	assert.Equal(t, -55.0, d.SilenceThresholdDB)
	assert.Equal(t, 100, d.PreservePaddingMS)
	assert.Equal(t, 44100, d.TargetSampleRate)
	assert.Equal(t, -20.0, d.TargetRMSDB)
	assert.Equal(t, -3.0, d.TargetPeakDB)
	assert.Equal(t, -60.0, d.NoiseFloorDB)
	assert.True(t, d.DisableDoublingAfterTrim)
	assert.Equal(t, 0.5, d.DoublingThresholdRatio)
	assert.Equal(t, 1.5, d.MinDurationForDoublingS)
}

func TestDbToLinearZeroDBIsUnityGain(t *testing.T) {
	assert.InDelta(t, 1.0, dbToLinear(0), 1e-9)
}
