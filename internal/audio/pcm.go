package audio

import (
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// DecodePCM fully decodes a WAV file into an integer PCM buffer, the
// input ComputeRMSDB takes to check whether a preprocessed file landed
// near TargetRMSDB without re-invoking ffmpeg.
func DecodePCM(path string) (*audio.IntBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// ComputeRMSDB returns the RMS level of buf in dBFS, the same unit
// PreprocessOptions.TargetRMSDB is expressed in.
func ComputeRMSDB(buf *audio.IntBuffer) float64 {
	if buf == nil || len(buf.Data) == 0 {
		return math.Inf(-1)
	}

	maxAmplitude := float64(int(1) << (buf.SourceBitDepth - 1))
	var sumSquares float64
	for _, sample := range buf.Data {
		normalized := float64(sample) / maxAmplitude
		sumSquares += normalized * normalized
	}
	rms := math.Sqrt(sumSquares / float64(len(buf.Data)))
	if rms == 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(rms)
}
