// Package audio implements the producer side of spec §6: it turns a
// raw audio file into a Fingerprint without the core ever touching
// audio I/O directly. Preprocessing shells out to ffmpeg the same way
// the teacher's FFmpegProcessor does (context-scoped exec.Command,
// stderr captured to a buffer, temp files cleaned up by the caller);
// fingerprint extraction shells out to the external Chromaprint
// producer (fpcalc), kept opaque per spec §6.1.
package audio

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// PreprocessOptions mirrors the bitwise-stable preprocessor surface
// spec §6.2 documents, so two independent systems can agree on what
// "the same preprocessing" means.
type PreprocessOptions struct {
	TrimSilence         bool
	SilenceThresholdDB  float64
	PreservePaddingMS   int
	NormalizeSampleRate bool
	TargetSampleRate    int
	NormalizeVolume     bool
	UseRMS              bool
	TargetRMSDB         float64
	TargetPeakDB        float64
	NoiseFloorDB        float64

	DisableDoublingAfterTrim bool
	DoublingThresholdRatio   float64
	MinDurationForDoublingS  float64
}

// DefaultPreprocessOptions returns the defaults spec §6.2 names.
func DefaultPreprocessOptions() PreprocessOptions {
	return PreprocessOptions{
		TrimSilence:              true,
		SilenceThresholdDB:       -55,
		PreservePaddingMS:        100,
		NormalizeSampleRate:      true,
		TargetSampleRate:         44100,
		NormalizeVolume:          true,
		UseRMS:                   true,
		TargetRMSDB:              -20,
		TargetPeakDB:             -3,
		NoiseFloorDB:             -60,
		DisableDoublingAfterTrim: true,
		DoublingThresholdRatio:   0.5,
		MinDurationForDoublingS:  1.5,
	}
}

// Preprocessor applies PreprocessOptions to an input file via ffmpeg,
// producing a normalized WAV ready for fingerprinting.
type Preprocessor struct {
	Options PreprocessOptions
	tempDir string
}

// NewPreprocessor returns a Preprocessor bound to opts, creating a
// scratch directory for intermediate files.
func NewPreprocessor(opts PreprocessOptions) *Preprocessor {
	tempDir := filepath.Join(os.TempDir(), "audiodup")
	_ = os.MkdirAll(tempDir, 0o755)
	return &Preprocessor{Options: opts, tempDir: tempDir}
}

// Process runs the configured ffmpeg filter chain over inputPath and
// returns the path to the processed WAV file. The caller owns cleanup
// of the returned file.
func (p *Preprocessor) Process(ctx context.Context, inputPath string) (string, error) {
	outputPath := filepath.Join(p.tempDir, uuid.NewString()+"_processed.wav")

	var filters []string
	if p.Options.TrimSilence {
		filters = append(filters, fmt.Sprintf(
			"silenceremove=start_periods=1:start_threshold=%gdB:start_silence=%gms:detection=peak",
			p.Options.SilenceThresholdDB, float64(p.Options.PreservePaddingMS)))
	}
	if p.Options.NormalizeVolume {
		filters = append(filters, fmt.Sprintf("agate=threshold=%gdB", p.Options.NoiseFloorDB))
		if p.Options.UseRMS {
			filters = append(filters, fmt.Sprintf(
				"loudnorm=I=%g:TP=%g:LRA=7", p.Options.TargetRMSDB, p.Options.TargetPeakDB))
		} else {
			filters = append(filters, fmt.Sprintf("dynaudnorm=p=%g", dbToLinear(p.Options.TargetPeakDB)))
		}
	}

	args := []string{"-i", inputPath}
	if len(filters) > 0 {
		args = append(args, "-af", strings.Join(filters, ","))
	}
	if p.Options.NormalizeSampleRate {
		args = append(args, "-ar", strconv.Itoa(p.Options.TargetSampleRate))
	}
	args = append(args, "-ac", "1", "-y", outputPath)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("ffmpeg preprocess failed: %w (stderr: %s)", err, stderr.String())
	}
	return outputPath, nil
}

func dbToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// CheckFFmpegInstallation verifies ffmpeg is reachable on PATH.
func CheckFFmpegInstallation() error {
	if err := exec.Command("ffmpeg", "-version").Run(); err != nil {
		return fmt.Errorf("ffmpeg not found on PATH: %w", err)
	}
	return nil
}
