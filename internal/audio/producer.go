package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/go-audio/wav"

	"github.com/audiodup/audiodup/internal/fingerprint"
)

// Producer turns an audio file into a Fingerprint. The core never
// implements this itself (spec §6.1): it only consumes the result via
// Catalog.AddFile.
type Producer interface {
	Produce(ctx context.Context, path string) (*fingerprint.Fingerprint, error)
}

// ChromaprintProducer shells out to fpcalc, the reference Chromaprint
// CLI, the same way the teacher's FFmpegProcessor shells out to
// ffmpeg/ffprobe: exec.CommandContext, stderr captured for error
// messages, JSON output parsed rather than scraped.
type ChromaprintProducer struct {
	FpcalcPath   string
	Preprocessor *Preprocessor
}

// NewChromaprintProducer returns a producer that preprocesses through
// pre (nil disables preprocessing) before calling fpcalc on PATH.
func NewChromaprintProducer(pre *Preprocessor) *ChromaprintProducer {
	return &ChromaprintProducer{FpcalcPath: "fpcalc", Preprocessor: pre}
}

type fpcalcOutput struct {
	Duration    float64 `json:"duration"`
	Fingerprint []int32 `json:"fingerprint"`
}

// Produce runs the full pipeline: preprocess, fpcalc, smart-doubling
// (spec §6.1), and Fingerprint construction.
func (c *ChromaprintProducer) Produce(ctx context.Context, path string) (*fingerprint.Fingerprint, error) {
	origDuration, _ := wavDurationSeconds(path)

	processedPath := path
	if c.Preprocessor != nil {
		out, err := c.Preprocessor.Process(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("preprocess %s: %w", path, err)
		}
		processedPath = out
		defer os.Remove(processedPath)
	}
	postDuration, _ := wavDurationSeconds(processedPath)

	words, duration, err := c.runFpcalc(ctx, processedPath)
	if err != nil {
		return nil, fmt.Errorf("fpcalc %s: %w", processedPath, err)
	}

	words = c.applySmartDoubling(words, origDuration, postDuration)

	sampleRate := 11025
	if c.Preprocessor != nil && c.Preprocessor.Options.NormalizeSampleRate {
		sampleRate = c.Preprocessor.Options.TargetSampleRate
	}
	return fingerprint.New(path, words, sampleRate, time.Duration(duration*float64(time.Second)))
}

func (c *ChromaprintProducer) runFpcalc(ctx context.Context, path string) ([]uint32, float64, error) {
	cmd := exec.CommandContext(ctx, c.FpcalcPath, "-raw", "-json", path)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, 0, fmt.Errorf("%w (stderr: %s)", err, stderr.String())
	}

	var out fpcalcOutput
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		return nil, 0, fmt.Errorf("parse fpcalc output: %w", err)
	}

	words := make([]uint32, len(out.Fingerprint))
	for i, w := range out.Fingerprint {
		words[i] = uint32(w)
	}
	return words, out.Duration, nil
}

// applySmartDoubling implements spec §6.1 on fpcalc's output: for clips
// shorter than 3s after preprocessing, the word sequence is
// concatenated with itself (the audio is not re-fingerprinted), unless the clip was
// significantly trimmed (post/original < doubling_threshold_ratio) and
// the original was already very short (< min_duration_for_doubling_s),
// in which case doubling is suppressed.
func (c *ChromaprintProducer) applySmartDoubling(words []uint32, origDuration, postDuration float64) []uint32 {
	if postDuration == 0 || postDuration >= 3.0 {
		return words
	}

	opts := DefaultPreprocessOptions()
	if c.Preprocessor != nil {
		opts = c.Preprocessor.Options
	}

	if opts.DisableDoublingAfterTrim && origDuration > 0 {
		ratio := postDuration / origDuration
		if ratio < opts.DoublingThresholdRatio && origDuration < opts.MinDurationForDoublingS {
			return words
		}
	}

	doubled := make([]uint32, len(words)*2)
	copy(doubled, words)
	copy(doubled[len(words):], words)
	return doubled
}

// wavDurationSeconds reads just enough of a WAV file's header to
// compute duration, avoiding a full ffprobe shell-out for files the
// producer already knows are WAV (the preprocessor always emits WAV).
func wavDurationSeconds(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	dec.ReadInfo()
	if !dec.IsValidFile() {
		return 0, fmt.Errorf("%s is not a valid WAV file", path)
	}
	d, err := dec.Duration()
	if err != nil {
		return 0, err
	}
	return d.Seconds(), nil
}
