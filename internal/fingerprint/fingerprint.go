// Package fingerprint defines the Fingerprint value object: an ordered
// sequence of 32-bit sub-fingerprint words produced by an external,
// Chromaprint-style perceptual fingerprinter. The core never computes
// these words itself (see internal/audio for the producer-side
// collaborator); this package only owns validation and read-only
// access, per spec §3, §4.2.
package fingerprint

import (
	"time"

	"github.com/audiodup/audiodup/internal/bitutil"
	"github.com/audiodup/audiodup/internal/errors"
)

// MaxLength is the sanity bound on the number of sub-fingerprint words
// a single Fingerprint may hold (spec §3).
const MaxLength = 100_000

// Fingerprint is immutable after New returns successfully.
type Fingerprint struct {
	data       []uint32
	sampleRate int
	duration   time.Duration
	filePath   string
}

// New validates and constructs a Fingerprint. data is copied so the
// caller's slice may be reused or mutated afterward.
func New(filePath string, data []uint32, sampleRate int, duration time.Duration) (*Fingerprint, error) {
	if len(data) == 0 {
		return nil, errors.InvalidFingerprint("data must be non-empty")
	}
	if len(data) > MaxLength {
		return nil, errors.InvalidFingerprint("data exceeds maximum length")
	}
	if duration <= 0 {
		return nil, errors.InvalidFingerprint("duration must be positive")
	}

	owned := make([]uint32, len(data))
	copy(owned, data)

	return &Fingerprint{
		data:       owned,
		sampleRate: sampleRate,
		duration:   duration,
		filePath:   filePath,
	}, nil
}

// Len returns the number of sub-fingerprint words.
func (f *Fingerprint) Len() int {
	return len(f.data)
}

// At returns the sub-fingerprint word at position i. Callers must keep
// 0 <= i < Len(); the core never calls this out of bounds internally.
func (f *Fingerprint) At(i int) uint32 {
	return f.data[i]
}

// Data returns the underlying word sequence. The returned slice aliases
// Fingerprint's storage and must be treated as read-only by callers.
func (f *Fingerprint) Data() []uint32 {
	return f.data
}

// SampleRate returns the producer's sample rate. Carried for reporting
// only; the comparator never uses it.
func (f *Fingerprint) SampleRate() int {
	return f.sampleRate
}

// Duration returns the audio duration this fingerprint represents.
func (f *Fingerprint) Duration() time.Duration {
	return f.duration
}

// FilePath returns the identity/display path associated with this
// fingerprint.
func (f *Fingerprint) FilePath() string {
	return f.filePath
}

// LowHashes returns the multiset of low-16-bit hashes as a set (each
// unique hash counted once), the representation both the inverted index
// and the comparator's quick filter operate on.
func (f *Fingerprint) LowHashes() map[uint16]struct{} {
	set := make(map[uint16]struct{}, len(f.data))
	for _, w := range f.data {
		set[bitutil.LowHash16(w)] = struct{}{}
	}
	return set
}

// MatchesAnyHashOf reports whether f and other share at least one
// low-16-bit hash. It never decides similarity; that is the
// comparator's job.
func (f *Fingerprint) MatchesAnyHashOf(other *Fingerprint) bool {
	a, b := f.LowHashes(), other.LowHashes()
	if len(a) > len(b) {
		a, b = b, a
	}
	for h := range a {
		if _, ok := b[h]; ok {
			return true
		}
	}
	return false
}
