// Package snapshot writes compressed, point-in-time archives of a
// catalog's fingerprints for cold storage and offsite backup. It is
// one-way: github.com/woozymasta/lzo exposes only an LZO1X-999
// compressor (Compress1X999/Compress1X999Level), no matching
// decompressor, so archives produced here are not read back by
// audiodup itself. internal/persistence remains the source of truth
// for live reads; this package exists purely to shrink what goes to
// long-term storage.
package snapshot

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"github.com/woozymasta/lzo"

	"github.com/audiodup/audiodup/internal/catalog"
)

// Entry is one fingerprint record inside an archive.
type Entry struct {
	FileID     string   `json:"file_id"`
	Path       string   `json:"path"`
	SampleRate int      `json:"sample_rate"`
	Duration   float64  `json:"duration"`
	Words      []uint32 `json:"words"`
}

// Archive is the uncompressed payload LZO-compresses into an archive
// file: a header plus every catalog entry at the time of capture.
type Archive struct {
	CapturedAt time.Time `json:"captured_at"`
	Entries    []Entry   `json:"entries"`
}

// header is written before the compressed payload so a future reader
// (outside this process) knows the uncompressed size.
type header struct {
	Magic            [4]byte
	UncompressedSize uint32
}

var magic = [4]byte{'A', 'D', 'U', 'P'}

// Build captures every file entry currently in cat into an Archive.
func Build(cat *catalog.Catalog, capturedAt time.Time) Archive {
	archive := Archive{CapturedAt: capturedAt}
	for _, fileID := range cat.FileIDs() {
		entry, ok := cat.GetFile(fileID)
		if !ok {
			continue
		}
		archive.Entries = append(archive.Entries, Entry{
			FileID:     entry.FileID,
			Path:       entry.Path,
			SampleRate: entry.Fingerprint.SampleRate(),
			Duration:   entry.Fingerprint.Duration().Seconds(),
			Words:      entry.Fingerprint.Data(),
		})
	}
	return archive
}

// Compress serializes archive to JSON and LZO1X-999-compresses it at
// the given level (1-9; 9 is the highest ratio, used by level 0 or
// unset).
func Compress(archive Archive, level int) ([]byte, error) {
	payload, err := json.Marshal(archive)
	if err != nil {
		return nil, fmt.Errorf("marshal archive: %w", err)
	}

	var compressed []byte
	if level <= 0 {
		compressed, err = lzo.Compress1X999(payload)
	} else {
		compressed, err = lzo.Compress1X999Level(payload, level)
	}
	if err != nil {
		return nil, fmt.Errorf("lzo compress: %w", err)
	}

	hdr := header{Magic: magic, UncompressedSize: uint32(len(payload))}
	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, hdr); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	buf.Write(compressed)
	return buf.Bytes(), nil
}

// CompressionRatio reports how much Compress shrank archive, for
// logging/metrics; it re-runs Compress since the ratio is only
// meaningful relative to the serialized size, not the live struct.
func CompressionRatio(archive Archive, level int) (float64, error) {
	payload, err := json.Marshal(archive)
	if err != nil {
		return 0, err
	}
	compressed, err := Compress(archive, level)
	if err != nil {
		return 0, err
	}
	if len(archive.Entries) == 0 || len(payload) == 0 {
		return 0, nil
	}
	return float64(len(compressed)) / float64(len(payload)), nil
}
