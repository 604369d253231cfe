package snapshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSnapshotKeyFormat(t *testing.T) {
	capturedAt := time.Date(2026, 3, 5, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "snapshots/20260305T143000Z.lzo", snapshotKey(capturedAt))
}

func TestSnapshotKeyUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	capturedAt := time.Date(2026, 3, 5, 9, 30, 0, 0, loc)
	assert.Equal(t, "snapshots/20260305T143000Z.lzo", snapshotKey(capturedAt))
}

func TestUploaderStruct(t *testing.T) {
	u := &Uploader{bucket: "audiodup-snapshots"}
	assert.Equal(t, "audiodup-snapshots", u.bucket)
}
