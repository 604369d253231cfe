package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "INVALID_FINGERPRINT: invalid fingerprint (empty data)", InvalidFingerprint("empty data").Error())
	assert.Equal(t, "INDEX_NOT_INITIALIZED: index has not been initialized", IndexNotInitialized().Error())
	assert.Equal(t, ErrOutOfRange, OutOfRange("file_id").Code)
}

func TestWithDetails(t *testing.T) {
	base := IndexNotInitialized()
	withDetails := base.WithDetails("cleared at 12:00")

	assert.Empty(t, base.Details, "WithDetails must not mutate the receiver")
	assert.Equal(t, "cleared at 12:00", withDetails.Details)
}
