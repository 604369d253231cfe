package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetenvFallsBackWhenUnset(t *testing.T) {
	assert.Equal(t, "fallback", getenv("AUDIODUP_UNSET_TEST_VAR", "fallback"))
}

func TestGetenvPrefersSetValue(t *testing.T) {
	t.Setenv("AUDIODUP_SET_TEST_VAR", "configured")
	assert.Equal(t, "configured", getenv("AUDIODUP_SET_TEST_VAR", "fallback"))
}

func TestCatalogEntryTableName(t *testing.T) {
	assert.Equal(t, "catalog_entries", CatalogEntry{}.TableName())
}

func TestGroupRecordTableName(t *testing.T) {
	assert.Equal(t, "group_records", GroupRecord{}.TableName())
}
