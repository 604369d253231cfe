package persistence

import "time"

// CatalogEntry is the persisted counterpart of catalog.FileEntry.
// FingerprintData holds the sub-fingerprint words, little-endian
// packed by EncodeWords; it is not compressed.
type CatalogEntry struct {
	FileID          string `gorm:"primaryKey;type:varchar(20)"`
	Path            string `gorm:"not null;index"`
	FingerprintData []byte `gorm:"type:bytea;not null"`
	SampleRate      int    `gorm:"not null;default:11025"`
	Duration        float64
	CreatedAt       time.Time
}

func (CatalogEntry) TableName() string { return "catalog_entries" }

// GroupRecord is a persisted duplicate group discovered by
// internal/duplicates.Engine.FindAll.
type GroupRecord struct {
	ID            string `gorm:"primaryKey;type:uuid"`
	AvgSimilarity float64
	CreatedAt     time.Time
	Members       []GroupMember `gorm:"foreignKey:GroupID"`
}

func (GroupRecord) TableName() string { return "group_records" }

// GroupMember links a GroupRecord to a CatalogEntry's file ID.
type GroupMember struct {
	GroupID string `gorm:"primaryKey;type:uuid"`
	FileID  string `gorm:"primaryKey;type:varchar(20);index"`
}

func (GroupMember) TableName() string { return "group_members" }
