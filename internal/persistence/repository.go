package persistence

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SaveEntry upserts a catalog entry by file ID.
func (s *Store) SaveEntry(ctx context.Context, entry *CatalogEntry) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "file_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"path", "fingerprint_data", "sample_rate", "duration"}),
	}).Create(entry).Error
}

// LoadEntries returns every catalog entry, used to rehydrate a
// catalog.Catalog on startup.
func (s *Store) LoadEntries(ctx context.Context) ([]CatalogEntry, error) {
	var entries []CatalogEntry
	if err := s.db.WithContext(ctx).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// DeleteEntry removes a catalog entry by file ID.
func (s *Store) DeleteEntry(ctx context.Context, fileID string) error {
	return s.db.WithContext(ctx).Delete(&CatalogEntry{}, "file_id = ?", fileID).Error
}

// SaveGroup persists a discovered duplicate group and its members in
// a single transaction.
func (s *Store) SaveGroup(ctx context.Context, avgSimilarity float64, fileIDs []string) (string, error) {
	groupID := uuid.NewString()
	record := GroupRecord{ID: groupID, AvgSimilarity: avgSimilarity}
	members := make([]GroupMember, len(fileIDs))
	for i, fileID := range fileIDs {
		members[i] = GroupMember{GroupID: groupID, FileID: fileID}
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		return tx.Create(&members).Error
	})
	if err != nil {
		return "", err
	}
	return groupID, nil
}

// LoadGroups returns every persisted duplicate group with its members
// preloaded.
func (s *Store) LoadGroups(ctx context.Context) ([]GroupRecord, error) {
	var records []GroupRecord
	if err := s.db.WithContext(ctx).Preload("Members").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// ClearGroups deletes every persisted group and membership row, used
// before writing a freshly recomputed set of groups.
func (s *Store) ClearGroups(ctx context.Context) error {
	if err := s.db.WithContext(ctx).Exec("DELETE FROM group_members").Error; err != nil {
		return err
	}
	return s.db.WithContext(ctx).Exec("DELETE FROM group_records").Error
}
