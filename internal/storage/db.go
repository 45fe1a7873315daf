package storage

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/angelmondragon/storefront-cart/pkg/db"
	"github.com/angelmondragon/storefront-cart/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DBBackend stores documents in the storage_entries table.
type DBBackend struct {
	db *gorm.DB
}

func NewDBBackend(conn *gorm.DB) *DBBackend {
	return &DBBackend{db: conn}
}

func (d *DBBackend) Name() string { return "db" }

func (d *DBBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var entry models.StorageEntry
	err := d.db.WithContext(ctx).Where("key = ?", key).First(&entry).Error
	if db.IsNotFound(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return []byte(entry.Value), true, nil
}

func (d *DBBackend) Set(ctx context.Context, key string, value []byte) error {
	entry := models.StorageEntry{
		Key:       key,
		Value:     string(value),
		UpdatedAt: time.Now().UTC(),
	}
	return d.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&entry).Error
}

// DeleteUpdatedBefore removes entries under prefix that were last written
// before cutoff. The prefix is compared exactly, never as a pattern.
func (d *DBBackend) DeleteUpdatedBefore(ctx context.Context, prefix string, cutoff time.Time) (int64, error) {
	query := d.db.WithContext(ctx).Where("updated_at < ?", cutoff.UTC())
	if prefix != "" {
		query = query.Where("substr(key, 1, ?) = ?", utf8.RuneCountInString(prefix), prefix)
	}
	result := query.Delete(&models.StorageEntry{})
	return result.RowsAffected, result.Error
}
