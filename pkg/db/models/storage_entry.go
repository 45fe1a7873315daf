package models

import "time"

// StorageEntry is one key of the persistent cart store.
type StorageEntry struct {
	Key       string    `gorm:"column:key;primaryKey"`
	Value     string    `gorm:"column:value;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null"`
}

func (StorageEntry) TableName() string {
	return "storage_entries"
}
