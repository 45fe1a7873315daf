package storage

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-cart/internal/cart"
	"github.com/angelmondragon/storefront-cart/pkg/config"
	"github.com/angelmondragon/storefront-cart/pkg/db/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupStorageTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS storage_entries (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at DATETIME NOT NULL
);`
	require.NoError(t, db.Exec(schema).Error)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func TestDBBackendUpsert(t *testing.T) {
	db := setupStorageTestDB(t)
	backend := NewDBBackend(db)
	ctx := context.Background()

	_, found, err := backend.Get(ctx, "sf:cart:abc")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, backend.Set(ctx, "sf:cart:abc", []byte(`{"version":1}`)))
	require.NoError(t, backend.Set(ctx, "sf:cart:abc", []byte(`{"version":1,"items":[]}`)))

	value, found, err := backend.Get(ctx, "sf:cart:abc")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"version":1,"items":[]}`, string(value))

	var count int64
	require.NoError(t, db.Table("storage_entries").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDBBackendThroughAdapter(t *testing.T) {
	db := setupStorageTestDB(t)
	adapter, _, _ := newTestAdapter(t, NewDBBackend(db))
	ctx := context.Background()

	store := adapter.Session("abc")
	store.Save(ctx, cart.State{
		Items:  []cart.LineItem{{ID: "p1", Price: decimal.RequireFromString("19.99"), Quantity: 3}},
		IsOpen: false,
	})

	got := store.Load(ctx)
	require.Len(t, got.Items, 1)
	assert.Equal(t, 3, got.Items[0].Quantity)
	assert.True(t, got.Items[0].Price.Equal(decimal.RequireFromString("19.99")))
	assert.False(t, got.IsOpen)
}

func TestNewBackendSelectsDriver(t *testing.T) {
	backend, err := NewBackend(config.StorageConfig{Driver: config.StorageDriverMemory}, Dependencies{})
	require.NoError(t, err)
	assert.Equal(t, "memory", backend.Name())

	backend, err = NewBackend(config.StorageConfig{Driver: config.StorageDriverNone}, Dependencies{})
	require.NoError(t, err)
	assert.Nil(t, backend)

	_, err = NewBackend(config.StorageConfig{Driver: config.StorageDriverRedis}, Dependencies{})
	assert.Error(t, err)

	_, err = NewBackend(config.StorageConfig{Driver: config.StorageDriverDB}, Dependencies{})
	assert.Error(t, err)

	backend, err = NewBackend(config.StorageConfig{Driver: config.StorageDriverDB}, Dependencies{DB: setupStorageTestDB(t)})
	require.NoError(t, err)
	assert.Equal(t, "db", backend.Name())

	_, err = NewBackend(config.StorageConfig{Driver: "etcd"}, Dependencies{})
	assert.Error(t, err)
}

func TestDBBackendDeleteUpdatedBefore(t *testing.T) {
	db := setupStorageTestDB(t)
	backend := NewDBBackend(db)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	rows := []models.StorageEntry{
		{Key: "sf:cart:old", Value: "{}", UpdatedAt: now.Add(-48 * time.Hour)},
		{Key: "sf:cart_open:old", Value: "true", UpdatedAt: now.Add(-48 * time.Hour)},
		{Key: "sf:cart:fresh", Value: "{}", UpdatedAt: now.Add(-time.Hour)},
		{Key: "other:cart:old", Value: "{}", UpdatedAt: now.Add(-48 * time.Hour)},
	}
	require.NoError(t, db.Create(&rows).Error)

	deleted, err := backend.DeleteUpdatedBefore(ctx, "sf:", now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	_, found, err := backend.Get(ctx, "sf:cart:fresh")
	require.NoError(t, err)
	assert.True(t, found)

	_, found, err = backend.Get(ctx, "other:cart:old")
	require.NoError(t, err)
	assert.True(t, found, "entries outside the prefix are kept")
}

func TestDBBackendDeleteUpdatedBeforeMatchesPrefixExactly(t *testing.T) {
	db := setupStorageTestDB(t)
	backend := NewDBBackend(db)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	rows := []models.StorageEntry{
		{Key: "shop_a:cart:old", Value: "{}", UpdatedAt: now.Add(-48 * time.Hour)},
		{Key: "shopXa:cart:old", Value: "{}", UpdatedAt: now.Add(-48 * time.Hour)},
		{Key: "shop%:cart:old", Value: "{}", UpdatedAt: now.Add(-48 * time.Hour)},
		{Key: "SHOP_A:cart:old", Value: "{}", UpdatedAt: now.Add(-48 * time.Hour)},
	}
	require.NoError(t, db.Create(&rows).Error)

	deleted, err := backend.DeleteUpdatedBefore(ctx, NamespacePrefix("shop_a"), now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	for _, key := range []string{"shopXa:cart:old", "shop%:cart:old", "SHOP_A:cart:old"} {
		_, found, err := backend.Get(ctx, key)
		require.NoError(t, err)
		assert.True(t, found, "%s belongs to another namespace", key)
	}
}
