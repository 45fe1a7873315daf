package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/storefront-cart/internal/storage"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
)

const defaultStorageRetention = 30 * 24 * time.Hour

// StorageRetentionJobParams configure the cart storage retention job.
type StorageRetentionJobParams struct {
	Logger    *logger.Logger
	Store     storageRetentionStore
	Namespace string
	Retention time.Duration
}

type storageRetentionStore interface {
	DeleteUpdatedBefore(ctx context.Context, prefix string, cutoff time.Time) (int64, error)
}

// NewStorageRetentionJob drops persisted carts nobody has written to within
// the retention window. Redis expires keys itself, so this only serves the db
// storage driver.
func NewStorageRetentionJob(params StorageRetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Store == nil {
		return nil, fmt.Errorf("storage store required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = defaultStorageRetention
	}
	return &storageRetentionJob{
		logg:      params.Logger,
		store:     params.Store,
		prefix:    storage.NamespacePrefix(params.Namespace),
		retention: retention,
		now:       time.Now,
	}, nil
}

type storageRetentionJob struct {
	logg      *logger.Logger
	store     storageRetentionStore
	prefix    string
	retention time.Duration
	now       func() time.Time
}

func (j *storageRetentionJob) Name() string { return "storage-retention" }

func (j *storageRetentionJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.retention)
	deleted, err := j.store.DeleteUpdatedBefore(ctx, j.prefix, cutoff)
	if err != nil {
		return fmt.Errorf("storage retention: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":       cutoff,
		"key_prefix":   j.prefix,
		"retention":    j.retention.String(),
		"rows_deleted": deleted,
	})
	j.logg.Info(logCtx, "cart storage retention cleanup complete")
	return nil
}
