package cron

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeRetentionStore struct {
	prefix string
	cutoff time.Time
	called int
	err    error
}

func (f *fakeRetentionStore) DeleteUpdatedBefore(_ context.Context, prefix string, cutoff time.Time) (int64, error) {
	f.called++
	f.prefix = prefix
	f.cutoff = cutoff
	if f.err != nil {
		return 0, f.err
	}
	return 4, nil
}

func newStorageRetentionJob(t *testing.T, store *fakeRetentionStore, retention time.Duration) *storageRetentionJob {
	t.Helper()
	jobIface, err := NewStorageRetentionJob(StorageRetentionJobParams{
		Logger:    testLogger(),
		Store:     store,
		Namespace: "sf",
		Retention: retention,
	})
	if err != nil {
		t.Fatalf("NewStorageRetentionJob: %v", err)
	}
	job, ok := jobIface.(*storageRetentionJob)
	if !ok {
		t.Fatalf("expected storageRetentionJob, got %T", jobIface)
	}
	return job
}

func TestStorageRetentionJobDeletesStaleCarts(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	store := &fakeRetentionStore{}
	job := newStorageRetentionJob(t, store, 0)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if want := now.Add(-defaultStorageRetention); !store.cutoff.Equal(want) {
		t.Fatalf("expected cutoff %s, got %s", want, store.cutoff)
	}
	if store.prefix != "sf:" {
		t.Fatalf("expected namespace prefix sf:, got %q", store.prefix)
	}
	if store.called != 1 {
		t.Fatalf("expected store called once, got %d", store.called)
	}
}

func TestStorageRetentionJobCustomWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	store := &fakeRetentionStore{}
	job := newStorageRetentionJob(t, store, 48*time.Hour)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if want := now.Add(-48 * time.Hour); !store.cutoff.Equal(want) {
		t.Fatalf("expected cutoff %s, got %s", want, store.cutoff)
	}
}

func TestStorageRetentionJobPropagatesError(t *testing.T) {
	job := newStorageRetentionJob(t, &fakeRetentionStore{err: errors.New("boom")}, 0)
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
