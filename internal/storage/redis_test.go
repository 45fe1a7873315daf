package storage

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-cart/internal/cart"
	"github.com/angelmondragon/storefront-cart/pkg/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

type mockCmdable struct {
	data   map[string]string
	ttls   map[string]time.Duration
	getErr error
	setErr error
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{
		data: make(map[string]string),
		ttls: make(map[string]time.Duration),
	}
}

func (m *mockCmdable) Ping(context.Context) *goredis.StatusCmd {
	return goredis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, expiration time.Duration) *goredis.StatusCmd {
	if m.setErr != nil {
		return goredis.NewStatusResult("", m.setErr)
	}
	m.data[key] = fmt.Sprint(value)
	m.ttls[key] = expiration
	return goredis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) SetNX(ctx context.Context, key string, value any, expiration time.Duration) *goredis.BoolCmd {
	return goredis.NewBoolResult(false, nil)
}

func (m *mockCmdable) Get(ctx context.Context, key string) *goredis.StringCmd {
	if m.getErr != nil {
		return goredis.NewStringResult("", m.getErr)
	}
	v, ok := m.data[key]
	if !ok {
		return goredis.NewStringResult("", goredis.Nil)
	}
	return goredis.NewStringResult(v, nil)
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *goredis.IntCmd {
	for _, key := range keys {
		delete(m.data, key)
	}
	return goredis.NewIntResult(int64(len(keys)), nil)
}

func TestRedisBackendStoresWithTTL(t *testing.T) {
	mock := newMockCmdable()
	backend := NewRedisBackend(redis.NewWithCmdable(mock), 24*time.Hour)
	adapter, _, _ := newTestAdapter(t, backend)
	ctx := context.Background()

	store := adapter.Session("abc")
	store.Save(ctx, cart.State{
		Items:  []cart.LineItem{{ID: "p1", Price: decimal.NewFromInt(5), Quantity: 1}},
		IsOpen: true,
	})

	if mock.ttls["sf:cart:abc"] != 24*time.Hour || mock.ttls["sf:cart_open:abc"] != 24*time.Hour {
		t.Fatalf("expected ttl on both keys, got %v", mock.ttls)
	}
	got := store.Load(ctx)
	if len(got.Items) != 1 || !got.IsOpen {
		t.Fatalf("unexpected state %+v", got)
	}
}

func TestRedisBackendMissIsNotAnError(t *testing.T) {
	backend := NewRedisBackend(redis.NewWithCmdable(newMockCmdable()), 0)

	_, found, err := backend.Get(context.Background(), "sf:cart:none")
	if err != nil || found {
		t.Fatalf("expected clean miss, found=%v err=%v", found, err)
	}
}

func TestRedisBackendWrapsErrors(t *testing.T) {
	mock := newMockCmdable()
	boom := errors.New("connection reset")
	mock.getErr = boom
	mock.setErr = boom
	backend := NewRedisBackend(redis.NewWithCmdable(mock), 0)

	if _, _, err := backend.Get(context.Background(), "k"); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped get error, got %v", err)
	}
	if err := backend.Set(context.Background(), "k", []byte("v")); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped set error, got %v", err)
	}
}
