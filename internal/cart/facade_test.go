package cart

import (
	"context"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
)

type recordingStore struct {
	mu      sync.Mutex
	initial State
	saved   []State
	loads   int
}

func (s *recordingStore) Load(context.Context) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads++
	return s.initial.Clone()
}

func (s *recordingStore) Save(_ context.Context, state State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, state.Clone())
}

func (s *recordingStore) last() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saved[len(s.saved)-1]
}

func TestFacadeHydratesOnce(t *testing.T) {
	store := &recordingStore{initial: State{
		Items:  []LineItem{{ID: "a", Price: decimal.NewFromInt(10), Quantity: 2}},
		IsOpen: true,
	}}
	f := NewFacade(context.Background(), store)

	if store.loads != 1 {
		t.Fatalf("expected one load, got %d", store.loads)
	}
	if f.ItemCount() != 2 || !f.IsOpen() {
		t.Fatalf("expected hydrated state, got %+v", f.Snapshot())
	}
	_ = f.Items()
	_ = f.Subtotal()
	if store.loads != 1 {
		t.Fatalf("reads must not reload, got %d loads", store.loads)
	}
}

func TestFacadeSavesAfterEveryMutation(t *testing.T) {
	store := &recordingStore{}
	f := NewFacade(context.Background(), store)
	ctx := context.Background()

	f.AddItem(ctx, ring(100, "6"))
	f.UpdateQuantity(ctx, "p1", 3)
	f.CloseCart(ctx)
	f.OpenCart(ctx)
	f.RemoveItem(ctx, "p1")

	if len(store.saved) != 5 {
		t.Fatalf("expected 5 saves, got %d", len(store.saved))
	}
	if got := store.saved[1].Items[0].Quantity; got != 3 {
		t.Fatalf("expected saved quantity 3, got %d", got)
	}
	if store.saved[2].IsOpen {
		t.Fatalf("expected closed state saved")
	}
	if len(store.last().Items) != 0 {
		t.Fatalf("expected empty cart saved last")
	}
}

func TestFacadeRoundTripThroughStore(t *testing.T) {
	store := &recordingStore{}
	f := NewFacade(context.Background(), store)
	snap := f.AddItem(context.Background(), ring(100, "6"))

	store.initial = store.last()
	reloaded := NewFacade(context.Background(), store)

	got := reloaded.Snapshot()
	if len(got.Items) != len(snap.Items) || got.Items[0].Key() != snap.Items[0].Key() {
		t.Fatalf("expected reloaded items %+v, got %+v", snap.Items, got.Items)
	}
	if got.IsOpen != snap.IsOpen || !got.Subtotal.Equal(snap.Subtotal) {
		t.Fatalf("expected reloaded snapshot %+v, got %+v", snap, got)
	}
}

func TestFacadeRemoveRespectsScope(t *testing.T) {
	ctx := context.Background()

	product := NewFacade(ctx, nil)
	product.AddItem(ctx, ring(100, "6"))
	product.AddItem(ctx, ring(100, "7"))
	if snap := product.Remove(ctx, ring(100, "6").Key()); len(snap.Items) != 0 {
		t.Fatalf("expected product scope to drop every variant, got %+v", snap.Items)
	}

	variant := NewFacade(ctx, nil, WithRemoveScope(RemoveByVariant))
	variant.AddItem(ctx, ring(100, "6"))
	variant.AddItem(ctx, ring(100, "7"))
	snap := variant.Remove(ctx, ring(100, "6").Key())
	if len(snap.Items) != 1 || snap.Items[0].RingSize != "7" {
		t.Fatalf("expected variant scope to keep ring size 7, got %+v", snap.Items)
	}
}

func TestFacadeConcurrentAddsAreSerialized(t *testing.T) {
	f := NewFacade(context.Background(), &recordingStore{})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.AddItem(context.Background(), ring(100, "6"))
		}()
	}
	wg.Wait()

	items := f.Items()
	if len(items) != 1 || items[0].Quantity != 50 {
		t.Fatalf("expected one line with quantity 50, got %+v", items)
	}
}

func TestParseRemoveScope(t *testing.T) {
	cases := map[string]RemoveScope{
		"":         RemoveByProduct,
		"product":  RemoveByProduct,
		" Variant": RemoveByVariant,
	}
	for input, want := range cases {
		got, err := ParseRemoveScope(input)
		if err != nil {
			t.Fatalf("parse %q: %v", input, err)
		}
		if got != want {
			t.Fatalf("parse %q: expected %s, got %s", input, want, got)
		}
	}
	if _, err := ParseRemoveScope("line"); err == nil {
		t.Fatalf("expected error for unknown scope")
	}
}
