package cart

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/angelmondragon/storefront-cart/pkg/metrics"
	"github.com/shopspring/decimal"
)

// Store persists a single session's cart state. Implementations never fail
// loudly: Load falls back to defaults and Save swallows write errors.
type Store interface {
	Load(ctx context.Context) State
	Save(ctx context.Context, state State)
}

// Reader exposes the read side of a cart.
type Reader interface {
	Items() []LineItem
	IsOpen() bool
	Subtotal() decimal.Decimal
	ItemCount() int
	Snapshot() Snapshot
}

// Mutator exposes the write side of a cart. Every call persists before it
// returns and reports the resulting snapshot.
type Mutator interface {
	AddItem(ctx context.Context, item NewItem) Snapshot
	RemoveItem(ctx context.Context, id string) Snapshot
	RemoveVariant(ctx context.Context, key VariantKey) Snapshot
	Remove(ctx context.Context, key VariantKey) Snapshot
	UpdateQuantity(ctx context.Context, id string, quantity int) Snapshot
	OpenCart(ctx context.Context) Snapshot
	CloseCart(ctx context.Context) Snapshot
}

// Handle is the full cart capability handed to request handlers.
type Handle interface {
	Reader
	Mutator
	Scope() RemoveScope
}

// RemoveScope selects what Remove drops: every line of a product, or a single
// variant line.
type RemoveScope string

const (
	RemoveByProduct RemoveScope = "product"
	RemoveByVariant RemoveScope = "variant"
)

// ParseRemoveScope maps a configuration value onto a scope.
func ParseRemoveScope(value string) (RemoveScope, error) {
	switch RemoveScope(strings.ToLower(strings.TrimSpace(value))) {
	case "", RemoveByProduct:
		return RemoveByProduct, nil
	case RemoveByVariant:
		return RemoveByVariant, nil
	default:
		return "", fmt.Errorf("unknown remove scope %q", value)
	}
}

// Option configures a Facade.
type Option func(*Facade)

// WithRemoveScope sets the scope used by Remove.
func WithRemoveScope(scope RemoveScope) Option {
	return func(f *Facade) {
		if scope == RemoveByVariant {
			f.scope = RemoveByVariant
			return
		}
		f.scope = RemoveByProduct
	}
}

// WithMetrics records mutations on the supplied collector.
func WithMetrics(m *metrics.CartMetrics) Option {
	return func(f *Facade) {
		f.metrics = m
	}
}

// Facade is the shared cart handle of one browser session.
type Facade struct {
	mu      sync.Mutex
	engine  *Engine
	store   Store
	scope   RemoveScope
	metrics *metrics.CartMetrics
}

var _ Handle = (*Facade)(nil)

// NewFacade hydrates a cart from store once. A nil store yields an in-memory
// cart that is never persisted.
func NewFacade(ctx context.Context, store Store, opts ...Option) *Facade {
	f := &Facade{store: store, scope: RemoveByProduct}
	for _, opt := range opts {
		opt(f)
	}
	state := State{}
	if store != nil {
		state = store.Load(ctx)
	}
	f.engine = NewEngine(state)
	return f
}

// Scope reports the configured removal scope.
func (f *Facade) Scope() RemoveScope {
	return f.scope
}

func (f *Facade) Items() []LineItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.engine.Items()
}

func (f *Facade) IsOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.engine.IsOpen()
}

func (f *Facade) Subtotal() decimal.Decimal {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.engine.Subtotal()
}

func (f *Facade) ItemCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.engine.ItemCount()
}

func (f *Facade) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.engine.Snapshot()
}

func (f *Facade) AddItem(ctx context.Context, item NewItem) Snapshot {
	return f.mutate(ctx, "add_item", func(e *Engine) { e.AddItem(item) })
}

func (f *Facade) RemoveItem(ctx context.Context, id string) Snapshot {
	return f.mutate(ctx, "remove_item", func(e *Engine) { e.RemoveItem(id) })
}

func (f *Facade) RemoveVariant(ctx context.Context, key VariantKey) Snapshot {
	return f.mutate(ctx, "remove_variant", func(e *Engine) { e.RemoveVariant(key) })
}

// Remove drops by product id or by exact variant depending on the scope.
func (f *Facade) Remove(ctx context.Context, key VariantKey) Snapshot {
	if f.scope == RemoveByVariant {
		return f.RemoveVariant(ctx, key)
	}
	return f.RemoveItem(ctx, key.ID)
}

func (f *Facade) UpdateQuantity(ctx context.Context, id string, quantity int) Snapshot {
	return f.mutate(ctx, "update_quantity", func(e *Engine) { e.UpdateQuantity(id, quantity) })
}

func (f *Facade) OpenCart(ctx context.Context) Snapshot {
	return f.mutate(ctx, "open_cart", func(e *Engine) { e.OpenCart() })
}

func (f *Facade) CloseCart(ctx context.Context) Snapshot {
	return f.mutate(ctx, "close_cart", func(e *Engine) { e.CloseCart() })
}

func (f *Facade) mutate(ctx context.Context, op string, apply func(*Engine)) Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	apply(f.engine)
	if f.store != nil {
		f.store.Save(ctx, f.engine.State())
	}
	f.metrics.IncMutation(op)
	return f.engine.Snapshot()
}
