package storage

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/storefront-cart/internal/cart"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
	"github.com/angelmondragon/storefront-cart/pkg/metrics"
	"go.uber.org/multierr"
)

// AdapterParams configures an Adapter.
type AdapterParams struct {
	Backend   Backend
	Namespace string
	Logger    *logger.Logger
	Metrics   *metrics.CartMetrics
}

// Adapter persists carts on a Backend. It never surfaces storage errors:
// reads fall back to defaults and failed writes are logged and counted.
type Adapter struct {
	backend   Backend
	namespace string
	logg      *logger.Logger
	metrics   *metrics.CartMetrics
}

func NewAdapter(params AdapterParams) *Adapter {
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &Adapter{
		backend:   params.Backend,
		namespace: params.Namespace,
		logg:      logg,
		metrics:   params.Metrics,
	}
}

// Available reports whether a persistent backend is configured.
func (a *Adapter) Available() bool {
	return a.backend != nil
}

// Session binds the adapter to one shopper session.
func (a *Adapter) Session(sessionID string) *SessionStore {
	return &SessionStore{adapter: a, sessionID: sessionID, keys: KeysFor(a.namespace, sessionID)}
}

// StoreFor satisfies cart.StoreFactory.
func (a *Adapter) StoreFor(sessionID string) cart.Store {
	return a.Session(sessionID)
}

// SessionStore is the cart.Store of a single session.
type SessionStore struct {
	adapter   *Adapter
	sessionID string
	keys      Keys
}

var _ cart.Store = (*SessionStore)(nil)

func (s *SessionStore) Keys() Keys {
	return s.keys
}

// Load reads both keys independently. Any key that is missing, unreadable or
// unparsable is replaced by its default.
func (s *SessionStore) Load(ctx context.Context) cart.State {
	a := s.adapter
	if a.backend == nil {
		return cart.State{}
	}
	start := time.Now()
	defer func() { a.metrics.ObserveStorage("load", time.Since(start)) }()

	ctx = a.logg.WithFields(ctx, map[string]any{
		"cart_session":    s.sessionID,
		"storage_backend": a.backend.Name(),
	})
	return cart.State{
		Items:  s.loadItems(ctx),
		IsOpen: s.loadOpen(ctx),
	}
}

func (s *SessionStore) loadItems(ctx context.Context) []cart.LineItem {
	a := s.adapter
	raw, found, err := a.backend.Get(ctx, s.keys.Cart)
	if err != nil {
		s.loadFailed(ctx, "load_cart", s.keys.Cart, err)
		return nil
	}
	if !found {
		return nil
	}

	res, err := decodeCart(raw)
	if err != nil {
		if errors.Is(err, errFutureVersion) {
			a.logg.Warn(a.logg.WithFields(ctx, map[string]any{"key": s.keys.Cart, "error": err.Error()}), "ignoring cart document from newer schema")
			return nil
		}
		s.loadFailed(ctx, "load_cart", s.keys.Cart, err)
		return nil
	}
	if res.Legacy || res.Dropped > 0 || res.Merged > 0 {
		a.logg.Info(a.logg.WithFields(ctx, map[string]any{
			"key":     s.keys.Cart,
			"legacy":  res.Legacy,
			"dropped": res.Dropped,
			"merged":  res.Merged,
		}), "repaired stored cart document")
	}
	return res.Items
}

func (s *SessionStore) loadOpen(ctx context.Context) bool {
	raw, found, err := s.adapter.backend.Get(ctx, s.keys.Open)
	if err != nil {
		s.loadFailed(ctx, "load_open", s.keys.Open, err)
		return false
	}
	if !found {
		return false
	}
	isOpen, err := decodeOpen(raw)
	if err != nil {
		s.loadFailed(ctx, "load_open", s.keys.Open, err)
		return false
	}
	return isOpen
}

func (s *SessionStore) loadFailed(ctx context.Context, op, key string, err error) {
	a := s.adapter
	a.metrics.IncStorageFailure(op)
	a.logg.Warn(a.logg.WithFields(ctx, map[string]any{"key": key, "op": op, "error": err.Error()}), "cart storage read failed; using default")
}

// Save writes both keys. A failure on one key does not skip the other.
func (s *SessionStore) Save(ctx context.Context, state cart.State) {
	a := s.adapter
	if a.backend == nil {
		return
	}
	start := time.Now()
	defer func() { a.metrics.ObserveStorage("save", time.Since(start)) }()

	var errs error
	if payload, err := encodeCart(s.sessionID, state.Items); err != nil {
		a.metrics.IncStorageFailure("save_cart")
		errs = multierr.Append(errs, err)
	} else if err := a.backend.Set(ctx, s.keys.Cart, payload); err != nil {
		a.metrics.IncStorageFailure("save_cart")
		errs = multierr.Append(errs, err)
	}

	if payload, err := encodeOpen(state.IsOpen); err != nil {
		a.metrics.IncStorageFailure("save_open")
		errs = multierr.Append(errs, err)
	} else if err := a.backend.Set(ctx, s.keys.Open, payload); err != nil {
		a.metrics.IncStorageFailure("save_open")
		errs = multierr.Append(errs, err)
	}

	if errs != nil {
		ctx = a.logg.WithFields(ctx, map[string]any{
			"cart_session":    s.sessionID,
			"storage_backend": a.backend.Name(),
			"failures":        len(multierr.Errors(errs)),
		})
		a.logg.Error(ctx, "cart storage write failed", errs)
	}
}
