package cart

import (
	"context"
	"sync"
	"time"

	"github.com/angelmondragon/storefront-cart/pkg/logger"
	"github.com/angelmondragon/storefront-cart/pkg/metrics"
	"golang.org/x/sync/singleflight"
)

// StoreFactory binds a Store to a session id.
type StoreFactory func(sessionID string) Store

// RegistryParams configures a Registry.
type RegistryParams struct {
	NewStore StoreFactory
	Options  []Option
	IdleTTL  time.Duration
	Metrics  *metrics.CartMetrics
	Logger   *logger.Logger
	Now      func() time.Time
}

type session struct {
	facade   *Facade
	lastSeen time.Time
}

// Registry keeps one Facade per session and evicts idle ones. Evicting loses
// nothing because every mutation has already been saved.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*session
	group    singleflight.Group
	newStore StoreFactory
	opts     []Option
	idleTTL  time.Duration
	metrics  *metrics.CartMetrics
	logg     *logger.Logger
	now      func() time.Time
}

// NewRegistry builds an empty registry. When Metrics is set every facade it
// creates also counts mutations there.
func NewRegistry(params RegistryParams) *Registry {
	now := params.Now
	if now == nil {
		now = time.Now
	}
	opts := append([]Option(nil), params.Options...)
	if params.Metrics != nil {
		opts = append(opts, WithMetrics(params.Metrics))
	}
	return &Registry{
		sessions: map[string]*session{},
		newStore: params.NewStore,
		opts:     opts,
		idleTTL:  params.IdleTTL,
		metrics:  params.Metrics,
		logg:     params.Logger,
		now:      now,
	}
}

// Get returns the session's facade, hydrating it on first access. Concurrent
// first requests for the same session share one hydration.
func (r *Registry) Get(ctx context.Context, sessionID string) *Facade {
	if f := r.touch(sessionID); f != nil {
		return f
	}

	v, _, _ := r.group.Do(sessionID, func() (any, error) {
		if f := r.touch(sessionID); f != nil {
			return f, nil
		}
		var store Store
		if r.newStore != nil {
			store = r.newStore(sessionID)
		}
		f := NewFacade(context.WithoutCancel(ctx), store, r.opts...)

		r.mu.Lock()
		r.sessions[sessionID] = &session{facade: f, lastSeen: r.now()}
		count := len(r.sessions)
		r.mu.Unlock()

		r.metrics.SetSessions(count)
		return f, nil
	})
	return v.(*Facade)
}

func (r *Registry) touch(sessionID string) *Facade {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[sessionID]
	if !ok {
		return nil
	}
	s.lastSeen = r.now()
	return s.facade
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep evicts sessions idle for longer than idle and returns how many went.
func (r *Registry) Sweep(idle time.Duration) int {
	start := r.now()
	cutoff := start.Add(-idle)

	r.mu.Lock()
	evicted := 0
	for id, s := range r.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			evicted++
		}
	}
	count := len(r.sessions)
	r.mu.Unlock()

	r.metrics.SetSessions(count)
	r.metrics.ObserveSweep(r.now().Sub(start), evicted)
	return evicted
}

// Run sweeps on every tick until ctx is cancelled.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 || r.idleTTL <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			evicted := r.Sweep(r.idleTTL)
			if evicted > 0 && r.logg != nil {
				ctx := r.logg.WithFields(ctx, map[string]any{"evicted": evicted, "active": r.Len()})
				r.logg.Info(ctx, "cart sessions swept")
			}
		}
	}
}
