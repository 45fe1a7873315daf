package cart

import (
	"context"

	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
)

type ctxKey struct{}

// ErrNoProvider is the panic value of FromContext when no handle was installed.
var ErrNoProvider = pkgerrors.New(pkgerrors.CodeNoCartHandle, "cart handle used outside of a cart session")

// WithHandle installs the cart handle for downstream consumers.
func WithHandle(ctx context.Context, h Handle) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKey{}, h)
}

// LookupFromContext returns the installed handle, if any.
func LookupFromContext(ctx context.Context) (Handle, bool) {
	if ctx == nil {
		return nil, false
	}
	h, ok := ctx.Value(ctxKey{}).(Handle)
	return h, ok && h != nil
}

// FromContext returns the installed handle and panics with ErrNoProvider when
// there is none.
func FromContext(ctx context.Context) Handle {
	h, ok := LookupFromContext(ctx)
	if !ok {
		panic(ErrNoProvider)
	}
	return h
}
