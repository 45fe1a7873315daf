package middleware

import (
	"context"
	"net/http"

	"github.com/angelmondragon/storefront-cart/api/responses"
	"github.com/angelmondragon/storefront-cart/api/validators"
	"github.com/angelmondragon/storefront-cart/internal/cart"
	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
	"github.com/google/uuid"
)

// CartSessions hands out the cart of a session.
type CartSessions interface {
	Get(ctx context.Context, sessionID string) *cart.Facade
}

// CartSession resolves the shopper session from header, minting a new id when
// the header is absent, echoes it back and installs the session's cart handle.
func CartSession(sessions CartSessions, header string, maxLen int, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			sessionID := uuid.NewString()
			if raw := r.Header.Get(header); raw != "" {
				token, ok := validators.SessionToken(raw, maxLen)
				if !ok {
					err := pkgerrors.New(pkgerrors.CodeValidation, "invalid cart session").
						WithDetails(map[string]any{"header": header})
					responses.WriteError(ctx, logg, w, err)
					return
				}
				sessionID = token
			}

			w.Header().Set(header, sessionID)

			ctx = WithCartSession(ctx, sessionID)
			if logg != nil {
				ctx = logg.WithCartSession(ctx, sessionID)
			}
			ctx = cart.WithHandle(ctx, sessions.Get(ctx, sessionID))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
