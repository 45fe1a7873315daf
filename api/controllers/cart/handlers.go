package cart

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	cartdto "github.com/angelmondragon/storefront-cart/api/controllers/cart/dto"
	"github.com/angelmondragon/storefront-cart/api/middleware"
	"github.com/angelmondragon/storefront-cart/api/responses"
	"github.com/angelmondragon/storefront-cart/api/validators"
	cartsvc "github.com/angelmondragon/storefront-cart/internal/cart"
	product "github.com/angelmondragon/storefront-cart/internal/products"
	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
)

type lineBuilder interface {
	BuildLineItem(ctx context.Context, input product.AddToCartInput) (cartsvc.NewItem, error)
}

// CartFetch returns the session's cart with derived totals.
func CartFetch(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		handle := cartsvc.FromContext(r.Context())
		writeCart(w, r, handle, handle.Snapshot())
	}
}

// CartAddItem resolves the selected variant and adds one unit of it.
func CartAddItem(builder lineBuilder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if builder == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var payload cartdto.AddItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := builder.BuildLineItem(r.Context(), toAddToCartInput(payload))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		handle := cartsvc.FromContext(r.Context())
		snap := handle.AddItem(r.Context(), item)
		writeCartStatus(w, r, http.StatusCreated, handle, snap)
	}
}

// CartRemoveItem drops the product's lines, or one variant line when the
// removal scope is variant.
func CartRemoveItem(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		handle := cartsvc.FromContext(r.Context())
		snap := handle.Remove(r.Context(), variantKeyFromQuery(r, productID))
		writeCart(w, r, handle, snap)
	}
}

// CartUpdateQuantity sets the quantity of every line of the product.
func CartUpdateQuantity(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := productIDParam(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cartdto.UpdateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		handle := cartsvc.FromContext(r.Context())
		snap := handle.UpdateQuantity(r.Context(), productID, *payload.Quantity)
		writeCart(w, r, handle, snap)
	}
}

// CartOpen marks the cart drawer open.
func CartOpen(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		handle := cartsvc.FromContext(r.Context())
		writeCart(w, r, handle, handle.OpenCart(r.Context()))
	}
}

// CartClose marks the cart drawer closed.
func CartClose(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		handle := cartsvc.FromContext(r.Context())
		writeCart(w, r, handle, handle.CloseCart(r.Context()))
	}
}

func productIDParam(r *http.Request) (string, error) {
	productID := strings.TrimSpace(chi.URLParam(r, "productId"))
	if productID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return productID, nil
}

func writeCart(w http.ResponseWriter, r *http.Request, handle cartsvc.Handle, snap cartsvc.Snapshot) {
	writeCartStatus(w, r, http.StatusOK, handle, snap)
}

func writeCartStatus(w http.ResponseWriter, r *http.Request, status int, handle cartsvc.Handle, snap cartsvc.Snapshot) {
	sessionID := middleware.CartSessionFromContext(r.Context())
	responses.WriteSuccessStatus(w, status, newCartView(sessionID, handle.Scope(), snap))
}
