package controllers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storefront-cart/api/responses"
	"github.com/angelmondragon/storefront-cart/api/validators"
	productsvc "github.com/angelmondragon/storefront-cart/internal/products"
	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
	"github.com/angelmondragon/storefront-cart/pkg/pagination"
)

const maxProductIDLen = 128

// ProductGet returns the product and the resolution of its default selection.
func ProductGet(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := productIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Get(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// ProductList pages through the catalog ordered by id.
func ProductList(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		after, err := pagination.ParseCursor(r.URL.Query().Get("cursor"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor"))
			return
		}

		products, err := svc.List(r.Context(), after, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		next := ""
		if len(products) == limit {
			next = pagination.EncodeCursor(products[len(products)-1].ID)
		}
		responses.WriteSuccess(w, productListResponse{Products: products, NextCursor: next})
	}
}

// ProductResolve prices a selection without touching the cart.
func ProductResolve(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := productIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload resolveRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		res, err := svc.Resolve(r.Context(), productID, payload.Selections)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, res)
	}
}

// ProductUpsert stores a catalog entry pushed by the commerce backend feed.
func ProductUpsert(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := productIDFromPath(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload upsertProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.Upsert(r.Context(), productID, payload.toUpsertInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

type productListResponse struct {
	Products   []productsvc.ProductDTO `json:"products"`
	NextCursor string                  `json:"nextCursor,omitempty"`
}

type resolveRequest struct {
	Selections map[int]int `json:"selections"`
}

type upsertProductRequest struct {
	Name          string          `json:"name" validate:"required,max=200"`
	Price         decimal.Decimal `json:"price" validate:"gte=0"`
	OriginalPrice decimal.Decimal `json:"originalPrice" validate:"gte=0"`
	Images        []string        `json:"images" validate:"omitempty,dive,required"`
	MetalTypes    []string        `json:"metalTypes" validate:"omitempty,dive,required,max=64"`
	DiamondSizes  []string        `json:"diamondSizes" validate:"omitempty,dive,required,max=64"`
	IsLabGrown    bool            `json:"isLabGrown"`
	Attributes    json.RawMessage `json:"attributes,omitempty"`
}

func (p upsertProductRequest) toUpsertInput() productsvc.UpsertInput {
	return productsvc.UpsertInput{
		Name:          p.Name,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Images:        p.Images,
		MetalTypes:    p.MetalTypes,
		DiamondSizes:  p.DiamondSizes,
		IsLabGrown:    p.IsLabGrown,
		Attributes:    p.Attributes,
	}
}

func productIDFromPath(r *http.Request) (string, error) {
	productID := strings.TrimSpace(chi.URLParam(r, "productId"))
	if productID == "" || len(productID) > maxProductIDLen {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid product id")
	}
	return productID, nil
}
