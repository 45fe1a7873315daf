package product

import (
	"encoding/json"
	"time"

	"github.com/angelmondragon/storefront-cart/internal/attributes"
	"github.com/angelmondragon/storefront-cart/pkg/db/models"
	"github.com/shopspring/decimal"
)

// ProductDTO is the catalog entry returned to clients.
type ProductDTO struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Price         decimal.Decimal    `json:"price"`
	OriginalPrice decimal.Decimal    `json:"originalPrice"`
	Images        []string           `json:"images"`
	MetalTypes    []string           `json:"metalTypes"`
	DiamondSizes  []string           `json:"diamondSizes"`
	IsLabGrown    bool               `json:"isLabGrown"`
	Attributes    []attributes.Group `json:"attributes"`
	UpdatedAt     time.Time          `json:"updatedAt"`
}

// Resolution is the price and image set for a selection.
type Resolution struct {
	SelectedOptions attributes.Selection `json:"selectedOptions"`
	Price           decimal.Decimal      `json:"price"`
	Images          []string             `json:"images"`
}

// ProductView pairs a product with its initial resolution.
type ProductView struct {
	Product    ProductDTO `json:"product"`
	Resolution Resolution `json:"resolution"`
}

// UpsertInput is the catalog feed payload for one product.
type UpsertInput struct {
	Name          string
	Price         decimal.Decimal
	OriginalPrice decimal.Decimal
	Images        []string
	MetalTypes    []string
	DiamondSizes  []string
	IsLabGrown    bool
	Attributes    json.RawMessage
}

// AddToCartInput describes a shopper adding a product in some variant.
// Selections maps attribute id to option id.
type AddToCartInput struct {
	ProductID   string
	Selections  map[int]int
	MetalType   string
	DiamondSize string
	RingSize    string
	IsLabGrown  *bool
}

// NewProductDTO builds a DTO from the persisted model and its parsed groups.
func NewProductDTO(product *models.Product, groups []attributes.Group) ProductDTO {
	if groups == nil {
		groups = []attributes.Group{}
	}
	return ProductDTO{
		ID:            product.ID,
		Name:          product.Name,
		Price:         product.Price,
		OriginalPrice: product.OriginalPrice,
		Images:        append([]string{}, product.Images...),
		MetalTypes:    append([]string{}, product.MetalTypes...),
		DiamondSizes:  append([]string{}, product.DiamondSizes...),
		IsLabGrown:    product.IsLabGrown,
		Attributes:    groups,
		UpdatedAt:     product.UpdatedAt,
	}
}
