package cart

import (
	"net/http"
	"strings"

	cartdto "github.com/angelmondragon/storefront-cart/api/controllers/cart/dto"
	"github.com/angelmondragon/storefront-cart/internal/cart"
	product "github.com/angelmondragon/storefront-cart/internal/products"
)

// toAddToCartInput trims only the product id; descriptors are part of the
// variant key and are kept byte for byte.
func toAddToCartInput(payload cartdto.AddItemRequest) product.AddToCartInput {
	return product.AddToCartInput{
		ProductID:   strings.TrimSpace(payload.ProductID),
		Selections:  payload.Selections,
		MetalType:   payload.MetalType,
		DiamondSize: payload.DiamondSize,
		RingSize:    payload.RingSize,
		IsLabGrown:  payload.IsLabGrown,
	}
}

// variantKeyFromQuery reads the optional variant descriptors of a removal.
func variantKeyFromQuery(r *http.Request, productID string) cart.VariantKey {
	q := r.URL.Query()
	return cart.VariantKey{
		ID:          productID,
		MetalType:   q.Get("metalType"),
		DiamondSize: q.Get("diamondSize"),
		RingSize:    q.Get("ringSize"),
	}
}
