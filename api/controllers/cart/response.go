package cart

import (
	cartdto "github.com/angelmondragon/storefront-cart/api/controllers/cart/dto"
	"github.com/angelmondragon/storefront-cart/internal/cart"
)

func newCartView(sessionID string, scope cart.RemoveScope, snap cart.Snapshot) cartdto.CartView {
	items := make([]cartdto.CartLine, 0, len(snap.Items))
	for _, item := range snap.Items {
		items = append(items, cartdto.CartLine{
			ID:            item.ID,
			Name:          item.Name,
			Price:         item.Price,
			OriginalPrice: item.OriginalPrice,
			Image:         item.Image,
			Quantity:      item.Quantity,
			MetalType:     item.MetalType,
			DiamondSize:   item.DiamondSize,
			RingSize:      item.RingSize,
			IsLabGrown:    item.IsLabGrown,
			LineTotal:     item.Total(),
		})
	}

	return cartdto.CartView{
		SessionID:   sessionID,
		Items:       items,
		IsOpen:      snap.IsOpen,
		Subtotal:    snap.Subtotal,
		ItemCount:   snap.ItemCount,
		RemoveScope: string(scope),
	}
}
