package cartdto

import "github.com/shopspring/decimal"

// CartLine is one line of the cart payload.
type CartLine struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	OriginalPrice decimal.Decimal `json:"originalPrice"`
	Image         string          `json:"image"`
	Quantity      int             `json:"quantity"`
	MetalType     string          `json:"metalType"`
	DiamondSize   string          `json:"diamondSize"`
	RingSize      string          `json:"ringSize"`
	IsLabGrown    *bool           `json:"isLabGrown,omitempty"`
	LineTotal     decimal.Decimal `json:"lineTotal"`
}

// CartView is the cart payload returned by every cart endpoint.
type CartView struct {
	SessionID   string          `json:"sessionId"`
	Items       []CartLine      `json:"items"`
	IsOpen      bool            `json:"isOpen"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	ItemCount   int             `json:"itemCount"`
	RemoveScope string          `json:"removeScope"`
}
