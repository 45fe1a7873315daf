package cart

import "github.com/shopspring/decimal"

// LineItem is one cart row: a product in a specific variant and its quantity.
type LineItem struct {
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
}

// Key returns the variant identity of the line.
func (l LineItem) Key() VariantKey {
	return VariantKey{ID: l.ID, MetalType: l.MetalType, DiamondSize: l.DiamondSize, RingSize: l.RingSize}
}

// Total is price times quantity.
func (l LineItem) Total() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// NewItem is what callers hand to AddItem; quantity is owned by the engine.
type NewItem struct {
	ID            string
	Name          string
	Price         decimal.Decimal
	OriginalPrice decimal.Decimal
	Image         string
	MetalType     string
	DiamondSize   string
	RingSize      string
	IsLabGrown    *bool
}

// Key returns the variant identity the item would merge on.
func (n NewItem) Key() VariantKey {
	return VariantKey{ID: n.ID, MetalType: n.MetalType, DiamondSize: n.DiamondSize, RingSize: n.RingSize}
}

func (n NewItem) lineItem() LineItem {
	return LineItem{
		ID:            n.ID,
		Name:          n.Name,
		Price:         n.Price,
		OriginalPrice: n.OriginalPrice,
		Image:         n.Image,
		Quantity:      1,
		MetalType:     n.MetalType,
		DiamondSize:   n.DiamondSize,
		RingSize:      n.RingSize,
		IsLabGrown:    cloneBool(n.IsLabGrown),
	}
}

// VariantKey decides whether two additions are the same purchasable thing.
// Fields compare by exact string equality.
type VariantKey struct {
	ID          string
	MetalType   string
	DiamondSize string
	RingSize    string
}

// State is the persisted shape of a cart.
type State struct {
	Items  []LineItem
	IsOpen bool
}

// Clone returns a deep copy so callers never share the backing slice.
func (s State) Clone() State {
	return State{Items: cloneItems(s.Items), IsOpen: s.IsOpen}
}

// Snapshot is a read view of a cart with derived totals.
type Snapshot struct {
	Items     []LineItem      `json:"items"`
	IsOpen    bool            `json:"isOpen"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	ItemCount int             `json:"itemCount"`
}

func cloneItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	for i, item := range items {
		item.IsLabGrown = cloneBool(item.IsLabGrown)
		out[i] = item
	}
	return out
}

func cloneBool(v *bool) *bool {
	if v == nil {
		return nil
	}
	b := *v
	return &b
}
