package cart

import "github.com/shopspring/decimal"

// Engine owns the in-memory item list and its mutation rules. It is not safe
// for concurrent use; Facade serializes access.
type Engine struct {
	items  []LineItem
	isOpen bool
}

// NewEngine starts an engine from a previously persisted state.
func NewEngine(state State) *Engine {
	return &Engine{items: cloneItems(state.Items), isOpen: state.IsOpen}
}

// AddItem merges into the line with the same variant key, keeping that line's
// price, or appends a new line with quantity 1. The cart is opened either way.
func (e *Engine) AddItem(item NewItem) {
	key := item.Key()
	merged := false
	for i := range e.items {
		if e.items[i].Key() == key {
			e.items[i].Quantity++
			merged = true
			break
		}
	}
	if !merged {
		e.items = append(e.items, item.lineItem())
	}
	e.isOpen = true
}

// RemoveItem drops every line of the product, whatever its variant.
func (e *Engine) RemoveItem(id string) {
	e.filter(func(item LineItem) bool { return item.ID != id })
}

// RemoveVariant drops only the line with exactly this variant key.
func (e *Engine) RemoveVariant(key VariantKey) {
	e.filter(func(item LineItem) bool { return item.Key() != key })
}

// UpdateQuantity sets the quantity of every line of the product to
// max(0, quantity); lines that end at zero are removed.
func (e *Engine) UpdateQuantity(id string, quantity int) {
	if quantity < 0 {
		quantity = 0
	}
	for i := range e.items {
		if e.items[i].ID == id {
			e.items[i].Quantity = quantity
		}
	}
	e.filter(func(item LineItem) bool { return item.Quantity > 0 })
}

func (e *Engine) OpenCart() {
	e.isOpen = true
}

func (e *Engine) CloseCart() {
	e.isOpen = false
}

// Items returns a copy of the current lines in insertion order.
func (e *Engine) Items() []LineItem {
	return cloneItems(e.items)
}

func (e *Engine) IsOpen() bool {
	return e.isOpen
}

// Subtotal is the sum of price times quantity, computed on every call.
func (e *Engine) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range e.items {
		total = total.Add(item.Total())
	}
	return total
}

// ItemCount is the sum of quantities, computed on every call.
func (e *Engine) ItemCount() int {
	count := 0
	for _, item := range e.items {
		count += item.Quantity
	}
	return count
}

// State returns a detached copy suitable for persistence.
func (e *Engine) State() State {
	return State{Items: cloneItems(e.items), IsOpen: e.isOpen}
}

// Snapshot returns the items together with the derived totals.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Items:     e.Items(),
		IsOpen:    e.isOpen,
		Subtotal:  e.Subtotal(),
		ItemCount: e.ItemCount(),
	}
}

func (e *Engine) filter(keep func(LineItem) bool) {
	kept := e.items[:0]
	for _, item := range e.items {
		if keep(item) {
			kept = append(kept, item)
		}
	}
	// zero the tail so dropped lines do not linger in the backing array
	for i := len(kept); i < len(e.items); i++ {
		e.items[i] = LineItem{}
	}
	e.items = kept
}
