package cartdto

// AddItemRequest adds one unit of a product variant to the cart.
// Selections maps attribute id to option id.
type AddItemRequest struct {
	ProductID   string      `json:"productId" validate:"required,max=128"`
	Selections  map[int]int `json:"selections,omitempty"`
	MetalType   string      `json:"metalType,omitempty" validate:"max=64"`
	DiamondSize string      `json:"diamondSize,omitempty" validate:"max=64"`
	RingSize    string      `json:"ringSize,omitempty" validate:"max=32"`
	IsLabGrown  *bool       `json:"isLabGrown,omitempty"`
}

// UpdateQuantityRequest sets the quantity of every line of a product.
// Zero or negative quantities remove the lines.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}
