package attributes

import "github.com/shopspring/decimal"

// Option is one selectable value of an attribute group.
type Option struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Color       string          `json:"color"`
	Price       decimal.Decimal `json:"price"`
	IsDefault   bool            `json:"isDefault"`
	Images      []string        `json:"images"`
	AttributeID int             `json:"attributeId"`
}

// Group is a product attribute such as metal or diamond size.
type Group struct {
	AttributeID   int      `json:"attributeId"`
	AttributeName string   `json:"attributeName"`
	Options       []Option `json:"options"`
}

// Find returns the option with the given id.
func (g Group) Find(optionID int) (Option, bool) {
	for _, opt := range g.Options {
		if opt.ID == optionID {
			return opt, true
		}
	}
	return Option{}, false
}

// Selection maps an attribute id to the option chosen for it.
type Selection map[int]Option

// Clone copies the map; options are copied by value.
func (s Selection) Clone() Selection {
	out := make(Selection, len(s))
	for k, v := range s {
		v.Images = append([]string(nil), v.Images...)
		out[k] = v
	}
	return out
}
