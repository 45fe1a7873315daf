package attributes

import "github.com/shopspring/decimal"

// InitialSelection picks the first default option of each group, falling back
// to the group's first option. Groups without options are skipped.
func InitialSelection(groups []Group) Selection {
	sel := Selection{}
	for _, group := range groups {
		if len(group.Options) == 0 {
			continue
		}
		chosen := group.Options[0]
		for _, opt := range group.Options {
			if opt.IsDefault {
				chosen = opt
				break
			}
		}
		sel[group.AttributeID] = chosen
	}
	return sel
}

// ResolvePrice returns the price of the option selected in the first group,
// or basePrice when there is none. Later groups never affect the price.
func ResolvePrice(groups []Group, sel Selection, basePrice decimal.Decimal) decimal.Decimal {
	if len(groups) == 0 {
		return basePrice
	}
	if opt, ok := sel[groups[0].AttributeID]; ok {
		return opt.Price
	}
	return basePrice
}

// ResolveImages prefers the first group's selected images, then every
// selected option's images in group order without duplicates, then
// baseImages.
func ResolveImages(groups []Group, sel Selection, baseImages []string) []string {
	if len(groups) > 0 {
		if opt, ok := sel[groups[0].AttributeID]; ok && len(opt.Images) > 0 {
			return append([]string(nil), opt.Images...)
		}
	}

	seen := map[string]struct{}{}
	var union []string
	for _, group := range groups {
		opt, ok := sel[group.AttributeID]
		if !ok {
			continue
		}
		for _, img := range opt.Images {
			if _, dup := seen[img]; dup {
				continue
			}
			seen[img] = struct{}{}
			union = append(union, img)
		}
	}
	if len(union) > 0 {
		return union
	}
	return append([]string(nil), baseImages...)
}

// Resolver tracks the selection of a single product view.
type Resolver struct {
	groups     []Group
	basePrice  decimal.Decimal
	baseImages []string
	selected   Selection
}

// NewResolver starts from the initial selection of groups.
func NewResolver(groups []Group, basePrice decimal.Decimal, baseImages []string) *Resolver {
	return &Resolver{
		groups:     groups,
		basePrice:  basePrice,
		baseImages: baseImages,
		selected:   InitialSelection(groups),
	}
}

func (r *Resolver) Groups() []Group {
	return r.groups
}

// SelectedOptions returns a copy of the current selection.
func (r *Resolver) SelectedOptions() Selection {
	return r.selected.Clone()
}

// SelectOption overwrites the selection of one group. It reports false and
// changes nothing when attributeID names no group of this product.
func (r *Resolver) SelectOption(attributeID int, option Option) bool {
	if _, ok := r.group(attributeID); !ok {
		return false
	}
	r.selected[attributeID] = option
	return true
}

// SelectOptionByID selects an option of the group by its id.
func (r *Resolver) SelectOptionByID(attributeID, optionID int) bool {
	group, ok := r.group(attributeID)
	if !ok {
		return false
	}
	opt, ok := group.Find(optionID)
	if !ok {
		return false
	}
	r.selected[attributeID] = opt
	return true
}

func (r *Resolver) Price() decimal.Decimal {
	return ResolvePrice(r.groups, r.selected, r.basePrice)
}

func (r *Resolver) Images() []string {
	return ResolveImages(r.groups, r.selected, r.baseImages)
}

// SelectedIn returns the option selected in the first group whose name
// satisfies match.
func (r *Resolver) SelectedIn(match func(name string) bool) (Option, bool) {
	for _, group := range r.groups {
		if !match(group.AttributeName) {
			continue
		}
		opt, ok := r.selected[group.AttributeID]
		return opt, ok
	}
	return Option{}, false
}

func (r *Resolver) group(attributeID int) (Group, bool) {
	for _, group := range r.groups {
		if group.AttributeID == attributeID {
			return group, true
		}
	}
	return Group{}, false
}
