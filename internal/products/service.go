package product

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/angelmondragon/storefront-cart/internal/attributes"
	"github.com/angelmondragon/storefront-cart/internal/cart"
	"github.com/angelmondragon/storefront-cart/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storefront-cart/pkg/errors"
)

type productStore interface {
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Upsert(ctx context.Context, product *models.Product) (*models.Product, error)
	List(ctx context.Context, after string, limit int) ([]models.Product, error)
}

// Service exposes catalog reads, variant resolution and cart line building.
type Service interface {
	Get(ctx context.Context, productID string) (*ProductView, error)
	List(ctx context.Context, after string, limit int) ([]ProductDTO, error)
	Upsert(ctx context.Context, productID string, input UpsertInput) (*ProductDTO, error)
	Resolve(ctx context.Context, productID string, selections map[int]int) (*Resolution, error)
	BuildLineItem(ctx context.Context, input AddToCartInput) (cart.NewItem, error)
}

type service struct {
	repo productStore
}

// NewService builds a product service backed by the provided repository.
func NewService(repo productStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context, productID string) (*ProductView, error) {
	product, groups, err := s.load(ctx, productID)
	if err != nil {
		return nil, err
	}
	resolver := attributes.NewResolver(groups, product.Price, product.Images)
	return &ProductView{
		Product:    NewProductDTO(product, groups),
		Resolution: resolutionOf(resolver),
	}, nil
}

func (s *service) List(ctx context.Context, after string, limit int) ([]ProductDTO, error) {
	products, err := s.repo.List(ctx, after, limit)
	if err != nil {
		return nil, err
	}
	out := make([]ProductDTO, 0, len(products))
	for i := range products {
		groups, err := attributes.ParseGroups([]byte(products[i].Attributes))
		if err != nil {
			groups = nil
		}
		out = append(out, NewProductDTO(&products[i], groups))
	}
	return out, nil
}

func (s *service) Upsert(ctx context.Context, productID string, input UpsertInput) (*ProductDTO, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Price.IsNegative() || input.OriginalPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "prices must be non-negative")
	}
	groups, err := attributes.ParseGroups(input.Attributes)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "attributes must be an array of attribute groups")
	}

	record := &models.Product{
		ID:            productID,
		Name:          strings.TrimSpace(input.Name),
		Price:         input.Price,
		OriginalPrice: input.OriginalPrice,
		Images:        nonNil(input.Images),
		MetalTypes:    nonNil(input.MetalTypes),
		DiamondSizes:  nonNil(input.DiamondSizes),
		IsLabGrown:    input.IsLabGrown,
		Attributes:    string(input.Attributes),
	}
	saved, err := s.repo.Upsert(ctx, record)
	if err != nil {
		return nil, err
	}
	dto := NewProductDTO(saved, groups)
	return &dto, nil
}

func (s *service) Resolve(ctx context.Context, productID string, selections map[int]int) (*Resolution, error) {
	product, groups, err := s.load(ctx, productID)
	if err != nil {
		return nil, err
	}
	resolver := attributes.NewResolver(groups, product.Price, product.Images)
	applySelections(resolver, selections)
	res := resolutionOf(resolver)
	return &res, nil
}

// BuildLineItem resolves the shopper's selection into the item the cart adds.
// Empty metal and diamond descriptors are taken from the selected option of
// the group whose name mentions them.
func (s *service) BuildLineItem(ctx context.Context, input AddToCartInput) (cart.NewItem, error) {
	if strings.TrimSpace(input.ProductID) == "" {
		return cart.NewItem{}, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, groups, err := s.load(ctx, input.ProductID)
	if err != nil {
		return cart.NewItem{}, err
	}
	// flat descriptor lists only describe products without attribute groups
	if len(groups) == 0 {
		if err := checkListed("metal type", input.MetalType, product.MetalTypes); err != nil {
			return cart.NewItem{}, err
		}
		if err := checkListed("diamond size", input.DiamondSize, product.DiamondSizes); err != nil {
			return cart.NewItem{}, err
		}
	}

	resolver := attributes.NewResolver(groups, product.Price, product.Images)
	applySelections(resolver, input.Selections)

	price := resolver.Price()
	original := product.OriginalPrice
	if original.IsZero() {
		original = price
	}
	image := ""
	if images := resolver.Images(); len(images) > 0 {
		image = images[0]
	}

	metal := input.MetalType
	if metal == "" {
		metal = selectedName(resolver, "metal")
	}
	diamond := input.DiamondSize
	if diamond == "" {
		diamond = selectedName(resolver, "diamond")
	}

	labGrown := input.IsLabGrown
	if labGrown == nil && product.IsLabGrown {
		v := true
		labGrown = &v
	}

	return cart.NewItem{
		ID:            product.ID,
		Name:          product.Name,
		Price:         price,
		OriginalPrice: original,
		Image:         image,
		MetalType:     metal,
		DiamondSize:   diamond,
		RingSize:      input.RingSize,
		IsLabGrown:    labGrown,
	}, nil
}

func (s *service) load(ctx context.Context, productID string) (*models.Product, []attributes.Group, error) {
	product, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, nil, err
	}
	groups, err := attributes.ParseGroups([]byte(product.Attributes))
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "stored product attributes are invalid")
	}
	return product, groups, nil
}

func applySelections(resolver *attributes.Resolver, selections map[int]int) {
	for attributeID, optionID := range selections {
		resolver.SelectOptionByID(attributeID, optionID)
	}
}

func resolutionOf(resolver *attributes.Resolver) Resolution {
	images := resolver.Images()
	if images == nil {
		images = []string{}
	}
	return Resolution{
		SelectedOptions: resolver.SelectedOptions(),
		Price:           resolver.Price(),
		Images:          images,
	}
}

func selectedName(resolver *attributes.Resolver, needle string) string {
	opt, ok := resolver.SelectedIn(func(name string) bool {
		return strings.Contains(strings.ToLower(name), needle)
	})
	if !ok {
		return ""
	}
	return opt.Name
}

func checkListed(field, value string, allowed []string) error {
	if value == "" || len(allowed) == 0 || slices.Contains(allowed, value) {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s %q is not offered for this product", field, value)).
		WithDetails(map[string]any{"allowed": allowed})
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
