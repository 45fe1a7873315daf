package cron

import (
	"context"
	"fmt"

	"github.com/angelmondragon/storefront-cart/internal/attributes"
	"github.com/angelmondragon/storefront-cart/pkg/db/models"
	"github.com/angelmondragon/storefront-cart/pkg/logger"
)

const catalogAuditPageSize = 200

type catalogLister interface {
	List(ctx context.Context, after string, limit int) ([]models.Product, error)
}

// CatalogAuditJobParams configure the catalog attribute audit.
type CatalogAuditJobParams struct {
	Logger   *logger.Logger
	Products catalogLister
}

// NewCatalogAuditJob walks the catalog and reports products whose stored
// attribute groups cannot be parsed. Such products fall back to their base
// price and images when resolved.
func NewCatalogAuditJob(params CatalogAuditJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &catalogAuditJob{logg: params.Logger, products: params.Products}, nil
}

type catalogAuditJob struct {
	logg     *logger.Logger
	products catalogLister
}

func (j *catalogAuditJob) Name() string { return "catalog-audit" }

func (j *catalogAuditJob) Run(ctx context.Context) error {
	var scanned, invalid int
	after := ""
	for {
		page, err := j.products.List(ctx, after, catalogAuditPageSize)
		if err != nil {
			return fmt.Errorf("catalog audit: %w", err)
		}
		for _, product := range page {
			scanned++
			if _, err := attributes.ParseGroups([]byte(product.Attributes)); err != nil {
				invalid++
				j.logg.Warn(j.logg.WithFields(ctx, map[string]any{
					"product_id": product.ID,
					"error":      err.Error(),
				}), "product attributes unparsable")
			}
		}
		if len(page) < catalogAuditPageSize {
			break
		}
		after = page[len(page)-1].ID
	}

	j.logg.Info(j.logg.WithFields(ctx, map[string]any{
		"products_scanned": scanned,
		"products_invalid": invalid,
	}), "catalog audit complete")
	return nil
}
