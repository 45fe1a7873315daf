package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product mirrors a catalog entry fed from the commerce backend.
// Attributes keeps the backend's transformed attribute groups verbatim; they
// are parsed and validated when a product view is resolved.
type Product struct {
	ID            string          `gorm:"column:id;primaryKey"`
	Name          string          `gorm:"column:name;not null"`
	Price         decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	OriginalPrice decimal.Decimal `gorm:"column:original_price;type:numeric(12,2);not null"`
	Images        []string        `gorm:"column:images;type:text;serializer:json"`
	MetalTypes    []string        `gorm:"column:metal_types;type:text;serializer:json"`
	DiamondSizes  []string        `gorm:"column:diamond_sizes;type:text;serializer:json"`
	IsLabGrown    bool            `gorm:"column:is_lab_grown;not null;default:false"`
	Attributes    string          `gorm:"column:attributes;type:text;not null;default:''"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string {
	return "products"
}
