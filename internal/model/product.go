package model

import "github.com/google/uuid"

// DefaultMinStock is the low-stock threshold used when none is given.
const DefaultMinStock = 10

type Product struct {
	BaseModel
	OwnerID   uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_products_owner_sku,priority:1" json:"owner_id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	SKU       *string   `gorm:"type:varchar(64);uniqueIndex:idx_products_owner_sku,priority:2" json:"sku"`
	Category  Category  `gorm:"type:varchar(32);not null" json:"category"`
	Unit      Unit      `gorm:"type:varchar(16);not null" json:"unit"`
	UnitPrice int64     `gorm:"not null;check:chk_products_unit_price,unit_price >= 0" json:"unit_price"`

	// CurrentStock only moves through ledger postings.
	CurrentStock int `gorm:"not null;check:chk_products_current_stock,current_stock >= 0" json:"current_stock"`
	MinStock     int `gorm:"not null;check:chk_products_min_stock,min_stock >= 0" json:"min_stock"`
}

// StockValue is the product's contribution to total stock value, priced at its current unit price.
func (p *Product) StockValue() int64 {
	return int64(p.CurrentStock) * p.UnitPrice
}

func (p *Product) IsLowStock() bool {
	return p.CurrentStock < p.MinStock
}

// ProductStatus is a product with its derived dashboard columns.
type ProductStatus struct {
	Product
	StockValue int64 `json:"stock_value"`
	LowStock   bool  `json:"low_stock"`
}

func (p *Product) Status() ProductStatus {
	return ProductStatus{
		Product:    *p,
		StockValue: p.StockValue(),
		LowStock:   p.IsLowStock(),
	}
}
