package models

import "time"

// Product is a catalog entry. Stock is tracked per unit through Items.
type Product struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name      string  `gorm:"size:100;not null;index:idx_product_identity" json:"name"`
	Category  string  `gorm:"type:text;not null;default:'';index:idx_product_identity" json:"category"`
	SellPrice float64 `gorm:"not null;index:idx_product_identity" json:"sell_price"`
	BuyPrice  float64 `gorm:"not null;index:idx_product_identity" json:"buy_price"`

	Items []Item `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"-"`

	// ItemCount is the number of available items, filled on read.
	ItemCount int64 `gorm:"-" json:"item_count"`
}

// Margin returns the per-unit difference between sell and buy price.
func (p *Product) Margin() float64 {
	return p.SellPrice - p.BuyPrice
}

// StockValue returns the buy value of the available stock.
func (p *Product) StockValue() float64 {
	return float64(p.ItemCount) * p.BuyPrice
}
