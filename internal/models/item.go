package models

import "time"

// ItemStatus is the lifecycle state of a single unit of stock.
// Values other than the constants below are accepted as caller-supplied exit reasons.
type ItemStatus string

const (
	ItemStatusAvailable ItemStatus = "available"
	ItemStatusSold      ItemStatus = "sold"
	ItemStatusDamaged   ItemStatus = "damaged"
	ItemStatusReturned  ItemStatus = "returned"
	ItemStatusLost      ItemStatus = "lost"
)

// KnownItemStatuses lists the statuses offered by the reduce form.
var KnownItemStatuses = []ItemStatus{
	ItemStatusSold,
	ItemStatusDamaged,
	ItemStatusReturned,
	ItemStatusLost,
}

// Item is one physical unit of a Product.
type Item struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	ProductID uint     `gorm:"index;not null" json:"product_id"`
	Product   *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`

	EntryDate time.Time  `gorm:"not null;index" json:"entry_date"`
	ExitDate  *time.Time `json:"exit_date,omitempty"`

	Status ItemStatus `gorm:"size:100;not null;index" json:"status"`

	SalesReceipt    *string `gorm:"size:255" json:"sales_receipt,omitempty"`
	PurchaseReceipt *string `gorm:"size:255" json:"purchase_receipt,omitempty"`
}

// IsAvailable reports whether the item is still in stock.
func (i *Item) IsAvailable() bool {
	return i.Status == ItemStatusAvailable
}

// IsSold reports whether the item left inventory through a sale.
func (i *Item) IsSold() bool {
	return i.Status == ItemStatusSold
}
