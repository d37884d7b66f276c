package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Product is a purchased stock line. remaining_amount is the supplier-side due
// on this line; it is mutated only by supplier settlement, never by customer
// payments. The product-level due ledger is deliberately independent of the
// purchase invoices that created the lines.
type Product struct {
	ID              snowflake.ID `gorm:"primaryKey" json:"id,string"`
	SupplierID      snowflake.ID `gorm:"not null;index" json:"supplier_id,string"`
	ShopID          snowflake.ID `gorm:"not null;index" json:"shop_id,string"`
	Name            string       `gorm:"type:text;not null" json:"name"`
	Barcode         string       `gorm:"type:text" json:"barcode,omitempty"`
	BuyingPrice     int64        `gorm:"not null" json:"buying_price"`
	SellingPrice    int64        `gorm:"not null" json:"selling_price"`
	Quantity        int64        `gorm:"not null" json:"quantity"`
	AdvancePayment  int64        `gorm:"not null;default:0" json:"advance_payment"`
	RemainingAmount int64        `gorm:"not null" json:"remaining_amount"`
	CreatedAt       time.Time    `gorm:"not null;index" json:"created_at"`
	UpdatedAt       time.Time    `gorm:"not null" json:"updated_at"`
}

// TableName sets the database table name.
func (Product) TableName() string { return "products" }
