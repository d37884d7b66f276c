package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// InvoiceType distinguishes customer sales from supplier stock purchases.
type InvoiceType string

const (
	InvoiceTypeSales           InvoiceType = "sales"
	InvoiceTypeProductAddition InvoiceType = "product_addition"
)

// Status is the derived payment state of an invoice.
type Status string

const (
	StatusUnpaid        Status = "unpaid"
	StatusPartiallyPaid Status = "partially_paid"
	StatusPaid          Status = "paid"
)

// Invoice is a sale or purchase document. remaining_amount and status are
// derived from the authoritative payment sum; they are persisted for cheap
// listing but recomputed inside every write transaction.
type Invoice struct {
	ID              snowflake.ID  `gorm:"primaryKey" json:"id,string"`
	InvoiceNumber   string        `gorm:"type:text;not null;uniqueIndex" json:"invoice_number"`
	InvoiceType     InvoiceType   `gorm:"type:text;not null;index" json:"invoice_type"`
	TotalAmount     int64         `gorm:"not null" json:"total_amount"`
	DiscountAmount  int64         `gorm:"not null;default:0" json:"discount_amount"`
	AdvancePayment  int64         `gorm:"not null;default:0" json:"advance_payment"`
	RemainingAmount int64         `gorm:"not null" json:"remaining_amount"`
	Status          Status        `gorm:"type:text;not null;index" json:"status"`
	CustomerID      *snowflake.ID `gorm:"index" json:"customer_id,omitempty"`
	SupplierID      *snowflake.ID `gorm:"index" json:"supplier_id,omitempty"`
	ShopID          snowflake.ID  `gorm:"not null;index" json:"shop_id,string"`
	Notes           string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt       time.Time     `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time     `gorm:"not null" json:"updated_at"`

	Items []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// InvoiceItem is one line of an invoice. Product details are snapshotted at
// sale time so later product edits do not rewrite history.
type InvoiceItem struct {
	ID             snowflake.ID  `gorm:"primaryKey" json:"id,string"`
	InvoiceID      snowflake.ID  `gorm:"not null;index" json:"invoice_id,string"`
	ProductID      *snowflake.ID `gorm:"index" json:"product_id,omitempty"`
	ProductName    string        `gorm:"type:text;not null" json:"product_name"`
	Barcode        string        `gorm:"type:text" json:"barcode,omitempty"`
	Quantity       int64         `gorm:"not null" json:"quantity"`
	UnitPrice      int64         `gorm:"not null" json:"unit_price"`
	TotalPrice     int64         `gorm:"not null" json:"total_price"`
	BuyingPrice    int64         `gorm:"not null;default:0" json:"buying_price"`
	IsOuterProduct bool          `gorm:"not null;default:false;index" json:"is_outer_product"`
	CreatedAt      time.Time     `gorm:"not null" json:"created_at"`
}

// TableName sets the database table name.
func (InvoiceItem) TableName() string { return "invoice_items" }
