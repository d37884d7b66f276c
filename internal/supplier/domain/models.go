package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// SupplierPayment is an append-only record of funds applied against a
// supplier's aggregate outstanding balance. It is deliberately not tied to any
// single invoice; settlement happens against product due lines, oldest first.
type SupplierPayment struct {
	ID              snowflake.ID `gorm:"primaryKey" json:"id,string"`
	SupplierID      snowflake.ID `gorm:"not null;index" json:"supplier_id,string"`
	Amount          int64        `gorm:"not null" json:"amount"`
	PaymentMethod   string       `gorm:"type:text;not null" json:"payment_method"`
	ReferenceNumber string       `gorm:"type:text" json:"reference_number,omitempty"`
	Notes           string       `gorm:"type:text" json:"notes,omitempty"`
	PaymentDate     time.Time    `gorm:"not null" json:"payment_date"`
	CreatedAt       time.Time    `gorm:"not null" json:"created_at"`
}

// TableName sets the database table name.
func (SupplierPayment) TableName() string { return "supplier_payments" }

// SettledLine reports how much of one product due line a settlement cleared.
type SettledLine struct {
	ProductID snowflake.ID `json:"product_id,string"`
	Applied   int64        `json:"applied"`
	Remaining int64        `json:"remaining"`
}
