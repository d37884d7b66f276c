package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Method is how a payment was made.
type Method string

const (
	MethodCash         Method = "cash"
	MethodCard         Method = "card"
	MethodBankTransfer Method = "bank_transfer"
	MethodMobile       Method = "mobile_banking"
)

// Payment is an append-only record of money received against one invoice.
type Payment struct {
	ID            snowflake.ID `gorm:"primaryKey" json:"id,string"`
	InvoiceID     snowflake.ID `gorm:"not null;index" json:"invoice_id,string"`
	Amount        int64        `gorm:"not null" json:"amount"`
	PaymentMethod Method       `gorm:"type:text;not null" json:"payment_method"`
	PaymentDate   time.Time    `gorm:"not null" json:"payment_date"`
	Notes         string       `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time    `gorm:"not null" json:"created_at"`
}

// TableName sets the database table name.
func (Payment) TableName() string { return "payments" }

// ValidMethod reports whether the payment method is one we accept.
func ValidMethod(m Method) bool {
	switch m {
	case MethodCash, MethodCard, MethodBankTransfer, MethodMobile:
		return true
	default:
		return false
	}
}
