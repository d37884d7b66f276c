package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// ReturnStatus is the lifecycle state of a product return.
type ReturnStatus string

const (
	ReturnStatusPending   ReturnStatus = "pending"
	ReturnStatusProcessed ReturnStatus = "processed"
	ReturnStatusRejected  ReturnStatus = "rejected"
)

// ItemCondition describes the state the customer returned the goods in.
type ItemCondition string

const (
	ConditionResalable ItemCondition = "resalable"
	ConditionDamaged   ItemCondition = "damaged"
	ConditionDefective ItemCondition = "defective"
)

// ProductReturn records a customer's return request against one invoice.
// Submitting a return does not touch the invoice or stock; the financial
// effect lands only when the return is applied.
type ProductReturn struct {
	ID           snowflake.ID  `gorm:"primaryKey" json:"id,string"`
	InvoiceID    snowflake.ID  `gorm:"not null;index" json:"invoice_id,string"`
	CustomerID   *snowflake.ID `gorm:"index" json:"customer_id,omitempty"`
	TotalAmount  int64         `gorm:"not null" json:"total_amount"`
	RefundAmount int64         `gorm:"not null" json:"refund_amount"`
	Status       ReturnStatus  `gorm:"type:text;not null;index" json:"status"`
	ReturnReason string        `gorm:"type:text;not null" json:"return_reason"`
	Notes        string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt    time.Time     `gorm:"not null" json:"created_at"`
	ProcessedAt  *time.Time    `json:"processed_at,omitempty"`

	Items []ReturnItem `gorm:"foreignKey:ReturnID" json:"items,omitempty"`
}

// TableName sets the database table name.
func (ProductReturn) TableName() string { return "product_returns" }

// ReturnItem is one returned line, referencing the invoice item it came from.
type ReturnItem struct {
	ID         snowflake.ID  `gorm:"primaryKey" json:"id,string"`
	ReturnID   snowflake.ID  `gorm:"not null;index" json:"return_id,string"`
	ProductID  *snowflake.ID `gorm:"index" json:"product_id,omitempty"`
	Quantity   int64         `gorm:"not null" json:"quantity"`
	UnitPrice  int64         `gorm:"not null" json:"unit_price"`
	TotalPrice int64         `gorm:"not null" json:"total_price"`
	Condition  ItemCondition `gorm:"type:text;not null" json:"condition"`
}

// TableName sets the database table name.
func (ReturnItem) TableName() string { return "return_items" }

// ValidCondition reports whether the condition is one we accept.
func ValidCondition(c ItemCondition) bool {
	switch c {
	case ConditionResalable, ConditionDamaged, ConditionDefective:
		return true
	default:
		return false
	}
}
