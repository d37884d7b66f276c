package domain

import (
	"context"
	"errors"
)

// SubmitItemRequest selects one invoice item (or part of it) for return.
type SubmitItemRequest struct {
	InvoiceItemID string        `json:"invoice_item_id"`
	Quantity      int64         `json:"quantity"`
	Condition     ItemCondition `json:"condition"`
}

// SubmitReturnRequest records a return request against an invoice.
type SubmitReturnRequest struct {
	InvoiceID string              `json:"invoice_id"`
	Items     []SubmitItemRequest `json:"items"`
	Reason    string              `json:"return_reason"`
	Notes     string              `json:"notes,omitempty"`
}

// Service manages the return lifecycle. Submit records the request; Apply is
// the explicit command that reconciles a pending return against the ledger.
type Service interface {
	Submit(ctx context.Context, req SubmitReturnRequest) (ProductReturn, error)
	Apply(ctx context.Context, returnID string) (ProductReturn, error)
	Reject(ctx context.Context, returnID string, reason string) (ProductReturn, error)
	GetByID(ctx context.Context, returnID string) (ProductReturn, error)
	ListByInvoice(ctx context.Context, invoiceID string) ([]ProductReturn, error)
}

var (
	ErrInvalidInvoiceID  = errors.New("invalid_invoice_id")
	ErrInvalidReturnID   = errors.New("invalid_return_id")
	ErrInvoiceNotFound   = errors.New("invoice_not_found")
	ErrReturnNotFound    = errors.New("return_not_found")
	ErrMissingItems      = errors.New("missing_items")
	ErrMissingReason     = errors.New("missing_return_reason")
	ErrInvalidQuantity   = errors.New("invalid_quantity")
	ErrQuantityExceeds   = errors.New("quantity_exceeds_sold")
	ErrInvalidCondition  = errors.New("invalid_condition")
	ErrItemNotOnInvoice  = errors.New("item_not_on_invoice")
	ErrReturnNotPending  = errors.New("return_not_pending")
	ErrNotSalesInvoice   = errors.New("not_a_sales_invoice")
	ErrDuplicateItem     = errors.New("duplicate_return_item")
	ErrInconsistentTotal = errors.New("inconsistent_return_total")
)
