package domain

import (
	"context"
	"errors"
)

// RecordPaymentRequest records one payment against one invoice.
type RecordPaymentRequest struct {
	InvoiceID string `json:"invoice_id"`
	Amount    int64  `json:"amount"`
	Method    Method `json:"payment_method"`
	Notes     string `json:"notes,omitempty"`
}

// Service records customer payments and keeps invoice state consistent.
type Service interface {
	Record(ctx context.Context, req RecordPaymentRequest) (Payment, error)
	ListByInvoice(ctx context.Context, invoiceID string) ([]Payment, error)
}

var (
	ErrInvalidInvoiceID     = errors.New("invalid_invoice_id")
	ErrInvalidAmount        = errors.New("invalid_amount")
	ErrAmountExceedsBalance = errors.New("amount_exceeds_balance")
	ErrInvalidMethod        = errors.New("invalid_payment_method")
	ErrInvoiceNotFound      = errors.New("invoice_not_found")
	ErrInvoiceAlreadyPaid   = errors.New("invoice_already_paid")
)
