package domain

import (
	"context"
	"errors"
)

// RecordPaymentRequest applies a payment to a supplier's outstanding balance.
type RecordPaymentRequest struct {
	SupplierID      string `json:"supplier_id"`
	Amount          int64  `json:"amount"`
	Method          string `json:"payment_method"`
	ReferenceNumber string `json:"reference_number,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

// RecordPaymentResponse reports the settlement outcome.
type RecordPaymentResponse struct {
	Payment      SupplierPayment `json:"payment"`
	SettledLines []SettledLine   `json:"settled_lines"`
	Outstanding  int64           `json:"outstanding"`
}

// Service settles supplier dues oldest-first.
type Service interface {
	RecordPayment(ctx context.Context, req RecordPaymentRequest) (RecordPaymentResponse, error)
	Outstanding(ctx context.Context, supplierID string) (int64, error)
	ListPayments(ctx context.Context, supplierID string) ([]SupplierPayment, error)
}

var (
	ErrInvalidSupplierID      = errors.New("invalid_supplier_id")
	ErrInvalidAmount          = errors.New("invalid_amount")
	ErrAmountExceedsDue       = errors.New("amount_exceeds_outstanding")
	ErrNothingOutstanding     = errors.New("nothing_outstanding")
	ErrInvalidMethod          = errors.New("invalid_payment_method")
	ErrSupplierNotFound       = errors.New("supplier_not_found")
	ErrInconsistentSettlement = errors.New("inconsistent_settlement")
)
