package domain

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/kasira/pkg/db/pagination"
)

// CreateItemRequest is one line of a new invoice.
type CreateItemRequest struct {
	ProductID      string `json:"product_id,omitempty"`
	ProductName    string `json:"product_name"`
	Barcode        string `json:"barcode,omitempty"`
	Quantity       int64  `json:"quantity"`
	UnitPrice      int64  `json:"unit_price"`
	BuyingPrice    int64  `json:"buying_price,omitempty"`
	IsOuterProduct bool   `json:"is_outer_product,omitempty"`
}

// CreateInvoiceRequest creates an invoice together with its items.
type CreateInvoiceRequest struct {
	InvoiceNumber  string              `json:"invoice_number"`
	InvoiceType    InvoiceType         `json:"invoice_type"`
	CustomerID     string              `json:"customer_id,omitempty"`
	SupplierID     string              `json:"supplier_id,omitempty"`
	ShopID         string              `json:"shop_id"`
	AdvancePayment int64               `json:"advance_payment"`
	DiscountAmount int64               `json:"discount_amount"`
	Notes          string              `json:"notes,omitempty"`
	Items          []CreateItemRequest `json:"items"`
}

// ListInvoiceRequest filters the invoice listing.
type ListInvoiceRequest struct {
	pagination.Pagination
	InvoiceType InvoiceType
	Status      Status
	CustomerID  string
	SupplierID  string
	ShopID      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// ListInvoiceResponse is a page of invoices.
type ListInvoiceResponse struct {
	pagination.PageInfo
	Invoices []Invoice `json:"invoices"`
}

// Service manages invoice lifecycle.
type Service interface {
	Create(ctx context.Context, req CreateInvoiceRequest) (Invoice, error)
	GetByID(ctx context.Context, id string) (Invoice, error)
	List(ctx context.Context, req ListInvoiceRequest) (ListInvoiceResponse, error)
}

var (
	ErrInvalidInvoiceID     = errors.New("invalid_invoice_id")
	ErrInvalidInvoiceNumber = errors.New("invalid_invoice_number")
	ErrInvalidInvoiceType   = errors.New("invalid_invoice_type")
	ErrInvalidShop          = errors.New("invalid_shop")
	ErrInvalidParty         = errors.New("invalid_party")
	ErrMissingItems         = errors.New("missing_items")
	ErrInvalidItemQuantity  = errors.New("invalid_item_quantity")
	ErrInvalidItemPrice     = errors.New("invalid_item_price")
	ErrInvalidAdvance       = errors.New("invalid_advance_payment")
	ErrInvalidDiscount      = errors.New("invalid_discount")
	ErrInvoiceNotFound      = errors.New("invoice_not_found")
	ErrDuplicateNumber      = errors.New("duplicate_invoice_number")
	ErrInconsistentState    = errors.New("inconsistent_invoice_state")
)
