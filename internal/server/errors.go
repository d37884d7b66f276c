package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	invoicedomain "github.com/smallbiznis/kasira/internal/invoice/domain"
	paymentdomain "github.com/smallbiznis/kasira/internal/payment/domain"
	reportdomain "github.com/smallbiznis/kasira/internal/report/domain"
	returnsdomain "github.com/smallbiznis/kasira/internal/returns/domain"
	supplierdomain "github.com/smallbiznis/kasira/internal/supplier/domain"
)

var (
	ErrServiceUnavailable = errors.New("service_unavailable")
	ErrNotFound           = errors.New("not_found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrRateLimited        = errors.New("rate_limited")
)

type apiError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e apiError) Error() string { return e.Message }

func invalidRequestError() error {
	return apiError{
		Status:  http.StatusBadRequest,
		Code:    "invalid_request",
		Message: "request body or query could not be parsed",
	}
}

func newValidationError(field, code, message string) error {
	return apiError{
		Status:  http.StatusBadRequest,
		Code:    code,
		Field:   field,
		Message: message,
	}
}

var notFoundErrors = []error{
	invoicedomain.ErrInvoiceNotFound,
	paymentdomain.ErrInvoiceNotFound,
	returnsdomain.ErrInvoiceNotFound,
	returnsdomain.ErrReturnNotFound,
	supplierdomain.ErrSupplierNotFound,
	ErrNotFound,
}

var conflictErrors = []error{
	invoicedomain.ErrDuplicateNumber,
	invoicedomain.ErrInconsistentState,
	paymentdomain.ErrInvoiceAlreadyPaid,
	returnsdomain.ErrReturnNotPending,
	returnsdomain.ErrInconsistentTotal,
}

var unprocessableErrors = []error{
	paymentdomain.ErrAmountExceedsBalance,
	supplierdomain.ErrAmountExceedsDue,
	supplierdomain.ErrNothingOutstanding,
	returnsdomain.ErrQuantityExceeds,
}

var validationErrors = []error{
	invoicedomain.ErrInvalidInvoiceID,
	invoicedomain.ErrInvalidInvoiceNumber,
	invoicedomain.ErrInvalidInvoiceType,
	invoicedomain.ErrInvalidShop,
	invoicedomain.ErrInvalidParty,
	invoicedomain.ErrMissingItems,
	invoicedomain.ErrInvalidItemQuantity,
	invoicedomain.ErrInvalidItemPrice,
	invoicedomain.ErrInvalidAdvance,
	invoicedomain.ErrInvalidDiscount,
	paymentdomain.ErrInvalidInvoiceID,
	paymentdomain.ErrInvalidAmount,
	paymentdomain.ErrInvalidMethod,
	supplierdomain.ErrInvalidSupplierID,
	supplierdomain.ErrInvalidAmount,
	supplierdomain.ErrInvalidMethod,
	returnsdomain.ErrInvalidInvoiceID,
	returnsdomain.ErrInvalidReturnID,
	returnsdomain.ErrMissingItems,
	returnsdomain.ErrMissingReason,
	returnsdomain.ErrInvalidQuantity,
	returnsdomain.ErrInvalidCondition,
	returnsdomain.ErrItemNotOnInvoice,
	returnsdomain.ErrNotSalesInvoice,
	returnsdomain.ErrDuplicateItem,
	reportdomain.ErrInvalidWindow,
	reportdomain.ErrInvalidShop,
}

// AbortWithError maps a domain error onto an HTTP response.
func AbortWithError(c *gin.Context, err error) {
	var typed apiError
	if errors.As(err, &typed) {
		c.AbortWithStatusJSON(typed.Status, gin.H{"error": typed})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case matchesAny(err, validationErrors):
		status = http.StatusBadRequest
	case matchesAny(err, notFoundErrors):
		status = http.StatusNotFound
	case matchesAny(err, conflictErrors):
		status = http.StatusConflict
	case matchesAny(err, unprocessableErrors):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, ErrRateLimited):
		status = http.StatusTooManyRequests
	case errors.Is(err, ErrServiceUnavailable):
		status = http.StatusServiceUnavailable
	}

	code := err.Error()
	if status == http.StatusInternalServerError {
		// Storage failures keep their detail in logs, not in the response.
		code = "internal_error"
	}
	c.AbortWithStatusJSON(status, gin.H{"error": gin.H{"code": code, "message": code}})
}

func matchesAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
