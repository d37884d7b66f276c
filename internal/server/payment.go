package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	paymentdomain "github.com/smallbiznis/kasira/internal/payment/domain"
)

type recordPaymentRequest struct {
	Amount int64  `json:"amount"`
	Method string `json:"payment_method"`
	Notes  string `json:"notes"`
}

// @Summary      Record Payment
// @Description  Record a payment against an unpaid or partially paid invoice
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id       path  string                true  "Invoice ID"
// @Param        request  body  recordPaymentRequest  true  "Record Payment Request"
// @Success      200  {object}  paymentdomain.Payment
// @Router       /invoices/{id}/payments [post]
func (s *Server) RecordPayment(c *gin.Context) {
	var req recordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.paymentSvc.Record(c.Request.Context(), paymentdomain.RecordPaymentRequest{
		InvoiceID: strings.TrimSpace(c.Param("id")),
		Amount:    req.Amount,
		Method:    paymentdomain.Method(strings.TrimSpace(req.Method)),
		Notes:     strings.TrimSpace(req.Notes),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      List Invoice Payments
// @Description  List payments recorded against an invoice, oldest first
// @Tags         payments
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {array}   paymentdomain.Payment
// @Router       /invoices/{id}/payments [get]
func (s *Server) ListInvoicePayments(c *gin.Context) {
	resp, err := s.paymentSvc.ListByInvoice(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
