package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	supplierdomain "github.com/smallbiznis/kasira/internal/supplier/domain"
)

type recordSupplierPaymentRequest struct {
	Amount          int64  `json:"amount"`
	Method          string `json:"payment_method"`
	ReferenceNumber string `json:"reference_number"`
	Notes           string `json:"notes"`
}

// @Summary      Record Supplier Payment
// @Description  Settle a supplier's outstanding product balances oldest-first
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id       path  string                        true  "Supplier ID"
// @Param        request  body  recordSupplierPaymentRequest  true  "Record Supplier Payment Request"
// @Success      200  {object}  supplierdomain.RecordPaymentResponse
// @Router       /suppliers/{id}/payments [post]
func (s *Server) RecordSupplierPayment(c *gin.Context) {
	var req recordSupplierPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.supplierSvc.RecordPayment(c.Request.Context(), supplierdomain.RecordPaymentRequest{
		SupplierID:      strings.TrimSpace(c.Param("id")),
		Amount:          req.Amount,
		Method:          strings.TrimSpace(req.Method),
		ReferenceNumber: strings.TrimSpace(req.ReferenceNumber),
		Notes:           strings.TrimSpace(req.Notes),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      List Supplier Payments
// @Description  List payments made to a supplier, newest first
// @Tags         suppliers
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id   path      string  true  "Supplier ID"
// @Success      200  {array}   supplierdomain.SupplierPayment
// @Router       /suppliers/{id}/payments [get]
func (s *Server) ListSupplierPayments(c *gin.Context) {
	resp, err := s.supplierSvc.ListPayments(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Supplier Outstanding
// @Description  Sum of a supplier's remaining product-level balances
// @Tags         suppliers
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id   path      string  true  "Supplier ID"
// @Success      200  {object}  map[string]int64
// @Router       /suppliers/{id}/outstanding [get]
func (s *Server) GetSupplierOutstanding(c *gin.Context) {
	outstanding, err := s.supplierSvc.Outstanding(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"outstanding": outstanding}})
}
