package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	returnsdomain "github.com/smallbiznis/kasira/internal/returns/domain"
)

// @Summary      Submit Return
// @Description  Record a pending return request against a sales invoice
// @Tags         returns
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        request body returnsdomain.SubmitReturnRequest true "Submit Return Request"
// @Success      200  {object}  returnsdomain.ProductReturn
// @Router       /returns [post]
func (s *Server) SubmitReturn(c *gin.Context) {
	var req returnsdomain.SubmitReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.returnsSvc.Submit(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Get Return
// @Description  Get a return request by ID with its items
// @Tags         returns
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id   path      string  true  "Return ID"
// @Success      200  {object}  returnsdomain.ProductReturn
// @Router       /returns/{id} [get]
func (s *Server) GetReturnByID(c *gin.Context) {
	resp, err := s.returnsSvc.GetByID(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Apply Return
// @Description  Reconcile a pending return: restock resalable items and book the refund
// @Tags         returns
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id   path      string  true  "Return ID"
// @Success      200  {object}  returnsdomain.ProductReturn
// @Router       /returns/{id}/apply [post]
func (s *Server) ApplyReturn(c *gin.Context) {
	resp, err := s.returnsSvc.Apply(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type rejectReturnRequest struct {
	Reason string `json:"reason"`
}

// @Summary      Reject Return
// @Description  Reject a pending return with no ledger or stock effect
// @Tags         returns
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id       path  string               true   "Return ID"
// @Param        request  body  rejectReturnRequest  false  "Reject Return Request"
// @Success      200  {object}  returnsdomain.ProductReturn
// @Router       /returns/{id}/reject [post]
func (s *Server) RejectReturn(c *gin.Context) {
	var req rejectReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.returnsSvc.Reject(c.Request.Context(), strings.TrimSpace(c.Param("id")), strings.TrimSpace(req.Reason))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      List Invoice Returns
// @Description  List return requests recorded against an invoice
// @Tags         returns
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {array}   returnsdomain.ProductReturn
// @Router       /invoices/{id}/returns [get]
func (s *Server) ListInvoiceReturns(c *gin.Context) {
	resp, err := s.returnsSvc.ListByInvoice(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
