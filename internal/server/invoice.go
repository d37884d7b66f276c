package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	invoicedomain "github.com/smallbiznis/kasira/internal/invoice/domain"
	"github.com/smallbiznis/kasira/pkg/db/pagination"
)

// @Summary      Create Invoice
// @Description  Create a sales or product-addition invoice with its items
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Security     ApiKeyAuth
// @Param        request body invoicedomain.CreateInvoiceRequest true "Create Invoice Request"
// @Success      200  {object}  invoicedomain.Invoice
// @Router       /invoices [post]
func (s *Server) CreateInvoice(c *gin.Context) {
	var req invoicedomain.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      List Invoices
// @Description  List invoices with optional filters
// @Tags         invoices
// @Produce      json
// @Security     ApiKeyAuth
// @Param        invoice_type  query  string  false  "Invoice Type"
// @Param        status        query  string  false  "Status"
// @Param        customer_id   query  string  false  "Customer ID"
// @Param        supplier_id   query  string  false  "Supplier ID"
// @Param        shop_id       query  string  false  "Shop ID"
// @Param        created_from  query  string  false  "Created From"
// @Param        created_to    query  string  false  "Created To"
// @Param        page_token    query  string  false  "Page Token"
// @Param        page_size     query  int     false  "Page Size"
// @Success      200  {object}  invoicedomain.ListInvoiceResponse
// @Router       /invoices [get]
func (s *Server) ListInvoices(c *gin.Context) {
	var query struct {
		pagination.Pagination
		InvoiceType string `form:"invoice_type"`
		Status      string `form:"status"`
		CustomerID  string `form:"customer_id"`
		SupplierID  string `form:"supplier_id"`
		ShopID      string `form:"shop_id"`
		CreatedFrom string `form:"created_from"`
		CreatedTo   string `form:"created_to"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	createdFrom, err := parseOptionalTime(query.CreatedFrom, false)
	if err != nil {
		AbortWithError(c, newValidationError("created_from", "invalid_created_from", "invalid created_from"))
		return
	}
	createdTo, err := parseOptionalTime(query.CreatedTo, true)
	if err != nil {
		AbortWithError(c, newValidationError("created_to", "invalid_created_to", "invalid created_to"))
		return
	}

	resp, err := s.invoiceSvc.List(c.Request.Context(), invoicedomain.ListInvoiceRequest{
		Pagination:  query.Pagination,
		InvoiceType: invoicedomain.InvoiceType(strings.TrimSpace(query.InvoiceType)),
		Status:      invoicedomain.Status(strings.TrimSpace(query.Status)),
		CustomerID:  strings.TrimSpace(query.CustomerID),
		SupplierID:  strings.TrimSpace(query.SupplierID),
		ShopID:      strings.TrimSpace(query.ShopID),
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// @Summary      Get Invoice
// @Description  Get invoice by ID with its items
// @Tags         invoices
// @Produce      json
// @Security     ApiKeyAuth
// @Param        id   path      string  true  "Invoice ID"
// @Success      200  {object}  invoicedomain.Invoice
// @Router       /invoices/{id} [get]
func (s *Server) GetInvoiceByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.invoiceSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func parseOptionalTime(value string, endOfDay bool) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		parsed = parsed.UTC()
		return &parsed, nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	parsed = parsed.UTC()
	if endOfDay {
		parsed = parsed.Add(24 * time.Hour)
	}
	return &parsed, nil
}
