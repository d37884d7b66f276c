package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/kasira/internal/clock"
	"github.com/smallbiznis/kasira/internal/events"
	invoicedomain "github.com/smallbiznis/kasira/internal/invoice/domain"
	"github.com/smallbiznis/kasira/internal/observability/metrics"
	"github.com/smallbiznis/kasira/pkg/db/option"
	"github.com/smallbiznis/kasira/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Bus     *events.Bus
	Outbox  *events.Outbox
	Metrics *metrics.LedgerMetrics `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	bus     *events.Bus
	outbox  *events.Outbox
	metrics *metrics.LedgerMetrics
}

func NewService(p Params) invoicedomain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("invoice.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		bus:     p.Bus,
		outbox:  p.Outbox,
		metrics: p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req invoicedomain.CreateInvoiceRequest) (invoicedomain.Invoice, error) {
	record, err := s.buildInvoice(req)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&invoicedomain.Invoice{}).
			Where("invoice_number = ?", record.InvoiceNumber).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return invoicedomain.ErrDuplicateNumber
		}

		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		return s.outbox.PublishTx(ctx, tx, events.Event{
			Type: events.EventInvoiceCreated,
			Payload: map[string]any{
				"invoice_id":     record.ID.String(),
				"invoice_number": record.InvoiceNumber,
				"invoice_type":   string(record.InvoiceType),
				"total_amount":   record.TotalAmount,
			},
			DedupeKey: "invoice_created:" + record.ID.String(),
		})
	})
	if err != nil {
		return invoicedomain.Invoice{}, err
	}

	s.metrics.IncInvoiceCreated(string(record.InvoiceType))
	s.bus.Notify(events.OpInsert, events.TableInvoices, events.TableInvoiceItems)
	s.log.Info("invoice created",
		zap.String("invoice_id", record.ID.String()),
		zap.String("invoice_number", record.InvoiceNumber),
		zap.String("invoice_type", string(record.InvoiceType)),
		zap.Int64("total_amount", record.TotalAmount),
	)
	return record, nil
}

func (s *Service) buildInvoice(req invoicedomain.CreateInvoiceRequest) (invoicedomain.Invoice, error) {
	number := strings.TrimSpace(req.InvoiceNumber)
	if number == "" {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvalidInvoiceNumber
	}

	switch req.InvoiceType {
	case invoicedomain.InvoiceTypeSales, invoicedomain.InvoiceTypeProductAddition:
	default:
		return invoicedomain.Invoice{}, invoicedomain.ErrInvalidInvoiceType
	}

	shopID, err := parseID(req.ShopID)
	if err != nil {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvalidShop
	}

	var customerID, supplierID *snowflake.ID
	switch req.InvoiceType {
	case invoicedomain.InvoiceTypeSales:
		id, err := parseID(req.CustomerID)
		if err != nil {
			return invoicedomain.Invoice{}, invoicedomain.ErrInvalidParty
		}
		customerID = &id
	case invoicedomain.InvoiceTypeProductAddition:
		id, err := parseID(req.SupplierID)
		if err != nil {
			return invoicedomain.Invoice{}, invoicedomain.ErrInvalidParty
		}
		supplierID = &id
	}

	if len(req.Items) == 0 {
		return invoicedomain.Invoice{}, invoicedomain.ErrMissingItems
	}

	now := s.clock.Now()
	var itemsTotal int64
	items := make([]invoicedomain.InvoiceItem, 0, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return invoicedomain.Invoice{}, invoicedomain.ErrInvalidItemQuantity
		}
		if item.UnitPrice < 0 || item.BuyingPrice < 0 {
			return invoicedomain.Invoice{}, invoicedomain.ErrInvalidItemPrice
		}
		name := strings.TrimSpace(item.ProductName)
		if name == "" {
			return invoicedomain.Invoice{}, invoicedomain.ErrMissingItems
		}

		var productID *snowflake.ID
		if strings.TrimSpace(item.ProductID) != "" {
			id, err := parseID(item.ProductID)
			if err != nil {
				return invoicedomain.Invoice{}, invoicedomain.ErrMissingItems
			}
			productID = &id
		}

		total := item.Quantity * item.UnitPrice
		itemsTotal += total
		items = append(items, invoicedomain.InvoiceItem{
			ID:             s.genID.Generate(),
			ProductID:      productID,
			ProductName:    name,
			Barcode:        strings.TrimSpace(item.Barcode),
			Quantity:       item.Quantity,
			UnitPrice:      item.UnitPrice,
			TotalPrice:     total,
			BuyingPrice:    item.BuyingPrice,
			IsOuterProduct: item.IsOuterProduct,
			CreatedAt:      now,
		})
	}

	discount := req.DiscountAmount
	if discount == 0 {
		// Rows imported from the legacy dashboard encoded the discount in notes.
		discount = invoicedomain.ParseLegacyDiscount(req.Notes)
	}
	if discount < 0 || discount > itemsTotal {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvalidDiscount
	}

	total := itemsTotal - discount
	if req.AdvancePayment < 0 || req.AdvancePayment > total {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvalidAdvance
	}

	remaining, status := invoicedomain.DeriveStatus(total, req.AdvancePayment, 0)

	record := invoicedomain.Invoice{
		ID:              s.genID.Generate(),
		InvoiceNumber:   number,
		InvoiceType:     req.InvoiceType,
		TotalAmount:     total,
		DiscountAmount:  discount,
		AdvancePayment:  req.AdvancePayment,
		RemainingAmount: remaining,
		Status:          status,
		CustomerID:      customerID,
		SupplierID:      supplierID,
		ShopID:          shopID,
		Notes:           strings.TrimSpace(req.Notes),
		CreatedAt:       now,
		UpdatedAt:       now,
		Items:           items,
	}
	for i := range record.Items {
		record.Items[i].InvoiceID = record.ID
	}
	return record, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (invoicedomain.Invoice, error) {
	invoiceID, err := parseID(id)
	if err != nil {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvalidInvoiceID
	}

	var record invoicedomain.Invoice
	err = s.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", invoiceID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return invoicedomain.Invoice{}, invoicedomain.ErrInvoiceNotFound
		}
		return invoicedomain.Invoice{}, err
	}

	// The persisted balance must agree with the derivation over the payment
	// history; a mismatch means a write skipped the allocator path.
	var paymentsSum int64
	if err := s.db.WithContext(ctx).Table("payments").
		Where("invoice_id = ?", invoiceID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&paymentsSum).Error; err != nil {
		return invoicedomain.Invoice{}, err
	}
	remaining, status := invoicedomain.DeriveStatus(record.TotalAmount, record.AdvancePayment, paymentsSum)
	if remaining != record.RemainingAmount || status != record.Status {
		s.log.Warn("invoice balance disagrees with payment history",
			zap.String("invoice_id", record.ID.String()),
			zap.Int64("stored_remaining", record.RemainingAmount),
			zap.Int64("derived_remaining", remaining),
		)
		return invoicedomain.Invoice{}, invoicedomain.ErrInconsistentState
	}
	return record, nil
}

func (s *Service) List(ctx context.Context, req invoicedomain.ListInvoiceRequest) (invoicedomain.ListInvoiceResponse, error) {
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	tx := s.db.WithContext(ctx).Model(&invoicedomain.Invoice{})
	if req.InvoiceType != "" {
		tx = tx.Where("invoice_type = ?", req.InvoiceType)
	}
	if req.Status != "" {
		tx = tx.Where("status = ?", req.Status)
	}
	if req.CustomerID != "" {
		id, err := parseID(req.CustomerID)
		if err != nil {
			return invoicedomain.ListInvoiceResponse{}, invoicedomain.ErrInvalidParty
		}
		tx = tx.Where("customer_id = ?", id)
	}
	if req.SupplierID != "" {
		id, err := parseID(req.SupplierID)
		if err != nil {
			return invoicedomain.ListInvoiceResponse{}, invoicedomain.ErrInvalidParty
		}
		tx = tx.Where("supplier_id = ?", id)
	}
	if req.ShopID != "" {
		id, err := parseID(req.ShopID)
		if err != nil {
			return invoicedomain.ListInvoiceResponse{}, invoicedomain.ErrInvalidShop
		}
		tx = tx.Where("shop_id = ?", id)
	}
	if req.CreatedFrom != nil {
		tx = tx.Where("created_at >= ?", *req.CreatedFrom)
	}
	if req.CreatedTo != nil {
		tx = tx.Where("created_at < ?", *req.CreatedTo)
	}

	tx = option.ApplyPagination(pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  pageSize,
	})(tx)
	tx = tx.Order("created_at DESC, id DESC")

	var records []invoicedomain.Invoice
	if err := tx.Find(&records).Error; err != nil {
		return invoicedomain.ListInvoiceResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(records, int32(pageSize), func(record invoicedomain.Invoice) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        record.ID.String(),
			CreatedAt: record.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo.HasMore && len(records) > pageSize {
		records = records[:pageSize]
	}

	return invoicedomain.ListInvoiceResponse{
		PageInfo: *pageInfo,
		Invoices: records,
	}, nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, errors.New("invalid_id")
	}
	return id, nil
}
