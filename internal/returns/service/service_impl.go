package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/kasira/internal/clock"
	"github.com/smallbiznis/kasira/internal/events"
	invoicedomain "github.com/smallbiznis/kasira/internal/invoice/domain"
	"github.com/smallbiznis/kasira/internal/observability/metrics"
	productdomain "github.com/smallbiznis/kasira/internal/product/domain"
	returnsdomain "github.com/smallbiznis/kasira/internal/returns/domain"
	"github.com/smallbiznis/kasira/pkg/db"
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

func NewService(p Params) returnsdomain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("returns.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		bus:     p.Bus,
		outbox:  p.Outbox,
		metrics: p.Metrics,
	}
}

// Submit validates a return request against the invoice's items and records it
// as pending. Refund defaults to the full returned value. Invoice balances and
// stock are untouched until Apply.
func (s *Service) Submit(ctx context.Context, req returnsdomain.SubmitReturnRequest) (returnsdomain.ProductReturn, error) {
	invoiceID, err := snowflake.ParseString(strings.TrimSpace(req.InvoiceID))
	if err != nil || invoiceID == 0 {
		return returnsdomain.ProductReturn{}, returnsdomain.ErrInvalidInvoiceID
	}
	if len(req.Items) == 0 {
		return returnsdomain.ProductReturn{}, returnsdomain.ErrMissingItems
	}
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return returnsdomain.ProductReturn{}, returnsdomain.ErrMissingReason
	}

	var record returnsdomain.ProductReturn
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inv invoicedomain.Invoice
		if err := tx.Preload("Items").Where("id = ?", invoiceID).First(&inv).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return returnsdomain.ErrInvoiceNotFound
			}
			return err
		}
		if inv.InvoiceType != invoicedomain.InvoiceTypeSales {
			return returnsdomain.ErrNotSalesInvoice
		}

		soldByItem := make(map[snowflake.ID]invoicedomain.InvoiceItem, len(inv.Items))
		for _, item := range inv.Items {
			soldByItem[item.ID] = item
		}

		now := s.clock.Now()
		seen := make(map[snowflake.ID]bool, len(req.Items))
		var total int64
		items := make([]returnsdomain.ReturnItem, 0, len(req.Items))
		for _, sel := range req.Items {
			itemID, err := snowflake.ParseString(strings.TrimSpace(sel.InvoiceItemID))
			if err != nil || itemID == 0 {
				return returnsdomain.ErrItemNotOnInvoice
			}
			sold, ok := soldByItem[itemID]
			if !ok {
				return returnsdomain.ErrItemNotOnInvoice
			}
			if seen[itemID] {
				return returnsdomain.ErrDuplicateItem
			}
			seen[itemID] = true
			if sel.Quantity <= 0 {
				return returnsdomain.ErrInvalidQuantity
			}
			if sel.Quantity > sold.Quantity {
				return returnsdomain.ErrQuantityExceeds
			}
			if !returnsdomain.ValidCondition(sel.Condition) {
				return returnsdomain.ErrInvalidCondition
			}

			lineTotal := sel.Quantity * sold.UnitPrice
			total += lineTotal
			items = append(items, returnsdomain.ReturnItem{
				ID:         s.genID.Generate(),
				ProductID:  sold.ProductID,
				Quantity:   sel.Quantity,
				UnitPrice:  sold.UnitPrice,
				TotalPrice: lineTotal,
				Condition:  sel.Condition,
			})
		}

		record = returnsdomain.ProductReturn{
			ID:           s.genID.Generate(),
			InvoiceID:    invoiceID,
			CustomerID:   inv.CustomerID,
			TotalAmount:  total,
			RefundAmount: total,
			Status:       returnsdomain.ReturnStatusPending,
			ReturnReason: reason,
			Notes:        strings.TrimSpace(req.Notes),
			CreatedAt:    now,
			Items:        items,
		}
		for i := range record.Items {
			record.Items[i].ReturnID = record.ID
		}

		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		return s.outbox.PublishTx(ctx, tx, events.Event{
			Type: events.EventReturnSubmitted,
			Payload: map[string]any{
				"return_id":     record.ID.String(),
				"invoice_id":    invoiceID.String(),
				"total_amount":  total,
				"refund_amount": total,
			},
			DedupeKey: "return_submitted:" + record.ID.String(),
		})
	})
	if err != nil {
		return returnsdomain.ProductReturn{}, err
	}

	s.metrics.IncReturn("submitted")
	s.bus.Notify(events.OpInsert, events.TableProductReturns, events.TableReturnItems)
	s.log.Info("return submitted",
		zap.String("return_id", record.ID.String()),
		zap.String("invoice_id", invoiceID.String()),
		zap.Int64("refund_amount", record.RefundAmount),
	)
	return record, nil
}

// Apply transitions a pending return to processed and reconciles it against
// the ledger: resalable quantities go back into stock, and the refund starts
// counting against income in the financial aggregates.
func (s *Service) Apply(ctx context.Context, returnID string) (returnsdomain.ProductReturn, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(returnID))
	if err != nil || id == 0 {
		return returnsdomain.ProductReturn{}, returnsdomain.ErrInvalidReturnID
	}

	var record returnsdomain.ProductReturn
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := db.LockForUpdate(tx).
			Preload("Items").
			Where("id = ?", id).
			First(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return returnsdomain.ErrReturnNotFound
			}
			return err
		}
		if record.Status != returnsdomain.ReturnStatusPending {
			return returnsdomain.ErrReturnNotPending
		}

		var itemsTotal int64
		for _, item := range record.Items {
			itemsTotal += item.TotalPrice
		}
		if itemsTotal != record.TotalAmount {
			return returnsdomain.ErrInconsistentTotal
		}

		now := s.clock.Now()
		for _, item := range record.Items {
			if item.Condition != returnsdomain.ConditionResalable || item.ProductID == nil {
				continue
			}
			if err := tx.Model(&productdomain.Product{}).
				Where("id = ?", *item.ProductID).
				Updates(map[string]any{
					"quantity":   gorm.Expr("quantity + ?", item.Quantity),
					"updated_at": now,
				}).Error; err != nil {
				return err
			}
		}

		record.Status = returnsdomain.ReturnStatusProcessed
		record.ProcessedAt = &now
		if err := tx.Model(&returnsdomain.ProductReturn{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"status":       returnsdomain.ReturnStatusProcessed,
				"processed_at": now,
			}).Error; err != nil {
			return err
		}

		return s.outbox.PublishTx(ctx, tx, events.Event{
			Type: events.EventReturnApplied,
			Payload: map[string]any{
				"return_id":     id.String(),
				"invoice_id":    record.InvoiceID.String(),
				"refund_amount": record.RefundAmount,
			},
			DedupeKey: "return_applied:" + id.String(),
		})
	})
	if err != nil {
		return returnsdomain.ProductReturn{}, err
	}

	s.metrics.IncReturn("applied")
	s.bus.Notify(events.OpUpdate, events.TableProductReturns, events.TableProducts)
	s.log.Info("return applied",
		zap.String("return_id", id.String()),
		zap.Int64("refund_amount", record.RefundAmount),
	)
	return record, nil
}

// Reject transitions a pending return to rejected without any ledger effect.
func (s *Service) Reject(ctx context.Context, returnID string, reason string) (returnsdomain.ProductReturn, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(returnID))
	if err != nil || id == 0 {
		return returnsdomain.ProductReturn{}, returnsdomain.ErrInvalidReturnID
	}

	var record returnsdomain.ProductReturn
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := db.LockForUpdate(tx).
			Where("id = ?", id).
			First(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return returnsdomain.ErrReturnNotFound
			}
			return err
		}
		if record.Status != returnsdomain.ReturnStatusPending {
			return returnsdomain.ErrReturnNotPending
		}

		notes := record.Notes
		if trimmed := strings.TrimSpace(reason); trimmed != "" {
			if notes != "" {
				notes += "\n"
			}
			notes += "rejected: " + trimmed
		}

		record.Status = returnsdomain.ReturnStatusRejected
		record.Notes = notes
		if err := tx.Model(&returnsdomain.ProductReturn{}).
			Where("id = ?", id).
			Updates(map[string]any{
				"status": returnsdomain.ReturnStatusRejected,
				"notes":  notes,
			}).Error; err != nil {
			return err
		}

		return s.outbox.PublishTx(ctx, tx, events.Event{
			Type: events.EventReturnRejected,
			Payload: map[string]any{
				"return_id":  id.String(),
				"invoice_id": record.InvoiceID.String(),
			},
			DedupeKey: "return_rejected:" + id.String(),
		})
	})
	if err != nil {
		return returnsdomain.ProductReturn{}, err
	}

	s.metrics.IncReturn("rejected")
	s.bus.Notify(events.OpUpdate, events.TableProductReturns)
	return record, nil
}

func (s *Service) GetByID(ctx context.Context, returnID string) (returnsdomain.ProductReturn, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(returnID))
	if err != nil || id == 0 {
		return returnsdomain.ProductReturn{}, returnsdomain.ErrInvalidReturnID
	}

	var record returnsdomain.ProductReturn
	err = s.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return returnsdomain.ProductReturn{}, returnsdomain.ErrReturnNotFound
		}
		return returnsdomain.ProductReturn{}, err
	}
	return record, nil
}

func (s *Service) ListByInvoice(ctx context.Context, invoiceID string) ([]returnsdomain.ProductReturn, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(invoiceID))
	if err != nil || id == 0 {
		return nil, returnsdomain.ErrInvalidInvoiceID
	}

	var records []returnsdomain.ProductReturn
	if err := s.db.WithContext(ctx).
		Preload("Items").
		Where("invoice_id = ?", id).
		Order("created_at DESC, id DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}
