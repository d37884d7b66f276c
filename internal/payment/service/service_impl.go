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
	paymentdomain "github.com/smallbiznis/kasira/internal/payment/domain"
	"github.com/smallbiznis/kasira/pkg/db"
	"github.com/smallbiznis/kasira/pkg/db/option"
	"github.com/smallbiznis/kasira/pkg/repository"
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
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	bus      *events.Bus
	outbox   *events.Outbox
	metrics  *metrics.LedgerMetrics
	payments repository.Repository[paymentdomain.Payment]
}

func NewService(p Params) paymentdomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("payment.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		bus:      p.Bus,
		outbox:   p.Outbox,
		metrics:  p.Metrics,
		payments: repository.ProvideStore[paymentdomain.Payment](p.DB),
	}
}

// Record inserts one payment against one invoice and rederives the invoice
// balance inside a single transaction. The balance check runs against the
// authoritative payment sum, not a client-held remaining_amount, so two
// concurrent submissions cannot both pass a stale check.
func (s *Service) Record(ctx context.Context, req paymentdomain.RecordPaymentRequest) (paymentdomain.Payment, error) {
	invoiceID, err := snowflake.ParseString(strings.TrimSpace(req.InvoiceID))
	if err != nil || invoiceID == 0 {
		return paymentdomain.Payment{}, paymentdomain.ErrInvalidInvoiceID
	}
	if req.Amount <= 0 {
		return paymentdomain.Payment{}, paymentdomain.ErrInvalidAmount
	}
	if !paymentdomain.ValidMethod(req.Method) {
		return paymentdomain.Payment{}, paymentdomain.ErrInvalidMethod
	}

	now := s.clock.Now()
	record := paymentdomain.Payment{
		ID:            s.genID.Generate(),
		InvoiceID:     invoiceID,
		Amount:        req.Amount,
		PaymentMethod: req.Method,
		PaymentDate:   now,
		Notes:         strings.TrimSpace(req.Notes),
		CreatedAt:     now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inv invoicedomain.Invoice
		if err := db.LockForUpdate(tx).
			Where("id = ?", invoiceID).
			First(&inv).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return paymentdomain.ErrInvoiceNotFound
			}
			return err
		}

		var paymentsSum int64
		if err := tx.Model(&paymentdomain.Payment{}).
			Where("invoice_id = ?", invoiceID).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&paymentsSum).Error; err != nil {
			return err
		}

		remaining, _ := invoicedomain.DeriveStatus(inv.TotalAmount, inv.AdvancePayment, paymentsSum)
		if remaining == 0 {
			return paymentdomain.ErrInvoiceAlreadyPaid
		}
		if req.Amount > remaining {
			return paymentdomain.ErrAmountExceedsBalance
		}

		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		newRemaining, newStatus := invoicedomain.DeriveStatus(inv.TotalAmount, inv.AdvancePayment, paymentsSum+req.Amount)
		if err := tx.Model(&invoicedomain.Invoice{}).
			Where("id = ?", invoiceID).
			Updates(map[string]any{
				"remaining_amount": newRemaining,
				"status":           newStatus,
				"updated_at":       now,
			}).Error; err != nil {
			return err
		}

		return s.outbox.PublishTx(ctx, tx, events.Event{
			Type: events.EventPaymentRecorded,
			Payload: map[string]any{
				"payment_id": record.ID.String(),
				"invoice_id": invoiceID.String(),
				"amount":     req.Amount,
				"remaining":  newRemaining,
				"status":     string(newStatus),
			},
			DedupeKey: "payment_recorded:" + record.ID.String(),
		})
	})
	if err != nil {
		s.metrics.IncPaymentRecorded("rejected")
		return paymentdomain.Payment{}, err
	}

	s.metrics.IncPaymentRecorded("accepted")
	s.bus.Notify(events.OpInsert, events.TablePayments)
	s.bus.Notify(events.OpUpdate, events.TableInvoices)
	s.log.Info("payment recorded",
		zap.String("payment_id", record.ID.String()),
		zap.String("invoice_id", invoiceID.String()),
		zap.Int64("amount", req.Amount),
	)
	return record, nil
}

func (s *Service) ListByInvoice(ctx context.Context, invoiceID string) ([]paymentdomain.Payment, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(invoiceID))
	if err != nil || id == 0 {
		return nil, paymentdomain.ErrInvalidInvoiceID
	}

	rows, err := s.payments.Find(ctx, nil,
		option.WithFilter("invoice_id = ?", id),
		option.WithSortBy(option.QuerySortBy{Field: "payment_date", Allow: map[string]bool{"payment_date": true}}),
	)
	if err != nil {
		return nil, err
	}
	records := make([]paymentdomain.Payment, 0, len(rows))
	for _, row := range rows {
		records = append(records, *row)
	}
	return records, nil
}
