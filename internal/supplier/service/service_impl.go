package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/kasira/internal/clock"
	"github.com/smallbiznis/kasira/internal/events"
	"github.com/smallbiznis/kasira/internal/observability/metrics"
	productdomain "github.com/smallbiznis/kasira/internal/product/domain"
	supplierdomain "github.com/smallbiznis/kasira/internal/supplier/domain"
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
	payments repository.Repository[supplierdomain.SupplierPayment]
}

func NewService(p Params) supplierdomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("supplier.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		bus:      p.Bus,
		outbox:   p.Outbox,
		metrics:  p.Metrics,
		payments: repository.ProvideStore[supplierdomain.SupplierPayment](p.DB),
	}
}

// RecordPayment settles a supplier payment against the supplier's open product
// due lines, oldest-created-first. The whole walk runs in one transaction; a
// payment larger than the total outstanding is rejected before any write.
func (s *Service) RecordPayment(ctx context.Context, req supplierdomain.RecordPaymentRequest) (supplierdomain.RecordPaymentResponse, error) {
	supplierID, err := snowflake.ParseString(strings.TrimSpace(req.SupplierID))
	if err != nil || supplierID == 0 {
		return supplierdomain.RecordPaymentResponse{}, supplierdomain.ErrInvalidSupplierID
	}
	if req.Amount <= 0 {
		return supplierdomain.RecordPaymentResponse{}, supplierdomain.ErrInvalidAmount
	}
	method := strings.TrimSpace(req.Method)
	if method == "" {
		return supplierdomain.RecordPaymentResponse{}, supplierdomain.ErrInvalidMethod
	}

	now := s.clock.Now()
	payment := supplierdomain.SupplierPayment{
		ID:              s.genID.Generate(),
		SupplierID:      supplierID,
		Amount:          req.Amount,
		PaymentMethod:   method,
		ReferenceNumber: strings.TrimSpace(req.ReferenceNumber),
		Notes:           strings.TrimSpace(req.Notes),
		PaymentDate:     now,
		CreatedAt:       now,
	}

	var settled []supplierdomain.SettledLine
	var outstanding int64

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lines []productdomain.Product
		if err := db.LockForUpdate(tx).
			Where("supplier_id = ? AND remaining_amount > 0", supplierID).
			Order("created_at ASC, id ASC").
			Find(&lines).Error; err != nil {
			return err
		}

		var totalDue int64
		for _, line := range lines {
			totalDue += line.RemainingAmount
		}
		if totalDue == 0 {
			return supplierdomain.ErrNothingOutstanding
		}
		if req.Amount > totalDue {
			return supplierdomain.ErrAmountExceedsDue
		}

		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		budget := req.Amount
		for _, line := range lines {
			if budget == 0 {
				break
			}
			applied := min(budget, line.RemainingAmount)
			newRemaining := line.RemainingAmount - applied
			if err := tx.Model(&productdomain.Product{}).
				Where("id = ?", line.ID).
				Updates(map[string]any{
					"remaining_amount": newRemaining,
					"updated_at":       now,
				}).Error; err != nil {
				return err
			}
			budget -= applied
			settled = append(settled, supplierdomain.SettledLine{
				ProductID: line.ID,
				Applied:   applied,
				Remaining: newRemaining,
			})
		}
		if budget != 0 {
			return supplierdomain.ErrInconsistentSettlement
		}
		outstanding = totalDue - req.Amount

		return s.outbox.PublishTx(ctx, tx, events.Event{
			Type: events.EventSupplierPaymentRecorded,
			Payload: map[string]any{
				"supplier_payment_id": payment.ID.String(),
				"supplier_id":         supplierID.String(),
				"amount":              req.Amount,
				"settled_lines":       len(settled),
				"outstanding":         outstanding,
			},
			DedupeKey: "supplier_payment_recorded:" + payment.ID.String(),
		})
	})
	if err != nil {
		s.metrics.IncSupplierSettlement("rejected", 0)
		return supplierdomain.RecordPaymentResponse{}, err
	}

	s.metrics.IncSupplierSettlement("accepted", len(settled))
	s.bus.Notify(events.OpInsert, events.TableSupplierPayments)
	s.bus.Notify(events.OpUpdate, events.TableProducts)
	s.log.Info("supplier payment settled",
		zap.String("supplier_payment_id", payment.ID.String()),
		zap.String("supplier_id", supplierID.String()),
		zap.Int64("amount", req.Amount),
		zap.Int("settled_lines", len(settled)),
	)

	return supplierdomain.RecordPaymentResponse{
		Payment:      payment,
		SettledLines: settled,
		Outstanding:  outstanding,
	}, nil
}

func (s *Service) Outstanding(ctx context.Context, supplierID string) (int64, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(supplierID))
	if err != nil || id == 0 {
		return 0, supplierdomain.ErrInvalidSupplierID
	}

	var total int64
	if err := s.db.WithContext(ctx).Model(&productdomain.Product{}).
		Where("supplier_id = ?", id).
		Select("COALESCE(SUM(remaining_amount), 0)").
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Service) ListPayments(ctx context.Context, supplierID string) ([]supplierdomain.SupplierPayment, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(supplierID))
	if err != nil || id == 0 {
		return nil, supplierdomain.ErrInvalidSupplierID
	}

	rows, err := s.payments.Find(ctx, &supplierdomain.SupplierPayment{SupplierID: id},
		option.WithSortBy(option.QuerySortBy{Field: "payment_date", Desc: true, Allow: map[string]bool{"payment_date": true}}),
	)
	if err != nil {
		return nil, err
	}
	records := make([]supplierdomain.SupplierPayment, 0, len(rows))
	for _, row := range rows {
		records = append(records, *row)
	}
	return records, nil
}
