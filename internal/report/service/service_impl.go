package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/kasira/internal/cache"
	"github.com/smallbiznis/kasira/internal/config"
	reportdomain "github.com/smallbiznis/kasira/internal/report/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
	Cfg config.Config
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	cacheTTL time.Duration
	cache    *cache.TTLCache[string, reportdomain.Summary]
}

func NewService(p Params) *Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("report.service"),
		cacheTTL: p.Cfg.ReportCacheTTL,
		cache:    cache.NewTTLCache[string, reportdomain.Summary](),
	}
}

// Invalidate drops every cached summary. Wired to the change-notification bus.
func (s *Service) Invalidate() {
	s.cache.Purge()
}

// Summary scans invoices, payments, costs, salaries and returns for the window
// and reduces them to the dashboard figures. Pure read; identical inputs give
// identical outputs.
func (s *Service) Summary(ctx context.Context, req reportdomain.SummaryRequest) (reportdomain.Summary, error) {
	if req.Window.Start.IsZero() || req.Window.End.IsZero() || !req.Window.Start.Before(req.Window.End) {
		return reportdomain.Summary{}, reportdomain.ErrInvalidWindow
	}

	var shopID snowflake.ID
	if strings.TrimSpace(req.ShopID) != "" {
		id, err := snowflake.ParseString(strings.TrimSpace(req.ShopID))
		if err != nil || id == 0 {
			return reportdomain.Summary{}, reportdomain.ErrInvalidShop
		}
		shopID = id
	}

	key := cacheKey(req.Window, shopID)
	if cached, ok := s.cache.Get(key); ok {
		return cached, nil
	}

	summary, err := s.reduce(ctx, req.Window, shopID)
	if err != nil {
		return reportdomain.Summary{}, err
	}

	s.cache.Set(key, summary, s.cacheTTL)
	return summary, nil
}

func (s *Service) Compare(ctx context.Context, req reportdomain.CompareRequest) (reportdomain.Comparison, error) {
	current, err := s.Summary(ctx, reportdomain.SummaryRequest{Window: req.Current, ShopID: req.ShopID})
	if err != nil {
		return reportdomain.Comparison{}, err
	}
	previous, err := s.Summary(ctx, reportdomain.SummaryRequest{Window: req.Previous, ShopID: req.ShopID})
	if err != nil {
		return reportdomain.Comparison{}, err
	}

	return reportdomain.Comparison{
		Current:         current,
		Previous:        previous,
		IncomeChange:    reportdomain.PercentChange(previous.Income, current.Income),
		ExpensesChange:  reportdomain.PercentChange(previous.Expenses, current.Expenses),
		NetProfitChange: reportdomain.PercentChange(previous.NetProfit, current.NetProfit),
	}, nil
}

func (s *Service) reduce(ctx context.Context, window reportdomain.Window, shopID snowflake.ID) (reportdomain.Summary, error) {
	summary := reportdomain.Summary{Window: window}

	shopClause := ""
	shopArgs := []any{}
	if shopID != 0 {
		shopClause = " AND i.shop_id = ?"
		shopArgs = []any{shopID}
	}

	// Invoices carrying any outer-product line are excluded from the regular
	// stream; their figures come from the item scan below.
	outerSub := `SELECT DISTINCT invoice_id FROM invoice_items WHERE is_outer_product = ?`

	var paymentsIn int64
	if err := s.db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(p.amount), 0)
		 FROM payments p
		 JOIN invoices i ON i.id = p.invoice_id
		 WHERE i.invoice_type = 'sales'
		   AND p.payment_date >= ? AND p.payment_date < ?
		   AND i.id NOT IN (`+outerSub+`)`+shopClause,
		append([]any{window.Start, window.End, true}, shopArgs...)...,
	).Scan(&paymentsIn).Error; err != nil {
		return summary, err
	}

	var advanceIn int64
	if err := s.db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(i.advance_payment), 0)
		 FROM invoices i
		 WHERE i.invoice_type = 'sales'
		   AND i.created_at >= ? AND i.created_at < ?
		   AND i.id NOT IN (`+outerSub+`)`+shopClause,
		append([]any{window.Start, window.End, true}, shopArgs...)...,
	).Scan(&advanceIn).Error; err != nil {
		return summary, err
	}

	var refunds int64
	if err := s.db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(r.refund_amount), 0)
		 FROM product_returns r
		 JOIN invoices i ON i.id = r.invoice_id
		 WHERE r.status = 'processed'
		   AND r.processed_at >= ? AND r.processed_at < ?`+shopClause,
		append([]any{window.Start, window.End}, shopArgs...)...,
	).Scan(&refunds).Error; err != nil {
		return summary, err
	}

	var otherCosts int64
	if err := s.db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(amount), 0)
		 FROM others_costs
		 WHERE date >= ? AND date < ?`,
		window.Start, window.End,
	).Scan(&otherCosts).Error; err != nil {
		return summary, err
	}

	var salaries int64
	if err := s.db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(amount), 0)
		 FROM salary_payments
		 WHERE payment_date >= ? AND payment_date < ?`,
		window.Start, window.End,
	).Scan(&salaries).Error; err != nil {
		return summary, err
	}

	var purchasePayments int64
	if err := s.db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(p.amount), 0)
		 FROM payments p
		 JOIN invoices i ON i.id = p.invoice_id
		 WHERE i.invoice_type = 'product_addition'
		   AND p.payment_date >= ? AND p.payment_date < ?`+shopClause,
		append([]any{window.Start, window.End}, shopArgs...)...,
	).Scan(&purchasePayments).Error; err != nil {
		return summary, err
	}

	var purchaseAdvance int64
	if err := s.db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(i.advance_payment), 0)
		 FROM invoices i
		 WHERE i.invoice_type = 'product_addition'
		   AND i.created_at >= ? AND i.created_at < ?`+shopClause,
		append([]any{window.Start, window.End}, shopArgs...)...,
	).Scan(&purchaseAdvance).Error; err != nil {
		return summary, err
	}

	var outer struct {
		Income  int64
		Expense int64
	}
	if err := s.db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(it.total_price), 0) AS income,
		        COALESCE(SUM(it.buying_price * it.quantity), 0) AS expense
		 FROM invoice_items it
		 JOIN invoices i ON i.id = it.invoice_id
		 WHERE it.is_outer_product = ?
		   AND i.invoice_type = 'sales'
		   AND i.created_at >= ? AND i.created_at < ?`+shopClause,
		append([]any{true, window.Start, window.End}, shopArgs...)...,
	).Scan(&outer).Error; err != nil {
		return summary, err
	}

	var outstandingReceivable int64
	if err := s.db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(i.remaining_amount), 0)
		 FROM invoices i
		 WHERE i.invoice_type = 'sales' AND i.status <> 'paid'`+shopClause,
		shopArgs...,
	).Scan(&outstandingReceivable).Error; err != nil {
		return summary, err
	}

	var purchaseDue int64
	if err := s.db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(i.remaining_amount), 0)
		 FROM invoices i
		 WHERE i.invoice_type = 'product_addition' AND i.status <> 'paid'`+shopClause,
		shopArgs...,
	).Scan(&purchaseDue).Error; err != nil {
		return summary, err
	}

	var productDue int64
	productDueQuery := `SELECT COALESCE(SUM(remaining_amount), 0) FROM products`
	productDueArgs := []any{}
	if shopID != 0 {
		productDueQuery += ` WHERE shop_id = ?`
		productDueArgs = append(productDueArgs, shopID)
	}
	if err := s.db.WithContext(ctx).Raw(productDueQuery, productDueArgs...).Scan(&productDue).Error; err != nil {
		return summary, err
	}

	summary.Income = paymentsIn + advanceIn - refunds
	summary.Expenses = otherCosts + salaries + purchasePayments + purchaseAdvance
	summary.NetProfit = summary.Income - summary.Expenses
	summary.OuterIncome = outer.Income
	summary.OuterExpense = outer.Expense
	summary.OuterProfit = outer.Income - outer.Expense
	summary.CombinedIncome = summary.Income + summary.OuterIncome
	summary.CombinedProfit = summary.NetProfit + summary.OuterProfit
	summary.OutstandingReceivable = outstandingReceivable
	summary.SupplierDue = purchaseDue + productDue
	return summary, nil
}

func cacheKey(window reportdomain.Window, shopID snowflake.ID) string {
	return fmt.Sprintf("%d|%d|%d", window.Start.UnixNano(), window.End.UnixNano(), shopID)
}
