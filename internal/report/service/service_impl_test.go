package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/smallbiznis/kasira/internal/cache"
	reportdomain "github.com/smallbiznis/kasira/internal/report/domain"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupReportTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	statements := []string{
		`CREATE TABLE IF NOT EXISTS invoices (
			id BIGINT PRIMARY KEY,
			invoice_number TEXT NOT NULL UNIQUE,
			invoice_type TEXT NOT NULL,
			total_amount BIGINT NOT NULL,
			discount_amount BIGINT NOT NULL DEFAULT 0,
			advance_payment BIGINT NOT NULL DEFAULT 0,
			remaining_amount BIGINT NOT NULL,
			status TEXT NOT NULL,
			customer_id BIGINT,
			supplier_id BIGINT,
			shop_id BIGINT NOT NULL,
			notes TEXT,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS invoice_items (
			id BIGINT PRIMARY KEY,
			invoice_id BIGINT NOT NULL,
			product_id BIGINT,
			product_name TEXT NOT NULL,
			barcode TEXT,
			quantity BIGINT NOT NULL,
			unit_price BIGINT NOT NULL,
			total_price BIGINT NOT NULL,
			buying_price BIGINT NOT NULL DEFAULT 0,
			is_outer_product BOOLEAN NOT NULL DEFAULT FALSE,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS payments (
			id BIGINT PRIMARY KEY,
			invoice_id BIGINT NOT NULL,
			amount BIGINT NOT NULL,
			payment_method TEXT NOT NULL,
			payment_date DATETIME NOT NULL,
			notes TEXT,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS product_returns (
			id BIGINT PRIMARY KEY,
			invoice_id BIGINT NOT NULL,
			customer_id BIGINT,
			total_amount BIGINT NOT NULL,
			refund_amount BIGINT NOT NULL,
			status TEXT NOT NULL,
			return_reason TEXT NOT NULL,
			notes TEXT,
			created_at DATETIME NOT NULL,
			processed_at DATETIME
		)`,
		`CREATE TABLE IF NOT EXISTS others_costs (
			id BIGINT PRIMARY KEY,
			amount BIGINT NOT NULL,
			category TEXT,
			date DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS salary_payments (
			id BIGINT PRIMARY KEY,
			amount BIGINT NOT NULL,
			payment_date DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id BIGINT PRIMARY KEY,
			supplier_id BIGINT NOT NULL,
			shop_id BIGINT NOT NULL,
			name TEXT NOT NULL,
			barcode TEXT,
			buying_price BIGINT NOT NULL,
			selling_price BIGINT NOT NULL,
			quantity BIGINT NOT NULL,
			advance_payment BIGINT NOT NULL DEFAULT 0,
			remaining_amount BIGINT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create table: %v", err)
		}
	}
	return db
}

func newReportTestService(db *gorm.DB) *Service {
	return &Service{
		db:       db,
		log:      zap.NewNop(),
		cacheTTL: time.Minute,
		cache:    cache.NewTTLCache[string, reportdomain.Summary](),
	}
}

var reportWindow = reportdomain.Window{
	Start: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	End:   time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
}

// seedLedger populates a month of activity:
//
//	regular sales invoice: advance 10, payment 50 in window, remaining 40
//	outer sales invoice: one outer line, income 30, cost 18
//	purchase invoice: advance 5, payment 20 in window, remaining 75
//	others cost 7, salary 8, processed refund 6
//	product due line remaining 30
func seedLedger(t *testing.T, db *gorm.DB) {
	t.Helper()
	in := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	inserts := []struct {
		query string
		args  []any
	}{
		{`INSERT INTO invoices (id, invoice_number, invoice_type, total_amount, advance_payment, remaining_amount, status, shop_id, created_at, updated_at)
		  VALUES (1, 'S-1', 'sales', 100, 10, 40, 'partially_paid', 1, ?, ?)`, []any{in, in}},
		{`INSERT INTO invoices (id, invoice_number, invoice_type, total_amount, advance_payment, remaining_amount, status, shop_id, created_at, updated_at)
		  VALUES (2, 'S-2', 'sales', 30, 0, 0, 'paid', 1, ?, ?)`, []any{in, in}},
		{`INSERT INTO invoices (id, invoice_number, invoice_type, total_amount, advance_payment, remaining_amount, status, shop_id, created_at, updated_at)
		  VALUES (3, 'P-1', 'product_addition', 100, 5, 75, 'partially_paid', 1, ?, ?)`, []any{in, in}},
		{`INSERT INTO invoice_items (id, invoice_id, product_name, quantity, unit_price, total_price, buying_price, is_outer_product, created_at)
		  VALUES (20, 2, 'Consignment', 3, 10, 30, 6, TRUE, ?)`, []any{in}},
		{`INSERT INTO payments (id, invoice_id, amount, payment_method, payment_date, created_at)
		  VALUES (30, 1, 50, 'cash', ?, ?)`, []any{in, in}},
		{`INSERT INTO payments (id, invoice_id, amount, payment_method, payment_date, created_at)
		  VALUES (31, 3, 20, 'bank_transfer', ?, ?)`, []any{in, in}},
		{`INSERT INTO product_returns (id, invoice_id, total_amount, refund_amount, status, return_reason, created_at, processed_at)
		  VALUES (40, 1, 6, 6, 'processed', 'defect', ?, ?)`, []any{in, in}},
		{`INSERT INTO product_returns (id, invoice_id, total_amount, refund_amount, status, return_reason, created_at)
		  VALUES (41, 1, 99, 99, 'pending', 'still open', ?)`, []any{in}},
		{`INSERT INTO others_costs (id, amount, category, date) VALUES (50, 7, 'rent', ?)`, []any{in}},
		{`INSERT INTO salary_payments (id, amount, payment_date) VALUES (60, 8, ?)`, []any{in}},
		{`INSERT INTO products (id, supplier_id, shop_id, name, buying_price, selling_price, quantity, remaining_amount, created_at, updated_at)
		  VALUES (70, 9, 1, 'Stock', 10, 20, 3, 30, ?, ?)`, []any{in, in}},
	}
	for _, insert := range inserts {
		if err := db.Exec(insert.query, insert.args...).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func TestSummaryReducesWindow(t *testing.T) {
	db := setupReportTestDB(t)
	seedLedger(t, db)
	svc := newReportTestService(db)

	summary, err := svc.Summary(context.Background(), reportdomain.SummaryRequest{Window: reportWindow})
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	// Regular income: 50 payment + 10 advance - 6 processed refund. The outer
	// invoice's figures stay out of the regular stream entirely.
	if summary.Income != 54 {
		t.Fatalf("income = %d, want 54", summary.Income)
	}
	// Expenses: 7 others + 8 salary + 20 purchase payment + 5 purchase advance.
	if summary.Expenses != 40 {
		t.Fatalf("expenses = %d, want 40", summary.Expenses)
	}
	if summary.NetProfit != 14 {
		t.Fatalf("net profit = %d, want 14", summary.NetProfit)
	}
	if summary.OuterIncome != 30 || summary.OuterExpense != 18 || summary.OuterProfit != 12 {
		t.Fatalf("outer = %d/%d/%d, want 30/18/12", summary.OuterIncome, summary.OuterExpense, summary.OuterProfit)
	}
	if summary.CombinedIncome != 84 {
		t.Fatalf("combined income = %d, want 84", summary.CombinedIncome)
	}
	if summary.CombinedProfit != 26 {
		t.Fatalf("combined profit = %d, want 26", summary.CombinedProfit)
	}
	if summary.OutstandingReceivable != 40 {
		t.Fatalf("outstanding receivable = %d, want 40", summary.OutstandingReceivable)
	}
	// Supplier due: 75 on the purchase invoice ledger + 30 on product lines.
	if summary.SupplierDue != 105 {
		t.Fatalf("supplier due = %d, want 105", summary.SupplierDue)
	}
}

func TestSummaryIsIdempotent(t *testing.T) {
	db := setupReportTestDB(t)
	seedLedger(t, db)
	svc := newReportTestService(db)

	first, err := svc.Summary(context.Background(), reportdomain.SummaryRequest{Window: reportWindow})
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	second, err := svc.Summary(context.Background(), reportdomain.SummaryRequest{Window: reportWindow})
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if first != second {
		t.Fatalf("summaries differ: %+v vs %+v", first, second)
	}
}

func TestSummaryCacheInvalidation(t *testing.T) {
	db := setupReportTestDB(t)
	seedLedger(t, db)
	svc := newReportTestService(db)

	before, err := svc.Summary(context.Background(), reportdomain.SummaryRequest{Window: reportWindow})
	if err != nil {
		t.Fatalf("summary: %v", err)
	}

	in := time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC)
	if err := db.Exec(
		`INSERT INTO payments (id, invoice_id, amount, payment_method, payment_date, created_at)
		 VALUES (32, 1, 40, 'cash', ?, ?)`, in, in,
	).Error; err != nil {
		t.Fatalf("insert payment: %v", err)
	}

	cached, err := svc.Summary(context.Background(), reportdomain.SummaryRequest{Window: reportWindow})
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if cached.Income != before.Income {
		t.Fatalf("cached income = %d, want stale %d", cached.Income, before.Income)
	}

	svc.Invalidate()
	fresh, err := svc.Summary(context.Background(), reportdomain.SummaryRequest{Window: reportWindow})
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if fresh.Income != before.Income+40 {
		t.Fatalf("fresh income = %d, want %d", fresh.Income, before.Income+40)
	}
}

func TestSummaryRejectsBadWindow(t *testing.T) {
	db := setupReportTestDB(t)
	svc := newReportTestService(db)

	_, err := svc.Summary(context.Background(), reportdomain.SummaryRequest{
		Window: reportdomain.Window{Start: reportWindow.End, End: reportWindow.Start},
	})
	if !errors.Is(err, reportdomain.ErrInvalidWindow) {
		t.Fatalf("expected invalid window, got %v", err)
	}

	_, err = svc.Summary(context.Background(), reportdomain.SummaryRequest{
		Window: reportWindow,
		ShopID: "not-a-shop",
	})
	if !errors.Is(err, reportdomain.ErrInvalidShop) {
		t.Fatalf("expected invalid shop, got %v", err)
	}
}

func TestCompareReportsMovement(t *testing.T) {
	db := setupReportTestDB(t)
	seedLedger(t, db)
	svc := newReportTestService(db)

	previous := reportdomain.Window{
		Start: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		End:   reportWindow.Start,
	}
	comparison, err := svc.Compare(context.Background(), reportdomain.CompareRequest{
		Current:  reportWindow,
		Previous: previous,
	})
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	// May had no activity, so income reports a flat 100% increase.
	if comparison.IncomeChange.Percent != 100 || comparison.IncomeChange.Direction != "increase" {
		t.Fatalf("income change = %+v, want 100%% increase", comparison.IncomeChange)
	}
	if comparison.Previous.Income != 0 {
		t.Fatalf("previous income = %d, want 0", comparison.Previous.Income)
	}
}
