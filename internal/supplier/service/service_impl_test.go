package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/kasira/internal/clock"
	"github.com/smallbiznis/kasira/internal/events"
	productdomain "github.com/smallbiznis/kasira/internal/product/domain"
	supplierdomain "github.com/smallbiznis/kasira/internal/supplier/domain"
	"github.com/smallbiznis/kasira/pkg/repository"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSupplierTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	statements := []string{
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
		`CREATE TABLE IF NOT EXISTS supplier_payments (
			id BIGINT PRIMARY KEY,
			supplier_id BIGINT NOT NULL,
			amount BIGINT NOT NULL,
			payment_method TEXT NOT NULL,
			reference_number TEXT,
			notes TEXT,
			payment_date DATETIME NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS ledger_events (
			id BIGINT PRIMARY KEY,
			event_type TEXT NOT NULL,
			payload TEXT,
			dedupe_key TEXT UNIQUE,
			published BOOLEAN NOT NULL DEFAULT FALSE,
			created_at DATETIME NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			t.Fatalf("create table: %v", err)
		}
	}
	return db
}

func newSupplierTestService(t *testing.T, db *gorm.DB) *Service {
	t.Helper()
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	return &Service{
		db:       db,
		log:      zap.NewNop(),
		genID:    node,
		clock:    clock.Fixed{At: time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)},
		bus:      events.NewBus(),
		outbox:   events.NewOutbox(db, node),
		payments: repository.ProvideStore[supplierdomain.SupplierPayment](db),
	}
}

const testSupplierID snowflake.ID = 7001

// insertDueLines creates product due lines with ascending created_at so the
// slice order is the settlement order.
func insertDueLines(t *testing.T, db *gorm.DB, dues []int64) []productdomain.Product {
	t.Helper()
	node, err := snowflake.NewNode(2)
	if err != nil {
		t.Fatalf("new node: %v", err)
	}
	base := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	lines := make([]productdomain.Product, 0, len(dues))
	for i, due := range dues {
		line := productdomain.Product{
			ID:              node.Generate(),
			SupplierID:      testSupplierID,
			ShopID:          1,
			Name:            "Line",
			BuyingPrice:     due,
			SellingPrice:    due * 2,
			Quantity:        1,
			RemainingAmount: due,
			CreatedAt:       base.Add(time.Duration(i) * time.Hour),
			UpdatedAt:       base,
		}
		if err := db.Create(&line).Error; err != nil {
			t.Fatalf("insert product: %v", err)
		}
		lines = append(lines, line)
	}
	return lines
}

func TestRecordSupplierPaymentSettlesOldestFirst(t *testing.T) {
	db := setupSupplierTestDB(t)
	svc := newSupplierTestService(t, db)
	lines := insertDueLines(t, db, []int64{50, 30, 20})

	resp, err := svc.RecordPayment(context.Background(), supplierdomain.RecordPaymentRequest{
		SupplierID: testSupplierID.String(),
		Amount:     70,
		Method:     "bank_transfer",
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if len(resp.SettledLines) != 2 {
		t.Fatalf("settled lines = %d, want 2", len(resp.SettledLines))
	}
	if resp.SettledLines[0].ProductID != lines[0].ID || resp.SettledLines[0].Applied != 50 {
		t.Fatalf("first line = %+v, want product %d applied 50", resp.SettledLines[0], lines[0].ID)
	}
	if resp.SettledLines[1].ProductID != lines[1].ID || resp.SettledLines[1].Applied != 20 {
		t.Fatalf("second line = %+v, want product %d applied 20", resp.SettledLines[1], lines[1].ID)
	}
	if resp.Outstanding != 30 {
		t.Fatalf("outstanding = %d, want 30", resp.Outstanding)
	}

	wantRemaining := []int64{0, 10, 20}
	for i, line := range lines {
		var after productdomain.Product
		if err := db.Where("id = ?", line.ID).First(&after).Error; err != nil {
			t.Fatalf("reload product: %v", err)
		}
		if after.RemainingAmount != wantRemaining[i] {
			t.Fatalf("line %d remaining = %d, want %d", i, after.RemainingAmount, wantRemaining[i])
		}
	}
}

func TestRecordSupplierPaymentRejectsOverpayment(t *testing.T) {
	db := setupSupplierTestDB(t)
	svc := newSupplierTestService(t, db)
	lines := insertDueLines(t, db, []int64{50, 30})

	_, err := svc.RecordPayment(context.Background(), supplierdomain.RecordPaymentRequest{
		SupplierID: testSupplierID.String(),
		Amount:     100,
		Method:     "cash",
	})
	if !errors.Is(err, supplierdomain.ErrAmountExceedsDue) {
		t.Fatalf("expected exceeds due, got %v", err)
	}

	// Nothing may have been written.
	var paymentCount int64
	if err := db.Model(&supplierdomain.SupplierPayment{}).Count(&paymentCount).Error; err != nil {
		t.Fatalf("count payments: %v", err)
	}
	if paymentCount != 0 {
		t.Fatalf("payment count = %d, want 0", paymentCount)
	}
	for _, line := range lines {
		var after productdomain.Product
		if err := db.Where("id = ?", line.ID).First(&after).Error; err != nil {
			t.Fatalf("reload product: %v", err)
		}
		if after.RemainingAmount != line.RemainingAmount {
			t.Fatalf("line %d mutated: remaining = %d, want %d", line.ID, after.RemainingAmount, line.RemainingAmount)
		}
	}
}

func TestRecordSupplierPaymentNothingOutstanding(t *testing.T) {
	db := setupSupplierTestDB(t)
	svc := newSupplierTestService(t, db)

	_, err := svc.RecordPayment(context.Background(), supplierdomain.RecordPaymentRequest{
		SupplierID: testSupplierID.String(),
		Amount:     10,
		Method:     "cash",
	})
	if !errors.Is(err, supplierdomain.ErrNothingOutstanding) {
		t.Fatalf("expected nothing outstanding, got %v", err)
	}
}

func TestListSupplierPayments(t *testing.T) {
	db := setupSupplierTestDB(t)
	svc := newSupplierTestService(t, db)
	insertDueLines(t, db, []int64{50})

	if _, err := svc.RecordPayment(context.Background(), supplierdomain.RecordPaymentRequest{
		SupplierID: testSupplierID.String(),
		Amount:     50,
		Method:     "cash",
	}); err != nil {
		t.Fatalf("record: %v", err)
	}

	records, err := svc.ListPayments(context.Background(), testSupplierID.String())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("payments = %d, want 1", len(records))
	}
	if records[0].Amount != 50 {
		t.Fatalf("amount = %d, want 50", records[0].Amount)
	}
}

func TestSupplierOutstanding(t *testing.T) {
	db := setupSupplierTestDB(t)
	svc := newSupplierTestService(t, db)
	insertDueLines(t, db, []int64{50, 30, 20})

	total, err := svc.Outstanding(context.Background(), testSupplierID.String())
	if err != nil {
		t.Fatalf("outstanding: %v", err)
	}
	if total != 100 {
		t.Fatalf("outstanding = %d, want 100", total)
	}
}
