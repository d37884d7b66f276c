package metrics

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Config carries the labels stamped on every ledger metric.
type Config struct {
	ServiceName string
	Environment string
}

// LedgerMetrics counts ledger write operations by outcome.
type LedgerMetrics struct {
	paymentsRecorded    *prometheus.CounterVec
	supplierSettlements *prometheus.CounterVec
	settledLines        prometheus.Counter
	returnsRecorded     *prometheus.CounterVec
	invoicesCreated     *prometheus.CounterVec
}

var (
	ledgerMetricsOnce sync.Once
	ledgerMetrics     *LedgerMetrics
)

// Ledger returns the process-wide ledger metrics with default labels.
func Ledger() *LedgerMetrics {
	return LedgerWithConfig(Config{})
}

// LedgerWithConfig returns the process-wide ledger metrics.
func LedgerWithConfig(cfg Config) *LedgerMetrics {
	ledgerMetricsOnce.Do(func() {
		ledgerMetrics = newLedgerMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return ledgerMetrics
}

// ResetLedgerMetricsForTest clears the singleton between test registries.
func ResetLedgerMetricsForTest() {
	ledgerMetricsOnce = sync.Once{}
	ledgerMetrics = nil
}

func newLedgerMetrics(registerer prometheus.Registerer, cfg Config) *LedgerMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "kasira"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}

	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	paymentsRecorded := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "kasira_payments_recorded_total",
			Help:        "Customer payments recorded against invoices.",
			ConstLabels: constLabels,
		},
		[]string{"result"}, // accepted | rejected
	)

	supplierSettlements := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "kasira_supplier_settlements_total",
			Help:        "Supplier payments applied through FIFO settlement.",
			ConstLabels: constLabels,
		},
		[]string{"result"},
	)

	settledLines := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name:        "kasira_supplier_settled_lines_total",
			Help:        "Product due lines reduced by supplier settlements.",
			ConstLabels: constLabels,
		},
	)

	returnsRecorded := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "kasira_returns_recorded_total",
			Help:        "Product returns by lifecycle transition.",
			ConstLabels: constLabels,
		},
		[]string{"transition"}, // submitted | applied | rejected
	)

	invoicesCreated := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "kasira_invoices_created_total",
			Help:        "Invoices created by type.",
			ConstLabels: constLabels,
		},
		[]string{"invoice_type"},
	)

	registerer.MustRegister(
		paymentsRecorded,
		supplierSettlements,
		settledLines,
		returnsRecorded,
		invoicesCreated,
	)

	return &LedgerMetrics{
		paymentsRecorded:    paymentsRecorded,
		supplierSettlements: supplierSettlements,
		settledLines:        settledLines,
		returnsRecorded:     returnsRecorded,
		invoicesCreated:     invoicesCreated,
	}
}

func (m *LedgerMetrics) IncPaymentRecorded(result string) {
	if m == nil {
		return
	}
	m.paymentsRecorded.WithLabelValues(result).Inc()
}

func (m *LedgerMetrics) IncSupplierSettlement(result string, lines int) {
	if m == nil {
		return
	}
	m.supplierSettlements.WithLabelValues(result).Inc()
	if lines > 0 {
		m.settledLines.Add(float64(lines))
	}
}

func (m *LedgerMetrics) IncReturn(transition string) {
	if m == nil {
		return
	}
	m.returnsRecorded.WithLabelValues(transition).Inc()
}

func (m *LedgerMetrics) IncInvoiceCreated(invoiceType string) {
	if m == nil {
		return
	}
	m.invoicesCreated.WithLabelValues(invoiceType).Inc()
}
