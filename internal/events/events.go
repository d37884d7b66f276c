package events

// Ledger event types written to the outbox.
const (
	EventInvoiceCreated          = "invoice_created"
	EventPaymentRecorded         = "payment_recorded"
	EventSupplierPaymentRecorded = "supplier_payment_recorded"
	EventReturnSubmitted         = "return_submitted"
	EventReturnApplied           = "return_applied"
	EventReturnRejected          = "return_rejected"
)

// Table names carried by change notifications.
const (
	TableInvoices         = "invoices"
	TableInvoiceItems     = "invoice_items"
	TablePayments         = "payments"
	TableSupplierPayments = "supplier_payments"
	TableProducts         = "products"
	TableProductReturns   = "product_returns"
	TableReturnItems      = "return_items"
)
