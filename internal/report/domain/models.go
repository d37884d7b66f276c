package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// OthersCost is an expense row consumed read-only by the aggregator.
type OthersCost struct {
	ID       snowflake.ID `gorm:"primaryKey" json:"id,string"`
	Amount   int64        `gorm:"not null" json:"amount"`
	Category string       `gorm:"type:text" json:"category,omitempty"`
	Date     time.Time    `gorm:"not null;index" json:"date"`
}

// TableName sets the database table name.
func (OthersCost) TableName() string { return "others_costs" }

// SalaryPayment is a payroll expense row consumed read-only by the aggregator.
type SalaryPayment struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id,string"`
	Amount      int64        `gorm:"not null" json:"amount"`
	PaymentDate time.Time    `gorm:"not null;index" json:"payment_date"`
}

// TableName sets the database table name.
func (SalaryPayment) TableName() string { return "salary_payments" }

// Window is a half-open [Start, End) reporting period.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Summary holds the reduced financials for one window. The outer-product
// stream is kept separate from the regular stream; combined figures exist
// only here, never in storage.
type Summary struct {
	Window Window `json:"window"`

	Income    int64 `json:"income"`
	Expenses  int64 `json:"expenses"`
	NetProfit int64 `json:"net_profit"`

	OuterIncome  int64 `json:"outer_income"`
	OuterExpense int64 `json:"outer_expense"`
	OuterProfit  int64 `json:"outer_profit"`

	CombinedIncome int64 `json:"combined_income"`
	CombinedProfit int64 `json:"combined_profit"`

	OutstandingReceivable int64 `json:"outstanding_receivable"`
	SupplierDue           int64 `json:"supplier_due"`
}

// Change is a period-over-period movement.
type Change struct {
	Percent   float64 `json:"percent"`
	Direction string  `json:"direction"` // increase | decrease | unchanged
}

// Comparison pairs the current and previous window summaries.
type Comparison struct {
	Current  Summary `json:"current"`
	Previous Summary `json:"previous"`

	IncomeChange    Change `json:"income_change"`
	ExpensesChange  Change `json:"expenses_change"`
	NetProfitChange Change `json:"net_profit_change"`
}
