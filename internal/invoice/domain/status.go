package domain

import (
	"regexp"
	"strconv"
	"strings"
)

// DeriveStatus computes the unpaid balance and payment state of an invoice.
// The advance payment counts as an implicit first payment. A negative balance
// is clamped to zero; overpayment is still reported as paid.
func DeriveStatus(totalAmount, advancePayment, paymentsSum int64) (int64, Status) {
	remaining := totalAmount - advancePayment - paymentsSum
	if remaining < 0 {
		remaining = 0
	}
	switch {
	case remaining == 0:
		return 0, StatusPaid
	case remaining < totalAmount:
		return remaining, StatusPartiallyPaid
	default:
		return remaining, StatusUnpaid
	}
}

var legacyDiscountPattern = regexp.MustCompile(`(?i)discount\s*[:=]\s*(\d+)`)

// ParseLegacyDiscount extracts a discount amount encoded inside free-text
// notes. Older rows stored "discount: N" in the notes column instead of a
// numeric field; absence means zero.
func ParseLegacyDiscount(notes string) int64 {
	match := legacyDiscountPattern.FindStringSubmatch(strings.TrimSpace(notes))
	if len(match) != 2 {
		return 0
	}
	value, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil || value < 0 {
		return 0
	}
	return value
}
