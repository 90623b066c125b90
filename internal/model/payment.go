package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentRecord is one row of the payment ledger: a payment that has
// been received but not yet tied to an invoice.
type PaymentRecord struct {
	Date   time.Time
	Amount decimal.Decimal // positive, 2 decimal places
}

// DateDiffDays returns the absolute number of calendar days between two dates.
func DateDiffDays(a, b time.Time) int {
	days := int(a.Sub(b).Hours() / 24)
	if days < 0 {
		return -days
	}
	return days
}
