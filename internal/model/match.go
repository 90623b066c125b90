package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// MatchResult ties one payment to one invoice. An invoice number appears
// in at most one MatchResult per reconciliation run.
type MatchResult struct {
	Payment       PaymentRecord
	InvoiceNumber string
	InvoiceDate   time.Time
	InvoiceAmount decimal.Decimal
	DateDiffDays  int
}

// Report is the output of one reconciliation run: matches and unmatched
// payments, both in payment-processing order.
type Report struct {
	Matches   []MatchResult
	Unmatched []PaymentRecord
}

// MatchedTotal returns the summed amount of all matched payments.
func (r Report) MatchedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, m := range r.Matches {
		total = total.Add(m.Payment.Amount)
	}
	return total
}

// UnmatchedTotal returns the summed amount of all unmatched payments.
func (r Report) UnmatchedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, p := range r.Unmatched {
		total = total.Add(p.Amount)
	}
	return total
}
