// Package match assigns payments to invoices. The rule is exact amount
// equality first, closest invoice date as the tie-break, each invoice
// usable at most once. The pass is greedy over payments in input order:
// an earlier payment can claim an invoice a later payment would have
// been a closer fit for. That trade keeps runs deterministic and cheap,
// and matches how the books are actually worked through.
package match

import (
	"github.com/settled-dev/settled/internal/model"
)

// Matcher owns the mutable state of a single reconciliation pass: the
// amount buckets and the set of consumed invoice numbers. Build one per
// run and discard it; Run may only be called once.
type Matcher struct {
	buckets  map[string][]model.InvoiceRecord
	consumed map[string]bool
}

// New buckets the given invoices by exact amount. Invoices without an
// amount or an invoice number can never match and are left out of the
// buckets entirely.
func New(invoices []model.InvoiceRecord) *Matcher {
	buckets := make(map[string][]model.InvoiceRecord)
	for _, inv := range invoices {
		if inv.TotalAmount == nil || inv.InvoiceNumber == nil || inv.InvoiceDate == nil {
			continue
		}
		key := inv.TotalAmount.StringFixed(2)
		buckets[key] = append(buckets[key], inv)
	}
	return &Matcher{
		buckets:  buckets,
		consumed: make(map[string]bool),
	}
}

// Run matches payments in input order. Every payment lands in exactly
// one of the two result slices, both in payment-processing order.
func (m *Matcher) Run(payments []model.PaymentRecord) model.Report {
	var report model.Report

	for _, payment := range payments {
		best, ok := m.claim(payment)
		if !ok {
			report.Unmatched = append(report.Unmatched, payment)
			continue
		}
		report.Matches = append(report.Matches, model.MatchResult{
			Payment:       payment,
			InvoiceNumber: *best.InvoiceNumber,
			InvoiceDate:   *best.InvoiceDate,
			InvoiceAmount: *best.TotalAmount,
			DateDiffDays:  model.DateDiffDays(payment.Date, *best.InvoiceDate),
		})
	}
	return report
}

// claim finds the best unconsumed invoice for a payment and marks it
// consumed. Among several candidates the smallest date difference wins;
// on equal differences the earliest invoice in the bucket wins.
func (m *Matcher) claim(payment model.PaymentRecord) (model.InvoiceRecord, bool) {
	var best model.InvoiceRecord
	bestDiff := -1

	for _, inv := range m.buckets[payment.Amount.StringFixed(2)] {
		if m.consumed[*inv.InvoiceNumber] {
			continue
		}
		diff := model.DateDiffDays(payment.Date, *inv.InvoiceDate)
		if bestDiff < 0 || diff < bestDiff {
			best = inv
			bestDiff = diff
		}
	}

	if bestDiff < 0 {
		return model.InvoiceRecord{}, false
	}
	m.consumed[*best.InvoiceNumber] = true
	return best, true
}

// Match is the one-shot form: bucket, run, discard.
func Match(payments []model.PaymentRecord, invoices []model.InvoiceRecord) model.Report {
	return New(invoices).Run(payments)
}
