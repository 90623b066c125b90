package match

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/settled-dev/settled/internal/model"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func invoice(number string, d time.Time, amount string) model.InvoiceRecord {
	amt := dec(amount)
	return model.InvoiceRecord{
		SourceID:      number + ".pdf",
		InvoiceNumber: &number,
		InvoiceDate:   &d,
		TotalAmount:   &amt,
	}
}

func payment(d time.Time, amount string) model.PaymentRecord {
	return model.PaymentRecord{Date: d, Amount: dec(amount)}
}

func TestMatch_ExactAmountClosestDate(t *testing.T) {
	invoices := []model.InvoiceRecord{
		invoice("GGTS-0985", date(2024, 3, 15), "2500.00"),
	}
	payments := []model.PaymentRecord{
		payment(date(2024, 3, 17), "2500.00"),
	}

	rep := Match(payments, invoices)
	require.Len(t, rep.Matches, 1)
	assert.Empty(t, rep.Unmatched)

	m := rep.Matches[0]
	assert.Equal(t, "GGTS-0985", m.InvoiceNumber)
	assert.Equal(t, 2, m.DateDiffDays)
	assert.True(t, m.InvoiceAmount.Equal(dec("2500.00")))
	assert.True(t, m.Payment.Date.Equal(date(2024, 3, 17)))
}

func TestMatch_AmountMustBeExact(t *testing.T) {
	invoices := []model.InvoiceRecord{
		invoice("INV-100", date(2024, 1, 10), "500.00"),
	}
	payments := []model.PaymentRecord{
		payment(date(2024, 1, 10), "500.01"),
	}

	rep := Match(payments, invoices)
	assert.Empty(t, rep.Matches)
	require.Len(t, rep.Unmatched, 1)
	assert.True(t, rep.Unmatched[0].Amount.Equal(dec("500.01")))
}

func TestMatch_ClosestDateWinsWithinBucket(t *testing.T) {
	invoices := []model.InvoiceRecord{
		invoice("INV-A", date(2024, 5, 1), "300.00"),
		invoice("INV-B", date(2024, 5, 20), "300.00"),
	}
	payments := []model.PaymentRecord{
		payment(date(2024, 5, 18), "300.00"),
	}

	rep := Match(payments, invoices)
	require.Len(t, rep.Matches, 1)
	assert.Equal(t, "INV-B", rep.Matches[0].InvoiceNumber)
	assert.Equal(t, 2, rep.Matches[0].DateDiffDays)
}

func TestMatch_EqualDistanceTakesEarlierInvoice(t *testing.T) {
	invoices := []model.InvoiceRecord{
		invoice("INV-A", date(2024, 5, 8), "300.00"),
		invoice("INV-B", date(2024, 5, 12), "300.00"),
	}
	payments := []model.PaymentRecord{
		payment(date(2024, 5, 10), "300.00"),
	}

	rep := Match(payments, invoices)
	require.Len(t, rep.Matches, 1)
	assert.Equal(t, "INV-A", rep.Matches[0].InvoiceNumber)
}

func TestMatch_GreedyInPaymentOrder(t *testing.T) {
	// The first payment claims the globally closer invoice even though
	// the second payment would have been an exact date hit for it.
	invoices := []model.InvoiceRecord{
		invoice("INV-OLD", date(2024, 5, 1), "750.00"),
		invoice("INV-NEW", date(2024, 5, 20), "750.00"),
	}
	payments := []model.PaymentRecord{
		payment(date(2024, 5, 19), "750.00"),
		payment(date(2024, 5, 20), "750.00"),
	}

	rep := Match(payments, invoices)
	require.Len(t, rep.Matches, 2)
	assert.Equal(t, "INV-NEW", rep.Matches[0].InvoiceNumber)
	assert.Equal(t, "INV-OLD", rep.Matches[1].InvoiceNumber)
	assert.Equal(t, 19, rep.Matches[1].DateDiffDays)
}

func TestMatch_InvoiceConsumedOnce(t *testing.T) {
	invoices := []model.InvoiceRecord{
		invoice("INV-1", date(2024, 2, 1), "120.00"),
	}
	payments := []model.PaymentRecord{
		payment(date(2024, 2, 1), "120.00"),
		payment(date(2024, 2, 2), "120.00"),
	}

	rep := Match(payments, invoices)
	require.Len(t, rep.Matches, 1)
	require.Len(t, rep.Unmatched, 1)
	assert.True(t, rep.Unmatched[0].Date.Equal(date(2024, 2, 2)))
}

func TestMatch_EveryPaymentLandsExactlyOnce(t *testing.T) {
	invoices := []model.InvoiceRecord{
		invoice("INV-1", date(2024, 1, 5), "100.00"),
		invoice("INV-2", date(2024, 1, 15), "100.00"),
		invoice("INV-3", date(2024, 2, 1), "250.50"),
	}
	payments := []model.PaymentRecord{
		payment(date(2024, 1, 6), "100.00"),
		payment(date(2024, 1, 20), "999.00"),
		payment(date(2024, 2, 3), "250.50"),
		payment(date(2024, 1, 14), "100.00"),
		payment(date(2024, 3, 1), "250.50"),
	}

	rep := Match(payments, invoices)
	assert.Equal(t, len(payments), len(rep.Matches)+len(rep.Unmatched))

	seen := make(map[string]bool)
	for _, m := range rep.Matches {
		assert.False(t, seen[m.InvoiceNumber], "invoice %s matched twice", m.InvoiceNumber)
		seen[m.InvoiceNumber] = true
	}

	// Output order follows payment-processing order in both slices.
	require.Len(t, rep.Matches, 3)
	assert.True(t, rep.Matches[0].Payment.Date.Equal(date(2024, 1, 6)))
	assert.True(t, rep.Matches[1].Payment.Date.Equal(date(2024, 2, 3)))
	assert.True(t, rep.Matches[2].Payment.Date.Equal(date(2024, 1, 14)))
	require.Len(t, rep.Unmatched, 2)
	assert.True(t, rep.Unmatched[0].Date.Equal(date(2024, 1, 20)))
	assert.True(t, rep.Unmatched[1].Date.Equal(date(2024, 3, 1)))
}

func TestMatch_IncompleteInvoicesNeverMatch(t *testing.T) {
	number := "INV-NOAMT"
	d := date(2024, 4, 1)
	amt := dec("400.00")

	invoices := []model.InvoiceRecord{
		{SourceID: "a.pdf", InvoiceNumber: &number, InvoiceDate: &d},    // no amount
		{SourceID: "b.pdf", InvoiceDate: &d, TotalAmount: &amt},         // no number
		{SourceID: "c.pdf", InvoiceNumber: &number, TotalAmount: &amt},  // no date
	}
	payments := []model.PaymentRecord{
		payment(date(2024, 4, 1), "400.00"),
	}

	rep := Match(payments, invoices)
	assert.Empty(t, rep.Matches)
	assert.Len(t, rep.Unmatched, 1)
}

func TestMatch_Deterministic(t *testing.T) {
	invoices := []model.InvoiceRecord{
		invoice("INV-1", date(2024, 6, 1), "100.00"),
		invoice("INV-2", date(2024, 6, 10), "100.00"),
		invoice("INV-3", date(2024, 6, 20), "100.00"),
	}
	payments := []model.PaymentRecord{
		payment(date(2024, 6, 5), "100.00"),
		payment(date(2024, 6, 11), "100.00"),
		payment(date(2024, 6, 25), "100.00"),
	}

	first := Match(payments, invoices)
	for i := 0; i < 10; i++ {
		again := Match(payments, invoices)
		require.Equal(t, first, again, "run %d diverged", i)
	}
}

func TestMatch_AmountFormattingDoesNotSplitBuckets(t *testing.T) {
	// 120 and 120.00 are the same bucket key.
	invoices := []model.InvoiceRecord{
		invoice("INV-1", date(2024, 2, 1), "120"),
	}
	payments := []model.PaymentRecord{
		payment(date(2024, 2, 1), "120.00"),
	}

	rep := Match(payments, invoices)
	require.Len(t, rep.Matches, 1)
	assert.Equal(t, "INV-1", rep.Matches[0].InvoiceNumber)
}

func TestMatch_Empty(t *testing.T) {
	rep := Match(nil, nil)
	assert.Empty(t, rep.Matches)
	assert.Empty(t, rep.Unmatched)

	rep = Match([]model.PaymentRecord{payment(date(2024, 1, 1), "50.00")}, nil)
	assert.Empty(t, rep.Matches)
	assert.Len(t, rep.Unmatched, 1)
}

func TestReport_Totals(t *testing.T) {
	invoices := []model.InvoiceRecord{
		invoice("INV-1", date(2024, 1, 5), "100.00"),
	}
	payments := []model.PaymentRecord{
		payment(date(2024, 1, 6), "100.00"),
		payment(date(2024, 1, 7), "33.33"),
	}

	rep := Match(payments, invoices)
	assert.True(t, rep.MatchedTotal().Equal(dec("100.00")))
	assert.True(t, rep.UnmatchedTotal().Equal(dec("33.33")))
}
