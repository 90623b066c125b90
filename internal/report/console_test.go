package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/settled-dev/settled/internal/model"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func sp(s string) *string { return &s }

func TestWriteExtraction(t *testing.T) {
	d := date(2024, 3, 15)
	full := dec("2500.00")
	guessed := dec("250.75")

	recs := []model.InvoiceRecord{
		{
			SourceID:      "GGTS-0985.pdf",
			InvoiceNumber: sp("GGTS-0985"),
			InvoiceDate:   &d,
			RecipientName: sp("PUSTAKA GEMILANG SDN BHD"),
			TotalAmount:   &full,
		},
		{
			SourceID:      "scan002.pdf",
			TotalAmount:   &guessed,
			AmountGuessed: true,
		},
		{SourceID: "scan003.pdf"},
	}

	var buf bytes.Buffer
	WriteExtraction(&buf, recs)
	out := buf.String()

	assert.Contains(t, out, "GGTS-0985")
	assert.Contains(t, out, "2024-03-15")
	assert.Contains(t, out, "250.75 ?")
	assert.Contains(t, out, "3 documents: 1 with invoice number, 1 with date, 2 with amount, 1 with recipient")
	assert.Contains(t, out, "1 amounts marked ?")
}

func TestWriteExtraction_NoGuessesNoWarning(t *testing.T) {
	var buf bytes.Buffer
	WriteExtraction(&buf, []model.InvoiceRecord{{SourceID: "a.pdf"}})
	assert.NotContains(t, buf.String(), "marked ?")
}

func TestWriteReconciliation(t *testing.T) {
	rep := model.Report{
		Matches: []model.MatchResult{{
			Payment:       model.PaymentRecord{Date: date(2024, 3, 17), Amount: dec("2500.00")},
			InvoiceNumber: "GGTS-0985",
			InvoiceDate:   date(2024, 3, 15),
			InvoiceAmount: dec("2500.00"),
			DateDiffDays:  2,
		}},
		Unmatched: []model.PaymentRecord{
			{Date: date(2024, 4, 9), Amount: dec("75.20")},
		},
	}

	var buf bytes.Buffer
	WriteReconciliation(&buf, rep)
	out := buf.String()

	assert.Contains(t, out, "MATCHED PAYMENTS")
	assert.Contains(t, out, "UNMATCHED PAYMENTS")
	assert.Contains(t, out, "GGTS-0985")
	assert.Contains(t, out, "matched     1 payments  2500.00")
	assert.Contains(t, out, "unmatched   1 payments  75.20")
	assert.Contains(t, out, "total       2 payments  2575.20")
}

func TestWriteReconciliation_AllMatched(t *testing.T) {
	rep := model.Report{
		Matches: []model.MatchResult{{
			Payment:       model.PaymentRecord{Date: date(2024, 3, 17), Amount: dec("100.00")},
			InvoiceNumber: "INV-1",
			InvoiceDate:   date(2024, 3, 17),
			InvoiceAmount: dec("100.00"),
		}},
	}

	var buf bytes.Buffer
	WriteReconciliation(&buf, rep)
	assert.NotContains(t, buf.String(), "UNMATCHED PAYMENTS")
}
