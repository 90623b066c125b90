package match

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/settled-dev/settled/internal/model"
)

type matchJSON struct {
	PaymentDate   string          `json:"payment_date"`
	PaymentAmount decimal.Decimal `json:"payment_amount"`
	InvoiceNumber string          `json:"invoice_number"`
	InvoiceDate   string          `json:"invoice_date"`
	InvoiceAmount decimal.Decimal `json:"invoice_amount"`
	DateDiffDays  int             `json:"date_diff_days"`
}

type paymentJSON struct {
	Date   string          `json:"date"`
	Amount decimal.Decimal `json:"amount"`
}

type summaryJSON struct {
	TotalPayments   int             `json:"total_payments"`
	Matched         int             `json:"matched"`
	Unmatched       int             `json:"unmatched"`
	MatchedAmount   decimal.Decimal `json:"matched_amount"`
	UnmatchedAmount decimal.Decimal `json:"unmatched_amount"`
}

type reportJSON struct {
	Matches           []matchJSON   `json:"matches"`
	UnmatchedPayments []paymentJSON `json:"unmatched_payments"`
	Summary           summaryJSON   `json:"summary"`
}

// WriteJSON writes the full reconciliation report, summary included, as
// indented JSON.
func WriteJSON(w io.Writer, rep model.Report) error {
	out := reportJSON{
		Matches:           make([]matchJSON, 0, len(rep.Matches)),
		UnmatchedPayments: make([]paymentJSON, 0, len(rep.Unmatched)),
		Summary: summaryJSON{
			TotalPayments:   len(rep.Matches) + len(rep.Unmatched),
			Matched:         len(rep.Matches),
			Unmatched:       len(rep.Unmatched),
			MatchedAmount:   rep.MatchedTotal(),
			UnmatchedAmount: rep.UnmatchedTotal(),
		},
	}

	for _, m := range rep.Matches {
		out.Matches = append(out.Matches, matchJSON{
			PaymentDate:   m.Payment.Date.Format(dateFormat),
			PaymentAmount: m.Payment.Amount,
			InvoiceNumber: m.InvoiceNumber,
			InvoiceDate:   m.InvoiceDate.Format(dateFormat),
			InvoiceAmount: m.InvoiceAmount,
			DateDiffDays:  m.DateDiffDays,
		})
	}
	for _, p := range rep.Unmatched {
		out.UnmatchedPayments = append(out.UnmatchedPayments, paymentJSON{
			Date:   p.Date.Format(dateFormat),
			Amount: p.Amount,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding report JSON: %w", err)
	}
	return nil
}
