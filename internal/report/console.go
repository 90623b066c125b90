// Package report renders extraction and reconciliation results for the
// terminal.
package report

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/settled-dev/settled/internal/model"
)

const dateFormat = "2006-01-02"

// WriteExtraction prints one line per extracted record plus field
// coverage counts, mirroring what a human checks first: which documents
// came out incomplete.
func WriteExtraction(w io.Writer, recs []model.InvoiceRecord) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Source", "Invoice #", "Date", "Amount", "Recipient"})
	table.SetBorder(false)

	var withNumber, withDate, withAmount, withRecipient, guessed int
	for _, rec := range recs {
		number, date, amount, recipient := "-", "-", "-", "-"
		if rec.InvoiceNumber != nil {
			number = *rec.InvoiceNumber
			withNumber++
		}
		if rec.InvoiceDate != nil {
			date = rec.InvoiceDate.Format(dateFormat)
			withDate++
		}
		if rec.TotalAmount != nil {
			amount = rec.TotalAmount.StringFixed(2)
			if rec.AmountGuessed {
				amount += " ?"
				guessed++
			}
			withAmount++
		}
		if rec.RecipientName != nil {
			recipient = *rec.RecipientName
			withRecipient++
		}
		table.Append([]string{rec.SourceID, number, date, amount, recipient})
	}
	table.Render()

	fmt.Fprintf(w, "\n%d documents: %d with invoice number, %d with date, %d with amount, %d with recipient\n",
		len(recs), withNumber, withDate, withAmount, withRecipient)
	if guessed > 0 {
		fmt.Fprintf(w, "%d amounts marked ? were taken from the largest-value fallback; review before trusting totals\n", guessed)
	}
}

// WriteReconciliation prints matched and unmatched payments with the
// count and total per bucket.
func WriteReconciliation(w io.Writer, rep model.Report) {
	fmt.Fprintln(w, "MATCHED PAYMENTS")
	matched := tablewriter.NewWriter(w)
	matched.SetHeader([]string{"Payment Date", "Amount", "Invoice #", "Invoice Date", "Days Diff"})
	matched.SetBorder(false)
	for _, m := range rep.Matches {
		matched.Append([]string{
			m.Payment.Date.Format(dateFormat),
			m.Payment.Amount.StringFixed(2),
			m.InvoiceNumber,
			m.InvoiceDate.Format(dateFormat),
			fmt.Sprintf("%d", m.DateDiffDays),
		})
	}
	matched.Render()

	if len(rep.Unmatched) > 0 {
		fmt.Fprintln(w, "\nUNMATCHED PAYMENTS")
		unmatched := tablewriter.NewWriter(w)
		unmatched.SetHeader([]string{"Payment Date", "Amount"})
		unmatched.SetBorder(false)
		for _, p := range rep.Unmatched {
			unmatched.Append([]string{p.Date.Format(dateFormat), p.Amount.StringFixed(2)})
		}
		unmatched.Render()
	}

	total := len(rep.Matches) + len(rep.Unmatched)
	fmt.Fprintf(w, "\nmatched   %3d payments  %s\n", len(rep.Matches), rep.MatchedTotal().StringFixed(2))
	fmt.Fprintf(w, "unmatched %3d payments  %s\n", len(rep.Unmatched), rep.UnmatchedTotal().StringFixed(2))
	fmt.Fprintf(w, "total     %3d payments  %s\n", total, rep.MatchedTotal().Add(rep.UnmatchedTotal()).StringFixed(2))
}
