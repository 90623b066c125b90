package match

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/settled-dev/settled/internal/model"
)

// Header is the CSV header for matches.csv.
const Header = "payment_date,payment_amount,invoice_number,invoice_date,invoice_amount,date_diff_days"

const (
	numFields        = 6
	dateFormat       = "2006-01-02"
	colPaymentDate   = 0
	colPaymentAmount = 1
	colNumber        = 2
	colInvoiceDate   = 3
	colInvoiceAmount = 4
	colDateDiff      = 5
)

// WriteMatches writes match results to a matches.csv writer (including header).
func WriteMatches(w io.Writer, matches []model.MatchResult) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, m := range matches {
		if err := cw.Write(MarshalMatch(m)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// ReadMatches reads match results from a matches.csv reader.
func ReadMatches(r io.Reader) ([]model.MatchResult, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading matches CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var matches []model.MatchResult
	for i, rec := range records[1:] {
		m, err := UnmarshalMatch(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		matches = append(matches, m)
	}
	return matches, nil
}

// MarshalMatch converts a MatchResult to a CSV row.
func MarshalMatch(m model.MatchResult) []string {
	row := make([]string, numFields)
	row[colPaymentDate] = m.Payment.Date.Format(dateFormat)
	row[colPaymentAmount] = m.Payment.Amount.StringFixed(2)
	row[colNumber] = m.InvoiceNumber
	row[colInvoiceDate] = m.InvoiceDate.Format(dateFormat)
	row[colInvoiceAmount] = m.InvoiceAmount.StringFixed(2)
	row[colDateDiff] = strconv.Itoa(m.DateDiffDays)
	return row
}

// UnmarshalMatch converts a CSV row to a MatchResult.
func UnmarshalMatch(record []string) (model.MatchResult, error) {
	if len(record) != numFields {
		return model.MatchResult{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	paymentDate, err := time.Parse(dateFormat, record[colPaymentDate])
	if err != nil {
		return model.MatchResult{}, fmt.Errorf("parsing payment_date %q: %w", record[colPaymentDate], err)
	}
	paymentAmount, err := decimal.NewFromString(record[colPaymentAmount])
	if err != nil {
		return model.MatchResult{}, fmt.Errorf("parsing payment_amount %q: %w", record[colPaymentAmount], err)
	}
	invoiceDate, err := time.Parse(dateFormat, record[colInvoiceDate])
	if err != nil {
		return model.MatchResult{}, fmt.Errorf("parsing invoice_date %q: %w", record[colInvoiceDate], err)
	}
	invoiceAmount, err := decimal.NewFromString(record[colInvoiceAmount])
	if err != nil {
		return model.MatchResult{}, fmt.Errorf("parsing invoice_amount %q: %w", record[colInvoiceAmount], err)
	}
	diff, err := strconv.Atoi(record[colDateDiff])
	if err != nil {
		return model.MatchResult{}, fmt.Errorf("parsing date_diff_days %q: %w", record[colDateDiff], err)
	}

	return model.MatchResult{
		Payment:       model.PaymentRecord{Date: paymentDate, Amount: paymentAmount},
		InvoiceNumber: record[colNumber],
		InvoiceDate:   invoiceDate,
		InvoiceAmount: invoiceAmount,
		DateDiffDays:  diff,
	}, nil
}
