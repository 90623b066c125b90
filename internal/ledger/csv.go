// Package ledger reads and writes payments.csv, the externally supplied
// list of payments still waiting for an invoice.
package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/settled-dev/settled/internal/model"
)

// Header is the CSV header for payments.csv.
const Header = "date,amount"

const (
	numFields  = 2
	dateFormat = "2006-01-02"
	colDate    = 0
	colAmount  = 1
)

// ReadPayments reads all payments from a payments.csv reader. Malformed
// rows fail the whole read: match totals depend on every amount being
// right, so a bad row must be fixed, not skipped.
func ReadPayments(r io.Reader) ([]model.PaymentRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading payments CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var payments []model.PaymentRecord
	for i, rec := range records[1:] {
		p, err := UnmarshalPayment(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		payments = append(payments, p)
	}
	return payments, nil
}

// WritePayments writes payments to a payments.csv writer (including header).
func WritePayments(w io.Writer, payments []model.PaymentRecord) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, p := range payments {
		if err := cw.Write(MarshalPayment(p)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalPayment converts a PaymentRecord to a CSV row.
func MarshalPayment(p model.PaymentRecord) []string {
	row := make([]string, numFields)
	row[colDate] = p.Date.Format(dateFormat)
	row[colAmount] = p.Amount.StringFixed(2)
	return row
}

// UnmarshalPayment converts a CSV row to a PaymentRecord.
func UnmarshalPayment(record []string) (model.PaymentRecord, error) {
	if len(record) != numFields {
		return model.PaymentRecord{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	date, err := time.Parse(dateFormat, record[colDate])
	if err != nil {
		return model.PaymentRecord{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.PaymentRecord{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}
	if !amount.IsPositive() {
		return model.PaymentRecord{}, fmt.Errorf("amount %q must be positive", record[colAmount])
	}
	if !amount.Equal(amount.Round(2)) {
		return model.PaymentRecord{}, fmt.Errorf("amount %q has more than 2 decimal places", record[colAmount])
	}

	return model.PaymentRecord{Date: date, Amount: amount}, nil
}
