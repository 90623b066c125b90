// Package invoices stores extracted InvoiceRecords as invoices.csv and
// invoices.json under a workspace root. Absent fields stay absent across
// a round-trip: empty CSV cells and JSON nulls, never zero values.
package invoices

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

// Header is the CSV header for invoices.csv.
const Header = "source_id,invoice_number,invoice_date,recipient_name,total_amount,amount_guessed"

const (
	numFields     = 6
	dateFormat    = "2006-01-02"
	colSourceID   = 0
	colNumber     = 1
	colDate       = 2
	colRecipient  = 3
	colAmount     = 4
	colGuessed    = 5
)

// ReadRecords reads all invoice records from an invoices.csv reader.
func ReadRecords(r io.Reader) ([]model.InvoiceRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading invoices CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	// Skip header row.
	var recs []model.InvoiceRecord
	for i, rec := range records[1:] {
		inv, err := UnmarshalRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		recs = append(recs, inv)
	}
	return recs, nil
}

// WriteRecords writes invoice records to an invoices.csv writer (including header).
func WriteRecords(w io.Writer, recs []model.InvoiceRecord) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, rec := range recs {
		if err := cw.Write(MarshalRecord(rec)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

// MarshalRecord converts an InvoiceRecord to a CSV row. Absent fields
// become empty cells.
func MarshalRecord(rec model.InvoiceRecord) []string {
	row := make([]string, numFields)
	row[colSourceID] = rec.SourceID

	if rec.InvoiceNumber != nil {
		row[colNumber] = *rec.InvoiceNumber
	}
	if rec.InvoiceDate != nil {
		row[colDate] = rec.InvoiceDate.Format(dateFormat)
	}
	if rec.RecipientName != nil {
		row[colRecipient] = *rec.RecipientName
	}
	if rec.TotalAmount != nil {
		row[colAmount] = rec.TotalAmount.StringFixed(2)
	}
	if rec.AmountGuessed {
		row[colGuessed] = "true"
	}
	return row
}

// UnmarshalRecord converts a CSV row to an InvoiceRecord.
func UnmarshalRecord(record []string) (model.InvoiceRecord, error) {
	if len(record) != numFields {
		return model.InvoiceRecord{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}
	if record[colSourceID] == "" {
		return model.InvoiceRecord{}, fmt.Errorf("missing source_id")
	}

	rec := model.InvoiceRecord{SourceID: record[colSourceID]}

	if v := record[colNumber]; v != "" {
		rec.InvoiceNumber = &v
	}
	if v := record[colDate]; v != "" {
		date, err := time.Parse(dateFormat, v)
		if err != nil {
			return model.InvoiceRecord{}, fmt.Errorf("parsing invoice_date %q: %w", v, err)
		}
		rec.InvoiceDate = &date
	}
	if v := record[colRecipient]; v != "" {
		rec.RecipientName = &v
	}
	if v := record[colAmount]; v != "" {
		amount, err := decimal.NewFromString(v)
		if err != nil {
			return model.InvoiceRecord{}, fmt.Errorf("parsing total_amount %q: %w", v, err)
		}
		if amount.IsNegative() {
			return model.InvoiceRecord{}, fmt.Errorf("total_amount %q must not be negative", v)
		}
		rec.TotalAmount = &amount
	}
	if v := record[colGuessed]; v != "" {
		guessed, err := strconv.ParseBool(v)
		if err != nil {
			return model.InvoiceRecord{}, fmt.Errorf("parsing amount_guessed %q: %w", v, err)
		}
		rec.AmountGuessed = guessed
	}

	return rec, nil
}
