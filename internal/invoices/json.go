package invoices

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"

	"github.com/settled-dev/settled/internal/model"
)

// recordJSON is the wire form of an InvoiceRecord: ISO dates, nulls for
// absent fields, amounts as JSON numbers.
type recordJSON struct {
	SourceID      string           `json:"source_id"`
	InvoiceNumber *string          `json:"invoice_number"`
	InvoiceDate   *string          `json:"invoice_date"`
	RecipientName *string          `json:"recipient_name"`
	TotalAmount   *decimal.Decimal `json:"total_amount"`
	AmountGuessed bool             `json:"amount_guessed,omitempty"`
}

// WriteJSON writes invoice records as an indented JSON array.
func WriteJSON(w io.Writer, recs []model.InvoiceRecord) error {
	out := make([]recordJSON, 0, len(recs))
	for _, rec := range recs {
		j := recordJSON{
			SourceID:      rec.SourceID,
			InvoiceNumber: rec.InvoiceNumber,
			RecipientName: rec.RecipientName,
			TotalAmount:   rec.TotalAmount,
			AmountGuessed: rec.AmountGuessed,
		}
		if rec.InvoiceDate != nil {
			date := rec.InvoiceDate.Format(dateFormat)
			j.InvoiceDate = &date
		}
		out = append(out, j)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding invoices JSON: %w", err)
	}
	return nil
}

// ReadJSON reads an invoices.json array.
func ReadJSON(r io.Reader) ([]model.InvoiceRecord, error) {
	var in []recordJSON
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("decoding invoices JSON: %w", err)
	}

	var recs []model.InvoiceRecord
	for i, j := range in {
		if j.SourceID == "" {
			return nil, fmt.Errorf("record %d: missing source_id", i)
		}
		rec := model.InvoiceRecord{
			SourceID:      j.SourceID,
			InvoiceNumber: j.InvoiceNumber,
			RecipientName: j.RecipientName,
			TotalAmount:   j.TotalAmount,
			AmountGuessed: j.AmountGuessed,
		}
		if j.InvoiceDate != nil {
			date, err := time.Parse(dateFormat, *j.InvoiceDate)
			if err != nil {
				return nil, fmt.Errorf("record %d: parsing invoice_date %q: %w", i, *j.InvoiceDate, err)
			}
			rec.InvoiceDate = &date
		}
		recs = append(recs, rec)
	}
	return recs, nil
}
