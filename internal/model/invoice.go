package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceRecord holds the fields extracted from a single invoice document.
// Only SourceID is guaranteed; every other field is nil when extraction
// could not find it. Absent stays absent: no empty strings, no zero amounts.
type InvoiceRecord struct {
	SourceID      string           // originating document, e.g. "GGTS-0985.pdf"
	InvoiceNumber *string          // uppercase, e.g. "GGTS-0985"
	InvoiceDate   *time.Time       // date only, no time component
	RecipientName *string
	TotalAmount   *decimal.Decimal // non-negative, 2 decimal places
	AmountGuessed bool             // amount came from the largest-token fallback
}

// HasAmount reports whether a total amount was extracted.
func (r InvoiceRecord) HasAmount() bool { return r.TotalAmount != nil }

// Number returns the invoice number or "" when unknown.
func (r InvoiceRecord) Number() string {
	if r.InvoiceNumber == nil {
		return ""
	}
	return *r.InvoiceNumber
}
