package api

import (
	"fmt"
	"time"

	"github.com/settled-dev/settled/internal/model"
)

// The API emits Prisma DateTime strings; older rows carry bare dates.
var apiDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02",
}

func parseAPIDate(s string) (time.Time, error) {
	for _, layout := range apiDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// ToPaymentRecord converts an API payment into the matcher's input form.
func (p Payment) ToPaymentRecord() (model.PaymentRecord, error) {
	date, err := parseAPIDate(p.Date)
	if err != nil {
		return model.PaymentRecord{}, fmt.Errorf("payment %s: %w", p.ID, err)
	}
	if !p.Amount.IsPositive() {
		return model.PaymentRecord{}, fmt.Errorf("payment %s: amount %s must be positive", p.ID, p.Amount)
	}
	return model.PaymentRecord{Date: date, Amount: p.Amount}, nil
}

// ToInvoiceRecord converts an API invoice into the matcher's input form.
// Fields the server has no value for stay absent.
func (inv Invoice) ToInvoiceRecord() (model.InvoiceRecord, error) {
	rec := model.InvoiceRecord{
		SourceID:      inv.FileName,
		InvoiceNumber: inv.InvoiceNumber,
		RecipientName: inv.RecipientName,
		TotalAmount:   inv.TotalAmount,
	}
	if rec.SourceID == "" {
		rec.SourceID = inv.ID
	}
	if inv.InvoiceDate != nil {
		date, err := parseAPIDate(*inv.InvoiceDate)
		if err != nil {
			return model.InvoiceRecord{}, fmt.Errorf("invoice %s: %w", inv.ID, err)
		}
		rec.InvoiceDate = &date
	}
	return rec, nil
}
