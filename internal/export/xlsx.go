// Package export writes a reconciliation workbook: one sheet of matches,
// one of unmatched payments, one of the extracted invoice records.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/settled-dev/settled/internal/model"
)

// exportsDir is the subdirectory for generated workbooks.
const exportsDir = "exports"

const dateFormat = "2006-01-02"

// WriteWorkbook builds the XLSX bytes for a reconciliation run.
func WriteWorkbook(rep model.Report, invoices []model.InvoiceRecord) ([]byte, error) {
	f := excelize.NewFile()

	if err := writeMatches(f, rep.Matches); err != nil {
		return nil, err
	}
	if err := writeUnmatched(f, rep.Unmatched); err != nil {
		return nil, err
	}
	if err := writeInvoices(f, invoices); err != nil {
		return nil, err
	}

	// Drop excelize's default sheet.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("removing default sheet: %w", err)
	}
	if idx, err := f.GetSheetIndex("Matches"); err == nil {
		f.SetActiveSheet(idx)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes the workbook under <workspace>/exports/ and returns its path.
func Save(workspace string, rep model.Report, invoices []model.InvoiceRecord, now time.Time) (string, error) {
	data, err := WriteWorkbook(rep, invoices)
	if err != nil {
		return "", err
	}

	dir := filepath.Join(workspace, exportsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating exports dir: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("reconciliation-%s.xlsx", now.Format("20060102-150405")))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}

func writeMatches(f *excelize.File, matches []model.MatchResult) error {
	const sheet = "Matches"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("creating sheet %s: %w", sheet, err)
	}

	headers := []string{"Payment Date", "Payment Amount", "Invoice Number", "Invoice Date", "Invoice Amount", "Days Diff"}
	if err := writeHeader(f, sheet, headers); err != nil {
		return err
	}

	for i, m := range matches {
		row := i + 2
		setCell(f, sheet, 1, row, m.Payment.Date.Format(dateFormat))
		setCell(f, sheet, 2, row, m.Payment.Amount.StringFixed(2))
		setCell(f, sheet, 3, row, m.InvoiceNumber)
		setCell(f, sheet, 4, row, m.InvoiceDate.Format(dateFormat))
		setCell(f, sheet, 5, row, m.InvoiceAmount.StringFixed(2))
		setCell(f, sheet, 6, row, m.DateDiffDays)
	}

	if err := f.SetColWidth(sheet, "A", "F", 16); err != nil {
		return fmt.Errorf("sizing sheet %s: %w", sheet, err)
	}
	return nil
}

func writeUnmatched(f *excelize.File, payments []model.PaymentRecord) error {
	const sheet = "Unmatched"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("creating sheet %s: %w", sheet, err)
	}

	if err := writeHeader(f, sheet, []string{"Payment Date", "Payment Amount"}); err != nil {
		return err
	}
	for i, p := range payments {
		row := i + 2
		setCell(f, sheet, 1, row, p.Date.Format(dateFormat))
		setCell(f, sheet, 2, row, p.Amount.StringFixed(2))
	}

	if err := f.SetColWidth(sheet, "A", "B", 16); err != nil {
		return fmt.Errorf("sizing sheet %s: %w", sheet, err)
	}
	return nil
}

func writeInvoices(f *excelize.File, invoices []model.InvoiceRecord) error {
	const sheet = "Invoices"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("creating sheet %s: %w", sheet, err)
	}

	headers := []string{"Source", "Invoice Number", "Invoice Date", "Recipient", "Total Amount", "Amount Guessed"}
	if err := writeHeader(f, sheet, headers); err != nil {
		return err
	}

	for i, rec := range invoices {
		row := i + 2
		setCell(f, sheet, 1, row, rec.SourceID)
		if rec.InvoiceNumber != nil {
			setCell(f, sheet, 2, row, *rec.InvoiceNumber)
		}
		if rec.InvoiceDate != nil {
			setCell(f, sheet, 3, row, rec.InvoiceDate.Format(dateFormat))
		}
		if rec.RecipientName != nil {
			setCell(f, sheet, 4, row, *rec.RecipientName)
		}
		if rec.TotalAmount != nil {
			setCell(f, sheet, 5, row, rec.TotalAmount.StringFixed(2))
		}
		if rec.AmountGuessed {
			setCell(f, sheet, 6, row, "yes")
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 28); err != nil {
		return fmt.Errorf("sizing sheet %s: %w", sheet, err)
	}
	if err := f.SetColWidth(sheet, "B", "F", 16); err != nil {
		return fmt.Errorf("sizing sheet %s: %w", sheet, err)
	}
	if err := f.SetColWidth(sheet, "D", "D", 40); err != nil {
		return fmt.Errorf("sizing sheet %s: %w", sheet, err)
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, headers []string) error {
	for i, h := range headers {
		setCell(f, sheet, i+1, 1, h)
	}
	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, v any) {
	cell, _ := excelize.CoordinatesToCellName(col, row)
	_ = f.SetCellValue(sheet, cell, v)
}
