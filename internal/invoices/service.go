package invoices

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/settled-dev/settled/internal/model"
)

// Workspace file names for the invoice store.
const (
	CSVFileName  = "invoices.csv"
	JSONFileName = "invoices.json"
)

// Service provides in-memory lookup over extracted invoice records.
type Service struct {
	records  []model.InvoiceRecord
	byNumber map[string]model.InvoiceRecord
}

// NewService creates a Service from a slice of records.
func NewService(records []model.InvoiceRecord) *Service {
	byNumber := make(map[string]model.InvoiceRecord, len(records))
	for _, rec := range records {
		if rec.InvoiceNumber != nil {
			byNumber[*rec.InvoiceNumber] = rec
		}
	}
	return &Service{records: records, byNumber: byNumber}
}

// Load reads invoices.csv from a workspace root and returns a Service.
func Load(workspace string) (*Service, error) {
	path := filepath.Join(workspace, CSVFileName)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewService(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening invoice store: %w", err)
	}
	defer f.Close()

	recs, err := ReadRecords(f)
	if err != nil {
		return nil, fmt.Errorf("reading invoice store: %w", err)
	}
	return NewService(recs), nil
}

// All returns all records.
func (s *Service) All() []model.InvoiceRecord {
	return s.records
}

// Get returns a record by invoice number.
func (s *Service) Get(number string) (model.InvoiceRecord, bool) {
	rec, ok := s.byNumber[number]
	return rec, ok
}

// Add appends records to the store.
func (s *Service) Add(recs ...model.InvoiceRecord) {
	for _, rec := range recs {
		s.records = append(s.records, rec)
		if rec.InvoiceNumber != nil {
			s.byNumber[*rec.InvoiceNumber] = rec
		}
	}
}

// Save writes invoices.csv and invoices.json under a workspace root.
func (s *Service) Save(workspace string) error {
	csvPath := filepath.Join(workspace, CSVFileName)
	f, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", csvPath, err)
	}
	defer f.Close()

	if err := WriteRecords(f, s.records); err != nil {
		return fmt.Errorf("writing %s: %w", csvPath, err)
	}

	jsonPath := filepath.Join(workspace, JSONFileName)
	jf, err := os.Create(jsonPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", jsonPath, err)
	}
	defer jf.Close()

	if err := WriteJSON(jf, s.records); err != nil {
		return fmt.Errorf("writing %s: %w", jsonPath, err)
	}
	return nil
}
