package ledger

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/settled-dev/settled/internal/model"
)

// FileName is the ledger file inside a workspace.
const FileName = "payments.csv"

// Load reads payments.csv from a workspace root. A missing file is an
// empty ledger, not an error.
func Load(workspace string) ([]model.PaymentRecord, error) {
	path := filepath.Join(workspace, FileName)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening ledger %s: %w", path, err)
	}
	defer f.Close()

	payments, err := ReadPayments(f)
	if err != nil {
		return nil, fmt.Errorf("reading ledger %s: %w", path, err)
	}
	return payments, nil
}

// Save writes payments.csv under a workspace root.
func Save(workspace string, payments []model.PaymentRecord) error {
	path := filepath.Join(workspace, FileName)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating ledger %s: %w", path, err)
	}
	defer f.Close()

	if err := WritePayments(f, payments); err != nil {
		return fmt.Errorf("writing ledger %s: %w", path, err)
	}
	return nil
}
