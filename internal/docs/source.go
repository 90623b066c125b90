package docs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// OCRClient produces text from image bytes. Satisfied by vision.Client.
type OCRClient interface {
	DetectText(ctx context.Context, image []byte) (string, error)
}

// Source resolves the text for a document: sidecar .txt first, then OCR
// for images, then nothing.
type Source struct {
	ocr OCRClient // nil disables OCR
}

// NewSource creates a text Source. Pass nil to run without OCR.
func NewSource(ocr OCRClient) *Source {
	return &Source{ocr: ocr}
}

// Text returns the document's text, or "" when no source can provide
// any. The caller decides whether empty text is worth a warning.
func (s *Source) Text(ctx context.Context, file FileInfo) (string, error) {
	if strings.EqualFold(filepath.Ext(file.Name), ".txt") {
		data, err := os.ReadFile(file.Path)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", file.Name, err)
		}
		return string(data), nil
	}

	sidecar := strings.TrimSuffix(file.Path, filepath.Ext(file.Path)) + ".txt"
	if data, err := os.ReadFile(sidecar); err == nil {
		return string(data), nil
	}

	if file.IsImage() && s.ocr != nil {
		data, err := os.ReadFile(file.Path)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", file.Name, err)
		}
		text, err := s.ocr.DetectText(ctx, data)
		if err != nil {
			return "", fmt.Errorf("ocr %s: %w", file.Name, err)
		}
		return text, nil
	}

	return "", nil
}
