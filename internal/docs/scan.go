// Package docs enumerates invoice documents in a workspace and acquires
// their text. Text comes from a sidecar .txt when one exists, from OCR
// for images when a client is configured, and is empty otherwise; the
// extractor's degraded mode handles that case.
package docs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// docsDir is the subdirectory for invoice documents.
const docsDir = "invoices"

// processedDir is the subdirectory for documents already extracted.
const processedDir = "invoices/processed"

// docExtensions are the document types the scanner picks up.
var docExtensions = map[string]bool{
	".pdf":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".txt":  true,
}

// FileInfo describes one document in the invoices directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// IsImage reports whether the document is an image OCR can read.
func (f FileInfo) IsImage() bool {
	switch strings.ToLower(filepath.Ext(f.Name)) {
	case ".png", ".jpg", ".jpeg":
		return true
	}
	return false
}

// Scan returns documents in <workspace>/invoices/, sorted by name.
// A .txt file whose stem matches another document is that document's
// sidecar text, not a document of its own.
func Scan(workspace string) ([]FileInfo, error) {
	dir := filepath.Join(workspace, docsDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading invoices dir: %w", err)
	}

	stems := make(map[string]bool)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.EqualFold(filepath.Ext(name), ".txt") {
			stems[strings.TrimSuffix(name, filepath.Ext(name))] = true
		}
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if !docExtensions[ext] {
			continue
		}
		if ext == ".txt" && stems[strings.TrimSuffix(name, filepath.Ext(name))] {
			continue // sidecar of another document
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", name, err)
		}
		files = append(files, FileInfo{
			Name: name,
			Path: filepath.Join(dir, name),
			Size: info.Size(),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	return files, nil
}

// MarkProcessed moves a document (and its sidecar, if any) from
// invoices/ to invoices/processed/.
func MarkProcessed(workspace, fileName string) error {
	srcDir := filepath.Join(workspace, docsDir)
	dstDir := filepath.Join(workspace, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	if err := os.Rename(filepath.Join(srcDir, fileName), filepath.Join(dstDir, fileName)); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}

	sidecar := strings.TrimSuffix(fileName, filepath.Ext(fileName)) + ".txt"
	if sidecar != fileName {
		src := filepath.Join(srcDir, sidecar)
		if _, err := os.Stat(src); err == nil {
			if err := os.Rename(src, filepath.Join(dstDir, sidecar)); err != nil {
				return fmt.Errorf("moving sidecar %s to processed: %w", sidecar, err)
			}
		}
	}
	return nil
}
