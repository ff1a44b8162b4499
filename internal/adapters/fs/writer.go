package fs

import (
	"fmt"
	"os"
	"path/filepath"
)

// Writer implements ports.DocumentWriter on the local filesystem.
type Writer struct {
	Perm os.FileMode
}

// NewWriter creates a writer producing world-readable files.
func NewWriter() *Writer {
	return &Writer{Perm: 0o644}
}

// WriteDocument truncates path and writes content to it.
func (w *Writer) WriteDocument(path string, content []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, content, w.Perm); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
