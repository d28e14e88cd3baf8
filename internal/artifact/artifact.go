// Package artifact assembles and persists the final mapping artifact.
package artifact

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/protmap/idremap/internal/engine"
)

// Assemble concatenates the raw text of all successful chunks in chunk
// order. Failed chunks contribute nothing.
func Assemble(result engine.JobResult) []byte {
	var buf []byte
	for _, chunk := range result.Chunks {
		if chunk.Failed() {
			continue
		}
		buf = append(buf, chunk.Text...)
	}
	return buf
}

// Write persists data to path, creating parent directories as needed.
func Write(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing artifact %s: %w", path, err)
	}
	return nil
}
