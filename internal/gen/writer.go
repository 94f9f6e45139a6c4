package gen

import (
	"fmt"
	"os"
	"path/filepath"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// WriteFiles writes all generated files to the output directory.
// It creates the directory if it doesn't exist. A stale debug sidecar of a
// file that now formats cleanly is removed.
func WriteFiles(files []GeneratedFile, outputDir string) error {
	err := os.MkdirAll(outputDir, dirPerm)
	if err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	for _, file := range files {
		outputPath := filepath.Join(outputDir, file.Filename)

		err := os.WriteFile(outputPath, file.Content, filePerm)
		if err != nil {
			return fmt.Errorf("writing file %s: %w", file.Filename, err)
		}

		err = os.Remove(filepath.Join(outputDir, debugName(file.Filename)))
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing debug file for %s: %w", file.Filename, err)
		}
	}

	return nil
}
