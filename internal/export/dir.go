package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"template_builder/internal/types"
)

// WriteDir writes files under dir, creating it and any subdirectories, and
// returns the written paths. Names that would escape dir are rejected.
func WriteDir(dir string, files []types.GeneratedFile) ([]string, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output dir: %w", err)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	written := make([]string, 0, len(files))
	for _, f := range files {
		filePath := filepath.Join(root, filepath.FromSlash(f.Filename))
		if filePath != root && !strings.HasPrefix(filePath, root+string(filepath.Separator)) {
			return written, fmt.Errorf("file %q escapes output dir", f.Filename)
		}
		// Ensure subdirectories exist (if any specified in filename like 'js/app.js')
		if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
			return written, fmt.Errorf("failed to create subdirectories for %s: %w", f.Filename, err)
		}
		if err := os.WriteFile(filePath, []byte(f.Content), 0o644); err != nil {
			return written, fmt.Errorf("failed to write file %s: %w", f.Filename, err)
		}
		written = append(written, filePath)
	}
	return written, nil
}
