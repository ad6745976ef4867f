package batch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// writeAtomic writes data to dir/name through a temporary file in the same
// directory followed by a rename, replacing any existing file.
func writeAtomic(dir, name string, data []byte) (string, error) {
	path := filepath.Join(dir, name)

	tmp, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}

	tmpPath := tmp.Name()

	_, werr := tmp.Write(data)
	cerr := tmp.Close()

	if err := errors.Join(werr, cerr); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err := os.Chmod(tmpPath, 0o644); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to rename %s: %w", path, err)
	}

	return path, nil
}
