package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Version is the wordmail release version
const Version = "0.3.1"

// NormalizeKey reduces a vocabulary line or sentence to its canonical form
// used as a key in the sent set, the blocklist and the translation cache:
// trimmed, lower-cased, inner whitespace collapsed to single spaces.
func NormalizeKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// WriteFileAtomic writes data to a temp file in the target directory and
// renames it over the destination, so a process kill mid-write can never
// leave a truncated file behind.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("failed to replace file: %w", err)
	}

	return nil
}
