// Package archive moves a finished state directory aside so a new learning
// cycle can start from an empty sent history without losing the old one.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ArchiveState moves the state directory to an archive with timestamp
func ArchiveState(stateDir string) error {
	if _, err := os.Stat(stateDir); os.IsNotExist(err) {
		return fmt.Errorf("state directory does not exist: %s", stateDir)
	}

	parentDir := filepath.Dir(stateDir)
	archiveDir := filepath.Join(parentDir, "archive")

	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return fmt.Errorf("failed to create archive directory: %w", err)
	}

	timestamp := time.Now().Format("20060102-150405")
	archiveName := fmt.Sprintf("wordmail-%s", timestamp)
	archivePath := filepath.Join(archiveDir, archiveName)

	// Check if archive already exists (unlikely but possible)
	if _, err := os.Stat(archivePath); err == nil {
		// Add microseconds to make it unique
		timestamp = time.Now().Format("20060102-150405.000000")
		archiveName = fmt.Sprintf("wordmail-%s", timestamp)
		archivePath = filepath.Join(archiveDir, archiveName)
	}

	if err := os.Rename(stateDir, archivePath); err != nil {
		return fmt.Errorf("failed to archive state directory: %w", err)
	}

	fmt.Printf("State directory archived to: %s\n", archivePath)
	return nil
}
