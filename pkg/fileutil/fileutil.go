// =============================================================================
// eFactura Client - File Utilities
// =============================================================================
//
// File handling for the client:
//   - Discovery of legacy PDF invoices to migrate
//   - Saving gateway PDF artifacts without clobbering existing files
//   - Archival of source files after a successful migration
//
// ARCHIVAL STRATEGY:
//   Source PDFs are moved to the archive directory only after the gateway
//   confirms their migration. Failed files stay where they are so the run
//   can be repeated.
//
// =============================================================================

package fileutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DiscoverPDFs walks dir and returns every PDF file found, in walk order.
func DiscoverPDFs(dir string) ([]string, error) {
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if strings.EqualFold(filepath.Ext(path), ".pdf") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	return files, nil
}

// SaveArtifact writes a gateway artifact under dir with the given name and
// returns the path written. An existing file is never overwritten; the name
// gets a short unique suffix instead.
func SaveArtifact(dir, name string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, name)
	if FileExists(path) {
		path = filepath.Join(dir, uniqueName(name))
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

// uniqueName inserts a short random suffix before the extension.
func uniqueName(name string) string {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	return fmt.Sprintf("%s_%s%s", base, uuid.NewString()[:8], ext)
}

// ArchiveFile moves a file into archiveDir, creating it if needed, and
// returns the archived path. A cross-device rename falls back to copy and
// delete.
func ArchiveFile(path, archiveDir string) (string, error) {
	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	archivePath := filepath.Join(archiveDir, filepath.Base(path))
	if FileExists(archivePath) {
		archivePath = filepath.Join(archiveDir, uniqueName(filepath.Base(path)))
	}

	if err := os.Rename(path, archivePath); err != nil {
		if err := copyFile(path, archivePath); err != nil {
			return "", fmt.Errorf("failed to copy file to archive: %w", err)
		}
		if err := os.Remove(path); err != nil {
			return "", fmt.Errorf("failed to remove original file: %w", err)
		}
	}

	return archivePath, nil
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, sourceFile); err != nil {
		return err
	}
	return destFile.Sync()
}
