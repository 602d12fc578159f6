package util

import (
	"fmt"
	"os"
	"path/filepath"
)

// ValidateDir checks that a path is usable as the library output directory:
// it must be absolute and either be a writable directory or be creatable.
func ValidateDir(dirPath string) error {
	if dirPath == "" {
		return fmt.Errorf("directory path cannot be empty")
	}
	if !filepath.IsAbs(dirPath) {
		return fmt.Errorf("directory path must be absolute: %s", dirPath)
	}

	info, err := os.Stat(dirPath)
	if err == nil {
		if !info.IsDir() {
			return fmt.Errorf("path exists but is not a directory: %s", dirPath)
		}
		return checkWritePermission(dirPath)
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("cannot access path: %w", err)
	}

	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return fmt.Errorf("cannot create directory: %w", err)
	}
	return checkWritePermission(dirPath)
}

func checkWritePermission(dirPath string) error {
	tempFile := filepath.Join(dirPath, ".novelkeep_write_check")
	file, err := os.Create(tempFile)
	if err != nil {
		return fmt.Errorf("no write permission for directory: %w", err)
	}
	file.Close()
	os.Remove(tempFile)
	return nil
}
