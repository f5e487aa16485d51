// Package validation provides filesystem path checks shared by the config
// loader and storage adapters.
package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path[2:])
	}
	return path
}

// PathWithinRoot reports an error when fullPath resolves outside rootDir.
// It is meant to run after filepath.Join on an already validated name.
func PathWithinRoot(rootDir, fullPath string) error {
	rel, err := filepath.Rel(filepath.Clean(rootDir), filepath.Clean(fullPath))
	if err != nil {
		return fmt.Errorf("path escapes root directory: %w", err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("path escapes root directory")
	}
	return nil
}
