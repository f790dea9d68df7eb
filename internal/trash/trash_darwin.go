//go:build darwin

package trash

import (
	"os"
	"path/filepath"
)

// macOS keeps the user's trash in ~/.Trash without metadata files.

func getPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".Trash")
}

func isAvailable() bool {
	root := getPath()
	if root == "" {
		return false
	}
	info, err := os.Stat(root)
	return err == nil && info.IsDir()
}

func moveToTrash(absPath string) error {
	dir := getPath()
	return os.Rename(absPath, filepath.Join(dir, uniqueName(dir, filepath.Base(absPath))))
}
