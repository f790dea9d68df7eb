//go:build linux

package trash

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// Linux uses the freedesktop.org trash specification:
// files/ holds the trashed file and info/<name>.trashinfo records
// the original path and deletion date.

func getPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "Trash")
}

func isAvailable() bool {
	root := getPath()
	if root == "" {
		return false
	}
	for _, sub := range []string{"files", "info"} {
		if err := os.MkdirAll(filepath.Join(root, sub), 0700); err != nil {
			return false
		}
	}
	return true
}

func moveToTrash(absPath string) error {
	filesPath := filepath.Join(getPath(), "files")
	infoPath := filepath.Join(getPath(), "info")

	destName := uniqueName(filesPath, filepath.Base(absPath))
	infoContent := fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		(&url.URL{Path: absPath}).EscapedPath(),
		time.Now().Format("2006-01-02T15:04:05"))

	infoFile := filepath.Join(infoPath, destName+".trashinfo")
	if err := os.WriteFile(infoFile, []byte(infoContent), 0600); err != nil {
		return fmt.Errorf("write trashinfo: %w", err)
	}
	if err := os.Rename(absPath, filepath.Join(filesPath, destName)); err != nil {
		os.Remove(infoFile)
		return err
	}
	return nil
}
