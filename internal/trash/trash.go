// Package trash moves discarded files (removed saved settings, pruned logs)
// to the desktop trash instead of deleting them.
package trash

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/justyntemme/renamer/internal/debug"
)

// ErrUnavailable is returned when the platform has no usable trash.
var ErrUnavailable = errors.New("trash not available")

// MoveToTrash moves a file to the system trash.
func MoveToTrash(path string) error {
	if !isAvailable() {
		return ErrUnavailable
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := os.Lstat(abs); err != nil {
		return err
	}
	if err := moveToTrash(abs); err != nil {
		return fmt.Errorf("move %s to trash: %w", abs, err)
	}
	debug.Log(debug.SETTINGS, "trash: moved %s", abs)
	return nil
}

// Discard trashes path, or deletes it when the platform has no trash.
// It reports whether the file went to the trash.
func Discard(path string) (bool, error) {
	err := MoveToTrash(path)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, ErrUnavailable) {
		return false, err
	}
	if err := os.Remove(path); err != nil {
		return false, err
	}
	return false, nil
}

// Path returns the trash directory, or "" when there is none.
func Path() string {
	return getPath()
}

// IsAvailable reports whether MoveToTrash can work here.
func IsAvailable() bool {
	return isAvailable()
}

// uniqueName returns base, or base with a counter before its extension,
// such that it does not exist in dir.
func uniqueName(dir, base string) string {
	name := base
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	for i := 1; ; i++ {
		if _, err := os.Lstat(filepath.Join(dir, name)); os.IsNotExist(err) {
			return name
		}
		name = fmt.Sprintf("%s.%d%s", stem, i, ext)
	}
}
