package path

import (
	"fmt"
	"io/fs"
	"os"
)

// pathExists reports whether path can be stat'ed.
func pathExists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// renameNoReplace renames from to to inside dir (which ends with a
// separator). An existing target is never overwritten, unless it is the
// source itself as happens with case-only renames on case-insensitive
// filesystems.
func renameNoReplace(dir, from, to string) error {
	src, dst := dir+from, dir+to
	if from == to {
		if !pathExists(src) {
			return &os.LinkError{Op: "rename", Old: src, New: dst, Err: fs.ErrNotExist}
		}
		return nil
	}
	if dstInfo, err := os.Lstat(dst); err == nil {
		srcInfo, serr := os.Lstat(src)
		if serr != nil || !os.SameFile(srcInfo, dstInfo) {
			return &os.LinkError{Op: "rename", Old: src, New: dst, Err: fs.ErrExist}
		}
	}
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// findErrorCause explains a failed rename after the fact.
func findErrorCause(src, dst string) ErrorCode {
	if !pathExists(src) {
		return SourceNotFound
	}
	if pathExists(dst) {
		return AlreadyExist
	}
	return Unknown
}
