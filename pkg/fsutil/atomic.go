// Package fsutil provides atomic file writes.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
)

// TempPrefix names the temporary files AtomicWrite creates. A leftover
// file with this prefix is the remains of an interrupted write.
const TempPrefix = ".zonectl-tmp-"

// AtomicWrite writes data to a temporary file in the target directory,
// fsyncs it, then renames it over path. Readers see either the old or the
// new content, never a partial file.
func AtomicWrite(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, TempPrefix+"*")
	if err != nil {
		return fmt.Errorf("atomic write create tmp: %w", err)
	}
	tmpPath := tmp.Name()

	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("atomic write: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		return fmt.Errorf("atomic write chmod: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("atomic write fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("atomic write close: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("atomic write rename: %w", err)
	}
	committed = true

	d, err := os.Open(dir)
	if err != nil {
		return fmt.Errorf("atomic write open dir: %w", err)
	}
	defer d.Close()
	return d.Sync()
}
