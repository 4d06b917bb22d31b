package util

import (
	"fmt"
	"io"
	"os"
	"time"

	cp "github.com/otiai10/copy"
)

// FileExists checks if a file or directory exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// DirExists checks if path exists and is a directory
func DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// MkdirAll creates all given directories (and their parents)
func MkdirAll(paths ...string) error {
	for _, path := range paths {
		if err := os.MkdirAll(path, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", path, err)
		}
	}
	return nil
}

// IsDirEmpty reports whether a directory contains no entries.
// A non-existent directory is considered empty.
func IsDirEmpty(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return true, nil
		}
		return false, err
	}
	defer f.Close()

	_, err = f.Readdirnames(1)
	if err == io.EOF {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return false, nil
}

// BackupFile makes a timestamped copy of path next to the original and
// returns the backup path. The copy is unconditional so the pre-run content
// can always be recovered. If the timestamped name is already taken (two
// backups within the same second), a numeric suffix is appended.
func BackupFile(path string) (string, error) {
	stamp := time.Now().Format("20060102-150405")
	backup := fmt.Sprintf("%s.bak-%s", path, stamp)
	for i := 1; FileExists(backup); i++ {
		backup = fmt.Sprintf("%s.bak-%s.%d", path, stamp, i)
	}

	if err := cp.Copy(path, backup); err != nil {
		return "", fmt.Errorf("failed to back up %s: %w", path, err)
	}

	return backup, nil
}

// RemoveIfExists removes a file or directory tree if it exists.
// Returns true if something was removed.
func RemoveIfExists(path string) (bool, error) {
	if !FileExists(path) {
		return false, nil
	}
	if err := os.RemoveAll(path); err != nil {
		return false, err
	}
	return true, nil
}
