package ioutils

import (
	"os"
	"path/filepath"
)

// EnsureDir creates a directory and all parent directories if they
// don't exist. Directories are created with mode 0755.
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// WriteFileAtomic writes data to path via a temp file in the same
// directory, renaming it into place only after a successful write.
// A failed write never leaves a partial file under the final name.
//
// Example:
//
//	err := WriteFileAtomic("/audiobooks/Book/cover.jpg", jpegBytes)
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	_, err = tmp.Write(data)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
