// Package atomicfile provides the atomic-rewrite-by-rename discipline used
// for every durable write in Hive: status records, config files, and PID
// files. A writer serializes the new content into a sibling temp file and
// renames over the destination; rename is atomic within a directory on
// supported filesystems, so readers never observe a partial write.
package atomicfile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// Write atomically replaces the file at path with data.
//
// 1. create a temp file in the same directory as path (same filesystem,
//    so the final rename is atomic)
// 2. write + fsync the temp file
// 3. rename the temp file over path
//
// If any step fails, path is left unchanged and the temp file is removed.
func Write(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if tmp != nil {
			tmp.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("set permissions on %s: %w", tmpPath, err)
	}

	if err := renameWithRetry(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file to %s: %w", path, err)
	}
	tmp = nil // renamed away; nothing left to clean up
	return nil
}

// renameWithRetry retries once on a transient rename collision (§7
// recovery policy: "single atomic-rewrite retry on a transient rename
// collision").
func renameWithRetry(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}
	return os.Rename(src, dst)
}

// Read reads path, retrying once if the file is momentarily absent — a
// writer may be between "create temp" and "rename" (§4.4: "Readers
// tolerate the destination being momentarily absent by retrying once").
func Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		return data, nil
	}
	if !os.IsNotExist(err) {
		return nil, err
	}
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Lock returns a gofrs/flock-backed advisory lock guarding path. The lock
// file is path + ".lock".
func Lock(path string) *flock.Flock {
	return flock.New(path + ".lock")
}

// WriteLocked acquires the advisory lock for path and performs an atomic
// write while holding it.
func WriteLocked(path string, data []byte, perm os.FileMode) error {
	lock := Lock(path)
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("acquire lock for %s: %w", path, err)
	}
	defer lock.Unlock()
	return Write(path, data, perm)
}
