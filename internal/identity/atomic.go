package identity

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// errExists reports that the target appeared while the new record was
// being written.
var errExists = errors.New("identity record already exists")

// linkRecord is os.Link; tests replace it to simulate volumes without
// hard links.
var linkRecord = os.Link

// writeExclusive creates path with data, failing with errExists when path
// already exists. The content is written to a temporary file in the same
// directory, fsynced, and hard-linked into place so readers never observe
// a partial record. Volumes that refuse hard links fall back to an
// exclusive create of path itself. The parent directory is fsynced
// afterwards.
func writeExclusive(path string, data []byte) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temporary record: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temporary record: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temporary record: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temporary record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temporary record: %w", err)
	}

	if err := linkRecord(tmpPath, path); err != nil {
		switch {
		case errors.Is(err, fs.ErrExist):
			return errExists
		case errors.Is(err, errors.ErrUnsupported), errors.Is(err, fs.ErrPermission):
			if err := createExclusive(path, data); err != nil {
				return err
			}
		default:
			return fmt.Errorf("link record into place: %w", err)
		}
	}

	return syncDir(dir)
}

// createExclusive writes data to path with O_EXCL. A failed write removes
// the partial record it created.
func createExclusive(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return errExists
		}
		return fmt.Errorf("create record: %w", err)
	}

	_, err = f.Write(data)
	if err == nil {
		err = f.Sync()
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return fmt.Errorf("write record: %w", err)
	}
	return nil
}

func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return fmt.Errorf("open record directory: %w", err)
	}
	defer d.Close()
	if err := d.Sync(); err != nil {
		return fmt.Errorf("sync record directory: %w", err)
	}
	return nil
}
