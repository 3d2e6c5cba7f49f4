//go:build unix

package identity

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/yndnr/gridboot/internal/core/domain"
)

func TestAcquireLock_Contention(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.json.lock")

	unlock, err := acquireLock(path)
	if err != nil {
		t.Fatalf("first acquireLock() error = %v", err)
	}

	if _, err := acquireLock(path); !errors.Is(err, errLocked) {
		t.Fatalf("second acquireLock() error = %v, want errLocked", err)
	}

	if err := unlock(); err != nil {
		t.Fatalf("unlock() error = %v", err)
	}

	again, err := acquireLock(path)
	if err != nil {
		t.Fatalf("acquireLock() after unlock error = %v", err)
	}
	again()
}

func TestStore_ConcurrentWriter(t *testing.T) {
	s := newTestStore(t)
	if err := os.MkdirAll(filepath.Dir(s.Path()), 0o700); err != nil {
		t.Fatal(err)
	}

	unlock, err := acquireLock(s.LockPath())
	if err != nil {
		t.Fatal(err)
	}
	defer unlock()

	_, err = s.GetOrCreate(context.Background())
	if !errors.Is(err, domain.ErrConcurrentWriter) {
		t.Fatalf("GetOrCreate() error = %v, want ErrConcurrentWriter", err)
	}
	if _, statErr := os.Stat(s.Path()); !os.IsNotExist(statErr) {
		t.Error("no record should be written while another process holds the lock")
	}
}
