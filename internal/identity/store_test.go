package identity

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/gridboot/internal/core/domain"
)

var testSealParams = SealParams{Time: 1, Memory: 8 * 1024, Threads: 1}

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "storage", "identity.json")
	opts = append([]Option{WithSealParams(testSealParams)}, opts...)
	return NewStore(path, opts...)
}

func TestStore_CreateThenLoad(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.GetOrCreate(ctx)
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	if first.Outcome != OutcomeCreated {
		t.Errorf("first outcome = %v, want created", first.Outcome)
	}
	if err := first.Identity.Validate(); err != nil {
		t.Fatalf("created identity invalid: %v", err)
	}

	info, err := os.Stat(s.Path())
	if err != nil {
		t.Fatalf("stat record: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("record mode = %o, want 600", perm)
	}
	before, _ := os.ReadFile(s.Path())
	if first.Digest != sha256.Sum256(before) {
		t.Error("created digest does not match the persisted bytes")
	}

	second, err := s.GetOrCreate(ctx)
	if err != nil {
		t.Fatalf("second GetOrCreate() error = %v", err)
	}
	if second.Outcome != OutcomeLoaded {
		t.Errorf("second outcome = %v, want loaded", second.Outcome)
	}
	if !first.Identity.Equal(second.Identity) {
		t.Error("identity changed between calls on the same volume")
	}
	if second.Digest != first.Digest {
		t.Error("loaded digest differs from the created digest")
	}

	after, _ := os.ReadFile(s.Path())
	if !bytes.Equal(before, after) {
		t.Error("loading must not rewrite the record")
	}
}

func TestStore_RecordLayout(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := newTestStore(t, WithClock(func() time.Time { return created }))

	res, err := s.GetOrCreate(context.Background())
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	id := res.Identity

	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("read record: %v", err)
	}
	var rec map[string]any
	if err := json.Unmarshal(data, &rec); err != nil {
		t.Fatalf("record is not JSON: %v", err)
	}
	if rec["version"] != float64(1) {
		t.Errorf("version = %v, want 1", rec["version"])
	}
	if rec["uid"] != id.UID {
		t.Errorf("uid = %v, want %s", rec["uid"], id.UID)
	}
	if rec["private_key"] != id.PrivateKeyHex() {
		t.Errorf("private_key = %v, want hex seed", rec["private_key"])
	}
	if rec["created_at"] != "2026-03-01T12:00:00Z" {
		t.Errorf("created_at = %v", rec["created_at"])
	}
	if _, ok := rec["sealed"]; ok {
		t.Error("unsealed record must not carry a sealed block")
	}
}

func TestStore_DeterministicRandom(t *testing.T) {
	seed := bytes.Repeat([]byte{0x42}, 64)
	s := newTestStore(t, WithRandom(bytes.NewReader(seed)))

	res, err := s.GetOrCreate(context.Background())
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	if !bytes.Equal(res.Identity.PrivateKey, seed[:domain.PrivateKeySize]) {
		t.Error("private key should be read from the random source")
	}
}

func TestStore_UnknownFieldsIgnored(t *testing.T) {
	s := newTestStore(t)
	if err := os.MkdirAll(filepath.Dir(s.Path()), 0o700); err != nil {
		t.Fatal(err)
	}
	record := `{
  "version": 1,
  "uid": "0123456789abcdef0123456789abcdef",
  "private_key": "` + strings.Repeat("ab", 32) + `",
  "future_field": {"nested": true}
}`
	if err := os.WriteFile(s.Path(), []byte(record), 0o600); err != nil {
		t.Fatal(err)
	}

	res, err := s.GetOrCreate(context.Background())
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	if res.Outcome != OutcomeLoaded || res.Identity.UID != "0123456789abcdef0123456789abcdef" {
		t.Errorf("got %v %q", res.Outcome, res.Identity.UID)
	}
	if res.Digest != sha256.Sum256([]byte(record)) {
		t.Error("loaded digest does not match the record bytes")
	}
}

func TestStore_CorruptRecord(t *testing.T) {
	validKey := strings.Repeat("ab", 32)
	validUID := "0123456789abcdef0123456789abcdef"

	tests := []struct {
		name    string
		content string
	}{
		{"empty file", ""},
		{"not json", "not json at all"},
		{"truncated json", `{"version": 1, "uid": "` + validUID},
		{"wrong version", `{"version": 2, "uid": "` + validUID + `", "private_key": "` + validKey + `"}`},
		{"missing version", `{"uid": "` + validUID + `", "private_key": "` + validKey + `"}`},
		{"bad key hex", `{"version": 1, "uid": "` + validUID + `", "private_key": "zz"}`},
		{"short key", `{"version": 1, "uid": "` + validUID + `", "private_key": "abcd"}`},
		{"missing key", `{"version": 1, "uid": "` + validUID + `"}`},
		{"short uid", `{"version": 1, "uid": "0123", "private_key": "` + validKey + `"}`},
		{"uppercase uid", `{"version": 1, "uid": "0123456789ABCDEF0123456789ABCDEF", "private_key": "` + validKey + `"}`},
		{"uid not hex", `{"version": 1, "uid": "` + strings.Repeat("g", 32) + `", "private_key": "` + validKey + `"}`},
		{"sealed without passphrase", `{"version": 1, "uid": "` + validUID + `", "sealed": {"kdf": "argon2id"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore(t)
			if err := os.MkdirAll(filepath.Dir(s.Path()), 0o700); err != nil {
				t.Fatal(err)
			}
			if err := os.WriteFile(s.Path(), []byte(tt.content), 0o600); err != nil {
				t.Fatal(err)
			}

			_, err := s.GetOrCreate(context.Background())
			if !errors.Is(err, domain.ErrCorruptIdentity) {
				t.Fatalf("GetOrCreate() error = %v, want ErrCorruptIdentity", err)
			}
			if got := domain.ExitCode(err); got != domain.ExitIdentity {
				t.Errorf("ExitCode() = %d, want %d", got, domain.ExitIdentity)
			}

			after, err := os.ReadFile(s.Path())
			if err != nil {
				t.Fatalf("record removed: %v", err)
			}
			if string(after) != tt.content {
				t.Error("corrupt record must not be overwritten")
			}
		})
	}
}

func TestStore_Unreadable(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root bypasses file permissions")
	}

	s := newTestStore(t)
	if _, err := s.GetOrCreate(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := os.Chmod(s.Path(), 0); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(s.Path(), 0o600) })

	_, err := s.GetOrCreate(context.Background())
	if !errors.Is(err, domain.ErrCorruptIdentity) {
		t.Fatalf("GetOrCreate() error = %v, want ErrCorruptIdentity", err)
	}
}

func TestStore_Sealed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "identity.json")
	ctx := context.Background()

	sealedStore := NewStore(path, WithPassphrase("correct horse"), WithSealParams(testSealParams))
	res, err := sealedStore.GetOrCreate(ctx)
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	if res.Outcome != OutcomeCreated {
		t.Fatalf("outcome = %v, want created", res.Outcome)
	}
	created := res.Identity

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Contains(raw, []byte(created.PrivateKeyHex())) {
		t.Fatal("sealed record contains the plain private key")
	}

	loaded, err := NewStore(path, WithPassphrase("correct horse")).GetOrCreate(ctx)
	if err != nil {
		t.Fatalf("reload with passphrase: %v", err)
	}
	if loaded.Outcome != OutcomeLoaded || !loaded.Identity.Equal(created) {
		t.Error("sealed record did not round-trip")
	}

	for name, store := range map[string]*Store{
		"no passphrase":    NewStore(path),
		"wrong passphrase": NewStore(path, WithPassphrase("battery staple")),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := store.GetOrCreate(ctx)
			if !errors.Is(err, domain.ErrCorruptIdentity) {
				t.Fatalf("GetOrCreate() error = %v, want ErrCorruptIdentity", err)
			}
			after, _ := os.ReadFile(path)
			if !bytes.Equal(raw, after) {
				t.Error("sealed record must not be overwritten")
			}
		})
	}
}

func TestStore_SealedRecordBoundToUID(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.json")
	ctx := context.Background()

	if _, err := NewStore(path, WithPassphrase("pw"), WithSealParams(testSealParams)).GetOrCreate(ctx); err != nil {
		t.Fatal(err)
	}

	var rec map[string]any
	raw, _ := os.ReadFile(path)
	if err := json.Unmarshal(raw, &rec); err != nil {
		t.Fatal(err)
	}
	rec["uid"] = "ffffffffffffffffffffffffffffffff"
	tampered, _ := json.Marshal(rec)
	if err := os.WriteFile(path, tampered, 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := NewStore(path, WithPassphrase("pw")).GetOrCreate(ctx)
	if !errors.Is(err, domain.ErrCorruptIdentity) {
		t.Fatalf("GetOrCreate() error = %v, want ErrCorruptIdentity", err)
	}
}

func TestStore_ContextCanceled(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.GetOrCreate(ctx)
	if !errors.Is(err, domain.ErrIdentityStore) {
		t.Fatalf("GetOrCreate() error = %v, want ErrIdentityStore", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error should wrap context.Canceled: %v", err)
	}
	if _, statErr := os.Stat(s.Path()); !os.IsNotExist(statErr) {
		t.Error("no record should be written after cancellation")
	}
}

// cancelingReader cancels its context on the first read, simulating a
// deadline that expires while a new identity is being generated.
type cancelingReader struct {
	cancel context.CancelFunc
	r      io.Reader
}

func (c *cancelingReader) Read(p []byte) (int, error) {
	c.cancel()
	return c.r.Read(p)
}

func TestStore_DeadlineDuringGeneration(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	random := &cancelingReader{cancel: cancel, r: bytes.NewReader(bytes.Repeat([]byte{0x5a}, 256))}
	s := newTestStore(t, WithRandom(random))

	// getOrCreate is the worker GetOrCreate abandons on deadline; it must
	// not persist a record once the deadline has passed.
	_, err := s.getOrCreate(ctx)
	if !errors.Is(err, domain.ErrIdentityStore) {
		t.Fatalf("getOrCreate() error = %v, want ErrIdentityStore", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error should wrap context.Canceled: %v", err)
	}
	if _, statErr := os.Stat(s.Path()); !os.IsNotExist(statErr) {
		t.Error("no record should be written after the deadline")
	}
}

func TestWriteExclusive_Collision(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "identity.json")

	if err := writeExclusive(path, []byte("first")); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := writeExclusive(path, []byte("second")); !errors.Is(err, errExists) {
		t.Fatalf("second write error = %v, want errExists", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "first" {
		t.Errorf("record = %q, want first writer's content", data)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, temporary files leaked", len(entries))
	}
}

func TestWriteExclusive_NoHardLinks(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"unsupported", errors.ErrUnsupported},
		{"permission", fs.ErrPermission},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := linkRecord
			linkRecord = func(oldname, newname string) error {
				return &os.LinkError{Op: "link", Old: oldname, New: newname, Err: tt.err}
			}
			t.Cleanup(func() { linkRecord = orig })

			dir := t.TempDir()
			path := filepath.Join(dir, "identity.json")

			if err := writeExclusive(path, []byte("first")); err != nil {
				t.Fatalf("first write: %v", err)
			}
			if err := writeExclusive(path, []byte("second")); !errors.Is(err, errExists) {
				t.Fatalf("second write error = %v, want errExists", err)
			}

			data, _ := os.ReadFile(path)
			if string(data) != "first" {
				t.Errorf("record = %q, want first writer's content", data)
			}
			info, err := os.Stat(path)
			if err != nil {
				t.Fatal(err)
			}
			if perm := info.Mode().Perm(); perm != 0o600 {
				t.Errorf("record mode = %o, want 600", perm)
			}

			entries, err := os.ReadDir(dir)
			if err != nil {
				t.Fatal(err)
			}
			if len(entries) != 1 {
				t.Errorf("directory has %d entries, temporary files leaked", len(entries))
			}
		})
	}
}

func TestWriteExclusive_LinkFailure(t *testing.T) {
	orig := linkRecord
	linkRecord = func(oldname, newname string) error {
		return &os.LinkError{Op: "link", Old: oldname, New: newname, Err: errors.New("i/o error")}
	}
	t.Cleanup(func() { linkRecord = orig })

	path := filepath.Join(t.TempDir(), "identity.json")
	if err := writeExclusive(path, []byte("first")); err == nil || errors.Is(err, errExists) {
		t.Fatalf("writeExclusive() error = %v, want link failure", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("no record should exist after a failed link")
	}
}

func TestOutcome_String(t *testing.T) {
	if OutcomeLoaded.String() != "loaded" || OutcomeCreated.String() != "created" || Outcome(0).String() != "unknown" {
		t.Error("unexpected outcome names")
	}
}
