package identity

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/yndnr/gridboot/internal/core/domain"
	"github.com/yndnr/gridboot/internal/telemetry/logger"
)

// Outcome reports how GetOrCreate obtained the identity.
type Outcome int

const (
	// OutcomeLoaded means a valid record was read from disk.
	OutcomeLoaded Outcome = iota + 1
	// OutcomeCreated means a new identity was generated and persisted.
	OutcomeCreated
)

// String returns the outcome name used in logs and metrics.
func (o Outcome) String() string {
	switch o {
	case OutcomeLoaded:
		return "loaded"
	case OutcomeCreated:
		return "created"
	default:
		return "unknown"
	}
}

var errLocked = errors.New("identity lock is held by another process")

// Store reads or creates the identity record at a fixed path.
type Store struct {
	path       string
	passphrase string
	params     SealParams
	random     io.Reader
	now        func() time.Time
	logger     logger.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithPassphrase seals new records and unseals existing ones.
func WithPassphrase(passphrase string) Option {
	return func(s *Store) { s.passphrase = passphrase }
}

// WithSealParams overrides the Argon2id parameters for new sealed records.
func WithSealParams(p SealParams) Option {
	return func(s *Store) { s.params = p }
}

// WithRandom sets the randomness source for key, UID and seal material.
func WithRandom(r io.Reader) Option {
	return func(s *Store) { s.random = r }
}

// WithClock sets the clock used for the record's created_at.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the store logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// NewStore creates a store for the record at path.
func NewStore(path string, opts ...Option) *Store {
	s := &Store{
		path:   filepath.Clean(path),
		params: DefaultSealParams,
		now:    time.Now,
		logger: logger.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the record location.
func (s *Store) Path() string {
	return s.path
}

// LockPath returns the advisory lock location.
func (s *Store) LockPath() string {
	return s.path + ".lock"
}

// Resolution is the outcome of GetOrCreate.
type Resolution struct {
	Identity domain.NodeIdentity
	Outcome  Outcome
	// Digest is the SHA-256 of the record bytes Identity was decoded from
	// or encoded to. A Guard compares the file against it before handoff.
	Digest [sha256.Size]byte
}

type result struct {
	res Resolution
	err error
}

// GetOrCreate returns the persisted identity, creating it on first use.
//
// A valid record is returned unchanged. A missing record is generated
// and persisted atomically. A record that exists but cannot be read or
// validated yields ErrCorruptIdentity and is left untouched. Another
// process holding the lock, or creating the record concurrently, yields
// ErrConcurrentWriter. The whole operation is bounded by ctx, which is
// checked again immediately before a new record is persisted.
func (s *Store) GetOrCreate(ctx context.Context) (Resolution, error) {
	if err := ctx.Err(); err != nil {
		return Resolution{}, s.deadlineError(err)
	}

	done := make(chan result, 1)
	go func() {
		res, err := s.getOrCreate(ctx)
		done <- result{res, err}
	}()

	select {
	case r := <-done:
		return r.res, r.err
	case <-ctx.Done():
		return Resolution{}, s.deadlineError(ctx.Err())
	}
}

func (s *Store) deadlineError(err error) error {
	return domain.ErrIdentityStore.WithDetailsf("%s: identity resolution aborted", s.path).WithCause(err)
}

func (s *Store) getOrCreate(ctx context.Context) (Resolution, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return Resolution{}, domain.ErrIdentityStore.WithDetails(s.path).WithCause(err)
	}

	unlock, err := acquireLock(s.LockPath())
	if err != nil {
		if errors.Is(err, errLocked) {
			return Resolution{}, domain.ErrConcurrentWriter.WithDetails(s.LockPath()).WithCause(err)
		}
		return Resolution{}, domain.ErrIdentityStore.WithDetails(s.LockPath()).WithCause(err)
	}
	defer func() {
		if err := unlock(); err != nil {
			s.logger.Warn("release identity lock", "path", s.LockPath(), "error", err)
		}
	}()

	res, err := s.load()
	switch {
	case err == nil:
		return res, nil
	case !errors.Is(err, fs.ErrNotExist):
		return Resolution{}, err
	}

	return s.create(ctx)
}

// load reads the record. A missing record returns an error wrapping
// fs.ErrNotExist; every other failure is ErrCorruptIdentity.
func (s *Store) load() (Resolution, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Resolution{}, err
		}
		return Resolution{}, domain.ErrCorruptIdentity.WithDetailsf("%s: unreadable", s.path).WithCause(err)
	}

	id, sealed, err := decodeRecord(data, s.passphrase)
	if err != nil {
		return Resolution{}, domain.ErrCorruptIdentity.WithDetails(s.path).WithCause(err)
	}
	if s.passphrase != "" && !sealed {
		s.logger.Warn("identity record is not sealed; passphrase ignored", "path", s.path)
	}
	return Resolution{Identity: id, Outcome: OutcomeLoaded, Digest: sha256.Sum256(data)}, nil
}

func (s *Store) create(ctx context.Context) (Resolution, error) {
	id, err := domain.GenerateIdentity(s.random)
	if err != nil {
		return Resolution{}, domain.ErrIdentityStore.WithDetails("generate identity").WithCause(err)
	}

	data, err := encodeRecord(id, s.passphrase, s.params, s.now(), s.random)
	if err != nil {
		return Resolution{}, domain.ErrIdentityStore.WithDetails("encode identity").WithCause(err)
	}

	// GetOrCreate may already have reported the deadline to its caller.
	if err := ctx.Err(); err != nil {
		return Resolution{}, s.deadlineError(err)
	}

	if err := writeExclusive(s.path, data); err != nil {
		if errors.Is(err, errExists) {
			return Resolution{}, domain.ErrConcurrentWriter.WithDetails(s.path).WithCause(err)
		}
		return Resolution{}, domain.ErrIdentityStore.WithDetails(s.path).WithCause(fmt.Errorf("persist identity: %w", err))
	}

	s.logger.Info("identity record created",
		"path", s.path,
		"uid", id.UID,
		"public_key", id.PublicKeyHex(),
		"sealed", s.passphrase != "",
	)
	return Resolution{Identity: id, Outcome: OutcomeCreated, Digest: sha256.Sum256(data)}, nil
}
