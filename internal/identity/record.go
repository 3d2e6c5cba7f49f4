package identity

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/yndnr/gridboot/internal/core/domain"
)

// recordVersion is the only record layout this build reads and writes.
const recordVersion = 1

// record is the on-disk identity layout. Unknown fields are ignored.
type record struct {
	Version    int        `json:"version"`
	UID        string     `json:"uid"`
	PrivateKey string     `json:"private_key,omitempty"`
	Sealed     *sealedKey `json:"sealed,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

var errSealedNoPassphrase = errors.New("record is sealed but no passphrase is configured")

// encodeRecord renders an identity as a record. A non-empty passphrase
// seals the private key.
func encodeRecord(id domain.NodeIdentity, passphrase string, params SealParams, createdAt time.Time, random io.Reader) ([]byte, error) {
	rec := record{
		Version:   recordVersion,
		UID:       id.UID,
		CreatedAt: createdAt.UTC(),
	}

	if passphrase == "" {
		rec.PrivateKey = id.PrivateKeyHex()
	} else {
		sealed, err := seal(id.PrivateKey, []byte(id.UID), passphrase, params, random)
		if err != nil {
			return nil, err
		}
		rec.Sealed = sealed
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal identity record: %w", err)
	}
	return append(data, '\n'), nil
}

// decodeRecord parses and validates a record. Every failure is a reason
// to treat the record as corrupt.
func decodeRecord(data []byte, passphrase string) (domain.NodeIdentity, bool, error) {
	var rec record
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.NodeIdentity{}, false, fmt.Errorf("parse record: %w", err)
	}
	if rec.Version != recordVersion {
		return domain.NodeIdentity{}, false, fmt.Errorf("unsupported record version %d", rec.Version)
	}

	var (
		key    []byte
		sealed bool
		err    error
	)
	switch {
	case rec.Sealed != nil && rec.PrivateKey != "":
		return domain.NodeIdentity{}, false, errors.New("record holds both a sealed and a plain key")
	case rec.Sealed != nil:
		if passphrase == "" {
			return domain.NodeIdentity{}, true, errSealedNoPassphrase
		}
		sealed = true
		key, err = unseal(rec.Sealed, []byte(rec.UID), passphrase)
		if err != nil {
			return domain.NodeIdentity{}, true, err
		}
	case rec.PrivateKey != "":
		key, err = hex.DecodeString(rec.PrivateKey)
		if err != nil {
			return domain.NodeIdentity{}, false, fmt.Errorf("private key is not hex: %w", err)
		}
	default:
		return domain.NodeIdentity{}, false, errors.New("record has no private key")
	}

	id := domain.NodeIdentity{PrivateKey: key, UID: rec.UID}
	if err := id.Validate(); err != nil {
		return domain.NodeIdentity{}, sealed, err
	}
	return id, sealed, nil
}
