package domain

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// Identity constants.
const (
	// PrivateKeySize is the length of the private key seed in bytes.
	PrivateKeySize = ed25519.SeedSize

	// UIDLength is the length of the hex-encoded UID.
	UIDLength = 32
)

// NodeIdentity is the persistent identity of a node.
//
// PrivateKey is an Ed25519 seed; UID is a random UUID rendered as 32
// lowercase hex digits. Both are stable for the lifetime of the volume
// the identity record lives on.
type NodeIdentity struct {
	PrivateKey []byte
	UID        string
}

// GenerateIdentity creates a fresh identity from the given random source.
// A nil source uses crypto/rand.
func GenerateIdentity(random io.Reader) (NodeIdentity, error) {
	if random == nil {
		random = rand.Reader
	}

	seed := make([]byte, PrivateKeySize)
	if _, err := io.ReadFull(random, seed); err != nil {
		return NodeIdentity{}, fmt.Errorf("read key seed: %w", err)
	}

	id, err := uuid.NewRandomFromReader(random)
	if err != nil {
		return NodeIdentity{}, fmt.Errorf("generate uid: %w", err)
	}

	return NodeIdentity{
		PrivateKey: seed,
		UID:        FormatUID(id),
	}, nil
}

// FormatUID renders a UUID as 32 lowercase hex digits without dashes.
func FormatUID(id uuid.UUID) string {
	return hex.EncodeToString(id[:])
}

// Validate checks the identity's invariants.
func (n NodeIdentity) Validate() error {
	if len(n.PrivateKey) != PrivateKeySize {
		return fmt.Errorf("private key is %d bytes, want %d", len(n.PrivateKey), PrivateKeySize)
	}
	if len(n.UID) != UIDLength {
		return fmt.Errorf("uid is %d chars, want %d", len(n.UID), UIDLength)
	}
	if strings.ToLower(n.UID) != n.UID {
		return errors.New("uid must be lowercase hex")
	}
	if _, err := hex.DecodeString(n.UID); err != nil {
		return fmt.Errorf("uid is not hex: %w", err)
	}
	return nil
}

// PrivateKeyHex returns the hex encoding of the private key seed.
// This is the form exported to the server process.
func (n NodeIdentity) PrivateKeyHex() string {
	return hex.EncodeToString(n.PrivateKey)
}

// PublicKey derives the Ed25519 verify key.
func (n NodeIdentity) PublicKey() ed25519.PublicKey {
	if len(n.PrivateKey) != PrivateKeySize {
		return nil
	}
	return ed25519.NewKeyFromSeed(n.PrivateKey).Public().(ed25519.PublicKey)
}

// PublicKeyHex returns the hex encoding of the verify key, or "" when the
// private key is invalid.
func (n NodeIdentity) PublicKeyHex() string {
	pk := n.PublicKey()
	if pk == nil {
		return ""
	}
	return hex.EncodeToString(pk)
}

// Equal reports whether two identities have the same key and UID.
func (n NodeIdentity) Equal(other NodeIdentity) bool {
	return n.UID == other.UID && string(n.PrivateKey) == string(other.PrivateKey)
}
