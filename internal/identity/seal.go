package identity

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"
)

const (
	kdfArgon2id = "argon2id"
	saltSize    = 16
)

// SealParams are the Argon2id parameters used for new sealed records.
// Existing records carry their own parameters.
type SealParams struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
}

// DefaultSealParams follows the RFC 9106 second recommended option.
var DefaultSealParams = SealParams{
	Time:    3,
	Memory:  64 * 1024,
	Threads: 4,
}

// sealedKey is the encrypted private key as stored in the record.
type sealedKey struct {
	KDF        string `json:"kdf"`
	Time       uint32 `json:"time"`
	Memory     uint32 `json:"memory"`
	Threads    uint8  `json:"threads"`
	Salt       string `json:"salt"`
	Ciphertext string `json:"ciphertext"`
}

var errUnseal = errors.New("unseal private key: wrong passphrase or tampered record")

func deriveKey(passphrase string, salt []byte, p SealParams) []byte {
	return argon2.IDKey([]byte(passphrase), salt, p.Time, p.Memory, p.Threads, chacha20poly1305.KeySize)
}

// seal encrypts key with XChaCha20-Poly1305. The UID is bound as
// additional data so a sealed key cannot be moved to another record.
func seal(key, uid []byte, passphrase string, p SealParams, random io.Reader) (*sealedKey, error) {
	if random == nil {
		random = rand.Reader
	}

	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(random, salt); err != nil {
		return nil, fmt.Errorf("read salt: %w", err)
	}

	aead, err := chacha20poly1305.NewX(deriveKey(passphrase, salt, p))
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}

	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(key)+aead.Overhead())
	if _, err := io.ReadFull(random, nonce); err != nil {
		return nil, fmt.Errorf("read nonce: %w", err)
	}

	return &sealedKey{
		KDF:        kdfArgon2id,
		Time:       p.Time,
		Memory:     p.Memory,
		Threads:    p.Threads,
		Salt:       hex.EncodeToString(salt),
		Ciphertext: hex.EncodeToString(aead.Seal(nonce, nonce, key, uid)),
	}, nil
}

func unseal(s *sealedKey, uid []byte, passphrase string) ([]byte, error) {
	if s.KDF != kdfArgon2id {
		return nil, fmt.Errorf("unsupported kdf %q", s.KDF)
	}
	if s.Time == 0 || s.Memory == 0 || s.Threads == 0 {
		return nil, errors.New("sealed key has invalid kdf parameters")
	}

	salt, err := hex.DecodeString(s.Salt)
	if err != nil || len(salt) == 0 {
		return nil, errors.New("sealed key has invalid salt")
	}
	blob, err := hex.DecodeString(s.Ciphertext)
	if err != nil {
		return nil, errors.New("sealed key ciphertext is not hex")
	}

	p := SealParams{Time: s.Time, Memory: s.Memory, Threads: s.Threads}
	aead, err := chacha20poly1305.NewX(deriveKey(passphrase, salt, p))
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	if len(blob) < aead.NonceSize()+aead.Overhead() {
		return nil, errors.New("sealed key ciphertext is truncated")
	}

	nonce, ciphertext := blob[:aead.NonceSize()], blob[aead.NonceSize():]
	key, err := aead.Open(nil, nonce, ciphertext, uid)
	if err != nil {
		return nil, errUnseal
	}
	return key, nil
}
