package domain

import (
	"bytes"
	"crypto/ed25519"
	"encoding/hex"
	"testing"
)

func TestGenerateIdentity(t *testing.T) {
	id, err := GenerateIdentity(nil)
	if err != nil {
		t.Fatalf("GenerateIdentity() error = %v", err)
	}
	if err := id.Validate(); err != nil {
		t.Fatalf("generated identity is invalid: %v", err)
	}

	other, err := GenerateIdentity(nil)
	if err != nil {
		t.Fatalf("GenerateIdentity() error = %v", err)
	}
	if id.UID == other.UID {
		t.Error("two generated identities share a UID")
	}
	if bytes.Equal(id.PrivateKey, other.PrivateKey) {
		t.Error("two generated identities share a private key")
	}
}

func TestGenerateIdentity_Deterministic(t *testing.T) {
	source := bytes.Repeat([]byte{0x42}, 64)

	a, err := GenerateIdentity(bytes.NewReader(source))
	if err != nil {
		t.Fatalf("GenerateIdentity() error = %v", err)
	}
	b, err := GenerateIdentity(bytes.NewReader(source))
	if err != nil {
		t.Fatalf("GenerateIdentity() error = %v", err)
	}
	if !a.Equal(b) {
		t.Error("same random source should produce the same identity")
	}
}

func TestGenerateIdentity_ShortSource(t *testing.T) {
	if _, err := GenerateIdentity(bytes.NewReader([]byte{1, 2, 3})); err == nil {
		t.Fatal("expected error for exhausted random source")
	}
}

func TestNodeIdentity_Validate(t *testing.T) {
	valid := NodeIdentity{
		PrivateKey: bytes.Repeat([]byte{1}, PrivateKeySize),
		UID:        "0123456789abcdef0123456789abcdef",
	}

	tests := []struct {
		name    string
		mutate  func(*NodeIdentity)
		wantErr bool
	}{
		{"valid", func(*NodeIdentity) {}, false},
		{"short key", func(n *NodeIdentity) { n.PrivateKey = n.PrivateKey[:16] }, true},
		{"short uid", func(n *NodeIdentity) { n.UID = "abc" }, true},
		{"uppercase uid", func(n *NodeIdentity) { n.UID = "0123456789ABCDEF0123456789ABCDEF" }, true},
		{"non-hex uid", func(n *NodeIdentity) { n.UID = "zz23456789abcdef0123456789abcdef" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := valid
			n.PrivateKey = append([]byte(nil), valid.PrivateKey...)
			tt.mutate(&n)
			if err := n.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNodeIdentity_PublicKey(t *testing.T) {
	id, err := GenerateIdentity(nil)
	if err != nil {
		t.Fatalf("GenerateIdentity() error = %v", err)
	}

	pub := id.PublicKey()
	sig := ed25519.Sign(ed25519.NewKeyFromSeed(id.PrivateKey), []byte("hello"))
	if !ed25519.Verify(pub, []byte("hello"), sig) {
		t.Error("public key does not verify a signature from the private key")
	}
	if id.PublicKeyHex() != hex.EncodeToString(pub) {
		t.Error("PublicKeyHex does not match PublicKey")
	}
	if got := (NodeIdentity{}).PublicKeyHex(); got != "" {
		t.Errorf("PublicKeyHex() on empty identity = %q, want empty", got)
	}
}

func TestNodeIdentity_PrivateKeyHex(t *testing.T) {
	id := NodeIdentity{PrivateKey: []byte{0xde, 0xad, 0xbe, 0xef}}
	if got := id.PrivateKeyHex(); got != "deadbeef" {
		t.Errorf("PrivateKeyHex() = %q, want deadbeef", got)
	}
}
