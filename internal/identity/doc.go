// Package identity persists the node identity on the data volume.
//
// The identity record is a small JSON file holding the node's Ed25519
// seed and UID. It is created exactly once per volume and is read-only
// afterwards:
//
//   - store.go: GetOrCreate with lock, corrupt detection and deadline
//   - record.go: On-disk record format
//   - atomic.go: Create-if-absent write (temp file, fsync, link or O_EXCL)
//   - seal.go: Optional passphrase sealing of the private key
//   - guard.go: Pre-launch check against the resolved record digest
//
// A record that exists but cannot be parsed is never overwritten or
// removed; the operator must inspect it.
package identity
