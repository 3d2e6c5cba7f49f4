//go:build !unix

package identity

// acquireLock is a no-op where flock is unavailable. The link-based create
// still rejects a second writer.
func acquireLock(string) (func() error, error) {
	return func() error { return nil }, nil
}
