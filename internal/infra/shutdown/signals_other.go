//go:build !unix

package shutdown

import "os"

// DefaultSignals returns the signals forwarded to a supervised server.
func DefaultSignals() []os.Signal {
	return []os.Signal{os.Interrupt}
}

// IsTerminating reports whether sig asks the process to stop.
func IsTerminating(sig os.Signal) bool {
	return sig == os.Interrupt
}
