//go:build unix

package shutdown

import (
	"os"

	"golang.org/x/sys/unix"
)

// DefaultSignals returns the signals forwarded to a supervised server.
func DefaultSignals() []os.Signal {
	return []os.Signal{
		unix.SIGINT,
		unix.SIGTERM,
		unix.SIGHUP,
		unix.SIGQUIT,
		unix.SIGUSR1,
		unix.SIGUSR2,
	}
}

// IsTerminating reports whether sig asks the process to stop.
func IsTerminating(sig os.Signal) bool {
	switch sig {
	case unix.SIGINT, unix.SIGTERM, unix.SIGQUIT:
		return true
	}
	return false
}
