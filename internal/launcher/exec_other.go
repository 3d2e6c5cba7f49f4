//go:build !unix

package launcher

import (
	"errors"
	"os/exec"
)

const canExec = false

var defaultExec ExecFunc = func(string, []string, []string) error {
	return errors.New("exec is not supported on this platform")
}

func signaled(*exec.ExitError) (int, bool) {
	return 0, false
}
