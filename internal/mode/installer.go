package mode

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/yndnr/gridboot/internal/core/domain"
	"github.com/yndnr/gridboot/internal/telemetry/logger"
)

// waitDelay bounds how long Install waits for output pipes after the
// install process is killed.
const waitDelay = 5 * time.Second

// CommandInstaller installs an editable package with a package manager:
//
//	<Bin> install --user -e "<Target>[<Extras>]"
type CommandInstaller struct {
	Bin     string
	Target  string
	Extras  string
	Timeout time.Duration
	Logger  logger.Logger
	// Env is the install environment. Nil inherits the process environment.
	Env []string
}

// Requirement returns the editable requirement passed to the package
// manager.
func (c *CommandInstaller) Requirement() string {
	if c.Extras == "" {
		return c.Target
	}
	return c.Target + "[" + c.Extras + "]"
}

// Args returns the package manager arguments.
func (c *CommandInstaller) Args() []string {
	return []string{"install", "--user", "-e", c.Requirement()}
}

// Install runs the package manager and streams its output into the
// logger line by line. A non-zero exit, a missing binary or an expired
// timeout fail with ErrDependencyInstall.
func (c *CommandInstaller) Install(ctx context.Context) error {
	log := c.Logger
	if log == nil {
		log = logger.Default()
	}
	log = log.With("component", "installer", "bin", c.Bin)

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	args := c.Args()
	cmd := exec.CommandContext(ctx, c.Bin, args...)
	cmd.Env = c.Env
	cmd.WaitDelay = waitDelay

	stdout := &lineWriter{log: log, stream: "stdout"}
	stderr := &lineWriter{log: log, stream: "stderr"}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	log.Info("running dependency install", "args", strings.Join(args, " "))
	err := cmd.Run()
	stdout.Flush()
	stderr.Flush()

	if err == nil {
		return nil
	}

	cmdline := c.Bin + " " + strings.Join(args, " ")
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return domain.ErrDependencyInstall.WithDetailsf("%s: timed out after %s", cmdline, c.Timeout).WithCause(ctx.Err())
	case errors.Is(err, exec.ErrNotFound):
		return domain.ErrDependencyInstall.WithDetailsf("%s: binary not found", c.Bin).WithCause(err)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return domain.ErrDependencyInstall.WithDetailsf("%s: exit status %d", cmdline, exitErr.ExitCode()).WithCause(err)
	}
	return domain.ErrDependencyInstall.WithDetails(cmdline).WithCause(err)
}

// lineWriter logs each complete line written to it.
type lineWriter struct {
	log    logger.Logger
	stream string

	mu  sync.Mutex
	buf bytes.Buffer
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.buf.Write(p)
	for {
		i := bytes.IndexByte(w.buf.Bytes(), '\n')
		if i < 0 {
			break
		}
		line := string(w.buf.Next(i + 1))
		w.emit(strings.TrimRight(line, "\r\n"))
	}
	return len(p), nil
}

// Flush logs any trailing partial line.
func (w *lineWriter) Flush() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.buf.Len() > 0 {
		w.emit(strings.TrimRight(w.buf.String(), "\r\n"))
		w.buf.Reset()
	}
}

func (w *lineWriter) emit(line string) {
	if line == "" {
		return
	}
	w.log.Info(line, "stream", w.stream)
}
