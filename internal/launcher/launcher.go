package launcher

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"time"

	"github.com/yndnr/gridboot/internal/core/domain"
	"github.com/yndnr/gridboot/internal/infra/shutdown"
	"github.com/yndnr/gridboot/internal/launch/config"
	"github.com/yndnr/gridboot/internal/telemetry/logger"
)

// DefaultGrace is how long a supervised server may take to stop after a
// terminating signal before it is killed.
const DefaultGrace = 10 * time.Second

// ExecFunc replaces the process image. It only returns on failure.
type ExecFunc func(argv0 string, argv []string, envv []string) error

// Launcher starts the server.
type Launcher struct {
	strategy config.ExecStrategy
	execFunc ExecFunc
	lookPath func(string) (string, error)
	relay    *shutdown.Relay
	logger   logger.Logger

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

// Option configures a Launcher.
type Option func(*Launcher)

// WithExecFunc replaces the exec system call.
func WithExecFunc(fn ExecFunc) Option {
	return func(l *Launcher) { l.execFunc = fn }
}

// WithLookPath replaces the PATH lookup of the server binary.
func WithLookPath(fn func(string) (string, error)) Option {
	return func(l *Launcher) { l.lookPath = fn }
}

// WithRelay sets the signal relay used in supervise mode.
func WithRelay(r *shutdown.Relay) Option {
	return func(l *Launcher) { l.relay = r }
}

// WithLogger sets the launcher logger.
func WithLogger(lg logger.Logger) Option {
	return func(l *Launcher) { l.logger = lg }
}

// WithStdio sets the supervised server's standard streams.
func WithStdio(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(l *Launcher) {
		l.stdin, l.stdout, l.stderr = stdin, stdout, stderr
	}
}

// New creates a launcher for the given strategy. Platforms without exec
// always supervise.
func New(strategy config.ExecStrategy, opts ...Option) *Launcher {
	l := &Launcher{
		strategy: strategy,
		execFunc: defaultExec,
		lookPath: exec.LookPath,
		logger:   logger.Default(),
		stdin:    os.Stdin,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.relay == nil {
		l.relay = shutdown.NewRelay(DefaultGrace, shutdown.WithLogger(l.logger))
	}
	if !canExec {
		l.strategy = config.StrategySupervise
	}
	return l
}

// Launch starts the server described by inv.
//
// With the exec strategy a successful call does not return. With the
// supervise strategy Launch returns the server's exit code once it exits;
// a server killed by a signal reports 128+signal. Failures to start are
// ErrLaunch.
func (l *Launcher) Launch(ctx context.Context, inv Invocation) (int, error) {
	if len(inv.Argv) == 0 {
		return domain.ExitLaunch, domain.ErrLaunch.WithDetails("empty argument vector")
	}
	if err := ctx.Err(); err != nil {
		return domain.ExitLaunch, domain.ErrLaunch.WithCause(err)
	}

	path, err := l.lookPath(inv.Bin)
	if err != nil {
		return domain.ExitLaunch, domain.ErrLaunch.WithDetailsf("server binary %q not found", inv.Bin).WithCause(err)
	}

	switch l.strategy {
	case config.StrategySupervise:
		return l.supervise(path, inv)
	default:
		return l.exec(path, inv)
	}
}

func (l *Launcher) exec(path string, inv Invocation) (int, error) {
	l.logger.Info("handing off to server", "path", path, "argv", inv.Argv)
	if err := l.execFunc(path, inv.Argv, inv.Env); err != nil {
		return domain.ExitLaunch, domain.ErrLaunch.WithDetailsf("exec %s", path).WithCause(err)
	}
	return domain.ExitOK, nil
}

func (l *Launcher) supervise(path string, inv Invocation) (int, error) {
	cmd := &exec.Cmd{
		Path:   path,
		Args:   inv.Argv,
		Env:    inv.Env,
		Stdin:  l.stdin,
		Stdout: l.stdout,
		Stderr: l.stderr,
	}

	if err := cmd.Start(); err != nil {
		return domain.ExitLaunch, domain.ErrLaunch.WithDetailsf("start %s", path).WithCause(err)
	}
	l.logger.Info("supervising server", "path", path, "pid", cmd.Process.Pid, "argv", inv.Argv)

	exited := make(chan struct{})
	var waitErr error
	go func() {
		waitErr = cmd.Wait()
		close(exited)
	}()

	l.relay.Run(cmd.Process, exited)

	code := exitStatus(waitErr)
	if code < 0 {
		return domain.ExitLaunch, domain.ErrLaunch.WithDetails("wait for server").WithCause(waitErr)
	}
	l.logger.Info("server exited", "exit_code", code)
	return code, nil
}

// exitStatus converts a Wait error into a process exit code, or -1 when
// the error is not an exit status.
func exitStatus(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return -1
	}
	if sig, ok := signaled(exitErr); ok {
		return 128 + sig
	}
	return exitErr.ExitCode()
}
