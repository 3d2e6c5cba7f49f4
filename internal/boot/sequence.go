package boot

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/yndnr/gridboot/internal/core/domain"
	"github.com/yndnr/gridboot/internal/identity"
	"github.com/yndnr/gridboot/internal/infra/confloader"
	"github.com/yndnr/gridboot/internal/launch/config"
	"github.com/yndnr/gridboot/internal/launcher"
	"github.com/yndnr/gridboot/internal/mode"
	"github.com/yndnr/gridboot/internal/telemetry/logger"
	"github.com/yndnr/gridboot/internal/telemetry/metric"
)

// ModeApplier applies the boot mode side effects.
type ModeApplier interface {
	Apply(ctx context.Context, m domain.BootMode) error
}

// IdentityResolver reads or creates the node identity.
type IdentityResolver interface {
	GetOrCreate(ctx context.Context) (identity.Resolution, error)
}

// Guard checks the identity record right before handoff.
type Guard interface {
	Verify() error
	Close() error
}

// GuardFactory arms a guard over the record at path. digest is the
// SHA-256 of the record bytes the identity was resolved from.
type GuardFactory func(path string, digest [sha256.Size]byte) (Guard, error)

// Launcher starts the server.
type Launcher interface {
	Launch(ctx context.Context, inv launcher.Invocation) (int, error)
}

// Result describes a finished boot sequence.
type Result struct {
	State      State
	Mode       domain.BootMode
	Identity   domain.NodeIdentity
	Outcome    identity.Outcome
	Config     domain.LaunchConfig
	Invocation launcher.Invocation
	ExitCode   int
}

// Sequence runs the boot steps in order.
type Sequence struct {
	env      confloader.Env
	settings config.Settings

	mode     ModeApplier
	identity IdentityResolver
	guard    GuardFactory
	launcher Launcher
	metrics  *metric.Registry
	logger   logger.Logger
	now      func() time.Time
	dryRun   bool

	state   State
	started time.Time
}

// Option configures a Sequence.
type Option func(*Sequence)

// WithModeApplier replaces the mode selector.
func WithModeApplier(m ModeApplier) Option {
	return func(s *Sequence) { s.mode = m }
}

// WithIdentityResolver replaces the identity store.
func WithIdentityResolver(r IdentityResolver) Option {
	return func(s *Sequence) { s.identity = r }
}

// WithGuardFactory replaces the identity guard. A nil factory disables
// the pre-launch check.
func WithGuardFactory(f GuardFactory) Option {
	return func(s *Sequence) { s.guard = f }
}

// WithLauncher replaces the server launcher.
func WithLauncher(l Launcher) Option {
	return func(s *Sequence) { s.launcher = l }
}

// WithMetrics records boot metrics into r.
func WithMetrics(r *metric.Registry) Option {
	return func(s *Sequence) { s.metrics = r }
}

// WithLogger sets the sequence logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Sequence) { s.logger = l }
}

// WithClock sets the clock used for durations.
func WithClock(now func() time.Time) Option {
	return func(s *Sequence) { s.now = now }
}

// WithDryRun stops the sequence after planning the invocation.
func WithDryRun(dryRun bool) Option {
	return func(s *Sequence) { s.dryRun = dryRun }
}

// NewSequence creates a boot sequence over an environment snapshot and
// resolved bootstrap settings. Components not replaced by options are
// built from settings.
func NewSequence(env confloader.Env, settings config.Settings, opts ...Option) *Sequence {
	s := &Sequence{
		env:      env,
		settings: settings,
		logger:   logger.Default(),
		now:      time.Now,
		guard:    armGuard,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.metrics == nil {
		s.metrics = metric.NewRegistry()
	}
	if s.mode == nil {
		s.mode = mode.NewSelector(&mode.CommandInstaller{
			Bin:     settings.DevInstallBin,
			Target:  settings.DevInstallTarget,
			Extras:  settings.DevInstallExtras,
			Timeout: settings.DevInstallTimeout,
			Logger:  s.logger,
			Env:     env.Environ(),
		}, mode.WithLogger(s.logger), mode.WithInstallObserver(s.metrics.ObserveInstall))
	}
	if s.identity == nil {
		s.identity = identity.NewStore(settings.IdentityPath,
			identity.WithPassphrase(settings.IdentityPassphrase),
			identity.WithLogger(s.logger),
		)
	}
	if s.launcher == nil {
		s.launcher = launcher.New(settings.ExecStrategy, launcher.WithLogger(s.logger))
	}
	return s
}

func armGuard(path string, digest [sha256.Size]byte) (Guard, error) {
	return identity.NewGuard(path, digest)
}

// State returns the last state the sequence reached.
func (s *Sequence) State() State {
	return s.state
}

// Metrics returns the registry the sequence records into.
func (s *Sequence) Metrics() *metric.Registry {
	return s.metrics
}

// Run executes the boot sequence. With the exec strategy a successful
// Run does not return. Otherwise the returned Result carries the exit
// code to mirror; on error the exit code follows domain.ExitCode.
func (s *Sequence) Run(ctx context.Context) (Result, error) {
	s.started = s.now()
	s.state = StateStart
	s.metrics.ObserveState(s.state.String())

	res, err := s.run(ctx)
	res.State = s.state
	if err != nil {
		res.ExitCode = domain.ExitCode(err)
		s.logger.Error("boot failed",
			"state", s.state.String(),
			"code", domain.GetErrorCode(err),
			"exit_code", res.ExitCode,
			"error", err,
		)
	}
	s.finish(res.ExitCode)
	return res, err
}

func (s *Sequence) run(ctx context.Context) (Result, error) {
	var res Result

	bootMode, err := config.ParseMode(s.env)
	if err != nil {
		return res, err
	}
	res.Mode = bootMode
	s.logger.Info("boot mode selected", "mode", bootMode.String(), "release", s.settings.Release)

	if err := s.mode.Apply(ctx, bootMode); err != nil {
		return res, err
	}
	s.advance()

	resolved, err := s.resolveIdentity(ctx)
	if err != nil {
		return res, err
	}
	id := resolved.Identity
	res.Identity, res.Outcome = id, resolved.Outcome
	s.advance()

	var guard Guard
	if s.guard != nil {
		guard, err = s.guard(s.settings.IdentityPath, resolved.Digest)
		if err != nil {
			return res, err
		}
		defer guard.Close()
	}

	cfg, err := config.Resolve(s.env, bootMode)
	if err != nil {
		return res, err
	}
	res.Config = cfg
	s.logger.Info("launch configuration resolved",
		"addr", cfg.Addr(),
		"log_level", cfg.LogLevel,
		"reload", cfg.Reload,
		"node_type", cfg.NodeType,
		"node_name", cfg.NodeName,
		"app_module", cfg.AppModule,
	)
	s.advance()

	res.Invocation = launcher.Plan(cfg, id, s.settings, s.env)
	if s.dryRun {
		s.logger.Info("dry run, not launching", "argv", res.Invocation.Argv)
		return res, nil
	}

	if guard != nil {
		if err := guard.Verify(); err != nil {
			return res, err
		}
		if err := guard.Close(); err != nil {
			s.logger.Warn("close identity guard", "error", err)
		}
	}

	// The exec strategy never returns, so the textfile is written as if
	// the handoff already succeeded.
	s.advance()
	s.metrics.ObserveLaunch(s.now())
	s.metrics.ObserveFinish(s.now().Sub(s.started), domain.ExitOK)
	s.writeMetrics()

	code, err := s.launcher.Launch(ctx, res.Invocation)
	if err != nil {
		s.state = StateConfigResolved
		return res, err
	}
	res.ExitCode = code
	return res, nil
}

func (s *Sequence) resolveIdentity(ctx context.Context) (identity.Resolution, error) {
	timeout := s.settings.IdentityTimeout
	if timeout <= 0 {
		timeout = config.DefaultIdentityTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resolved, err := s.identity.GetOrCreate(ctx)
	if err != nil {
		s.metrics.ObserveIdentity("failed")
		return identity.Resolution{}, err
	}
	id, outcome := resolved.Identity, resolved.Outcome
	if err := id.Validate(); err != nil {
		s.metrics.ObserveIdentity("failed")
		return identity.Resolution{}, domain.ErrCorruptIdentity.WithCause(fmt.Errorf("resolved identity: %w", err))
	}

	logger.RegisterSecret(id.PrivateKeyHex())
	s.metrics.ObserveIdentity(outcome.String())
	s.logger.Info("identity resolved",
		"outcome", outcome.String(),
		"uid", id.UID,
		"public_key", id.PublicKeyHex(),
	)
	return resolved, nil
}

func (s *Sequence) advance() {
	s.state = s.state.next()
	s.metrics.ObserveState(s.state.String())
	s.logger.Debug("boot state", "state", s.state.String())
}

func (s *Sequence) finish(exitCode int) {
	s.metrics.ObserveState(s.state.String())
	s.metrics.ObserveFinish(s.now().Sub(s.started), exitCode)
	s.writeMetrics()
}

func (s *Sequence) writeMetrics() {
	if s.settings.MetricsFile == "" {
		return
	}
	if err := s.metrics.WriteFile(s.settings.MetricsFile); err != nil {
		s.logger.Warn("write boot metrics", "path", s.settings.MetricsFile, "error", err)
	}
}
