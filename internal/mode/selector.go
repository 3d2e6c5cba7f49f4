package mode

import (
	"context"
	"errors"
	"time"

	"github.com/yndnr/gridboot/internal/core/domain"
	"github.com/yndnr/gridboot/internal/telemetry/logger"
)

// Installer installs the development dependencies.
type Installer interface {
	Install(ctx context.Context) error
}

// Selector dispatches on the boot mode.
type Selector struct {
	installer Installer
	logger    logger.Logger
	observe   func(time.Duration)
}

// Option configures a Selector.
type Option func(*Selector)

// WithLogger sets the selector logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Selector) { s.logger = l }
}

// WithInstallObserver registers a callback receiving the install duration.
func WithInstallObserver(fn func(time.Duration)) Option {
	return func(s *Selector) { s.observe = fn }
}

// NewSelector creates a selector that runs installer in development mode.
func NewSelector(installer Installer, opts ...Option) *Selector {
	s := &Selector{
		installer: installer,
		logger:    logger.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Apply performs the side effects of mode. Development runs the
// installer exactly once; Production is a no-op. Install failures are
// returned as ErrDependencyInstall.
func (s *Selector) Apply(ctx context.Context, mode domain.BootMode) error {
	switch mode {
	case domain.Production:
		s.logger.Debug("production mode, skipping dependency install")
		return nil
	case domain.Development:
	default:
		return domain.ErrDependencyInstall.WithDetailsf("unknown boot mode %v", mode)
	}

	s.logger.Info("development mode, installing dependencies")
	start := time.Now()
	err := s.installer.Install(ctx)
	elapsed := time.Since(start)
	if s.observe != nil {
		s.observe(elapsed)
	}

	if err != nil {
		if errors.Is(err, domain.ErrDependencyInstall) {
			return err
		}
		return domain.ErrDependencyInstall.WithCause(err)
	}

	s.logger.Info("dependencies installed", "duration", elapsed.String())
	return nil
}
