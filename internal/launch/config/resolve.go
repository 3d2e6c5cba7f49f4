package config

import (
	"github.com/yndnr/gridboot/internal/core/domain"
	"github.com/yndnr/gridboot/internal/infra/confloader"
)

// ParseMode derives the boot mode from DEV_MODE.
func ParseMode(env confloader.Env) (domain.BootMode, error) {
	dev, err := boolVar(env, EnvDevMode, false)
	if err != nil {
		return domain.Production, err
	}
	return domain.ModeFromFlag(dev), nil
}

// Resolve maps an environment snapshot to a LaunchConfig.
//
// The mode must be the one returned by ParseMode for the same snapshot;
// Reload is derived from it. Variables are checked in a fixed order so the
// first reported error is stable.
func Resolve(env confloader.Env, mode domain.BootMode) (domain.LaunchConfig, error) {
	logLevel, err := enumVar(env, EnvLogLevel, DefaultLogLevel, logLevels)
	if err != nil {
		return domain.LaunchConfig{}, err
	}

	port, err := portVar(env, EnvPort, DefaultPort)
	if err != nil {
		return domain.LaunchConfig{}, err
	}

	return domain.LaunchConfig{
		Host:      stringVar(env, EnvHost, DefaultHost),
		Port:      port,
		LogLevel:  logLevel,
		Reload:    mode == domain.Development,
		NodeType:  stringVar(env, EnvNodeType, DefaultNodeType),
		NodeName:  stringVar(env, EnvNodeName, DefaultNodeName),
		AppModule: stringVar(env, EnvAppModule, DefaultAppModule),
	}, nil
}

// ResolveAll parses the mode and resolves the launch configuration in one
// call. It is used by commands that only inspect configuration.
func ResolveAll(env confloader.Env) (domain.BootMode, domain.LaunchConfig, error) {
	mode, err := ParseMode(env)
	if err != nil {
		return domain.Production, domain.LaunchConfig{}, err
	}
	cfg, err := Resolve(env, mode)
	if err != nil {
		return mode, domain.LaunchConfig{}, err
	}
	return mode, cfg, nil
}

// ResolveSettings maps an environment snapshot to bootstrap Settings.
func ResolveSettings(env confloader.Env) (Settings, error) {
	s := Default()

	s.Release = stringVar(env, EnvRelease, "")
	s.IdentityPath = stringVar(env, EnvIdentityPath, s.IdentityPath)
	s.ServerBin = stringVar(env, EnvServerBin, s.ServerBin)
	s.DevInstallTarget = stringVar(env, EnvDevInstallTarget, s.DevInstallTarget)
	s.DevInstallBin = stringVar(env, EnvDevInstallBin, s.DevInstallBin)
	s.MetricsFile = stringVar(env, EnvMetricsFile, "")

	// The passphrase is taken verbatim; whitespace may be significant.
	if v, ok := env.Lookup(EnvIdentityPassphrase); ok {
		s.IdentityPassphrase = v
	}

	// An explicitly empty DEV_INSTALL_EXTRAS disables extras.
	if v, ok := env.Lookup(EnvDevInstallExtras); ok {
		s.DevInstallExtras = v
	}

	var err error
	if s.IdentityTimeout, err = durationVar(env, EnvIdentityTimeout, s.IdentityTimeout); err != nil {
		return Settings{}, err
	}
	if s.DevInstallTimeout, err = durationVar(env, EnvDevInstallTimeout, s.DevInstallTimeout); err != nil {
		return Settings{}, err
	}

	strategy, err := enumVar(env, EnvExecStrategy, string(s.ExecStrategy),
		[]string{string(StrategyExec), string(StrategySupervise)})
	if err != nil {
		return Settings{}, err
	}
	s.ExecStrategy = ExecStrategy(strategy)

	if s.LogFormat, err = enumVar(env, EnvLogFormat, s.LogFormat, logFormats); err != nil {
		return Settings{}, err
	}

	return s, nil
}
