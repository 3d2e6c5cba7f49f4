package config

import "time"

// Environment variable names.
const (
	EnvRelease   = "RELEASE"
	EnvLogLevel  = "LOG_LEVEL"
	EnvHost      = "HOST"
	EnvPort      = "PORT"
	EnvNodeType  = "NODE_TYPE"
	EnvNodeName  = "NODE_NAME"
	EnvAppModule = "APP_MODULE"
	EnvDevMode   = "DEV_MODE"

	EnvIdentityPath       = "IDENTITY_PATH"
	EnvIdentityPassphrase = "IDENTITY_PASSPHRASE"
	EnvIdentityTimeout    = "IDENTITY_TIMEOUT"
	EnvServerBin          = "SERVER_BIN"
	EnvExecStrategy       = "EXEC_STRATEGY"
	EnvDevInstallTarget   = "DEV_INSTALL_TARGET"
	EnvDevInstallExtras   = "DEV_INSTALL_EXTRAS"
	EnvDevInstallBin      = "DEV_INSTALL_BIN"
	EnvDevInstallTimeout  = "DEV_INSTALL_TIMEOUT"
	EnvMetricsFile        = "BOOT_METRICS_FILE"
	EnvLogFormat          = "BOOT_LOG_FORMAT"
)

// Default launch values.
const (
	DefaultLogLevel  = "info"
	DefaultHost      = "0.0.0.0"
	DefaultPort      = 80
	DefaultNodeType  = "domain"
	DefaultNodeName  = "default_node_name"
	DefaultAppModule = "grid.main:app"
)

// Default bootstrap values.
const (
	DefaultIdentityPath      = "/storage/identity.json"
	DefaultIdentityTimeout   = 30 * time.Second
	DefaultServerBin         = "uvicorn"
	DefaultExecStrategy      = StrategyExec
	DefaultDevInstallTarget  = "/app/syft"
	DefaultDevInstallExtras  = "data_science"
	DefaultDevInstallBin     = "pip"
	DefaultDevInstallTimeout = 10 * time.Minute
	DefaultLogFormat         = "json"
)

// Default returns the settings used when the environment is empty.
func Default() Settings {
	return Settings{
		IdentityPath:      DefaultIdentityPath,
		IdentityTimeout:   DefaultIdentityTimeout,
		ServerBin:         DefaultServerBin,
		ExecStrategy:      DefaultExecStrategy,
		DevInstallTarget:  DefaultDevInstallTarget,
		DevInstallExtras:  DefaultDevInstallExtras,
		DevInstallBin:     DefaultDevInstallBin,
		DevInstallTimeout: DefaultDevInstallTimeout,
		LogFormat:         DefaultLogFormat,
	}
}
