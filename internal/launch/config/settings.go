package config

import "time"

// ExecStrategy selects how control is handed to the server.
type ExecStrategy string

const (
	// StrategyExec replaces the bootstrap process image with the server.
	StrategyExec ExecStrategy = "exec"

	// StrategySupervise spawns the server as a child, forwards signals and
	// mirrors its exit code.
	StrategySupervise ExecStrategy = "supervise"
)

// Settings holds bootstrap-only knobs. None of these are passed to the
// server process.
type Settings struct {
	// Release is informational and only logged.
	Release string `json:"release,omitempty"`

	// IdentityPath is the identity record location on the data volume.
	IdentityPath string `json:"identity_path"`

	// IdentityPassphrase seals new records and unseals existing ones.
	// Empty disables sealing.
	IdentityPassphrase string `json:"identity_passphrase,omitempty"`

	// IdentityTimeout bounds identity resolution.
	IdentityTimeout time.Duration `json:"identity_timeout"`

	// ServerBin is the exec target, resolved in PATH.
	ServerBin string `json:"server_bin"`

	// ExecStrategy is exec or supervise.
	ExecStrategy ExecStrategy `json:"exec_strategy"`

	// DevInstallTarget is the editable package path.
	DevInstallTarget string `json:"dev_install_target"`

	// DevInstallExtras is the optional extra feature set. Empty installs
	// the package without extras.
	DevInstallExtras string `json:"dev_install_extras"`

	// DevInstallBin is the package manager binary.
	DevInstallBin string `json:"dev_install_bin"`

	// DevInstallTimeout bounds the dependency install.
	DevInstallTimeout time.Duration `json:"dev_install_timeout"`

	// MetricsFile is the Prometheus textfile path. Empty disables export.
	MetricsFile string `json:"metrics_file,omitempty"`

	// LogFormat is json or text.
	LogFormat string `json:"log_format"`
}
