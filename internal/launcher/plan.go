package launcher

import (
	"strconv"
	"strings"

	"github.com/yndnr/gridboot/internal/core/domain"
	"github.com/yndnr/gridboot/internal/infra/confloader"
	"github.com/yndnr/gridboot/internal/launch/config"
	"github.com/yndnr/gridboot/internal/telemetry/logger"
)

// Variables exported to the server process.
const (
	EnvNodePrivateKey = "NODE_PRIVATE_KEY"
	EnvNodeUID        = "NODE_UID"
)

// Invocation is a fully planned server start.
type Invocation struct {
	// Bin is the server binary as configured; Launch resolves it in PATH.
	Bin string `json:"bin"`
	// Argv is the full argument vector, Argv[0] == Bin.
	Argv []string `json:"argv"`
	// Env is the child environment in KEY=VALUE form, sorted by key.
	Env []string `json:"env"`
}

// Plan builds the server invocation. It is pure: the same inputs always
// yield the same invocation.
//
// The argument vector is
//
//	SERVER_BIN [--reload] --host H --port P --log-level L APP_MODULE
//
// and the child environment is base with the node identity and the
// resolved launch values overriding any inherited values.
func Plan(cfg domain.LaunchConfig, id domain.NodeIdentity, settings config.Settings, base confloader.Env) Invocation {
	argv := []string{settings.ServerBin}
	if cfg.Reload {
		argv = append(argv, "--reload")
	}
	argv = append(argv,
		"--host", cfg.Host,
		"--port", strconv.Itoa(cfg.Port),
		"--log-level", cfg.LogLevel,
		cfg.AppModule,
	)

	env := base.With(map[string]string{
		EnvNodePrivateKey:   id.PrivateKeyHex(),
		EnvNodeUID:          id.UID,
		config.EnvNodeType:  cfg.NodeType,
		config.EnvNodeName:  cfg.NodeName,
		config.EnvHost:      cfg.Host,
		config.EnvPort:      strconv.Itoa(cfg.Port),
		config.EnvLogLevel:  cfg.LogLevel,
		config.EnvAppModule: cfg.AppModule,
	})

	return Invocation{
		Bin:  settings.ServerBin,
		Argv: argv,
		Env:  env.Environ(),
	}
}

// Getenv returns the value of name in the child environment.
func (inv Invocation) Getenv(name string) (string, bool) {
	prefix := name + "="
	for _, kv := range inv.Env {
		if strings.HasPrefix(kv, prefix) {
			return kv[len(prefix):], true
		}
	}
	return "", false
}

// Redacted returns a copy safe to print, with sensitive environment
// values masked.
func (inv Invocation) Redacted() Invocation {
	env := make([]string, len(inv.Env))
	for i, kv := range inv.Env {
		key, _, _ := strings.Cut(kv, "=")
		if logger.IsSensitiveKey(key) {
			kv = key + "=***REDACTED***"
		}
		env[i] = kv
	}
	return Invocation{
		Bin:  inv.Bin,
		Argv: append([]string(nil), inv.Argv...),
		Env:  env,
	}
}
