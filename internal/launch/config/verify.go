package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/yndnr/gridboot/internal/core/domain"
	"github.com/yndnr/gridboot/internal/infra/confloader"
)

// logLevels are the levels the server's logging subsystem accepts.
var logLevels = []string{"critical", "error", "warning", "info", "debug", "trace"}

// logFormats are the formats the boot logger supports.
var logFormats = []string{"json", "text"}

func stringVar(env confloader.Env, name, def string) string {
	if v, ok := env.Value(name); ok {
		return v
	}
	return def
}

func portVar(env confloader.Env, name string, def int) (int, error) {
	raw, ok := env.Value(name)
	if !ok {
		return def, nil
	}
	port, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.ConfigError(name, raw, "not an integer")
	}
	if port < 1 || port > 65535 {
		return 0, domain.ConfigError(name, raw, "must be between 1 and 65535")
	}
	return port, nil
}

func boolVar(env confloader.Env, name string, def bool) (bool, error) {
	raw, ok := env.Value(name)
	if !ok {
		return def, nil
	}
	v, err := domain.ParseBoolish(raw)
	if err != nil {
		return false, domain.ConfigError(name, raw, "not a boolean")
	}
	return v, nil
}

func durationVar(env confloader.Env, name string, def time.Duration) (time.Duration, error) {
	raw, ok := env.Value(name)
	if !ok {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		// Bare integers are seconds.
		secs, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return 0, domain.ConfigError(name, raw, "not a duration")
		}
		d = time.Duration(secs) * time.Second
	}
	if d <= 0 {
		return 0, domain.ConfigError(name, raw, "must be positive")
	}
	return d, nil
}

func enumVar(env confloader.Env, name, def string, allowed []string) (string, error) {
	raw, ok := env.Value(name)
	if !ok {
		return def, nil
	}
	v := strings.ToLower(raw)
	for _, a := range allowed {
		if v == a {
			return v, nil
		}
	}
	return "", domain.ConfigError(name, raw, "must be one of "+strings.Join(allowed, ", "))
}
