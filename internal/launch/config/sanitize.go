package config

import "strings"

// Sanitize returns a copy of the settings with sensitive fields masked.
//
// This is used for logging settings without exposing secrets.
func Sanitize(s Settings) Settings {
	if s.IdentityPassphrase != "" {
		s.IdentityPassphrase = maskSecret(s.IdentityPassphrase)
	}
	return s
}

// maskSecret masks a secret value for safe logging.
func maskSecret(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}
