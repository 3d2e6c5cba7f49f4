package logger

import (
	"log/slog"
	"strings"
	"sync"
)

// Sensitive key patterns that should be redacted.
var sensitiveKeyPatterns = []string{
	"private",
	"passphrase",
	"password",
	"secret",
	"token",
	"credential",
}

// redactedValue is the placeholder for redacted sensitive data.
const redactedValue = "***REDACTED***"

// minSecretLength keeps short registered values from redacting unrelated
// text.
const minSecretLength = 8

var (
	secretsMu sync.RWMutex
	secrets   []string
)

// RegisterSecret marks a runtime value as sensitive. Any logged string
// containing it is redacted, whatever its key. Values shorter than
// minSecretLength are ignored.
func RegisterSecret(value string) {
	if len(value) < minSecretLength {
		return
	}
	secretsMu.Lock()
	defer secretsMu.Unlock()
	for _, s := range secrets {
		if s == value {
			return
		}
	}
	secrets = append(secrets, value)
}

// resetSecrets clears registered secrets. Used by tests.
func resetSecrets() {
	secretsMu.Lock()
	secrets = nil
	secretsMu.Unlock()
}

// redactSensitive checks if an attribute contains sensitive data and
// redacts it if necessary.
func redactSensitive(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindString {
		strVal := a.Value.String()
		if strVal == "" {
			return a
		}
		if IsSensitiveKey(a.Key) {
			return slog.String(a.Key, redactedValue)
		}
		if redacted, ok := redactSecrets(strVal); ok {
			return slog.String(a.Key, redacted)
		}
	}

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		newAttrs := make([]slog.Attr, len(attrs))
		for i, attr := range attrs {
			newAttrs[i] = redactSensitive(attr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(newAttrs...)}
	}

	return a
}

// redactSecrets replaces every registered secret in s.
func redactSecrets(s string) (string, bool) {
	secretsMu.RLock()
	defer secretsMu.RUnlock()

	changed := false
	for _, secret := range secrets {
		if strings.Contains(s, secret) {
			s = strings.ReplaceAll(s, secret, redactedValue)
			changed = true
		}
	}
	return s, changed
}

// RedactString manually redacts registered secrets from a string.
func RedactString(value string) string {
	redacted, _ := redactSecrets(value)
	return redacted
}

// IsSensitiveKey checks if a key name suggests sensitive content.
func IsSensitiveKey(key string) bool {
	keyLower := strings.ToLower(key)
	for _, pattern := range sensitiveKeyPatterns {
		if strings.Contains(keyLower, pattern) {
			return true
		}
	}
	return false
}
