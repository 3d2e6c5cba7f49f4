package domain

import (
	"errors"
	"fmt"
)

// BootError represents a boot failure with a structured error code.
//
// Codes have the format GB-<AREA>-<NNNN>. Two BootErrors are equal under
// errors.Is when their codes match, so callers compare against the
// sentinels below regardless of details or cause.
type BootError struct {
	Code    string // Error code (e.g., "GB-CONF-4000")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *BootError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Details != "" {
		msg += ": " + e.Details
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *BootError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is() support for error comparison.
func (e *BootError) Is(target error) bool {
	t, ok := target.(*BootError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewBootError creates a new BootError with the given code and message.
func NewBootError(code, message string) *BootError {
	return &BootError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *BootError) WithDetails(details string) *BootError {
	return &BootError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithDetailsf is WithDetails with fmt.Sprintf formatting.
func (e *BootError) WithDetailsf(format string, args ...any) *BootError {
	return e.WithDetails(fmt.Sprintf(format, args...))
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *BootError) WithCause(cause error) *BootError {
	return &BootError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// GetErrorCode extracts the error code from an error if it's a BootError.
func GetErrorCode(err error) string {
	var be *BootError
	if errors.As(err, &be) {
		return be.Code
	}
	return ""
}

// ============================================================================
// Configuration Errors (CONF)
// ============================================================================

var (
	// ErrConfig indicates an environment value is present but invalid.
	// Details always name the offending variable.
	ErrConfig = NewBootError("GB-CONF-4000", "invalid configuration")
)

// ConfigError returns an ErrConfig naming the offending variable.
func ConfigError(variable, value, reason string) *BootError {
	return ErrConfig.WithDetailsf("%s=%q: %s", variable, value, reason)
}

// ============================================================================
// Identity Errors (IDEN)
// ============================================================================

var (
	// ErrCorruptIdentity indicates the identity record exists but cannot be
	// read or parsed. The record is never overwritten in this case.
	ErrCorruptIdentity = NewBootError("GB-IDEN-5000", "corrupt identity record")

	// ErrIdentityStore indicates the identity record could not be persisted.
	ErrIdentityStore = NewBootError("GB-IDEN-5001", "identity store failure")

	// ErrConcurrentWriter indicates another process holds the identity lock
	// or created the record while this process was generating one.
	ErrConcurrentWriter = NewBootError("GB-IDEN-4090", "concurrent identity writer detected")

	// ErrIdentityChanged indicates the record changed between read and launch.
	ErrIdentityChanged = NewBootError("GB-IDEN-4091", "identity record changed during boot")
)

// ============================================================================
// Dependency Errors (DEPS)
// ============================================================================

var (
	// ErrDependencyInstall indicates the development dependency install failed.
	ErrDependencyInstall = NewBootError("GB-DEPS-5000", "dependency install failed")
)

// ============================================================================
// Launch Errors (LNCH)
// ============================================================================

var (
	// ErrLaunch indicates control could not be transferred to the server.
	ErrLaunch = NewBootError("GB-LNCH-5000", "launch failed")
)

// Process exit codes per error class.
const (
	ExitOK       = 0
	ExitInternal = 1
	ExitConfig   = 2
	ExitIdentity = 3
	ExitDeps     = 4
	ExitLaunch   = 5
)

// ExitCode maps an error to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	switch {
	case errors.Is(err, ErrConfig):
		return ExitConfig
	case errors.Is(err, ErrCorruptIdentity),
		errors.Is(err, ErrIdentityStore),
		errors.Is(err, ErrConcurrentWriter),
		errors.Is(err, ErrIdentityChanged):
		return ExitIdentity
	case errors.Is(err, ErrDependencyInstall):
		return ExitDeps
	case errors.Is(err, ErrLaunch):
		return ExitLaunch
	}
	return ExitInternal
}
