// Package config resolves launch parameters from an environment snapshot.
//
// This package turns a confloader.Env into typed values:
//
//   - default.go: Default values for every knob
//   - resolve.go: Resolve (LaunchConfig), ParseMode and ResolveSettings
//   - settings.go: Settings struct for bootstrap-only knobs
//   - verify.go: Per-variable parsing and validation
//   - sanitize.go: Secret masking for logs
//
// Resolution is pure: no filesystem or network access, and the same
// snapshot always yields the same result. A variable that is present but
// invalid fails with a domain.ErrConfig naming it; there is no silent
// fallback to the default.
package config
