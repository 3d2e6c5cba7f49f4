// Package logger provides structured logging for gridboot.
//
// It wraps log/slog:
//
//   - logger.go: Logger interface, JSON/text handlers, global level
//   - context.go: Context propagation of the boot logger and boot ID
//   - redact.go: Sensitive data redaction
//
// Boot logs go to stderr. The server process owns stdout after handoff,
// and the container runtime collects both.
package logger
