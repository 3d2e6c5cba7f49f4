// Package boot runs the node boot sequence.
//
// The sequence is a strict state machine:
//
//	Start -> ModeApplied -> IdentityResolved -> ConfigResolved -> Launched
//
// No step is skipped and any failure halts the sequence before launch.
// The last reached state is kept for diagnostics and exported as a metric.
package boot
