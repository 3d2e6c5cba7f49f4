// Package shutdown relays process signals to a supervised server.
//
// When gridboot supervises the server instead of exec'ing into it, the
// container runtime still signals gridboot (PID 1). The Relay forwards
// those signals to the child and, after a grace period following a
// terminating signal, kills it.
//
// Usage:
//
//	relay := shutdown.NewRelay(10 * time.Second)
//	relay.Run(cmd.Process, exited)
package shutdown
