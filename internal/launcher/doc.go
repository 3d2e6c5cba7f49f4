// Package launcher hands control to the application server.
//
// Plan turns the resolved launch configuration and node identity into an
// argument vector and child environment. Launcher then either replaces
// the bootstrap process with the server (exec) or runs it as a supervised
// child, forwarding signals and mirroring its exit code.
package launcher
