// Package main provides the entry point for gridboot.
//
// gridboot is the container entrypoint of a grid node. On every start it
// applies the boot mode, reads or creates the node identity on the data
// volume, resolves the launch configuration and replaces itself with the
// application server.
//
// Usage:
//
//	gridboot                      # run the boot sequence
//	gridboot --dry-run            # print the server invocation
//	gridboot identity --uid       # print the node UID
//	gridboot config               # print resolved configuration
//	gridboot version
//
// Exit codes: 2 configuration error, 3 identity error, 4 dependency
// install failure, 5 launch failure, 1 anything else. In supervise mode
// the server's exit code is mirrored.
package main
