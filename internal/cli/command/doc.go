// Package command provides the gridboot command-line application.
//
// It uses urfave/cli/v2. The default action runs the boot sequence;
// the identity, config and version subcommands inspect the node without
// launching the server.
package command
