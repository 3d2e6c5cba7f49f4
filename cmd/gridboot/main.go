package main

import (
	"fmt"
	"os"

	"github.com/yndnr/gridboot/internal/cli/command"
	"github.com/yndnr/gridboot/internal/telemetry/logger"
)

func main() {
	err := command.App().Run(os.Args)
	if err != nil {
		if msg := err.Error(); msg != "" {
			fmt.Fprintf(os.Stderr, "error: %s\n", logger.RedactString(msg))
		}
	}
	os.Exit(command.ExitCode(err))
}
