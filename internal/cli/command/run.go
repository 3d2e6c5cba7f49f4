package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/gridboot/internal/boot"
	"github.com/yndnr/gridboot/internal/telemetry/logger"
)

// runCommand returns the run command. It is also the default action.
func runCommand(o *appOptions) *cli.Command {
	return &cli.Command{
		Name:   "run",
		Usage:  "Run the boot sequence and hand off to the server (default)",
		Flags:  []cli.Flag{dryRunFlag()},
		Action: runAction(o),
	}
}

// dryRunRequested reports whether --dry-run was given before or after
// the run command name.
func dryRunRequested(c *cli.Context) bool {
	for _, cc := range c.Lineage() {
		if cc.Bool("dry-run") {
			return true
		}
	}
	return false
}

func runAction(o *appOptions) cli.ActionFunc {
	return func(c *cli.Context) error {
		rt, err := loadRuntime(c)
		if err != nil {
			return err
		}

		ctx := logger.WithBootID(logger.WithLogger(c.Context, rt.Logger), rt.BootID)
		dryRun := dryRunRequested(c)

		opts := append([]boot.Option{
			boot.WithLogger(rt.Logger),
			boot.WithDryRun(dryRun),
		}, o.bootOptions...)

		res, err := boot.NewSequence(rt.Env, rt.Settings, opts...).Run(ctx)
		if err != nil {
			// The sequence has already logged the failure.
			return cli.Exit("", res.ExitCode)
		}

		if dryRun {
			return render(c, res.Invocation.Redacted())
		}
		if res.ExitCode != 0 {
			return cli.Exit("", res.ExitCode)
		}
		return nil
	}
}
