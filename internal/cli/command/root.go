package command

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/gridboot/internal/boot"
	"github.com/yndnr/gridboot/internal/cli/output"
	"github.com/yndnr/gridboot/internal/core/domain"
	"github.com/yndnr/gridboot/internal/infra/buildinfo"
	"github.com/yndnr/gridboot/internal/infra/confloader"
	"github.com/yndnr/gridboot/internal/launch/config"
	"github.com/yndnr/gridboot/internal/telemetry/logger"
)

const runtimeKey = "runtime"

// AppOption configures the application.
type AppOption func(*appOptions)

type appOptions struct {
	bootOptions []boot.Option
}

// WithBootOptions passes options to every boot sequence the app runs.
func WithBootOptions(opts ...boot.Option) AppOption {
	return func(o *appOptions) { o.bootOptions = append(o.bootOptions, opts...) }
}

// App creates the CLI application.
func App(opts ...AppOption) *cli.App {
	o := &appOptions{}
	for _, opt := range opts {
		opt(o)
	}

	return &cli.App{
		Name:                 "gridboot",
		Usage:                "Bootstrap node identity and launch the application server",
		Version:              buildinfo.String(),
		HideVersion:          true,
		Flags:                globalFlags(),
		EnableBashCompletion: true,
		Action:               runAction(o),
		Commands: []*cli.Command{
			runCommand(o),
			IdentityCommand(),
			ConfigCommand(),
			VersionCommand(),
		},
		Metadata: map[string]any{},
		// Exit codes are decided by ExitCode in main, not by the library.
		ExitErrHandler: func(*cli.Context, error) {},
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "YAML defaults file (overridden by the environment)",
			EnvVars: []string{"GRIDBOOT_CONFIG"},
		},
		&cli.StringFlag{
			Name:    "env-file",
			Aliases: []string{"e"},
			Usage:   "dotenv file (overridden by the environment)",
			EnvVars: []string{"GRIDBOOT_ENV_FILE"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: json, yaml, text",
			Value:   string(output.FormatJSON),
		},
		dryRunFlag(),
	}
}

func dryRunFlag() *cli.BoolFlag {
	return &cli.BoolFlag{
		Name:  "dry-run",
		Usage: "Resolve everything and print the server invocation without launching",
	}
}

// Runtime is the per-invocation state shared by commands.
type Runtime struct {
	Env      confloader.Env
	Settings config.Settings
	Logger   logger.Logger
	BootID   string
}

// loadRuntime snapshots the environment, resolves bootstrap settings and
// installs the boot logger. It runs at most once per invocation.
func loadRuntime(c *cli.Context) (*Runtime, error) {
	if rt, ok := c.App.Metadata[runtimeKey].(*Runtime); ok {
		return rt, nil
	}

	loader := confloader.NewLoader(
		confloader.WithConfigFile(c.String("config")),
		confloader.WithDotenvFile(c.String("env-file")),
	)
	env, err := loader.Snapshot()
	if err != nil {
		return nil, domain.ErrConfig.WithDetails("environment snapshot").WithCause(err)
	}

	settings, err := config.ResolveSettings(env)
	if err != nil {
		return nil, err
	}

	level, _ := env.Value(config.EnvLogLevel)
	l, err := logger.New(logger.Config{
		Level:  level,
		Format: settings.LogFormat,
		Output: errWriter(c),
	})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	bootID := logger.NewBootID()
	l = l.With("boot_id", bootID)
	logger.SetDefault(l)
	if settings.IdentityPassphrase != "" {
		logger.RegisterSecret(settings.IdentityPassphrase)
	}

	rt := &Runtime{Env: env, Settings: settings, Logger: l, BootID: bootID}
	c.App.Metadata[runtimeKey] = rt
	return rt, nil
}

// render writes data to the app writer in the selected output format.
func render(c *cli.Context, data any) error {
	format, err := output.ParseFormat(c.String("output"))
	if err != nil {
		return cli.Exit(err.Error(), domain.ExitInternal)
	}
	return output.NewFormatter(format).Format(c.App.Writer, data)
}

func errWriter(c *cli.Context) io.Writer {
	if c.App.ErrWriter != nil {
		return c.App.ErrWriter
	}
	return os.Stderr
}

// ExitCode maps the error returned by App().Run to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return domain.ExitOK
	}
	var coder cli.ExitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return domain.ExitCode(err)
}
