package command

import (
	"github.com/urfave/cli/v2"

	"github.com/yndnr/gridboot/internal/core/domain"
	"github.com/yndnr/gridboot/internal/launch/config"
)

// ConfigCommand returns the config command.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:   "config",
		Usage:  "Print the resolved launch configuration and bootstrap settings",
		Action: configAction,
	}
}

type configView struct {
	Mode     string              `json:"mode"`
	Launch   domain.LaunchConfig `json:"launch"`
	Settings config.Settings     `json:"settings"`
}

func configAction(c *cli.Context) error {
	rt, err := loadRuntime(c)
	if err != nil {
		return err
	}

	bootMode, cfg, err := config.ResolveAll(rt.Env)
	if err != nil {
		return err
	}

	return render(c, configView{
		Mode:     bootMode.String(),
		Launch:   cfg,
		Settings: config.Sanitize(rt.Settings),
	})
}
