package command

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/gridboot/internal/identity"
)

// IdentityCommand returns the identity command.
func IdentityCommand() *cli.Command {
	return &cli.Command{
		Name:  "identity",
		Usage: "Get or create the node identity and print it",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "uid", Usage: "Print only the node UID"},
			&cli.BoolFlag{Name: "private-key", Usage: "Print only the private key (hex)"},
			&cli.BoolFlag{Name: "public-key", Usage: "Print only the public key (hex)"},
		},
		Action: identityAction,
	}
}

type identityView struct {
	UID       string `json:"uid"`
	PublicKey string `json:"public_key"`
	Outcome   string `json:"outcome"`
	Path      string `json:"path"`
}

func identityAction(c *cli.Context) error {
	selected := 0
	for _, name := range []string{"uid", "private-key", "public-key"} {
		if c.Bool(name) {
			selected++
		}
	}
	if selected > 1 {
		return cli.Exit("--uid, --private-key and --public-key are mutually exclusive", 1)
	}

	rt, err := loadRuntime(c)
	if err != nil {
		return err
	}

	store := identity.NewStore(rt.Settings.IdentityPath,
		identity.WithPassphrase(rt.Settings.IdentityPassphrase),
		identity.WithLogger(rt.Logger),
	)

	ctx, cancel := context.WithTimeout(c.Context, rt.Settings.IdentityTimeout)
	defer cancel()

	res, err := store.GetOrCreate(ctx)
	if err != nil {
		return err
	}
	id := res.Identity

	switch {
	case c.Bool("uid"):
		_, err = fmt.Fprintln(c.App.Writer, id.UID)
	case c.Bool("private-key"):
		_, err = fmt.Fprintln(c.App.Writer, id.PrivateKeyHex())
	case c.Bool("public-key"):
		_, err = fmt.Fprintln(c.App.Writer, id.PublicKeyHex())
	default:
		err = render(c, identityView{
			UID:       id.UID,
			PublicKey: id.PublicKeyHex(),
			Outcome:   res.Outcome.String(),
			Path:      store.Path(),
		})
	}
	return err
}
