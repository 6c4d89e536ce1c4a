// Command storectl runs store operations from the terminal against the
// configured storage.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/example/clothing-store/internal/app"
	"github.com/example/clothing-store/internal/config"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var errAdminRequired = errors.New("this command needs --admin")

type session struct {
	app *app.App
	out io.Writer
}

func main() {
	if err := newCLI(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newCLI(out io.Writer) *cli.App {
	s := &session{out: out}
	return &cli.App{
		Name:      "storectl",
		Usage:     "manage the clothing store catalog, cart and orders",
		Writer:    out,
		ErrWriter: out,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "admin", Usage: "enable admin mode for this run"},
		},
		Before: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a, err := app.Build(c.Context, cfg)
			if err != nil {
				return err
			}
			s.app = a
			if c.Bool("admin") {
				s.app.Store.ToggleAdminMode()
			}
			return nil
		},
		After: func(c *cli.Context) error {
			if s.app == nil {
				return nil
			}
			if err := s.app.Close(context.Background()); err != nil {
				log.WithError(err).Warn("close failed")
			}
			return nil
		},
		Commands: []*cli.Command{
			s.productsCommand(),
			s.categoriesCommand(),
			s.cartCommand(),
			s.ordersCommand(),
			s.dashboardCommand(),
			s.describeCommand(),
		},
	}
}

// admin wraps actions that the storefront only shows in admin mode.
func (s *session) admin(action cli.ActionFunc) cli.ActionFunc {
	return func(c *cli.Context) error {
		if !s.app.Store.IsAdminMode() {
			return errAdminRequired
		}
		return action(c)
	}
}
