package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"courier-booking/app"
	"courier-booking/config"
	"courier-booking/logger"

	"github.com/gofiber/fiber/v2/log"
	"github.com/urfave/cli/v2"
)

const stateKey = "courier-state"

func newApp() *cli.App {
	return &cli.App{
		Name:  "courierctl",
		Usage: "book and track courier shipments from the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "api", Usage: "booking API base URL", EnvVars: []string{"COURIER_API_URL"}},
			&cli.StringFlag{Name: "state-dir", Usage: "where sessions and shipments are kept", EnvVars: []string{"COURIER_STATE_DIR"}},
			&cli.DurationFlag{Name: "timeout", Value: 10 * time.Second, Usage: "HTTP timeout"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "debug logging"},
		},
		Before: func(c *cli.Context) error {
			logger.SetLevel(log.LevelError)
			if c.Bool("verbose") {
				logger.SetLevel(log.LevelDebug)
			}

			cfg := config.Load()
			if api := c.String("api"); api != "" {
				cfg.CourierAPIURL = api
			}
			if dir := c.String("state-dir"); dir != "" {
				cfg.CourierStateDir = dir
			}

			state, err := app.Load(cfg, app.Options{Timeout: c.Duration("timeout")})
			if err != nil {
				return err
			}
			logger.Debug("Using API " + cfg.CourierAPIURL + " with state in " + cfg.CourierStateDir)
			c.App.Metadata[stateKey] = state
			return nil
		},
		Metadata: map[string]interface{}{},
		Commands: []*cli.Command{
			signupCommand(),
			loginCommand(),
			whoamiCommand(),
			logoutCommand(),
			bookCommand(),
			listCommand(),
			showCommand(),
			trackCommand(),
			invoiceCommand(),
			adminCommand(),
		},
	}
}

func stateFrom(c *cli.Context) *app.State {
	return c.App.Metadata[stateKey].(*app.State)
}

func requireArg(c *cli.Context, name string) (string, error) {
	if c.NArg() < 1 || c.Args().First() == "" {
		return "", fmt.Errorf("missing %s argument", name)
	}
	return c.Args().First(), nil
}

var errNotFound = errors.New("shipment not found")

func notFound(id string) error {
	return fmt.Errorf("%w: %s", errNotFound, id)
}

func readFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}
