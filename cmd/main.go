package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:    "smartcity-ml",
		Usage:   "Road damage scoring and energy usage analytics",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML config",
				EnvVars: []string{"CONFIG_FILE"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			// config.Load читает окружение, флаги переносим туда же
			if c.IsSet("config") {
				if err := os.Setenv("CONFIG_FILE", c.String("config")); err != nil {
					return err
				}
			}
			if c.IsSet("log-level") {
				return os.Setenv("LOG_LEVEL", c.String("log-level"))
			}
			return nil
		},
		Commands: []*cli.Command{
			serveCommand(),
			damageCommand(),
			anomalyCommand(),
			forecastCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
