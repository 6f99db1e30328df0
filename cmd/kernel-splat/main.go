package main

import (
	"fmt"
	"os"

	"github.com/fxnlabs/kernel-splat/internal/config"
	"github.com/fxnlabs/kernel-splat/internal/logger"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

var version = "dev"

func main() {
	app := newApp()
	if err := app.Run(os.Args); err != nil {
		if log, ok := app.Metadata["logger"].(*zap.Logger); ok {
			log.Named("cli").Fatal("failed to run app", zap.Error(err))
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

func newApp() *cli.App {
	var configPath string
	var verbosity string

	return &cli.App{
		Name:    "kernel-splat",
		Usage:   "Replace matmul dispatches with precompiled SPIR-V kernels",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Value:       config.DefaultPath,
				Usage:       "Path to the configuration file",
				EnvVars:     []string{"KERNEL_SPLAT_CONFIG"},
				Destination: &configPath,
			},
			&cli.StringFlag{
				Name:        "verbosity",
				Usage:       "Override the configured log level",
				Destination: &verbosity,
			},
		},
		Before: func(c *cli.Context) error {
			cfg, err := config.LoadConfigOrDefault(configPath)
			if err != nil {
				return err
			}
			if verbosity != "" {
				cfg.Logger.Verbosity = verbosity
			}
			zapLogger, err := logger.New(cfg.Logger.Verbosity, cfg.Logger.Encoding)
			if err != nil {
				return err
			}
			c.App.Metadata["config"] = cfg
			c.App.Metadata["configPath"] = configPath
			c.App.Metadata["logger"] = zapLogger
			return nil
		},
		Commands: []*cli.Command{
			rewriteCommand(),
			kernelsCommands(),
			initCommand(),
			versionCommand(),
		},
	}
}

func appConfig(c *cli.Context) *config.Config {
	return c.App.Metadata["config"].(*config.Config)
}

// rootLogger is the logger built in Before. Commands log through
// appLogger; the root is handed to the fx graph as is.
func rootLogger(c *cli.Context) *zap.Logger {
	return c.App.Metadata["logger"].(*zap.Logger)
}

func appLogger(c *cli.Context) *zap.Logger {
	return rootLogger(c).Named("cli")
}
