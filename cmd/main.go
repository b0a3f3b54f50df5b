package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sonata/internal/shared"
	"github.com/urfave/cli/v3"
)

const defaultConfigPath = "config.toml"

func main() {
	logger := shared.NewLogger(nil)

	configPath := defaultConfigPath
	if p := os.Getenv("SONATA_CONFIG"); p != "" {
		configPath = p
	}
	config := shared.LoadOrDefault(configPath)

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		HTTPClient: &http.Client{Timeout: config.API.Timeout()},
		Logger:     logger,
	})
	defer runner.Close()

	app := &cli.Command{
		Name:     "sonata",
		Usage:    "Stream and browse the Sonata music catalog",
		Version:  "0.1.0",
		Commands: runner.register(),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("debug") {
				shared.SetLogLevel(logger, log.DebugLevel)
			}
			return ctx, nil
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		runner.Close()
		logger.Fatalf("application error: %v", err)
	}
}
