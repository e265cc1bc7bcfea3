package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/libratech/internal/shared"
	"github.com/urfave/cli/v3"
)

// configPath returns $LIBRATECH_CONFIG or ./config.toml.
func configPath() string {
	if p := os.Getenv("LIBRATECH_CONFIG"); p != "" {
		return p
	}
	return "config.toml"
}

// newApp builds the root command around runner.
func newApp(runner *Runner, logger *log.Logger) *cli.Command {
	return &cli.Command{
		Name:     "libratech",
		Usage:    "School library catalog, roster and circulation desk",
		Version:  "0.1.0",
		Commands: runner.register(),
		Writer:   runner.output,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Enable debug logging"},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if cmd.Bool("verbose") {
				shared.SetLogLevel(logger, log.DebugLevel)
			}
			return ctx, nil
		},
	}
}

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	path := configPath()
	if _, err := os.Stat(path); err == nil {
		if loadedConfig, err := shared.LoadConfig(path); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "path", path, "error", err)
		}
	}

	runner := NewRunner(RunnerOpts{Config: config, Logger: logger})
	defer runner.Close()

	app := newApp(runner, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		runner.Close()
		stop()
		logger.Fatalf("application error: %v", err)
	}
}
