package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/sandwichfarm/zaptop/internal/app"
	"github.com/sandwichfarm/zaptop/internal/config"
	"github.com/sandwichfarm/zaptop/internal/ops"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
	builtBy = "manual"
)

var root = &cli.Command{
	Name:      "zaptop",
	Usage:     "print the largest zaps seen on a nostr relay",
	UsageText: "zaptop [--config zaptop.yaml] [relay-host]",
	ArgsUsage: "[relay-host]",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "path to configuration file",
		},
		&cli.IntFlag{
			Name:    "limit",
			Aliases: []string{"n"},
			Usage:   "number of zaps to print",
		},
		&cli.DurationFlag{
			Name:  "lookback",
			Usage: "how far back to look for zap receipts",
		},
		&cli.BoolFlag{
			Name:  "show-receipt",
			Usage: "print the nevent of each zap receipt",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "debug, info, warn or error",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "text or json",
		},
		&cli.StringFlag{
			Name:  "metrics-file",
			Usage: "write run metrics to this node_exporter textfile",
		},
	},
	Action: run,
	Commands: []*cli.Command{
		{
			Name:  "init",
			Usage: "print an example configuration",
			Action: func(ctx context.Context, c *cli.Command) error {
				data, err := config.GetExampleConfig()
				if err != nil {
					return fmt.Errorf("failed to load example config: %w", err)
				}
				_, err = os.Stdout.Write(data)
				return err
			},
		},
		{
			Name:  "version",
			Usage: "show version information",
			Action: func(ctx context.Context, c *cli.Command) error {
				fmt.Printf("zaptop %s\n", version)
				fmt.Printf("  commit: %s\n", commit)
				fmt.Printf("  built:  %s\n", date)
				fmt.Printf("  by:     %s\n", builtBy)
				return nil
			},
		},
	},
}

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, c *cli.Command) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	logger := ops.NewLogger(&cfg.Logging)
	ops.SetDefault(logger)
	logger.LogStartup(version, commit, cfg.Relay.URL, cfg.Query.Limit, cfg.Query.Lookback)

	_, err = app.Run(ctx, cfg, app.DialRelay, os.Stdout, logger, ops.NewMetrics())
	return err
}

// loadConfig layers the config file, environment, flags and the relay argument
func loadConfig(c *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	if c.IsSet("limit") {
		cfg.Query.Limit = int(c.Int("limit"))
	}
	if c.IsSet("lookback") {
		cfg.Query.Lookback = c.Duration("lookback")
	}
	if c.IsSet("show-receipt") {
		cfg.Output.ShowReceipt = c.Bool("show-receipt")
	}
	if c.IsSet("log-level") {
		cfg.Logging.Level = c.String("log-level")
	}
	if c.IsSet("log-format") {
		cfg.Logging.Format = c.String("log-format")
	}
	if c.IsSet("metrics-file") {
		cfg.Metrics.Textfile = c.String("metrics-file")
	}
	if host := c.Args().First(); host != "" {
		cfg.OverrideRelay(host)
	}

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
