package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("could not load .env file")
	}

	// Setup logging
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCommand().Run(ctx, os.Args); err != nil {
		log.Fatal().Err(err).Msg("alias failed")
	}
}

func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:  "alias",
		Usage: "headless client for the Alias party game",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   defaultConfigPath,
				Usage:   "path to the YAML config file",
				Sources: cli.EnvVars("ALIAS_CONFIG"),
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "override log_level (debug, info, warn, error)",
			},
		},
		Commands: []*cli.Command{
			playCommand(),
			createCommand(),
			statsCommand(),
		},
	}
}

// configure loads the config and applies the log level flags
func configure(cmd *cli.Command) (*Config, error) {
	cfg, err := loadConfig(cmd.String("config"))
	if err != nil {
		return nil, err
	}
	if lvl := cmd.String("log-level"); lvl != "" {
		cfg.LogLevel = lvl
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("log_level", cfg.LogLevel).Msg("unknown log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	return cfg, nil
}
