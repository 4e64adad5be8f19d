// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/poiesic/memrepo"
	"github.com/poiesic/memrepo/config"
	"github.com/urfave/cli/v2"
)

const configKey = "config"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "memrepo",
		Usage: "Identifiable record store with memory and BadgerDB backends",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML config file (defaults to $" + config.EnvConfigPath + ")",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory (selects the badger backend)",
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Execute a line-oriented script against a single store",
				Action: runCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "script",
						Aliases: []string{"s"},
						Usage:   "Script file to execute, or - for stdin",
						Value:   "-",
					},
				},
			},
			{
				Name:   "load",
				Usage:  "Load items from a YAML file and print the store",
				Action: loadCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "YAML file holding a list of items",
						Required: true,
					},
				},
			},
			{
				Name:   "seed",
				Usage:  "Generate sample items and load them",
				Action: seedCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "count",
						Aliases: []string{"n"},
						Usage:   "Number of items to generate",
						Value:   100,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of items loaded per batch",
						Value: 25,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress to stderr every N items (0 disables)",
					},
				},
			},
		},
	}
}

// setup configures logging and loads the config shared by every command.
func setup(c *cli.Context) error {
	if err := setupLogger(c); err != nil {
		return err
	}

	cfg, path, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	if db := c.String("db"); db != "" {
		config.WithBackend(config.BackendBadger)(cfg)
		config.WithPath(db)(cfg)
		config.WithInMemory(false)(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// The flag wins over the file unless it was left at its default.
	if !c.IsSet("log-level") && cfg.LogLevel != "" {
		if err := configureLogger(cfg.LogLevel); err != nil {
			return err
		}
	}

	if c.App.Metadata == nil {
		c.App.Metadata = make(map[string]any)
	}
	c.App.Metadata[configKey] = cfg

	slog.Debug("configuration loaded", "path", path, "backend", cfg.Storage.Backend)
	return nil
}

func setupLogger(c *cli.Context) error {
	return configureLogger(c.String("log-level"))
}

func configureLogger(levelStr string) error {
	levelStr = strings.ToLower(levelStr)

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

// openDatabase opens the database described by the config loaded in setup.
func openDatabase(c *cli.Context) (*memrepo.Database, error) {
	cfg, _ := c.App.Metadata[configKey].(*config.Config)
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	db, err := memrepo.NewDatabase(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

func commandContext(c *cli.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(c.Context, os.Interrupt)
}
