// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the rulebook-engine CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/rulebook-engine/internal/config"
	"github.com/pdiddy/rulebook-engine/internal/logger"
	"github.com/pdiddy/rulebook-engine/internal/secrets"
	"github.com/pdiddy/rulebook-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// profileErr records a --profile that could not be loaded during
// initConfig, reported once a command runs.
var profileErr error

// rootCmd is the base command for the rulebook-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "rulebook-engine",
	Short: "Turn a rulebook PDF into retrieval-sized Markdown chunks",
	Long: `rulebook-engine converts a rulebook PDF into cleaned Markdown and partitions
it into self-contained chunks with metadata headers, reporting on the size
distribution and section coverage of the result.

Each stage is a subcommand: extract, clean, and chunk. The run command detects
which stage outputs exist and resumes from the right place; status shows the
same detection without running anything.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if profileErr != nil {
			return profileErr
		}
		s, err := secrets.Load(secrets.DefaultDir)
		if err != nil {
			return err
		}
		if keys := s.Keys(); len(keys) > 0 {
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		for _, name := range s.Skipped() {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s\n", name)
		}
		s.Apply(viper.SetDefault)
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./rulebook-engine.yaml or ~/.config/rulebook-engine/config.yaml)")
	pf.String("profile", "", "named profile to start from (built-in: fast, quality)")
	pf.String("profiles-dir", config.DefaultProfilesDir, "directory holding saved profiles")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("log-format", "", "log format: text or json")
}

func initConfig() {
	base := types.DefaultConfig()
	if name, _ := rootCmd.PersistentFlags().GetString("profile"); name != "" {
		dir, _ := rootCmd.PersistentFlags().GetString("profiles-dir")
		p, err := config.LoadProfile(dir, name)
		if err != nil {
			profileErr = err
		} else {
			base = p
		}
	}
	config.SetDefaults(viper.GetViper(), base)

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("rulebook-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "rulebook-engine"))
		}
	}

	config.BindEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig binds the command's flags to their config keys and returns the
// resolved configuration with a logger built from it. Only flags the user
// set override the file and environment.
func loadConfig(cmd *cobra.Command, flagKeys map[string]string) (types.Config, *slog.Logger, error) {
	keys := map[string]string{
		"log-level":  "logging.level",
		"log-format": "logging.format",
	}
	for flag, key := range flagKeys {
		keys[flag] = key
	}
	for flag, key := range keys {
		f := cmd.Flags().Lookup(flag)
		if f == nil || !f.Changed {
			continue
		}
		viper.Set(key, f.Value.String())
	}

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return types.Config{}, nil, err
	}
	return cfg, logger.New(cfg.Logging.Level, cfg.Logging.Format, os.Stderr), nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
