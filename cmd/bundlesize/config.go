package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nao1215/bundlesize/internal/config"
	"github.com/nao1215/bundlesize/internal/log"
)

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// getConfigFlag retrieves the config file flag from the command or its parent.
func getConfigFlag(cmd *cobra.Command) string {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		path, err = cmd.Root().PersistentFlags().GetString("config")
		if err != nil {
			return ""
		}
	}
	return path
}

// loadConfig returns the defaults merged with the configuration file.
// A missing file is only an error when its path was given explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)
	cfg.ConfigFilePath = getConfigFlag(cmd)

	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath == "" {
		if cfg.ConfigFilePath != "" {
			return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
		}
		return cfg, nil
	}

	f, err := config.LoadConfigFile(configPath)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) && cfg.ConfigFilePath == "" {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}
	if err := cfg.Apply(f); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}
	return cfg, nil
}

// setupLogger creates the logger of a command, writing to its error output.
func setupLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	return log.NewSecureLogger(cmd.ErrOrStderr(), verbose)
}
