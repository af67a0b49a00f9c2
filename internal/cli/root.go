// Package cli implements the cvdesk command line.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/cvdesk/internal/config"
	"github.com/rshade/cvdesk/internal/logging"
)

// logger is the package-level logger for CLI operations.
var logger = zerolog.Nop() //nolint:gochecknoglobals // Set once per invocation by setupLogging.

type configKey struct{}

// configFromContext returns the configuration loaded by the root command, or
// the built-in defaults when none was loaded.
func configFromContext(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok && cfg != nil {
		return cfg
	}
	return config.Default()
}

// NewRootCmd creates the root Cobra command for the cvdesk CLI.
func NewRootCmd(ver string) *cobra.Command {
	var logResult *logging.LogPathResult

	cmd := &cobra.Command{
		Use:           "cvdesk",
		Short:         "Browse the CV list served by the recruitment backend",
		Long:          "cvdesk fetches CVs from the recruitment backend (or a JSON file) and shows them as a sortable, paginated table.",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(context.WithValue(ctx, configKey{}, cfg))

			result := setupLogging(cmd, cfg)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("config", "", "path to a config file (default ~/.cvdesk/config.yaml)")
	cmd.PersistentFlags().String("project-dir", "", "project directory holding .cvdesk/config.yaml")
	cmd.AddCommand(NewListCmd(), NewShowCmd(), NewBrowseCmd(), newConfigCmd())

	return cmd
}

// loadConfig reads --config when given; otherwise the global config with the
// project overlay merged on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if path, _ := cmd.Flags().GetString("config"); path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			return nil, fmt.Errorf("loading configuration: %w", err)
		}
		return cfg, nil
	}

	flagDir, _ := cmd.Flags().GetString("project-dir")
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	projectDir := config.ResolveProjectDir(ctx, flagDir, wd)
	return config.NewWithProjectDir(ctx, projectDir), nil
}

const rootCmdExample = `  # Print the first page of CVs from the configured backend
  cvdesk list

  # Best candidates first, 20 per page, second page
  cvdesk list --sort score:desc --page-size 20 --page 2

  # Read CVs from a file instead of the backend
  cvdesk list --file cvs.json --output json

  # Browse interactively and reload when the file changes
  cvdesk browse --file cvs.json --watch

  # Write a default configuration
  cvdesk config init`

// newConfigCmd creates the config command group.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(NewConfigInitCmd(), NewConfigShowCmd(), NewConfigValidateCmd())
	return cmd
}
