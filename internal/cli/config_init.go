package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rshade/cvdesk/internal/config"
)

// NewConfigInitCmd creates the config init command for initializing configuration.
// With --project it creates ./.cvdesk/config.yaml and a .gitignore; otherwise
// the global ~/.cvdesk/config.yaml.
func NewConfigInitCmd() *cobra.Command {
	var (
		force   bool
		project bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Example: `  # Create the global configuration
  cvdesk config init

  # Create a project-local configuration in ./.cvdesk
  cvdesk config init --project

  # Overwrite an existing file
  cvdesk config init --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if project {
				dir, err := cmd.Flags().GetString("project-dir")
				if err != nil {
					return fmt.Errorf("reading --project-dir: %w", err)
				}
				if dir == "" {
					dir = "."
				}
				abs, err := filepath.Abs(dir)
				if err != nil {
					return fmt.Errorf("resolving project directory: %w", err)
				}
				if filepath.Base(abs) != ".cvdesk" {
					abs = filepath.Join(abs, ".cvdesk")
				}
				return initProjectConfig(cmd, abs, force)
			}
			return initGlobalConfig(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	cmd.Flags().BoolVar(&project, "project", false, "create project-local configuration in ./.cvdesk")

	return cmd
}

func initProjectConfig(cmd *cobra.Command, projectDir string, force bool) error {
	configPath := filepath.Join(projectDir, "config.yaml")
	if err := checkWritable(configPath, force); err != nil {
		return err
	}

	if err := config.Default().SaveTo(configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	created, err := config.EnsureGitignore(projectDir)
	if err != nil {
		return fmt.Errorf("failed to create .gitignore: %w", err)
	}

	cmd.Printf("Configuration initialized at %s\n", configPath)
	if created {
		cmd.Printf("Created .gitignore to keep logs and local overrides out of version control\n")
	}
	return nil
}

func initGlobalConfig(cmd *cobra.Command, force bool) error {
	configPath, err := config.ConfigPath()
	if err != nil {
		return err
	}
	if err = checkWritable(configPath, force); err != nil {
		return err
	}

	if err = config.Default().SaveTo(configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	cmd.Printf("Configuration initialized successfully\n")
	cmd.Printf("Configuration file: %s\n", configPath)
	return nil
}

func checkWritable(path string, force bool) error {
	if force {
		return nil
	}
	_, err := os.Stat(path)
	if err == nil {
		return errors.New("configuration file already exists, use --force to overwrite")
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("cannot access config path %s: %w", path, err)
	}
	return nil
}
