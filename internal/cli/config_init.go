package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rshade/carbonfocus/internal/config"
)

// NewConfigInitCmd creates the config init command for initializing configuration.
// With --project it creates a project-local .carbonfocus/ directory with
// config.yaml and .gitignore. Otherwise, it creates the global
// ~/.carbonfocus/config.yaml.
func NewConfigInitCmd() *cobra.Command {
	var (
		force   bool
		project bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Long: `Creates a new configuration file with default values.

By default the file is $CARBONFOCUS_HOME/config.yaml (~/.carbonfocus/config.yaml).
With --project, creates .carbonfocus/config.yaml in the project directory
(--project-dir, or the working directory) with a .gitignore for log files.
Project settings override the global file section by section.`,
		Example: `  # Create global configuration
  carbonfocus config init

  # Create project-local configuration in the current directory
  carbonfocus config init --project

  # Create configuration, overwriting existing
  carbonfocus config init --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if project {
				projectDir := config.GetResolvedProjectDir()
				if projectDir == "" {
					wd, err := os.Getwd()
					if err != nil {
						return fmt.Errorf("resolving working directory: %w", err)
					}
					projectDir = filepath.Join(wd, ".carbonfocus")
				}
				return initProjectConfig(cmd, projectDir, force)
			}

			return initGlobalConfig(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	cmd.Flags().BoolVar(&project, "project", false, "create project-local configuration instead of global")

	return cmd
}

// checkWritable refuses to overwrite an existing file unless force is set.
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

// initProjectConfig creates project-local config at projectDir/config.yaml with .gitignore.
func initProjectConfig(cmd *cobra.Command, projectDir string, force bool) error {
	configPath := filepath.Join(projectDir, "config.yaml")
	if err := checkWritable(configPath, force); err != nil {
		return err
	}

	if err := config.Default().Save(configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	// Create .gitignore (never overwrites existing)
	created, err := config.EnsureGitignore(projectDir)
	if err != nil {
		return fmt.Errorf("failed to create .gitignore: %w", err)
	}

	cmd.Printf("Configuration initialized at %s\n", configPath)
	if created {
		cmd.Printf("Created .gitignore to keep logs and saved reports out of version control\n")
	}

	return nil
}

// initGlobalConfig creates global config at ~/.carbonfocus/config.yaml.
func initGlobalConfig(cmd *cobra.Command, force bool) error {
	configPath, err := config.ConfigPath()
	if err != nil {
		return err
	}
	if checkErr := checkWritable(configPath, force); checkErr != nil {
		return checkErr
	}

	if err = config.EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create configuration directory: %w", err)
	}
	if err = config.Default().Save(configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	cmd.Printf("Configuration initialized successfully\n")
	cmd.Printf("Configuration file: %s\n", configPath)

	return nil
}
