package main

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/wizzomafizzo/assetgen/internal/app"
	"github.com/wizzomafizzo/assetgen/internal/config"
	"github.com/wizzomafizzo/assetgen/internal/prompt"
)

// createInitCommand creates the init command.
func createInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Long:  "Write assetgen.yml, asking for the main settings unless --yes is given.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			yes, err := cmd.Flags().GetBool("yes")
			if err != nil {
				return fmt.Errorf("failed to get yes flag: %w", err)
			}
			force, err := cmd.Flags().GetBool("force")
			if err != nil {
				return fmt.Errorf("failed to get force flag: %w", err)
			}

			_, cliApp, err := createAppFromCommand(cmd)
			if err != nil {
				return err
			}

			cfg := config.DefaultConfig()
			if !yes {
				p := prompt.NewLinerPrompter()
				defer func() { _ = p.Close() }()

				if force, err = askOverwrite(p, cliApp, force); err != nil {
					return err
				}
				if err := askConfig(p, cfg); err != nil {
					return err
				}
			}

			if err := cliApp.Init(cfg, force); err != nil {
				if errors.Is(err, app.ErrConfigExists) {
					return fmt.Errorf("%w (use --force to replace it)", err)
				}
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolP("yes", "y", false, "Accept defaults without prompting")
	cmd.Flags().Bool("force", false, "Replace an existing config file")
	return cmd
}

// askOverwrite confirms replacing an existing config file.
func askOverwrite(p prompt.Prompter, cliApp *app.App, force bool) (bool, error) {
	if force {
		return true, nil
	}
	exists, err := afero.Exists(afero.NewOsFs(), cliApp.ConfigPath())
	if err != nil || !exists {
		return false, nil //nolint:nilerr // Init reports the stat error itself
	}
	overwrite, err := prompt.Confirm(p, cliApp.ConfigPath()+" exists, overwrite?", false)
	if err != nil {
		return false, fmt.Errorf("failed to confirm overwrite: %w", err)
	}
	return overwrite, nil
}

// askConfig fills the main settings from interactive answers.
func askConfig(p prompt.Prompter, cfg *config.Config) error {
	var err error
	if cfg.AssetRoot, err = prompt.TextInput(p, "Asset root", cfg.AssetRoot); err != nil {
		return fmt.Errorf("failed to read asset root: %w", err)
	}
	if cfg.OutputDir, err = prompt.TextInput(p, "Output directory under lib/", cfg.OutputDir); err != nil {
		return fmt.Errorf("failed to read output directory: %w", err)
	}
	if cfg.ClassName, err = prompt.TextInput(p, "Class name", cfg.ClassName); err != nil {
		return fmt.Errorf("failed to read class name: %w", err)
	}

	named, err := prompt.Confirm(p, "Prefix colliding names with their parent directory?", *cfg.NamedWithParent)
	if err != nil {
		return fmt.Errorf("failed to read named_with_parent: %w", err)
	}
	cfg.NamedWithParent = &named
	return nil
}
