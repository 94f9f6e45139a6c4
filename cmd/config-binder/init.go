package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"config-binder/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init <package> <root>",
	Short: "Write a starter config-binder.yaml",
	Long: `Init writes config-binder.yaml in the working directory with one component
for the given package and root type, bound to the environment.`,
	Example: "  config-binder init example.com/app/config Config",
	Args:    cobra.ExactArgs(2),
	RunE:    runInit,
}

func init() {
	initCmd.Flags().Bool("force", false, "overwrite an existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	s, err := newBareSession(cmd)
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return fmt.Errorf("failed to get force flag: %w", err)
	}

	wd, err := os.Getwd()
	if err != nil {
		return err
	}

	path := filepath.Join(wd, config.DefaultNames[0])
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config already exists: %s (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	f := config.Example(args[0], args[1])
	if err := config.Validate(f); err != nil {
		return err
	}

	if err := config.WriteFile(f, path); err != nil {
		return err
	}

	s.printer.status(true, "wrote %s", path)

	return nil
}
