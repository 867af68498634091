/*
Copyright © 2025 UnluckyForSome
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/UnluckyForSome/artdex/internal/inventory"
	"github.com/UnluckyForSome/artdex/pkg/logger"
)

func newInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [target]",
		Short: "Write the default collection layout config",
		Long: `Init writes artdex.yaml with the built-in category layout into the target
directory, ready to be edited for a differently arranged collection.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInit,
	}
	cmd.Flags().Bool("force", false, "Overwrite an existing config")
	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	path := filepath.Join(target, layoutConfigName)

	force, _ := cmd.Flags().GetBool("force")
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists, use --force to overwrite", path)
	}

	data, err := inventory.MarshalLayout(inventory.DefaultLayout())
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	logger.Info("layout config written", logger.String("path", path))
	return nil
}
