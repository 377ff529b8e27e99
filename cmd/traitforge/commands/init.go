package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/forgeworks/traitforge/internal/config"
	"github.com/forgeworks/traitforge/internal/printer"
	"github.com/forgeworks/traitforge/internal/sheet"
)

var (
	initConfigPath string
	initTraitsDir  string
	initSheet      string
	initForce      bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Scaffold the traits sheet from a layer directory",
	Long: `Scan the traits directory and create the traits_info.xlsx template.

The traits directory must contain one subdirectory per trait-type, named
"<order>. <name>" (e.g. "1. Background"); the numeric prefix fixes both the
trait-type order and the layer compositing order. Each image file inside
becomes one trait row, and a "none" row is appended per trait-type.

Fill in the Inscription ID, Rarity and Avoid/Require columns before running
'traitforge generate'.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().StringVarP(&initConfigPath, "config", "c", config.DefaultPath, "Path to forge.yml")
	initCmd.Flags().StringVar(&initTraitsDir, "traits-dir", "", "Layer directory to scan (overrides config)")
	initCmd.Flags().StringVar(&initSheet, "sheet", "", "Sheet path to create (overrides config)")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing sheet")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOrDefault(initConfigPath)
	if err != nil {
		return printer.Error("failed to load configuration", err.Error(), nil)
	}
	if initTraitsDir != "" {
		cfg.TraitsDir = initTraitsDir
	}
	if initSheet != "" {
		cfg.Sheet = initSheet
	}

	if _, err := os.Stat(cfg.Sheet); err == nil && !initForce {
		return printer.Error(
			fmt.Sprintf("traits sheet already exists: %s", cfg.Sheet),
			"Refusing to overwrite a sheet that may contain filled-in rarities and rules.",
			[]string{"Re-run with --force to overwrite it"},
		)
	}

	if err := sheet.CreateTemplate(cfg.Sheet, cfg.TraitsDir); err != nil {
		return printer.Error("failed to create traits sheet", err.Error(), nil)
	}

	printer.Success("Created %s\n", cfg.Sheet)
	printer.Info("\nFill in the Inscription ID, Rarity (%%) and Avoid/Require columns,\nthen run 'traitforge generate --count <N>'.\n")
	return nil
}
