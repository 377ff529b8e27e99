package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version string
	commit  string
	date    string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "traitforge",
	Short: "Traitforge - rarity-weighted trait collection generator",
	Long: `Traitforge generates attribute sets for generative collections: each item
picks exactly one trait per trait-type, honors configured rarity
percentages, avoids forbidden trait combinations, and is globally unique.

Trait definitions, rarities and avoid/require rules live in an xlsx sheet
scaffolded from your layer directory. Generation writes the collection
metadata, the trait-to-inscription mapping, and usage statistics as JSON;
the render command composites the layer images into final artwork.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}
