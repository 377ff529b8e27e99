package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/forgeworks/traitforge/internal/config"
	"github.com/forgeworks/traitforge/internal/generator"
	"github.com/forgeworks/traitforge/internal/manifest"
	"github.com/forgeworks/traitforge/internal/printer"
)

var (
	auditConfigPath string
	auditMetadata   string
	auditSheet      string
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Re-check a generated collection against the avoid rules",
	Long: `Independently re-validate an existing collection: for every item and every
trait in it, no other trait of the same item may appear in its avoid list.

'traitforge generate' runs this audit automatically; the standalone command
exists for re-checking a collection after the sheet's rules were edited.`,
	RunE: runAudit,
}

func init() {
	auditCmd.Flags().StringVarP(&auditConfigPath, "config", "c", config.DefaultPath, "Path to forge.yml")
	auditCmd.Flags().StringVar(&auditMetadata, "metadata", "", "Collection metadata to audit (overrides config)")
	auditCmd.Flags().StringVar(&auditSheet, "sheet", "", "Traits sheet to audit against (overrides config)")
	rootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOrDefault(auditConfigPath)
	if err != nil {
		return printer.Error("failed to load configuration", err.Error(), nil)
	}
	if auditMetadata != "" {
		cfg.Output.Metadata = auditMetadata
	}
	if auditSheet != "" {
		cfg.Sheet = auditSheet
	}

	cat, err := loadCatalog(cfg.Sheet)
	if err != nil {
		return err
	}

	items, err := manifest.ReadMetadata(cfg.Output.Metadata)
	if err != nil {
		return printer.Error("failed to read collection metadata", err.Error(),
			[]string{"Run 'traitforge generate' first"})
	}

	findings := generator.Audit(items, cat)
	if len(findings) == 0 {
		printer.Success("Audited %d items: no avoid-rule conflicts found.\n", len(items))
		return nil
	}

	for _, f := range findings {
		printer.Warning("item %d: trait %s/%s conflicts with trait numbers %v\n",
			f.ItemIndex+1, f.TraitType, f.Value, f.Conflicts)
	}
	return printer.Error(
		fmt.Sprintf("%d avoid-rule conflicts found across %d items", len(findings), len(items)),
		"The collection no longer satisfies the sheet's avoid rules.",
		[]string{"Regenerate the collection with 'traitforge generate'"},
	)
}
