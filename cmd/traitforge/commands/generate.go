package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/forgeworks/traitforge/internal/config"
	"github.com/forgeworks/traitforge/internal/generator"
	"github.com/forgeworks/traitforge/internal/manifest"
	"github.com/forgeworks/traitforge/internal/printer"
	"github.com/forgeworks/traitforge/internal/sheet"
	"github.com/forgeworks/traitforge/pkg/catalog"
)

var (
	generateConfigPath string
	generateSheet      string
	generateCount      int
	generateSeed       uint64
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a unique, rarity-weighted collection",
	Long: `Generate the collection metadata from the filled-in traits sheet.

Each item picks exactly one trait per trait-type. Selection respects avoid
rules (and require rules, compiled to their avoid-rule equivalent), corrects
dynamically toward the configured rarities, and deduplicates combinations
across the whole collection. After generation the collection is audited for
avoid-rule conflicts and written out together with the trait-to-inscription
mapping and usage statistics.

If one item cannot be produced within the retry ceiling, the run halts early
and the partial collection is still written, with a warning.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateConfigPath, "config", "c", config.DefaultPath, "Path to forge.yml")
	generateCmd.Flags().StringVar(&generateSheet, "sheet", "", "Traits sheet to read (overrides config)")
	generateCmd.Flags().IntVarP(&generateCount, "count", "n", 0, "Number of items to generate (required)")
	generateCmd.Flags().Uint64Var(&generateSeed, "seed", 0, "RNG seed for reproducible runs (0 = random)")
	generateCmd.MarkFlagRequired("count")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if generateCount < 1 {
		return printer.Error(
			"invalid --count",
			fmt.Sprintf("The item count must be a positive number, got %d.", generateCount),
			nil,
		)
	}

	cfg, err := config.LoadOrDefault(generateConfigPath)
	if err != nil {
		return printer.Error("failed to load configuration", err.Error(), nil)
	}
	if generateSheet != "" {
		cfg.Sheet = generateSheet
	}

	cat, err := loadCatalog(cfg.Sheet)
	if err != nil {
		return err
	}

	seed := generateSeed
	if seed == 0 {
		seed = cfg.Generation.Seed
	}

	engine, err := generator.NewEngine(cat, generator.Options{
		Count:       generateCount,
		Seed:        seed,
		MaxAttempts: cfg.Generation.MaxAttempts,
	})
	if err != nil {
		return printer.Error("failed to set up generation", err.Error(), nil)
	}

	printer.Step("Generating %d items from %s\n", generateCount, cfg.Sheet)

	result, runErr := engine.Run(ctx)
	if runErr != nil {
		var exhausted *generator.ExhaustedAttemptsError
		switch {
		case errors.As(runErr, &exhausted):
			printer.Warning("%v\n", exhausted)
			printer.Warning("Halting early with %d of %d items.\n", len(result.Items), generateCount)
		case errors.Is(runErr, context.Canceled):
			printer.Warning("Generation cancelled; keeping the %d items generated so far.\n", len(result.Items))
		default:
			return printer.Error("generation failed", runErr.Error(), nil)
		}
	}

	// Post-hoc correctness oracle over the engine's own guarantees. Findings
	// indicate a generator defect, not bad input.
	findings := generator.Audit(result.Items, cat)
	for _, f := range findings {
		printer.Warning("inconsistency: item %d trait %s/%s conflicts with trait numbers %v\n",
			f.ItemIndex+1, f.TraitType, f.Value, f.Conflicts)
	}
	if len(findings) > 0 {
		printer.Warning("%d inconsistencies found; please report this as a bug.\n", len(findings))
	}

	if err := manifest.WriteMetadata(cfg.Output.Metadata, result.Items); err != nil {
		return printer.Error("failed to write collection metadata", err.Error(), nil)
	}
	if err := manifest.WriteTraitMap(cfg.Output.Traits, cat.InscriptionMap()); err != nil {
		return printer.Error("failed to write trait mapping", err.Error(), nil)
	}
	if err := manifest.WriteStats(cfg.Output.Stats, result.Stats); err != nil {
		return printer.Error("failed to write usage statistics", err.Error(), nil)
	}

	typeOrder := make([]string, 0, len(cat.Types()))
	for _, tt := range cat.Types() {
		typeOrder = append(typeOrder, tt.Name)
	}
	printer.Println()
	printer.Printf("%s", manifest.FormatStatsTable(result.Stats, typeOrder))
	printer.Println()

	printer.Success("Generated %d items. Wrote %s, %s and %s.\n",
		len(result.Items), cfg.Output.Metadata, cfg.Output.Traits, cfg.Output.Stats)
	return nil
}

// loadCatalog reads the sheet, builds the catalog and compiles its
// constraints, mapping each failure class to a helpful CLI error.
func loadCatalog(sheetPath string) (*catalog.Catalog, error) {
	rows, err := sheet.LoadRows(sheetPath)
	if err != nil {
		return nil, catalogInputError(sheetPath, err)
	}

	cat, err := catalog.Load(rows)
	if err != nil {
		return nil, catalogInputError(sheetPath, err)
	}

	if err := cat.Compile(); err != nil {
		return nil, printer.Error(
			"contradictory require/avoid rules",
			err.Error(),
			[]string{
				"Require Traits entries must reference traits of other trait-types",
				"A trait number cannot appear in both the Avoid and Require columns of one row",
			},
		)
	}

	return cat, nil
}

func catalogInputError(sheetPath string, err error) error {
	var malformed *catalog.MalformedInputError
	if errors.As(err, &malformed) {
		return printer.Error(
			fmt.Sprintf("invalid rows in %s", sheetPath),
			err.Error(),
			[]string{"Correct the listed rows in the sheet and try again"},
		)
	}
	return printer.Error(fmt.Sprintf("failed to load %s", sheetPath), err.Error(), nil)
}
