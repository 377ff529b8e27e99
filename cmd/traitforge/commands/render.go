package commands

import (
	"github.com/spf13/cobra"

	"github.com/forgeworks/traitforge/internal/config"
	"github.com/forgeworks/traitforge/internal/manifest"
	"github.com/forgeworks/traitforge/internal/printer"
	"github.com/forgeworks/traitforge/internal/render"
)

var (
	renderConfigPath string
	renderMetadata   string
	renderOutDir     string
	renderSize       int
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Composite layer images for a generated collection",
	Long: `Render one image per generated item by compositing its layer images.

Layers are drawn in the order the attributes appear in the metadata (the
trait-type declaration order), later layers over earlier ones, each resized
to a square canvas. Items made entirely of "none" traits render as a
transparent canvas.`,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderConfigPath, "config", "c", config.DefaultPath, "Path to forge.yml")
	renderCmd.Flags().StringVar(&renderMetadata, "metadata", "", "Collection metadata to render (overrides config)")
	renderCmd.Flags().StringVarP(&renderOutDir, "out", "o", "", "Output directory (overrides config)")
	renderCmd.Flags().IntVar(&renderSize, "size", 0, "Canvas size in pixels (overrides config)")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOrDefault(renderConfigPath)
	if err != nil {
		return printer.Error("failed to load configuration", err.Error(), nil)
	}
	if renderMetadata != "" {
		cfg.Output.Metadata = renderMetadata
	}
	if renderOutDir != "" {
		cfg.Output.Images = renderOutDir
	}
	if renderSize != 0 {
		cfg.Image.Size = renderSize
	}
	if err := cfg.Validate(); err != nil {
		return printer.Error("invalid configuration", err.Error(), nil)
	}

	items, err := manifest.ReadMetadata(cfg.Output.Metadata)
	if err != nil {
		return printer.Error("failed to read collection metadata", err.Error(),
			[]string{"Run 'traitforge generate' first"})
	}

	compositor, err := render.NewCompositor(cfg.TraitsDir, cfg.Image.Size)
	if err != nil {
		return printer.Error("failed to open traits directory", err.Error(), nil)
	}

	printer.Step("Rendering %d items to %s\n", len(items), cfg.Output.Images)
	if err := compositor.RenderToDir(items, cfg.Output.Images); err != nil {
		return printer.Error("rendering failed", err.Error(), nil)
	}

	printer.Success("Rendered %d items to %s\n", len(items), cfg.Output.Images)
	return nil
}
