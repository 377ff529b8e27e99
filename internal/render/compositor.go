// Package render composites layer images into one output image per generated
// item. It reads the same collection the generator produced and has no
// constraint logic of its own.
package render

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/forgeworks/traitforge/internal/generator"
)

// Compositor renders items by stacking one layer per visible attribute, in
// attribute order (later layers drawn over earlier ones). Decoded and
// resized layers are cached across items.
type Compositor struct {
	traitsDir string
	size      int
	dirByType map[string]string       // trait-type name -> subdirectory name
	cache     map[string]*image.NRGBA // "type/value" -> resized layer
}

// NewCompositor resolves the trait-type subdirectories under traitsDir.
// Directories may be named either exactly after the trait-type or with the
// "<order>. <name>" prefix the init scaffold uses.
func NewCompositor(traitsDir string, size int) (*Compositor, error) {
	entries, err := os.ReadDir(traitsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read traits directory: %w", err)
	}

	dirByType := make(map[string]string)
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dirByType[e.Name()] = e.Name()
		if _, name, ok := strings.Cut(e.Name(), ". "); ok {
			dirByType[name] = e.Name()
		}
	}

	return &Compositor{
		traitsDir: traitsDir,
		size:      size,
		dirByType: dirByType,
		cache:     make(map[string]*image.NRGBA),
	}, nil
}

// Render composites a single item onto a transparent canvas.
func (c *Compositor) Render(item *generator.Item) (*image.NRGBA, error) {
	canvas := imaging.New(c.size, c.size, color.NRGBA{})
	for _, attr := range item.Attributes {
		layer, err := c.layer(attr.TraitType, attr.Value)
		if err != nil {
			return nil, err
		}
		canvas = imaging.Overlay(canvas, layer, image.Pt(0, 0), 1.0)
	}
	return canvas, nil
}

// RenderToDir renders every item to <outDir>/<index>.png, creating the
// directory if needed.
func (c *Compositor) RenderToDir(items []*generator.Item, outDir string) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	for i, item := range items {
		img, err := c.Render(item)
		if err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
		path := filepath.Join(outDir, fmt.Sprintf("%d.png", i))
		if err := imaging.Save(img, path); err != nil {
			return fmt.Errorf("item %d: failed to save %s: %w", i, path, err)
		}
	}
	return nil
}

// layer loads, resizes and caches the image for one (type, value) attribute.
func (c *Compositor) layer(traitType, value string) (*image.NRGBA, error) {
	key := traitType + "/" + value
	if img, ok := c.cache[key]; ok {
		return img, nil
	}

	dir, ok := c.dirByType[traitType]
	if !ok {
		return nil, fmt.Errorf("missing layer directory for trait-type %q", traitType)
	}

	path, err := findLayerFile(filepath.Join(c.traitsDir, dir), value)
	if err != nil {
		return nil, err
	}

	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open layer %s: %w", path, err)
	}

	resized := imaging.Resize(img, c.size, c.size, imaging.Lanczos)
	c.cache[key] = resized
	return resized, nil
}

// findLayerFile locates the file whose name without extension matches the
// trait value.
func findLayerFile(dir, value string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read layer directory %s: %w", dir, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		base := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		if base == value {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", fmt.Errorf("missing layer image for %s/%s", filepath.Base(dir), value)
}
