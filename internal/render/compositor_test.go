package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgeworks/traitforge/internal/generator"
)

// writeLayer saves a 2x2 PNG filled with the given color.
func writeLayer(t *testing.T, path string, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func makeLayerDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	bg := filepath.Join(dir, "1. Background")
	head := filepath.Join(dir, "2. Head")
	require.NoError(t, os.MkdirAll(bg, 0755))
	require.NoError(t, os.MkdirAll(head, 0755))

	writeLayer(t, filepath.Join(bg, "Red.png"), color.NRGBA{R: 255, A: 255})
	writeLayer(t, filepath.Join(head, "Crown.png"), color.NRGBA{G: 255, A: 255})
	return dir
}

func TestRender_CompositesLayersInOrder(t *testing.T) {
	c, err := NewCompositor(makeLayerDir(t), 4)
	require.NoError(t, err)

	img, err := c.Render(&generator.Item{ID: "a", Attributes: []generator.Attribute{
		{TraitType: "Background", Value: "Red"},
		{TraitType: "Head", Value: "Crown"},
	}})
	require.NoError(t, err)

	bounds := img.Bounds()
	assert.Equal(t, 4, bounds.Dx())
	assert.Equal(t, 4, bounds.Dy())

	// The opaque Head layer is drawn over the Background layer.
	r, g, _, a := img.At(1, 1).RGBA()
	assert.Zero(t, r)
	assert.NotZero(t, g)
	assert.NotZero(t, a)
}

func TestRender_EmptyItemIsTransparent(t *testing.T) {
	c, err := NewCompositor(makeLayerDir(t), 4)
	require.NoError(t, err)

	img, err := c.Render(&generator.Item{ID: "a"})
	require.NoError(t, err)

	_, _, _, a := img.At(0, 0).RGBA()
	assert.Zero(t, a)
}

func TestRender_MissingLayer(t *testing.T) {
	c, err := NewCompositor(makeLayerDir(t), 4)
	require.NoError(t, err)

	t.Run("unknown trait-type", func(t *testing.T) {
		_, err := c.Render(&generator.Item{Attributes: []generator.Attribute{
			{TraitType: "Body", Value: "Suit"},
		}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing layer directory")
	})

	t.Run("unknown trait value", func(t *testing.T) {
		_, err := c.Render(&generator.Item{Attributes: []generator.Attribute{
			{TraitType: "Background", Value: "Octarine"},
		}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing layer image")
	})
}

func TestRenderToDir(t *testing.T) {
	c, err := NewCompositor(makeLayerDir(t), 4)
	require.NoError(t, err)

	items := []*generator.Item{
		{ID: "a", Attributes: []generator.Attribute{{TraitType: "Background", Value: "Red"}}},
		{ID: "b", Attributes: []generator.Attribute{{TraitType: "Head", Value: "Crown"}}},
	}

	outDir := filepath.Join(t.TempDir(), "out")
	require.NoError(t, c.RenderToDir(items, outDir))

	for i := range items {
		_, err := os.Stat(filepath.Join(outDir, fmt.Sprintf("%d.png", i)))
		assert.NoError(t, err)
	}
}

func TestRenderToDir_MissingLayerFails(t *testing.T) {
	c, err := NewCompositor(makeLayerDir(t), 4)
	require.NoError(t, err)

	items := []*generator.Item{
		{ID: "a", Attributes: []generator.Attribute{{TraitType: "Background", Value: "Octarine"}}},
	}

	err = c.RenderToDir(items, filepath.Join(t.TempDir(), "out"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "item 0")
}
