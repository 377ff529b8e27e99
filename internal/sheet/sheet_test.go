package sheet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/forgeworks/traitforge/pkg/catalog"
)

// makeTraitsDir lays out a minimal layer directory:
//
//	1. Background/{Red,Blue}.png
//	2. Head/Crown.png
func makeTraitsDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for sub, files := range map[string][]string{
		"1. Background": {"Red.png", "Blue.png"},
		"2. Head":       {"Crown.png"},
	} {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, sub), 0755))
		for _, f := range files {
			require.NoError(t, os.WriteFile(filepath.Join(dir, sub, f), []byte("stub"), 0644))
		}
	}
	return dir
}

func TestScanTraitsDir(t *testing.T) {
	types, err := ScanTraitsDir(makeTraitsDir(t))
	require.NoError(t, err)
	require.Len(t, types, 2)

	assert.Equal(t, "Background", types[0].Name)
	assert.Equal(t, "1. Background", types[0].DirName)
	assert.Equal(t, []string{"Blue", "Red"}, types[0].Traits)

	assert.Equal(t, "Head", types[1].Name)
	assert.Equal(t, []string{"Crown"}, types[1].Traits)
}

func TestScanTraitsDir_Errors(t *testing.T) {
	t.Run("missing directory", func(t *testing.T) {
		_, err := ScanTraitsDir(filepath.Join(t.TempDir(), "absent"))
		require.Error(t, err)
	})

	t.Run("empty directory", func(t *testing.T) {
		_, err := ScanTraitsDir(t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no trait-type directories")
	})

	t.Run("unprefixed subdirectory", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "Background"), 0755))
		_, err := ScanTraitsDir(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not named")
	})

	t.Run("non-numeric order prefix", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "one. Background"), 0755))
		_, err := ScanTraitsDir(dir)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "non-numeric order prefix")
	})
}

func TestCreateTemplateAndLoadRows(t *testing.T) {
	sheetPath := filepath.Join(t.TempDir(), "traits_info.xlsx")
	require.NoError(t, CreateTemplate(sheetPath, makeTraitsDir(t)))

	rows, err := LoadRows(sheetPath)
	require.NoError(t, err)

	// Two Background traits + none, one Head trait + none.
	require.Len(t, rows, 5)
	assert.Equal(t, catalog.Row{Line: 2, Number: 1, Type: "Background", Name: "Blue"}, rows[0])
	assert.Equal(t, catalog.Row{Line: 3, Number: 2, Type: "Background", Name: "Red"}, rows[1])
	assert.Equal(t, catalog.Row{Line: 4, Number: 3, Type: "Background", Name: "none"}, rows[2])
	assert.Equal(t, catalog.Row{Line: 5, Number: 4, Type: "Head", Name: "Crown"}, rows[3])
	assert.Equal(t, catalog.Row{Line: 6, Number: 5, Type: "Head", Name: "none"}, rows[4])

	// The scaffolded template loads straight into a catalog.
	cat, err := catalog.Load(rows)
	require.NoError(t, err)
	assert.Len(t, cat.Types(), 2)
}

func TestLoadRows_FilledInColumns(t *testing.T) {
	sheetPath := filepath.Join(t.TempDir(), "traits_info.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName(f.GetSheetName(0), SheetName))
	require.NoError(t, f.SetSheetRow(SheetName, "A1", &headers))
	require.NoError(t, f.SetSheetRow(SheetName, "A2", &[]any{1, "Background", "Red", "", "25", "3", ""}))
	require.NoError(t, f.SetSheetRow(SheetName, "A3", &[]any{2, "Background", "none", "", "", "", ""}))
	require.NoError(t, f.SetSheetRow(SheetName, "A4", &[]any{3, "Head", "Crown", "", "75.5", "", "1"}))
	require.NoError(t, f.SaveAs(sheetPath))
	require.NoError(t, f.Close())

	rows, err := LoadRows(sheetPath)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "25", rows[0].Rarity)
	assert.Equal(t, "3", rows[0].Blacklist)
	assert.Equal(t, "75.5", rows[2].Rarity)
	assert.Equal(t, "1", rows[2].Whitelist)
}

func TestLoadRows_SkipsBlankAndRejectsBadNumbers(t *testing.T) {
	sheetPath := filepath.Join(t.TempDir(), "traits_info.xlsx")

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName(f.GetSheetName(0), SheetName))
	require.NoError(t, f.SetSheetRow(SheetName, "A1", &headers))
	require.NoError(t, f.SetSheetRow(SheetName, "A2", &[]any{1, "Background", "Red", "", "", "", ""}))
	// Row 3 left entirely blank.
	require.NoError(t, f.SetSheetRow(SheetName, "A4", &[]any{"x", "Background", "Blue", "", "", "", ""}))
	require.NoError(t, f.SaveAs(sheetPath))
	require.NoError(t, f.Close())

	_, err := LoadRows(sheetPath)
	require.Error(t, err)

	var malformed *catalog.MalformedInputError
	require.ErrorAs(t, err, &malformed)
	require.Len(t, malformed.Rows, 1)
	assert.Equal(t, 4, malformed.Rows[0].Line)
	assert.Contains(t, malformed.Rows[0].Msg, "whole number")
}

func TestLoadRows_MissingFile(t *testing.T) {
	_, err := LoadRows(filepath.Join(t.TempDir(), "absent.xlsx"))
	require.Error(t, err)
}
