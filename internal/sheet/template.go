// Package sheet reads and writes the traits_info.xlsx workbook: the template
// scaffolded from a traits directory, and the filled-in catalog rows the
// generator consumes.
package sheet

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SheetName is the workbook sheet holding the trait rows.
const SheetName = "Traits Information"

var headers = []any{
	"Trait Number",
	"Trait Type",
	"Trait",
	"Inscription ID",
	"Rarity (%)",
	"Avoid Traits (use Trait Numbers, comma-separated)",
	"Require Traits (use Trait Numbers, comma-separated)",
}

// TypeEntry is one trait-type discovered in the traits directory.
type TypeEntry struct {
	DirName string   // e.g. "1. Background"
	Name    string   // e.g. "Background"
	Traits  []string // Layer file names without extension
}

// ScanTraitsDir discovers trait-types from a layer directory. Each
// subdirectory must be named "<order>. <type name>"; the numeric prefix
// fixes the trait-type declaration order, which is also the compositing
// order (later layers drawn over earlier ones).
func ScanTraitsDir(dir string) ([]TypeEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read traits directory: %w", err)
	}

	type ordered struct {
		order int
		entry TypeEntry
	}
	var found []ordered

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		prefix, name, ok := strings.Cut(e.Name(), ". ")
		if !ok {
			return nil, fmt.Errorf("trait-type directory %q is not named \"<order>. <name>\"", e.Name())
		}
		order, err := strconv.Atoi(prefix)
		if err != nil {
			return nil, fmt.Errorf("trait-type directory %q has a non-numeric order prefix", e.Name())
		}

		files, err := os.ReadDir(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read trait-type directory %q: %w", e.Name(), err)
		}
		var traits []string
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			base := f.Name()
			if ext := filepath.Ext(base); ext != "" {
				base = strings.TrimSuffix(base, ext)
			}
			traits = append(traits, base)
		}
		sort.Strings(traits)

		found = append(found, ordered{order: order, entry: TypeEntry{
			DirName: e.Name(),
			Name:    name,
			Traits:  traits,
		}})
	}

	if len(found) == 0 {
		return nil, fmt.Errorf("no trait-type directories found in %s", dir)
	}

	sort.Slice(found, func(i, j int) bool {
		if found[i].order != found[j].order {
			return found[i].order < found[j].order
		}
		return found[i].entry.Name < found[j].entry.Name
	})

	out := make([]TypeEntry, len(found))
	for i, f := range found {
		out[i] = f.entry
	}
	return out, nil
}

// CreateTemplate scans the traits directory and writes an xlsx template with
// one row per discovered trait plus a "none" row for every trait-type, ready
// for rarity and constraint columns to be filled in.
func CreateTemplate(sheetPath, traitsDir string) error {
	types, err := ScanTraitsDir(traitsDir)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(SheetName, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	row := 2
	number := 1
	for _, tt := range types {
		names := append(append([]string{}, tt.Traits...), "none")
		for _, name := range names {
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return err
			}
			values := []any{number, tt.Name, name, "", "", "", ""}
			if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
				return fmt.Errorf("failed to write row %d: %w", row, err)
			}
			row++
			number++
		}
	}

	if err := f.SaveAs(sheetPath); err != nil {
		return fmt.Errorf("failed to save %s: %w", sheetPath, err)
	}
	return nil
}
