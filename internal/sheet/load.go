package sheet

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/forgeworks/traitforge/pkg/catalog"
)

// Column order in the workbook. Must match the template headers.
const (
	colNumber = iota
	colType
	colName
	colInscriptionID
	colRarity
	colBlacklist
	colWhitelist
)

// LoadRows reads the filled-in workbook into raw catalog rows. Blank rows are
// skipped. Trait numbers that are not whole positive integers surface as
// *catalog.MalformedInputError with row-level detail; everything else is
// validated by catalog.Load.
func LoadRows(path string) ([]catalog.Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	cells, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(cells) < 2 {
		return nil, fmt.Errorf("%s contains no trait rows", path)
	}

	var rows []catalog.Row
	var rowErrs []catalog.RowError

	for i, record := range cells[1:] {
		line := i + 2 // 1-based, after the header row

		get := func(col int) string {
			if col < len(record) {
				return strings.TrimSpace(record[col])
			}
			return ""
		}

		if isBlank(record) {
			continue
		}

		number, err := parseTraitNumber(get(colNumber))
		if err != nil {
			rowErrs = append(rowErrs, catalog.RowError{Line: line, Msg: err.Error()})
			continue
		}

		rows = append(rows, catalog.Row{
			Line:          line,
			Number:        number,
			Type:          get(colType),
			Name:          get(colName),
			InscriptionID: get(colInscriptionID),
			Rarity:        get(colRarity),
			Blacklist:     get(colBlacklist),
			Whitelist:     get(colWhitelist),
		})
	}

	if len(rowErrs) > 0 {
		return nil, &catalog.MalformedInputError{Rows: rowErrs}
	}
	return rows, nil
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// parseTraitNumber accepts whole positive numbers, tolerating the ".0" suffix
// spreadsheet cells sometimes carry.
func parseTraitNumber(s string) (int, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v != math.Trunc(v) {
		return 0, fmt.Errorf("trait number must be a whole number, got %q", s)
	}
	if v < 1 {
		return 0, fmt.Errorf("trait number must be positive, got %q", s)
	}
	return int(v), nil
}
