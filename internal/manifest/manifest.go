// Package manifest reads and writes the JSON files a generation run
// produces: the item collection, the trait-to-inscription passthrough map,
// and the usage statistics summary.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/forgeworks/traitforge/internal/generator"
)

// WriteMetadata writes the ordered item collection.
func WriteMetadata(path string, items []*generator.Item) error {
	return writeJSON(path, items)
}

// ReadMetadata loads a previously written collection, for the render and
// audit commands.
func ReadMetadata(path string) ([]*generator.Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var items []*generator.Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return items, nil
}

// WriteTraitMap writes the (type, trait) to inscription ID mapping derived
// from the catalog, for merging into final assets.
func WriteTraitMap(path string, traits map[string]map[string]string) error {
	return writeJSON(path, traits)
}

// statsSummary is the serialized shape of trait_usage_statistics.json.
type statsSummary struct {
	TotalItems             int                              `json:"total_items"`
	TraitCountDistribution map[string]string                `json:"trait_count_distribution"`
	TraitsUsage            map[string]map[string]traitUsage `json:"traits_usage"`
}

type traitUsage struct {
	Usage       string `json:"usage"`       // e.g. "12 (3.00%)"
	RarityInput string `json:"rarity_input"`
	NoneStatus  string `json:"none_status,omitempty"`
}

// WriteStats writes the usage statistics summary.
func WriteStats(path string, stats *generator.Stats) error {
	summary := statsSummary{
		TotalItems:             stats.TotalItems,
		TraitCountDistribution: make(map[string]string, len(stats.Distribution)),
		TraitsUsage:            make(map[string]map[string]traitUsage, len(stats.Usage)),
	}

	for count, n := range stats.Distribution {
		summary.TraitCountDistribution[fmt.Sprintf("%d_traits", count)] = fmt.Sprintf("%d items", n)
	}

	for typeName, traits := range stats.Usage {
		m := make(map[string]traitUsage, len(traits))
		for name, u := range traits {
			m[name] = traitUsage{
				Usage:       fmt.Sprintf("%d (%.2f%%)", u.Count, u.Percent),
				RarityInput: fmt.Sprintf("%.2f", u.RarityInput),
				NoneStatus:  u.NoneStatus,
			}
		}
		summary.TraitsUsage[typeName] = m
	}

	return writeJSON(path, summary)
}

// FormatStatsTable renders the usage statistics as fixed-width rows for
// terminal display, grouped by trait-type in the given declaration order.
func FormatStatsTable(stats *generator.Stats, typeOrder []string) string {
	out := fmt.Sprintf("%-20s %-20s %10s %10s %12s\n", "TYPE", "TRAIT", "COUNT", "ACTUAL", "REQUESTED")

	for _, typeName := range typeOrder {
		traits := stats.Usage[typeName]
		names := make([]string, 0, len(traits))
		for name := range traits {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			u := traits[name]
			out += fmt.Sprintf("%-20s %-20s %10d %9.2f%% %11.2f%%\n",
				truncate(typeName, 20), truncate(name, 20), u.Count, u.Percent, u.RarityInput)
		}
	}
	return out
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max-3] + "..."
	}
	return s
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
