package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgeworks/traitforge/pkg/catalog"
)

func TestAudit_CleanCollection(t *testing.T) {
	cat := mustCatalog(t, []catalog.Row{
		{Line: 2, Number: 1, Type: "Background", Name: "Red", Blacklist: "3"},
		{Line: 3, Number: 2, Type: "Background", Name: "Blue"},
		{Line: 4, Number: 3, Type: "Head", Name: "Crown"},
	})

	items := []*Item{
		{ID: "a", Attributes: []Attribute{
			{TraitType: "Background", Value: "Blue"},
			{TraitType: "Head", Value: "Crown"},
		}},
		{ID: "b", Attributes: []Attribute{
			{TraitType: "Background", Value: "Red"},
		}},
	}

	assert.Empty(t, Audit(items, cat))
}

func TestAudit_DetectsPlantedConflict(t *testing.T) {
	cat := mustCatalog(t, []catalog.Row{
		{Line: 2, Number: 1, Type: "Background", Name: "Red", Blacklist: "3"},
		{Line: 3, Number: 2, Type: "Background", Name: "Blue"},
		{Line: 4, Number: 3, Type: "Head", Name: "Crown"},
	})

	items := []*Item{
		{ID: "ok", Attributes: []Attribute{
			{TraitType: "Background", Value: "Blue"},
			{TraitType: "Head", Value: "Crown"},
		}},
		{ID: "bad", Attributes: []Attribute{
			{TraitType: "Background", Value: "Red"},
			{TraitType: "Head", Value: "Crown"},
		}},
	}

	findings := Audit(items, cat)
	require.Len(t, findings, 1)
	assert.Equal(t, 1, findings[0].ItemIndex)
	assert.Equal(t, "Background", findings[0].TraitType)
	assert.Equal(t, "Red", findings[0].Value)
	assert.Equal(t, []int{3}, findings[0].Conflicts)
}

func TestAudit_ReportsBothDirections(t *testing.T) {
	// When both traits blacklist each other, each produces a finding.
	cat := mustCatalog(t, []catalog.Row{
		{Line: 2, Number: 1, Type: "Background", Name: "Red", Blacklist: "2"},
		{Line: 3, Number: 2, Type: "Head", Name: "Crown", Blacklist: "1"},
	})

	items := []*Item{
		{ID: "bad", Attributes: []Attribute{
			{TraitType: "Background", Value: "Red"},
			{TraitType: "Head", Value: "Crown"},
		}},
	}

	findings := Audit(items, cat)
	assert.Len(t, findings, 2)
}

func TestAudit_IgnoresUnknownAttributes(t *testing.T) {
	cat := mustCatalog(t, []catalog.Row{
		{Line: 2, Number: 1, Type: "Background", Name: "Red"},
	})

	items := []*Item{
		{ID: "a", Attributes: []Attribute{
			{TraitType: "Background", Value: "Red"},
			{TraitType: "Mystery", Value: "Unknown"},
		}},
	}

	assert.Empty(t, Audit(items, cat))
}
