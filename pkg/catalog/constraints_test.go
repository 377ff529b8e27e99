package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile_WhitelistBecomesComplementBlacklist(t *testing.T) {
	// Trait A (type T1) whitelists B and C in type T2, which also contains D.
	// After compilation A must blacklist D and must not blacklist B or C.
	rows := []Row{
		{Line: 2, Number: 1, Type: "T1", Name: "A", Whitelist: "2, 3"},
		{Line: 3, Number: 2, Type: "T2", Name: "B"},
		{Line: 4, Number: 3, Type: "T2", Name: "C"},
		{Line: 5, Number: 4, Type: "T2", Name: "D"},
	}

	cat, err := Load(rows)
	require.NoError(t, err)
	require.NoError(t, cat.Compile())
	assert.True(t, cat.Compiled())

	a, _ := cat.TraitByNumber(1)
	assert.Contains(t, a.Blacklist, 4)
	assert.NotContains(t, a.Blacklist, 2)
	assert.NotContains(t, a.Blacklist, 3)
	assert.Nil(t, a.whitelist, "whitelist data must be discarded after compilation")
}

func TestCompile_WhitelistAcrossMultipleTypes(t *testing.T) {
	rows := []Row{
		{Line: 2, Number: 1, Type: "T1", Name: "A", Whitelist: "2, 4"},
		{Line: 3, Number: 2, Type: "T2", Name: "B"},
		{Line: 4, Number: 3, Type: "T2", Name: "C"},
		{Line: 5, Number: 4, Type: "T3", Name: "D"},
		{Line: 6, Number: 5, Type: "T3", Name: "E"},
		{Line: 7, Number: 6, Type: "T4", Name: "F"},
	}

	cat, err := Load(rows)
	require.NoError(t, err)
	require.NoError(t, cat.Compile())

	a, _ := cat.TraitByNumber(1)
	// Complements per whitelisted type only; T4 is untouched.
	assert.Contains(t, a.Blacklist, 3)
	assert.Contains(t, a.Blacklist, 5)
	assert.NotContains(t, a.Blacklist, 2)
	assert.NotContains(t, a.Blacklist, 4)
	assert.NotContains(t, a.Blacklist, 6)
}

func TestCompile_OneDirectional(t *testing.T) {
	rows := []Row{
		{Line: 2, Number: 1, Type: "T1", Name: "A", Whitelist: "2"},
		{Line: 3, Number: 2, Type: "T2", Name: "B"},
		{Line: 4, Number: 3, Type: "T2", Name: "C"},
	}

	cat, err := Load(rows)
	require.NoError(t, err)
	require.NoError(t, cat.Compile())

	// The expansion constrains the whitelisting trait only; B gains no
	// reverse edge.
	b, _ := cat.TraitByNumber(2)
	assert.Empty(t, b.Blacklist)
}

func TestCompile_ConstraintConflicts(t *testing.T) {
	testCases := []struct {
		name   string
		rows   []Row
		errMsg string
	}{
		{
			name: "whitelist target in the trait's own type",
			rows: []Row{
				{Line: 2, Number: 1, Type: "T1", Name: "A", Whitelist: "2"},
				{Line: 3, Number: 2, Type: "T1", Name: "B"},
			},
			errMsg: "own type",
		},
		{
			name: "target both whitelisted and blacklisted",
			rows: []Row{
				{Line: 2, Number: 1, Type: "T1", Name: "A", Whitelist: "2", Blacklist: "2"},
				{Line: 3, Number: 2, Type: "T2", Name: "B"},
			},
			errMsg: "both whitelisted and blacklisted",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cat, err := Load(tc.rows)
			require.NoError(t, err)

			err = cat.Compile()
			require.Error(t, err)

			var conflict *ConstraintConflictError
			require.ErrorAs(t, err, &conflict)
			assert.Equal(t, 1, conflict.TraitNumber)
			assert.Equal(t, 2, conflict.TargetNumber)
			assert.Contains(t, err.Error(), tc.errMsg)
			assert.False(t, cat.Compiled())
		})
	}
}

func TestCompile_Idempotent(t *testing.T) {
	rows := []Row{
		{Line: 2, Number: 1, Type: "T1", Name: "A", Whitelist: "2"},
		{Line: 3, Number: 2, Type: "T2", Name: "B"},
		{Line: 4, Number: 3, Type: "T2", Name: "C"},
	}

	cat, err := Load(rows)
	require.NoError(t, err)
	require.NoError(t, cat.Compile())
	require.NoError(t, cat.Compile())

	a, _ := cat.TraitByNumber(1)
	assert.Len(t, a.Blacklist, 1)
}

func TestCompile_NoWhitelistsIsNoOp(t *testing.T) {
	rows := []Row{
		{Line: 2, Number: 1, Type: "T1", Name: "A", Blacklist: "2"},
		{Line: 3, Number: 2, Type: "T2", Name: "B"},
	}

	cat, err := Load(rows)
	require.NoError(t, err)
	require.NoError(t, cat.Compile())

	a, _ := cat.TraitByNumber(1)
	assert.Len(t, a.Blacklist, 1)
	assert.Contains(t, a.Blacklist, 2)
}
