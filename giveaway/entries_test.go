package giveaway

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Entries_RequiredRoleMissing(t *testing.T) {
	global := BonusTable{"10": 5, "11": 8}

	entries, ok := Entries([]string{"10", "11"}, "99", global, nil)
	require.False(t, ok)
	require.Zero(t, entries)
}

func Test_Entries_SumsBonuses(t *testing.T) {
	global := BonusTable{"10": 2}
	override := BonusTable{"11": 3}

	entries, ok := Entries([]string{"10", "11", "12"}, "", global, override)
	require.True(t, ok)
	require.Equal(t, 6, entries)
}

func Test_Entries_BaseIsOne(t *testing.T) {
	entries, ok := Entries(nil, "", BonusTable{"10": 2}, nil)
	require.True(t, ok)
	require.Equal(t, 1, entries)

	entries, ok = Entries([]string{"99"}, "99", nil, nil)
	require.True(t, ok)
	require.Equal(t, 1, entries)
}

func Test_Entries_OverrideReplacesGlobalValue(t *testing.T) {
	global := BonusTable{"10": 2}
	override := BonusTable{"10": 7}

	entries, ok := Entries([]string{"10"}, "", global, override)
	require.True(t, ok)
	require.Equal(t, 8, entries)
}

func Test_Entries_ClampsToOne(t *testing.T) {
	entries, ok := Entries([]string{"10"}, "", BonusTable{"10": -4}, nil)
	require.True(t, ok)
	require.Equal(t, 1, entries)
}
