package giveaway

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_ParseBonusTable(t *testing.T) {
	table := ParseBonusTable("1411126451163365437:2, <@&1412210602159378462>:5,bogus,abc:3,1412212184792043530:0,1412212463176388689:x")

	require.Equal(t, BonusTable{
		"1411126451163365437": 2,
		"1412210602159378462": 5,
	}, table)
}

func Test_ParseBonusTable_Empty(t *testing.T) {
	require.Empty(t, ParseBonusTable(""))
	require.Empty(t, ParseBonusTable(" , ,"))
}

func Test_BonusTable_Merge(t *testing.T) {
	global := BonusTable{"1": 1, "2": 2}
	merged := global.Merge(BonusTable{"2": 9, "3": 3})

	require.Equal(t, BonusTable{"1": 1, "2": 9, "3": 3}, merged)
	// The receiver is left untouched.
	require.Equal(t, BonusTable{"1": 1, "2": 2}, global)
}

func Test_BonusTable_String(t *testing.T) {
	require.Equal(t, "None", BonusTable{}.String())
	require.Equal(t, "<@&1>: +1\n<@&2>: +4", BonusTable{"2": 4, "1": 1}.String())
}
