package giveaway

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/disgoorg/snowflake/v2"
)

// BonusTable maps a role ID to the number of extra entries holding it grants.
type BonusTable map[string]int

// Merge returns a new table containing both tables. A role present in both takes the
// value from override.
func (t BonusTable) Merge(override BonusTable) BonusTable {
	merged := make(BonusTable, len(t)+len(override))
	for roleID, bonus := range t {
		merged[roleID] = bonus
	}
	for roleID, bonus := range override {
		merged[roleID] = bonus
	}
	return merged
}

// RoleIDs returns the table's role IDs in a stable order.
func (t BonusTable) RoleIDs() []string {
	ids := make([]string, 0, len(t))
	for roleID := range t {
		ids = append(ids, roleID)
	}
	sort.Strings(ids)
	return ids
}

// ParseBonusTable parses operator input of the form "roleid:bonus,<@&roleid>:bonus".
// Pieces that don't parse, or carry a non-positive bonus, are skipped.
func ParseBonusTable(text string) BonusTable {
	table := make(BonusTable)

	for _, piece := range strings.Split(text, ",") {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			continue
		}

		cleaned := strings.NewReplacer("<@&", "", ">", "").Replace(piece)
		roleText, bonusText, ok := strings.Cut(cleaned, ":")
		if !ok {
			slog.Warn("Skipping extra entry without a bonus", slog.String("entry", piece))
			continue
		}

		roleID, err := snowflake.Parse(strings.TrimSpace(roleText))
		if err != nil {
			slog.Warn("Skipping extra entry with a bad role ID",
				slog.String("entry", piece),
				slog.Any("error", err))
			continue
		}

		bonus, err := strconv.Atoi(strings.TrimSpace(bonusText))
		if err != nil {
			slog.Warn("Skipping extra entry with a bad bonus",
				slog.String("entry", piece),
				slog.Any("error", err))
			continue
		}
		if bonus <= 0 {
			continue
		}

		table[roleID.String()] = bonus
	}

	return table
}

// String renders the table one role mention per line, or "None" when empty.
func (t BonusTable) String() string {
	if len(t) == 0 {
		return "None"
	}

	lines := make([]string, 0, len(t))
	for _, roleID := range t.RoleIDs() {
		lines = append(lines, fmt.Sprintf("<@&%s>: +%d", roleID, t[roleID]))
	}
	return strings.Join(lines, "\n")
}
