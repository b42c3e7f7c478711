package giveaway

// Entries computes how many tickets a member holding roles gets. The second result is
// false when requiredRole is set and not held, in which case the member gets no tickets.
//
// Every held role in the merged bonus table adds its bonus to a base of one. A role listed
// in both tables counts once, with the per-giveaway value.
func Entries(roles []string, requiredRole string, global, override BonusTable) (int, bool) {
	held := make(map[string]struct{}, len(roles))
	for _, roleID := range roles {
		held[roleID] = struct{}{}
	}

	if requiredRole != "" {
		if _, ok := held[requiredRole]; !ok {
			return 0, false
		}
	}

	entries := 1
	for roleID, bonus := range global.Merge(override) {
		if _, ok := held[roleID]; ok {
			entries += bonus
		}
	}

	if entries < 1 {
		entries = 1
	}
	return entries, true
}
