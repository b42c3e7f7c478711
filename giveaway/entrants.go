package giveaway

// entrants is the append-only set of users that opted into one giveaway. It is guarded
// by the owning giveaway's mutex.
type entrants struct {
	order []string
	seen  map[string]struct{}
}

func newEntrants() *entrants {
	return &entrants{seen: make(map[string]struct{})}
}

// add reports whether userID was not already present.
func (e *entrants) add(userID string) bool {
	if _, ok := e.seen[userID]; ok {
		return false
	}
	e.seen[userID] = struct{}{}
	e.order = append(e.order, userID)
	return true
}

func (e *entrants) list() []string {
	return append([]string(nil), e.order...)
}

func (e *entrants) len() int {
	return len(e.order)
}

// union returns the members of base followed by any of extra not already listed.
func union(base []string, extra []string) []string {
	seen := make(map[string]struct{}, len(base)+len(extra))
	out := make([]string, 0, len(base)+len(extra))
	for _, list := range [][]string{base, extra} {
		for _, userID := range list {
			if _, ok := seen[userID]; ok {
				continue
			}
			seen[userID] = struct{}{}
			out = append(out, userID)
		}
	}
	return out
}
