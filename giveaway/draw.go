package giveaway

// Ticket pools are built from weighted candidates and drawn from without replacement at
// the member level: once a member wins, every remaining ticket they own leaves the pool.

type candidate struct {
	UserID  string
	Entries int
}

func ticketPool(candidates []candidate) []string {
	total := 0
	for _, c := range candidates {
		total += c.Entries
	}

	pool := make([]string, 0, total)
	for _, c := range candidates {
		for i := 0; i < c.Entries; i++ {
			pool = append(pool, c.UserID)
		}
	}
	return pool
}

// drawWinners picks up to n distinct owners from pool. intn must return a uniform value
// in [0, k).
func drawWinners(pool []string, n int, intn func(k int) int) []string {
	distinct := make(map[string]struct{}, len(pool))
	for _, userID := range pool {
		distinct[userID] = struct{}{}
	}
	if n > len(distinct) {
		n = len(distinct)
	}

	remaining := append([]string(nil), pool...)
	winners := make([]string, 0, n)
	for len(winners) < n && len(remaining) > 0 {
		pick := remaining[intn(len(remaining))]
		winners = append(winners, pick)

		kept := remaining[:0]
		for _, userID := range remaining {
			if userID != pick {
				kept = append(kept, userID)
			}
		}
		remaining = kept
	}
	return winners
}
