package giveaway

import (
	"sync"
	"time"
)

// MaxWinners bounds the number of winners a single giveaway can request.
const MaxWinners = 10

// State is the lifecycle state of a giveaway. Ended is terminal.
type State int

const (
	StateScheduled State = iota
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateScheduled:
		return "scheduled"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

// Host identifies whoever a giveaway is hosted by.
type Host struct {
	ID    string
	Label string
}

// StartRequest carries the host-supplied parameters of a new giveaway.
type StartRequest struct {
	Prize        string
	ChannelID    string
	Host         Host
	Duration     string
	Winners      int
	RequiredRole string
	Bonus        BonusTable
}

// Snapshot is a read-only copy of a giveaway's state.
type Snapshot struct {
	ID           string
	Prize        string
	ChannelID    string
	Host         Host
	RequiredRole string
	// Bonus is the effective bonus table: the global table merged with Overrides.
	Bonus     BonusTable
	Overrides BonusTable
	Winners   int
	EndsAt    time.Time
	State     State
	Entrants  int
}

// Outcome describes how a resolution turned out.
type Outcome int

const (
	OutcomeWinners Outcome = iota
	OutcomeNoEligibleEntries
	// OutcomeAlreadyEnded is returned when closing a giveaway that had already ended.
	// Nothing is drawn or published.
	OutcomeAlreadyEnded
)

// Resolution is the result of a draw.
type Resolution struct {
	GiveawayID string
	Prize      string
	Outcome    Outcome
	Winners    []string
	// Eligible is the number of distinct members that held at least one ticket.
	Eligible   int
	Tickets    int
	Reroll     bool
	ResolvedAt time.Time
}

// JoinStatus is the result of an entry attempt.
type JoinStatus int

const (
	JoinAccepted JoinStatus = iota
	JoinAlreadyEntered
	JoinRejected
)

type giveaway struct {
	mu sync.Mutex

	id           string
	prize        string
	channelID    string
	host         Host
	requiredRole string
	bonus        BonusTable
	overrides    BonusTable
	winners      int
	endsAt       time.Time
	state        State
	entrants     *entrants
	cancel       Cancel
	last         *Resolution
}

// snapshot must be called with g.mu held.
func (g *giveaway) snapshot() *Snapshot {
	return &Snapshot{
		ID:           g.id,
		Prize:        g.prize,
		ChannelID:    g.channelID,
		Host:         g.host,
		RequiredRole: g.requiredRole,
		Bonus:        g.bonus.Merge(nil),
		Overrides:    g.overrides.Merge(nil),
		Winners:      g.winners,
		EndsAt:       g.endsAt,
		State:        g.state,
		Entrants:     g.entrants.len(),
	}
}
