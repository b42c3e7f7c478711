package giveaway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"golang.org/x/sync/errgroup"
)

const (
	defaultLookupLimit = 8
	expireTimeout      = time.Minute
)

// Publisher delivers giveaway artifacts to the platform.
type Publisher interface {
	// Announce posts the announcement for a new giveaway and returns its message ID,
	// which becomes the giveaway's ID.
	Announce(ctx context.Context, gw *Snapshot) (string, error)
	// Resolve marks the announcement ended and posts the result of the first draw.
	Resolve(ctx context.Context, gw *Snapshot, res *Resolution) error
	// Reroll posts the result of a reroll.
	Reroll(ctx context.Context, gw *Snapshot, res *Resolution) error
	// ReactionUsers lists the non-bot users that reacted to the announcement with the
	// entry marker.
	ReactionUsers(ctx context.Context, channelID, messageID string) ([]string, error)
}

// Directory looks up guild members.
type Directory interface {
	// MemberRoles returns the role IDs held by userID, or ErrNotMember if the user is not
	// in the guild.
	MemberRoles(ctx context.Context, userID string) ([]string, error)
}

// Config holds the guild-wide giveaway settings.
type Config struct {
	HostRoleID string
	BonusRoles BonusTable
	// MaxDuration caps how long a giveaway can run. Zero means no cap.
	MaxDuration time.Duration
	// LegacyReactions unions users who reacted to the announcement into the entrants at
	// resolution time.
	LegacyReactions bool
}

// Option configures a Manager.
type Option func(*Manager)

// WithScheduler overrides the scheduler used for timed closes.
func WithScheduler(s Scheduler) Option {
	return func(m *Manager) { m.scheduler = s }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithRand makes draws use r instead of the global source.
func WithRand(r *rand.Rand) Option {
	var mu sync.Mutex
	return func(m *Manager) {
		m.intn = func(n int) int {
			mu.Lock()
			defer mu.Unlock()
			return r.IntN(n)
		}
	}
}

// Manager owns every giveaway of the running process. Giveaways live in memory only.
type Manager struct {
	cfg       Config
	publisher Publisher
	directory Directory
	scheduler Scheduler
	now       func() time.Time
	intn      func(int) int
	giveaways *xsync.MapOf[string, *giveaway]
}

// NewManager creates a Manager.
func NewManager(cfg Config, publisher Publisher, directory Directory, opts ...Option) *Manager {
	if cfg.BonusRoles == nil {
		cfg.BonusRoles = BonusTable{}
	}

	m := &Manager{
		cfg:       cfg,
		publisher: publisher,
		directory: directory,
		scheduler: TimerScheduler{},
		now:       time.Now,
		intn:      rand.IntN,
		giveaways: xsync.NewMapOf[string, *giveaway](),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start validates req, publishes the announcement and arms the close timer. Nothing is
// recorded if publishing fails.
func (m *Manager) Start(ctx context.Context, caller string, req StartRequest) (*Snapshot, error) {
	if err := m.authorize(ctx, caller); err != nil {
		return nil, err
	}

	duration, ok := ParseDuration(req.Duration)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDuration, req.Duration)
	}
	if m.cfg.MaxDuration > 0 && duration > m.cfg.MaxDuration {
		return nil, fmt.Errorf("%w: longer than %s", ErrInvalidDuration, m.cfg.MaxDuration)
	}
	if req.Winners < 1 || req.Winners > MaxWinners {
		return nil, fmt.Errorf("%w: %d (must be 1-%d)", ErrInvalidWinnerCount, req.Winners, MaxWinners)
	}

	host := req.Host
	if host.ID == "" {
		host = Host{ID: caller}
	}

	gw := &giveaway{
		prize:        req.Prize,
		channelID:    req.ChannelID,
		host:         host,
		requiredRole: req.RequiredRole,
		bonus:        m.cfg.BonusRoles.Merge(req.Bonus),
		overrides:    BonusTable{}.Merge(req.Bonus),
		winners:      req.Winners,
		endsAt:       m.now().Add(duration),
		state:        StateScheduled,
		entrants:     newEntrants(),
	}

	gw.mu.Lock()
	defer gw.mu.Unlock()

	messageID, err := m.publisher.Announce(ctx, gw.snapshot())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	gw.id = messageID

	m.giveaways.Store(gw.id, gw)
	gw.cancel = m.scheduler.After(duration, func() { m.expire(messageID) })

	slog.Info("Giveaway started",
		slog.String("giveaway_id", gw.id),
		slog.String("channel_id", gw.channelID),
		slog.String("host_id", host.ID),
		slog.Int("winners", gw.winners),
		slog.Duration("duration", duration))

	return gw.snapshot(), nil
}

// Join enters userID into the giveaway.
func (m *Manager) Join(ctx context.Context, id string, userID string) (JoinStatus, error) {
	gw, ok := m.giveaways.Load(id)
	if !ok {
		return JoinRejected, ErrNotFound
	}

	gw.mu.Lock()
	state, requiredRole := gw.state, gw.requiredRole
	gw.mu.Unlock()

	if state != StateScheduled {
		return JoinRejected, ErrNotOpen
	}

	if requiredRole != "" {
		roles, err := m.directory.MemberRoles(ctx, userID)
		if errors.Is(err, ErrNotMember) {
			return JoinRejected, ErrMissingRole
		}
		if err != nil {
			return JoinRejected, fmt.Errorf("failed to look up member: %w", err)
		}
		if !hasRole(roles, requiredRole) {
			return JoinRejected, ErrMissingRole
		}
	}

	gw.mu.Lock()
	defer gw.mu.Unlock()

	// The giveaway may have ended while the roles were being looked up.
	if gw.state != StateScheduled {
		return JoinRejected, ErrNotOpen
	}
	if !gw.entrants.add(userID) {
		return JoinAlreadyEntered, nil
	}
	return JoinAccepted, nil
}

// Close ends the giveaway and draws its winners. Closing an ended giveaway does nothing
// and returns an OutcomeAlreadyEnded resolution.
func (m *Manager) Close(ctx context.Context, id string) (*Resolution, error) {
	gw, ok := m.giveaways.Load(id)
	if !ok {
		return nil, ErrNotFound
	}

	gw.mu.Lock()
	if gw.state == StateEnded {
		res := &Resolution{GiveawayID: gw.id, Prize: gw.prize, Outcome: OutcomeAlreadyEnded}
		if gw.last != nil {
			res.Winners = append([]string(nil), gw.last.Winners...)
		}
		gw.mu.Unlock()
		return res, nil
	}

	gw.state = StateEnded
	if gw.cancel != nil {
		gw.cancel()
		gw.cancel = nil
	}
	entrants := gw.entrants.list()
	snap := gw.snapshot()
	gw.mu.Unlock()

	res := m.resolve(ctx, snap, entrants)

	gw.mu.Lock()
	gw.last = res
	gw.mu.Unlock()

	slog.Info("Giveaway ended",
		slog.String("giveaway_id", id),
		slog.Int("eligible", res.Eligible),
		slog.Int("tickets", res.Tickets),
		slog.Any("winners", res.Winners))

	if err := m.publisher.Resolve(ctx, snap, res); err != nil {
		slog.Error("Failed to publish giveaway result",
			slog.String("giveaway_id", id),
			slog.Any("error", err))
	}

	return res, nil
}

// EndEarly closes the giveaway before its timer fires.
func (m *Manager) EndEarly(ctx context.Context, caller string, id string) (*Resolution, error) {
	if _, ok := m.giveaways.Load(id); !ok {
		return nil, ErrNotFound
	}
	if err := m.authorize(ctx, caller); err != nil {
		return nil, err
	}
	return m.Close(ctx, id)
}

// Reroll draws a fresh set of winners for an ended giveaway, re-evaluating every
// entrant's eligibility as of now.
func (m *Manager) Reroll(ctx context.Context, caller string, id string) (*Resolution, error) {
	gw, ok := m.giveaways.Load(id)
	if !ok {
		return nil, ErrNotFound
	}
	if err := m.authorize(ctx, caller); err != nil {
		return nil, err
	}

	gw.mu.Lock()
	if gw.state != StateEnded {
		gw.mu.Unlock()
		return nil, ErrNotEnded
	}
	entrants := gw.entrants.list()
	snap := gw.snapshot()
	gw.mu.Unlock()

	res := m.resolve(ctx, snap, entrants)
	res.Reroll = true

	slog.Info("Giveaway rerolled",
		slog.String("giveaway_id", id),
		slog.String("caller_id", caller),
		slog.Any("winners", res.Winners))

	if err := m.publisher.Reroll(ctx, snap, res); err != nil {
		slog.Error("Failed to publish reroll result",
			slog.String("giveaway_id", id),
			slog.Any("error", err))
	}

	return res, nil
}

// CloseOverdue closes every scheduled giveaway whose end time is not after now and
// returns how many it closed.
func (m *Manager) CloseOverdue(ctx context.Context, now time.Time) int {
	var overdue []string
	m.giveaways.Range(func(id string, gw *giveaway) bool {
		gw.mu.Lock()
		if gw.state == StateScheduled && !gw.endsAt.After(now) {
			overdue = append(overdue, id)
		}
		gw.mu.Unlock()
		return true
	})

	closed := 0
	for _, id := range overdue {
		res, err := m.Close(ctx, id)
		if err != nil {
			slog.Error("Failed to close overdue giveaway",
				slog.String("giveaway_id", id),
				slog.Any("error", err))
			continue
		}
		if res.Outcome != OutcomeAlreadyEnded {
			closed++
		}
	}
	return closed
}

// Get returns a snapshot of the giveaway with the given ID.
func (m *Manager) Get(id string) (*Snapshot, error) {
	gw, ok := m.giveaways.Load(id)
	if !ok {
		return nil, ErrNotFound
	}

	gw.mu.Lock()
	defer gw.mu.Unlock()
	return gw.snapshot(), nil
}

// List returns snapshots of every known giveaway, soonest ending first.
func (m *Manager) List() []*Snapshot {
	snaps := make([]*Snapshot, 0, m.giveaways.Size())
	m.giveaways.Range(func(_ string, gw *giveaway) bool {
		gw.mu.Lock()
		snaps = append(snaps, gw.snapshot())
		gw.mu.Unlock()
		return true
	})

	sort.Slice(snaps, func(i, j int) bool {
		return snaps[i].EndsAt.Before(snaps[j].EndsAt)
	})
	return snaps
}

func (m *Manager) expire(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), expireTimeout)
	defer cancel()

	if _, err := m.Close(ctx, id); err != nil {
		slog.Error("Auto-end failed",
			slog.String("giveaway_id", id),
			slog.Any("error", err))
	}
}

func (m *Manager) authorize(ctx context.Context, userID string) error {
	if m.cfg.HostRoleID == "" {
		return ErrForbidden
	}

	roles, err := m.directory.MemberRoles(ctx, userID)
	if errors.Is(err, ErrNotMember) {
		return ErrForbidden
	}
	if err != nil {
		return fmt.Errorf("failed to check host role: %w", err)
	}
	if !hasRole(roles, m.cfg.HostRoleID) {
		return ErrForbidden
	}
	return nil
}

func (m *Manager) resolve(ctx context.Context, gw *Snapshot, entrants []string) *Resolution {
	if m.cfg.LegacyReactions {
		reacted, err := m.publisher.ReactionUsers(ctx, gw.ChannelID, gw.ID)
		if err != nil {
			slog.Warn("Failed to fetch giveaway reactions",
				slog.String("giveaway_id", gw.ID),
				slog.Any("error", err))
		} else {
			entrants = union(entrants, reacted)
		}
	}

	candidates := m.eligible(ctx, gw, entrants)
	pool := ticketPool(candidates)

	res := &Resolution{
		GiveawayID: gw.ID,
		Prize:      gw.Prize,
		Eligible:   len(candidates),
		Tickets:    len(pool),
		ResolvedAt: m.now(),
	}
	if len(pool) == 0 {
		res.Outcome = OutcomeNoEligibleEntries
		return res
	}

	res.Outcome = OutcomeWinners
	res.Winners = drawWinners(pool, gw.Winners, m.intn)
	return res
}

// eligible resolves each entrant against the directory. Entrants that left the guild,
// lack the required role, or can't be looked up are dropped.
func (m *Manager) eligible(ctx context.Context, gw *Snapshot, entrants []string) []candidate {
	results := make([]candidate, len(entrants))

	var g errgroup.Group
	g.SetLimit(defaultLookupLimit)
	for i, userID := range entrants {
		g.Go(func() error {
			roles, err := m.directory.MemberRoles(ctx, userID)
			if errors.Is(err, ErrNotMember) {
				return nil
			}
			if err != nil {
				slog.Warn("Dropping entrant that could not be looked up",
					slog.String("giveaway_id", gw.ID),
					slog.String("user_id", userID),
					slog.Any("error", err))
				return nil
			}

			entries, ok := Entries(roles, gw.RequiredRole, m.cfg.BonusRoles, gw.Overrides)
			if ok {
				results[i] = candidate{UserID: userID, Entries: entries}
			}
			return nil
		})
	}
	_ = g.Wait()

	candidates := results[:0]
	for _, c := range results {
		if c.UserID != "" {
			candidates = append(candidates, c)
		}
	}
	return candidates
}

func hasRole(roles []string, roleID string) bool {
	for _, r := range roles {
		if r == roleID {
			return true
		}
	}
	return false
}
