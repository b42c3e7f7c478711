package counting

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"
	"gorm.io/gorm"

	"tonybot/dal"
)

// Outcome is how a message in a counting channel was judged.
type Outcome int

const (
	// NotACount means the message is not an integer and is ignored.
	NotACount Outcome = iota
	Counted
	Fumbled
)

func (o Outcome) String() string {
	switch o {
	case Counted:
		return "counted"
	case Fumbled:
		return "fumbled"
	default:
		return "not_a_count"
	}
}

// Result describes a judged message.
type Result struct {
	Outcome Outcome
	// Number is the integer the member posted.
	Number int64
	// Expected is the number that would have been accepted.
	Expected int64
	// Next is the number the bot posted after a correct count, zero when it did not.
	Next int64
}

// AdvanceFunc posts the follow-up number in the channel.
type AdvanceFunc func(next int64) error

// Game tracks the counting channels. Submissions to the same channel are
// serialized; the store update is a compare-and-set on top of that.
type Game struct {
	db       *gorm.DB
	channels map[string]struct{}
	locks    *xsync.MapOf[string, *sync.Mutex]
}

// New creates a Game over the given counting channels.
func New(db *gorm.DB, channelIDs []string) *Game {
	channels := make(map[string]struct{}, len(channelIDs))
	for _, id := range channelIDs {
		channels[id] = struct{}{}
	}
	return &Game{
		db:       db,
		channels: channels,
		locks:    xsync.NewMapOf[string, *sync.Mutex](),
	}
}

// Watches reports whether channelID is a counting channel.
func (g *Game) Watches(channelID string) bool {
	_, ok := g.channels[channelID]
	return ok
}

// Submit handles a message posted in a counting channel. On a correct count the
// number is stored and advance is called to post the next one, which is stored
// too when advance succeeds. A wrong number resets the channel to zero.
func (g *Game) Submit(channelID string, content string, advance AdvanceFunc) (Result, error) {
	number, ok := parseCount(content)
	if !ok {
		return Result{Outcome: NotACount}, nil
	}

	lock, _ := g.locks.LoadOrCompute(channelID, func() *sync.Mutex { return &sync.Mutex{} })
	lock.Lock()
	defer lock.Unlock()

	last, err := dal.GetCount(channelID, g.db)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read count: %w", err)
	}

	result := Result{Number: number, Expected: last + 1}
	if number != last+1 {
		if err = dal.ResetCount(channelID, g.db); err != nil {
			return Result{}, fmt.Errorf("failed to reset count: %w", err)
		}
		result.Outcome = Fumbled
		return result, nil
	}

	ok, err = dal.CompareAndSetCount(channelID, last, number, g.db)
	if err != nil {
		return Result{}, fmt.Errorf("failed to store count: %w", err)
	}
	if !ok {
		// Another process moved the count; treat the message as out of turn.
		if err = dal.ResetCount(channelID, g.db); err != nil {
			return Result{}, fmt.Errorf("failed to reset count: %w", err)
		}
		result.Outcome = Fumbled
		return result, nil
	}
	result.Outcome = Counted

	if advance == nil {
		return result, nil
	}
	next := number + 1
	if err = advance(next); err != nil {
		slog.Error("Failed to post next number",
			slog.String("channel_id", channelID),
			slog.Int64("next", next),
			slog.Any("error", err))
		return result, nil
	}
	if ok, err = dal.CompareAndSetCount(channelID, number, next, g.db); err != nil || !ok {
		slog.Warn("Failed to store next number",
			slog.String("channel_id", channelID),
			slog.Int64("next", next),
			slog.Any("error", err))
		return result, nil
	}
	result.Next = next
	return result, nil
}

// parseCount accepts unsigned decimal integers small enough that the number after it
// can still be posted.
func parseCount(content string) (int64, bool) {
	content = strings.TrimSpace(content)
	if content == "" || content[0] < '0' || content[0] > '9' {
		return 0, false
	}
	number, err := strconv.ParseInt(content, 10, 64)
	if err != nil || number >= math.MaxInt64-1 {
		return 0, false
	}
	return number, true
}
