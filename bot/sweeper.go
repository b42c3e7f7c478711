package bot

import (
	"context"
	"log/slog"
	"time"
)

const sweepTimeout = time.Minute

// SweepGiveaways closes every giveaway whose end time has passed but whose timer has
// not fired.
func (bot *Bot) SweepGiveaways() {
	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	if closed := bot.giveaways.CloseOverdue(ctx, time.Now()); closed > 0 {
		slog.Warn("Closed overdue giveaways", slog.Int("count", closed))
	}
}

// Sweeper runs SweepGiveaways on each tick of the given ticker.
func (bot *Bot) Sweeper(ticker *time.Ticker, done chan bool) {
	for {
		select {
		case <-done:
			slog.Info("Stopped giveaway sweeper")
			return
		case <-ticker.C:
			bot.SweepGiveaways()
		}
	}
}
