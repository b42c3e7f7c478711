package bot

import (
	"errors"
	"fmt"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"

	"tonybot/config"
	"tonybot/giveaway"
)

func Test_MessageIDFromInput(t *testing.T) {
	for input, want := range map[string]string{
		"1410000000000000001":   "1410000000000000001",
		" 1410000000000000001 ": "1410000000000000001",
		"https://discord.com/channels/984999848791126096/1398545401598050425/1410000000000000001":  "1410000000000000001",
		"https://discord.com/channels/984999848791126096/1398545401598050425/1410000000000000001/": "1410000000000000001",
	} {
		require.Equal(t, want, messageIDFromInput(input), input)
	}
}

func Test_GiveawayErrorReply(t *testing.T) {
	bot := &Bot{cfg: &config.Config{Giveaway: config.GiveawayConfig{MaxDuration: "30d"}}}

	for err, want := range map[error]string{
		giveaway.ErrForbidden:          "host role",
		giveaway.ErrInvalidDuration:    "up to 30d",
		giveaway.ErrInvalidWinnerCount: "between 1 and 10",
		giveaway.ErrPublishFailed:      "permissions",
		giveaway.ErrNotFound:           "don't know a giveaway",
		giveaway.ErrNotEnded:           "hasn't ended yet",
		giveaway.ErrNotOpen:            "already ended",
		giveaway.ErrMissingRole:        "role required",
		errors.New("gateway closed"):   "Something went wrong",
	} {
		require.Contains(t, bot.giveawayErrorReply(fmt.Errorf("wrapped: %w", err)), want, err.Error())
	}
}

func Test_HostFromOption(t *testing.T) {
	resolved := &discordgo.ApplicationCommandInteractionDataResolved{
		Users: map[string]*discordgo.User{
			"1": {ID: "1", Username: "alice"},
			"2": {ID: "2", Username: "bob"},
		},
		Members: map[string]*discordgo.Member{
			"1": {Nick: "Queen Alice"},
			"2": {},
		},
	}

	require.Equal(t, giveaway.Host{ID: "1", Label: "Queen Alice"}, hostFromOption("1", resolved))
	require.Equal(t, giveaway.Host{ID: "2", Label: "bob"}, hostFromOption("2", resolved))
	require.Equal(t, giveaway.Host{ID: "3"}, hostFromOption("3", resolved))
	require.Equal(t, giveaway.Host{ID: "3"}, hostFromOption("3", nil))
}

func Test_BotCommands(t *testing.T) {
	names := map[string]bool{}
	for _, command := range botCommands() {
		names[command.Name] = true
	}
	require.Equal(t, map[string]bool{
		"giveaway": true,
		"profile":  true,
		"report":   true,
		"suggest":  true,
		"help":     true,
	}, names)

	var subcommands []string
	for _, option := range giveawayCommand.Options {
		subcommands = append(subcommands, option.Name)
	}
	require.Equal(t, []string{"start", "end", "reroll", "list"}, subcommands)
}

func Test_ScheduledCount(t *testing.T) {
	require.Zero(t, scheduledCount(nil))
	require.Equal(t, 2, scheduledCount([]*giveaway.Snapshot{
		{ID: "1", State: giveaway.StateScheduled},
		{ID: "2", State: giveaway.StateEnded},
		{ID: "3", State: giveaway.StateScheduled},
	}))
}
