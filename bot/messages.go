package bot

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/bwmarrin/discordgo"

	"tonybot/counting"
	"tonybot/discordutils"
)

var mentionReactions = []string{"🇾", "🇪", "🇸", "❓"}

// OnMessage runs the counting game and answers mentions.
func (bot *Bot) OnMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}

	if bot.counting.Watches(m.ChannelID) {
		bot.count(m)
	}

	if s.State.User != nil && discordutils.MentionsUser(m.Mentions, s.State.User.ID) {
		for _, emoji := range mentionReactions {
			if err := bot.session.MessageReactionAdd(m.ChannelID, m.ID, emoji); err != nil {
				slog.Warn("Failed to react to mention",
					slog.String("channel_id", m.ChannelID),
					slog.Any("error", err))
				break
			}
		}
	}
}

func (bot *Bot) count(m *discordgo.MessageCreate) {
	result, err := bot.counting.Submit(m.ChannelID, m.Content, func(next int64) error {
		bot.react(m.ChannelID, m.ID, "✅")
		msg, err := bot.session.ChannelMessageSend(m.ChannelID, strconv.FormatInt(next, 10))
		if err != nil {
			return err
		}
		bot.react(m.ChannelID, msg.ID, "✅")
		return nil
	})
	if err != nil {
		slog.Error("Counting failed",
			slog.String("channel_id", m.ChannelID),
			slog.Any("error", err))
		return
	}

	if result.Outcome != counting.Fumbled {
		return
	}

	slog.Debug("Count fumbled",
		slog.String("channel_id", m.ChannelID),
		slog.String("user_id", m.Author.ID),
		slog.Int64("number", result.Number),
		slog.Int64("expected", result.Expected))

	bot.react(m.ChannelID, m.ID, "❌")
	_, err = bot.session.ChannelMessageSend(
		m.ChannelID,
		fmt.Sprintf("❌ %s fumbled the count! Start again at **1**.", m.Author.Mention()),
	)
	if err != nil {
		slog.Warn("Failed to announce fumble",
			slog.String("channel_id", m.ChannelID),
			slog.Any("error", err))
	}

	if role := bot.cfg.Counting.FailureRole(); role != "" && m.GuildID != "" {
		if err = bot.session.GuildMemberRoleAdd(m.GuildID, m.Author.ID, role); err != nil {
			slog.Warn("Failed to add failure role",
				slog.String("user_id", m.Author.ID),
				slog.String("role_id", role),
				slog.Any("error", err))
		}
	}
}

func (bot *Bot) react(channelID, messageID, emoji string) {
	if err := bot.session.MessageReactionAdd(channelID, messageID, emoji); err != nil {
		slog.Warn("Failed to react",
			slog.String("channel_id", channelID),
			slog.String("emoji", emoji),
			slog.Any("error", err))
	}
}
