package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"tonybot/discordutils"
	"tonybot/giveaway"
)

const reactionPageSize = 100

// discordPublisher posts giveaway announcements and results to guild channels.
type discordPublisher struct {
	session         *discordgo.Session
	footer          string
	legacyReactions bool
}

func (p *discordPublisher) Announce(ctx context.Context, gw *giveaway.Snapshot) (string, error) {
	msg, err := p.session.ChannelMessageSendComplex(gw.ChannelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{announcementEmbed(gw, p.footer, time.Now())},
		Components: joinButtonRow(false),
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", err
	}

	if p.legacyReactions {
		if err = p.session.MessageReactionAdd(gw.ChannelID, msg.ID, entryEmoji, discordgo.WithContext(ctx)); err != nil {
			slog.Warn("Failed to add entry reaction",
				slog.String("giveaway_id", msg.ID),
				slog.Any("error", err))
		}
	}
	return msg.ID, nil
}

func (p *discordPublisher) Resolve(ctx context.Context, gw *giveaway.Snapshot, res *giveaway.Resolution) error {
	embeds := []*discordgo.MessageEmbed{endedEmbed(gw, res, p.footer)}
	components := joinButtonRow(true)
	_, editErr := p.session.ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:         gw.ID,
		Channel:    gw.ChannelID,
		Embeds:     &embeds,
		Components: &components,
	}, discordgo.WithContext(ctx))
	if editErr != nil {
		editErr = fmt.Errorf("failed to edit announcement: %w", editErr)
	}

	return errors.Join(editErr, p.postResult(ctx, gw, res))
}

func (p *discordPublisher) Reroll(ctx context.Context, gw *giveaway.Snapshot, res *giveaway.Resolution) error {
	return p.postResult(ctx, gw, res)
}

func (p *discordPublisher) postResult(ctx context.Context, gw *giveaway.Snapshot, res *giveaway.Resolution) error {
	_, err := p.session.ChannelMessageSendComplex(gw.ChannelID, &discordgo.MessageSend{
		Content: resultContent(gw, res),
		Reference: &discordgo.MessageReference{
			MessageID: gw.ID,
			ChannelID: gw.ChannelID,
		},
		AllowedMentions: &discordgo.MessageAllowedMentions{Users: res.Winners},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to post result: %w", err)
	}
	return nil
}

func (p *discordPublisher) ReactionUsers(ctx context.Context, channelID, messageID string) ([]string, error) {
	var (
		userIDs []string
		after   string
	)
	for {
		users, err := p.session.MessageReactions(
			channelID, messageID, entryEmoji, reactionPageSize, "", after, discordgo.WithContext(ctx))
		if err != nil {
			return nil, err
		}
		for _, user := range users {
			if !user.Bot {
				userIDs = append(userIDs, user.ID)
			}
		}
		if len(users) < reactionPageSize {
			return userIDs, nil
		}
		after = users[len(users)-1].ID
	}
}

// guildDirectory resolves member roles from the state cache, falling back to the API.
type guildDirectory struct {
	session *discordgo.Session
	guildID string
}

func (d *guildDirectory) MemberRoles(ctx context.Context, userID string) ([]string, error) {
	if member, err := d.session.State.Member(d.guildID, userID); err == nil {
		return member.Roles, nil
	}

	member, err := d.session.GuildMember(d.guildID, userID, discordgo.WithContext(ctx))
	if discordutils.IsUnknownMember(err) {
		return nil, giveaway.ErrNotMember
	}
	if err != nil {
		return nil, err
	}
	return member.Roles, nil
}
