package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"tonybot/discordutils"
	"tonybot/giveaway"
)

const interactionTimeout = 30 * time.Second

var minWinners = 1.0

var giveawayCommand = &discordgo.ApplicationCommand{
	Name:        "giveaway",
	Description: "Run giveaways.",
	Options: []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "start",
			Description: "Start a giveaway.",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "duration",
					Description: "How long it runs, e.g. 1h30m, 2d, 90s or a number of seconds.",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "winners",
					Description: fmt.Sprintf("Number of winners (1-%d).", giveaway.MaxWinners),
					Required:    true,
					MinValue:    &minWinners,
					MaxValue:    giveaway.MaxWinners,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "prize",
					Description: "What the winners get.",
					Required:    true,
				},
				{
					Type:         discordgo.ApplicationCommandOptionChannel,
					Name:         "channel",
					Description:  "Where to post the giveaway.",
					ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText, discordgo.ChannelTypeGuildNews},
					Required:     true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "host",
					Description: "Who hosts the giveaway. Defaults to you.",
				},
				{
					Type:        discordgo.ApplicationCommandOptionRole,
					Name:        "required_role",
					Description: "Role members need to enter.",
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "extra_entries",
					Description: "Bonus entries per role, e.g. 123:2,456:5",
				},
			},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "end",
			Description: "End a giveaway now.",
			Options:     []*discordgo.ApplicationCommandOption{messageIDOption},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "reroll",
			Description: "Draw new winners for an ended giveaway.",
			Options:     []*discordgo.ApplicationCommandOption{messageIDOption},
		},
		{
			Type:        discordgo.ApplicationCommandOptionSubCommand,
			Name:        "list",
			Description: "List the giveaways I know about.",
		},
	},
}

var messageIDOption = &discordgo.ApplicationCommandOption{
	Type:        discordgo.ApplicationCommandOptionString,
	Name:        "message_id",
	Description: "The giveaway message ID or link.",
	Required:    true,
}

// Giveaway dispatches the /giveaway subcommands.
func (bot *Bot) Giveaway(i *discordgo.InteractionCreate) {
	data := i.ApplicationCommandData()
	if len(data.Options) == 0 {
		return
	}
	sub := data.Options[0]
	options := discordutils.OptionMap(sub.Options)

	switch sub.Name {
	case "start":
		bot.giveawayStart(i, options)
	case "end":
		bot.giveawayEnd(i, options)
	case "reroll":
		bot.giveawayReroll(i, options)
	case "list":
		bot.giveawayList(i)
	}
}

func (bot *Bot) giveawayStart(
	i *discordgo.InteractionCreate,
	options map[string]*discordgo.ApplicationCommandInteractionDataOption,
) {
	discordutils.AckInteraction(i.Interaction, true, bot.session)

	caller := discordutils.InteractionUser(i.Interaction)
	req := giveaway.StartRequest{
		Prize:     options["prize"].StringValue(),
		ChannelID: options["channel"].ChannelValue(nil).ID,
		Host:      giveaway.Host{ID: caller.ID, Label: caller.Username},
		Duration:  options["duration"].StringValue(),
		Winners:   int(options["winners"].IntValue()),
	}
	if opt, ok := options["host"]; ok {
		req.Host = hostFromOption(opt.UserValue(nil).ID, i.ApplicationCommandData().Resolved)
	}
	if opt, ok := options["required_role"]; ok {
		req.RequiredRole = opt.RoleValue(nil, "").ID
	}
	if opt, ok := options["extra_entries"]; ok {
		req.Bonus = giveaway.ParseBonusTable(opt.StringValue())
	}

	ctx, cancel := context.WithTimeout(context.Background(), interactionTimeout)
	defer cancel()

	gw, err := bot.giveaways.Start(ctx, caller.ID, req)
	if err != nil {
		bot.logGiveawayError("start", caller.ID, "", err)
		discordutils.SendFollowup(bot.giveawayErrorReply(err), i.Interaction, bot.session)
		return
	}

	discordutils.SendFollowup(
		fmt.Sprintf("✅ Giveaway posted in %s (ID `%s`).", channelMention(gw.ChannelID), gw.ID),
		i.Interaction,
		bot.session,
	)
}

func (bot *Bot) giveawayEnd(
	i *discordgo.InteractionCreate,
	options map[string]*discordgo.ApplicationCommandInteractionDataOption,
) {
	discordutils.AckInteraction(i.Interaction, true, bot.session)

	caller := discordutils.InteractionUser(i.Interaction)
	id := messageIDFromInput(options["message_id"].StringValue())

	ctx, cancel := context.WithTimeout(context.Background(), interactionTimeout)
	defer cancel()

	res, err := bot.giveaways.EndEarly(ctx, caller.ID, id)
	if err != nil {
		bot.logGiveawayError("end", caller.ID, id, err)
		discordutils.SendFollowup(bot.giveawayErrorReply(err), i.Interaction, bot.session)
		return
	}

	var reply string
	switch res.Outcome {
	case giveaway.OutcomeAlreadyEnded:
		reply = "That giveaway has already ended."
	case giveaway.OutcomeNoEligibleEntries:
		reply = "✅ Giveaway ended. There were no valid entries."
	default:
		reply = fmt.Sprintf("✅ Giveaway ended. Winner(s): %s", mentionList(res.Winners))
	}
	discordutils.SendFollowup(reply, i.Interaction, bot.session)
}

func (bot *Bot) giveawayReroll(
	i *discordgo.InteractionCreate,
	options map[string]*discordgo.ApplicationCommandInteractionDataOption,
) {
	discordutils.AckInteraction(i.Interaction, true, bot.session)

	caller := discordutils.InteractionUser(i.Interaction)
	id := messageIDFromInput(options["message_id"].StringValue())

	ctx, cancel := context.WithTimeout(context.Background(), interactionTimeout)
	defer cancel()

	res, err := bot.giveaways.Reroll(ctx, caller.ID, id)
	if err != nil {
		bot.logGiveawayError("reroll", caller.ID, id, err)
		discordutils.SendFollowup(bot.giveawayErrorReply(err), i.Interaction, bot.session)
		return
	}

	reply := "❌ No valid entries to reroll."
	if res.Outcome == giveaway.OutcomeWinners {
		reply = fmt.Sprintf("🔄 New winner(s): %s", mentionList(res.Winners))
	}
	discordutils.SendFollowup(reply, i.Interaction, bot.session)
}

func (bot *Bot) giveawayList(i *discordgo.InteractionCreate) {
	discordutils.RespondEmbed(
		listEmbed(bot.giveaways.List(), bot.cfg.Community.Footer, time.Now()),
		true,
		i.Interaction,
		bot.session,
	)
}

// GiveawayJoin handles the Enter button on a giveaway announcement. The giveaway is
// the message the button is attached to.
func (bot *Bot) GiveawayJoin(i *discordgo.InteractionCreate) {
	if i.Message == nil {
		return
	}
	discordutils.AckInteraction(i.Interaction, true, bot.session)

	user := discordutils.InteractionUser(i.Interaction)
	id := i.Message.ID

	ctx, cancel := context.WithTimeout(context.Background(), interactionTimeout)
	defer cancel()

	status, err := bot.giveaways.Join(ctx, id, user.ID)
	var reply string
	switch {
	case err == nil && status == giveaway.JoinAccepted:
		reply = "🎉 You're in! Good luck."
	case err == nil && status == giveaway.JoinAlreadyEntered:
		reply = "You've already entered this giveaway."
	case errors.Is(err, giveaway.ErrMissingRole):
		reply = "❌ You don't have the role required to enter this giveaway."
		if gw, getErr := bot.giveaways.Get(id); getErr == nil {
			reply = fmt.Sprintf("❌ You need %s to enter this giveaway.", roleMention(gw.RequiredRole))
		}
	default:
		bot.logGiveawayError("join", user.ID, id, err)
		reply = bot.giveawayErrorReply(err)
	}
	discordutils.SendFollowup(reply, i.Interaction, bot.session)
}

func (bot *Bot) giveawayErrorReply(err error) string {
	switch {
	case errors.Is(err, giveaway.ErrForbidden):
		return "❌ You need the giveaway host role to do that."
	case errors.Is(err, giveaway.ErrInvalidDuration):
		return fmt.Sprintf(
			"❌ Invalid duration. Use formats like `1h30m`, `2d`, `90s` or a number of seconds, up to %s.",
			bot.cfg.Giveaway.MaxDuration,
		)
	case errors.Is(err, giveaway.ErrInvalidWinnerCount):
		return fmt.Sprintf("❌ Winners must be between 1 and %d.", giveaway.MaxWinners)
	case errors.Is(err, giveaway.ErrPublishFailed):
		return "❌ I couldn't post the giveaway there. Check my permissions in that channel."
	case errors.Is(err, giveaway.ErrNotFound):
		return "❌ I don't know a giveaway with that message ID. Giveaways started before my last restart can't be managed."
	case errors.Is(err, giveaway.ErrNotEnded):
		return "❌ That giveaway hasn't ended yet. Use `/giveaway end` first."
	case errors.Is(err, giveaway.ErrNotOpen):
		return "This giveaway has already ended."
	case errors.Is(err, giveaway.ErrMissingRole):
		return "❌ You don't have the role required to enter this giveaway."
	default:
		return "❌ Something went wrong. Please try again later."
	}
}

func (bot *Bot) logGiveawayError(action string, userID string, giveawayID string, err error) {
	attrs := []any{
		slog.String("action", action),
		slog.String("user_id", userID),
		slog.Any("error", err),
	}
	if giveawayID != "" {
		attrs = append(attrs, slog.String("giveaway_id", giveawayID))
	}

	// Rejections are expected; anything else is a collaborator failure.
	for _, expected := range []error{
		giveaway.ErrForbidden,
		giveaway.ErrInvalidDuration,
		giveaway.ErrInvalidWinnerCount,
		giveaway.ErrNotFound,
		giveaway.ErrNotEnded,
		giveaway.ErrNotOpen,
		giveaway.ErrMissingRole,
	} {
		if errors.Is(err, expected) {
			slog.Debug("Giveaway request rejected", attrs...)
			return
		}
	}
	slog.Error("Giveaway request failed", attrs...)
}

func hostFromOption(userID string, resolved *discordgo.ApplicationCommandInteractionDataResolved) giveaway.Host {
	host := giveaway.Host{ID: userID}
	if resolved == nil {
		return host
	}
	if member, ok := resolved.Members[userID]; ok && member.Nick != "" {
		host.Label = member.Nick
		return host
	}
	if user, ok := resolved.Users[userID]; ok {
		host.Label = user.Username
	}
	return host
}

// messageIDFromInput accepts a bare message ID or a message link.
func messageIDFromInput(input string) string {
	input = strings.TrimSpace(input)
	input = strings.TrimSuffix(input, "/")
	if idx := strings.LastIndex(input, "/"); idx >= 0 {
		input = input[idx+1:]
	}
	return input
}
