package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"

	"tonybot/dal"
	"tonybot/discordutils"
	"tonybot/models"
	"tonybot/roblox"
)

var communityCommands = []*discordgo.ApplicationCommand{
	{
		Name:        "profile",
		Description: "View a Roblox user's profile.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "username",
				Description: "Roblox username.",
				Required:    true,
			},
		},
	}, {
		Name:        "report",
		Description: "Send a bug report to the bot owner.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "bug",
				Description: "Describe the bug.",
				Required:    true,
			},
		},
	}, {
		Name:        "suggest",
		Description: "Send a suggestion to the bot owner.",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "idea",
				Description: "Your suggestion.",
				Required:    true,
			},
		},
	}, {
		Name:        "help",
		Description: "Show all bot commands.",
	},
}

// Profile looks up a Roblox user and shows their profile.
func (bot *Bot) Profile(i *discordgo.InteractionCreate) {
	discordutils.AckInteraction(i.Interaction, false, bot.session)

	username := discordutils.OptionMap(i.ApplicationCommandData().Options)["username"].StringValue()

	ctx, cancel := context.WithTimeout(context.Background(), interactionTimeout)
	defer cancel()

	user, err := bot.roblox.UserByName(ctx, username)
	if err != nil {
		if !errors.Is(err, roblox.ErrUserNotFound) {
			slog.Error("Roblox lookup failed",
				slog.String("username", username),
				slog.Any("error", err))
		}
		discordutils.SendFollowup(
			fmt.Sprintf("❌ Could not find Roblox user `%s`", username),
			i.Interaction,
			bot.session,
		)
		return
	}

	discordutils.SendFollowupEmbed(
		profileEmbed(user, bot.cfg.Community.GroupURL, bot.cfg.Community.Footer, time.Now()),
		i.Interaction,
		bot.session,
	)
}

// Report stores a bug report and forwards it to the owner.
func (bot *Bot) Report(i *discordgo.InteractionCreate) {
	discordutils.AckInteraction(i.Interaction, true, bot.session)

	author := discordutils.InteractionUser(i.Interaction)
	report := &models.Report{
		UserID:   author.ID,
		Username: author.String(),
		Content:  discordutils.OptionMap(i.ApplicationCommandData().Options)["bug"].StringValue(),
	}

	saveErr := dal.SaveReport(report, bot.db)
	if saveErr != nil {
		slog.Error("Failed to save report",
			slog.String("user_id", author.ID),
			slog.Any("error", saveErr))
	}

	bot.deliverSubmission(i, bugReport, author, report.Content, report.Reference, saveErr)
}

// Suggest stores a suggestion and forwards it to the owner.
func (bot *Bot) Suggest(i *discordgo.InteractionCreate) {
	discordutils.AckInteraction(i.Interaction, true, bot.session)

	author := discordutils.InteractionUser(i.Interaction)
	suggestion := &models.Suggestion{
		UserID:   author.ID,
		Username: author.String(),
		Content:  discordutils.OptionMap(i.ApplicationCommandData().Options)["idea"].StringValue(),
	}

	saveErr := dal.SaveSuggestion(suggestion, bot.db)
	if saveErr != nil {
		slog.Error("Failed to save suggestion",
			slog.String("user_id", author.ID),
			slog.Any("error", saveErr))
	}

	bot.deliverSubmission(i, idea, author, suggestion.Content, suggestion.Reference, saveErr)
}

// deliverSubmission DMs the submission to the owner. The submitter is told it was
// sent if it was either stored or delivered.
func (bot *Bot) deliverSubmission(
	i *discordgo.InteractionCreate,
	kind submissionKind,
	author *discordgo.User,
	content string,
	reference string,
	saveErr error,
) {
	embed := submissionEmbed(
		kind, author, content, reference,
		bot.cfg.Community.GroupURL, bot.cfg.Community.Footer, time.Now(),
	)

	dmErr := bot.dmOwner(embed)
	if dmErr != nil {
		slog.Error("Failed to DM owner",
			slog.String("owner_id", bot.cfg.Bot.OwnerID.String()),
			slog.Any("error", dmErr))
	}

	reply := kind.reply
	if saveErr != nil && dmErr != nil {
		reply = "❌ I couldn't deliver that right now. Please try again later."
	}
	discordutils.SendFollowup(reply, i.Interaction, bot.session)
}

func (bot *Bot) dmOwner(embed *discordgo.MessageEmbed) error {
	channel, err := bot.session.UserChannelCreate(bot.cfg.Bot.OwnerID.String())
	if err != nil {
		return err
	}
	_, err = bot.session.ChannelMessageSendEmbed(channel.ID, embed)
	return err
}

// Help lists the bot's commands.
func (bot *Bot) Help(i *discordgo.InteractionCreate) {
	discordutils.RespondEmbed(
		helpEmbed(bot.cfg.Community.GroupURL, bot.cfg.Community.Footer),
		true,
		i.Interaction,
		bot.session,
	)
}
