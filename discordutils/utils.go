package discordutils

import (
	"errors"
	"log/slog"

	"github.com/bwmarrin/discordgo"
)

// AckInteraction sends a deferred response for the given interaction. Ephemeral
// acknowledgements make every followup visible to the invoker only.
func AckInteraction(
	interaction *discordgo.Interaction,
	ephemeral bool,
	session *discordgo.Session,
) {
	response := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}
	if ephemeral {
		response.Data = &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral}
	}

	if err := session.InteractionRespond(interaction, response); err != nil {
		slog.Error("Failed to acknowledge interaction",
			slog.String("interaction_id", interaction.ID),
			slog.Any("error", err))
	}
}

// SendFollowup creates a followup message with the given content.
func SendFollowup(
	content string,
	interaction *discordgo.Interaction,
	session *discordgo.Session,
) {
	sendFollowup(&discordgo.WebhookParams{Content: content}, interaction, session)
}

// SendFollowupEmbed creates a followup message holding the given embed.
func SendFollowupEmbed(
	embed *discordgo.MessageEmbed,
	interaction *discordgo.Interaction,
	session *discordgo.Session,
) {
	sendFollowup(&discordgo.WebhookParams{Embeds: []*discordgo.MessageEmbed{embed}}, interaction, session)
}

func sendFollowup(
	params *discordgo.WebhookParams,
	interaction *discordgo.Interaction,
	session *discordgo.Session,
) {
	if _, err := session.FollowupMessageCreate(interaction, true, params); err != nil {
		slog.Error("Failed to send followup",
			slog.String("interaction_id", interaction.ID),
			slog.Any("error", err))
	}
}

// RespondEmbed responds to the interaction with the given embed.
func RespondEmbed(
	embed *discordgo.MessageEmbed,
	ephemeral bool,
	interaction *discordgo.Interaction,
	session *discordgo.Session,
) {
	data := &discordgo.InteractionResponseData{Embeds: []*discordgo.MessageEmbed{embed}}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}

	err := session.InteractionRespond(interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		slog.Error("Failed to respond to interaction",
			slog.String("interaction_id", interaction.ID),
			slog.Any("error", err))
	}
}

// InteractionUser returns the user that triggered the interaction, in a guild or a DM.
func InteractionUser(interaction *discordgo.Interaction) *discordgo.User {
	if interaction.Member != nil && interaction.Member.User != nil {
		return interaction.Member.User
	}
	return interaction.User
}

// OptionMap indexes command options by name.
func OptionMap(
	options []*discordgo.ApplicationCommandInteractionDataOption,
) map[string]*discordgo.ApplicationCommandInteractionDataOption {
	byName := make(map[string]*discordgo.ApplicationCommandInteractionDataOption, len(options))
	for _, option := range options {
		byName[option.Name] = option
	}
	return byName
}

// IsUnknownMember reports whether err is Discord's "Unknown Member" error.
func IsUnknownMember(err error) bool {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Message != nil {
		return restErr.Message.Code == discordgo.ErrCodeUnknownMember
	}
	return false
}

// MentionsUser returns true if userID is among the mentioned users.
func MentionsUser(mentions []*discordgo.User, userID string) bool {
	for _, user := range mentions {
		if user.ID == userID {
			return true
		}
	}
	return false
}
