package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/dustin/go-humanize"

	"tonybot/giveaway"
	"tonybot/roblox"
)

const (
	joinButtonID = "giveaway:join"
	entryEmoji   = "🎉"

	colorBlurple = 0x5865F2
	colorGold    = 0xF1C40F
	colorGreen   = 0x2ECC71
	colorRed     = 0xE74C3C
	colorGrey    = 0x95A5A6
)

func userMention(id string) string {
	return "<@" + id + ">"
}

func roleMention(id string) string {
	if id == "" {
		return "None"
	}
	return "<@&" + id + ">"
}

func channelMention(id string) string {
	return "<#" + id + ">"
}

func relativeTime(t time.Time) string {
	return fmt.Sprintf("<t:%d:R>", t.Unix())
}

func mentionList(userIDs []string) string {
	mentions := make([]string, len(userIDs))
	for i, id := range userIDs {
		mentions[i] = userMention(id)
	}
	return strings.Join(mentions, ", ")
}

func footer(text string) *discordgo.MessageEmbedFooter {
	return &discordgo.MessageEmbedFooter{Text: text}
}

func communityField(groupURL string) *discordgo.MessageEmbedField {
	return &discordgo.MessageEmbedField{
		Name:  "Community",
		Value: fmt.Sprintf("[Join our Roblox group](%s)", groupURL),
	}
}

func joinButtonRow(disabled bool) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Enter",
					Style:    discordgo.PrimaryButton,
					Disabled: disabled,
					Emoji:    &discordgo.ComponentEmoji{Name: entryEmoji},
					CustomID: joinButtonID,
				},
			},
		},
	}
}

func giveawayFields(gw *giveaway.Snapshot) []*discordgo.MessageEmbedField {
	return []*discordgo.MessageEmbedField{
		{Name: "Winners", Value: humanize.Comma(int64(gw.Winners)), Inline: true},
		{Name: "Host", Value: userMention(gw.Host.ID), Inline: true},
		{Name: "Required Role", Value: roleMention(gw.RequiredRole), Inline: true},
		{Name: "Extra Entries", Value: gw.Bonus.String()},
	}
}

func announcementEmbed(gw *giveaway.Snapshot, footerText string, now time.Time) *discordgo.MessageEmbed {
	description := fmt.Sprintf(
		"**Prize:** %s\nClick **Enter** to join!\nEnds %s (%s)",
		gw.Prize,
		relativeTime(gw.EndsAt),
		humanize.RelTime(gw.EndsAt, now, "ago", "from now"),
	)
	return &discordgo.MessageEmbed{
		Title:       entryEmoji + " GIVEAWAY " + entryEmoji,
		Description: description,
		Color:       colorGold,
		Fields:      giveawayFields(gw),
		Footer:      footer(footerText),
		Timestamp:   gw.EndsAt.Format(time.RFC3339),
	}
}

func endedEmbed(gw *giveaway.Snapshot, res *giveaway.Resolution, footerText string) *discordgo.MessageEmbed {
	winners := "No valid entries."
	if res.Outcome == giveaway.OutcomeWinners {
		winners = mentionList(res.Winners)
	}
	return &discordgo.MessageEmbed{
		Title:       "🎉 Giveaway Ended",
		Description: fmt.Sprintf("**Prize:** %s\n**Winner(s):** %s", gw.Prize, winners),
		Color:       colorGrey,
		Fields: append(giveawayFields(gw), &discordgo.MessageEmbedField{
			Name:  "Entries",
			Value: fmt.Sprintf("%s members, %s tickets", humanize.Comma(int64(res.Eligible)), humanize.Comma(int64(res.Tickets))),
		}),
		Footer:    footer(footerText),
		Timestamp: res.ResolvedAt.Format(time.RFC3339),
	}
}

func resultContent(gw *giveaway.Snapshot, res *giveaway.Resolution) string {
	if res.Outcome != giveaway.OutcomeWinners {
		return fmt.Sprintf("😢 No valid entries for **%s**.", gw.Prize)
	}
	if res.Reroll {
		return fmt.Sprintf("🔄 New winner(s) for **%s**: %s", gw.Prize, mentionList(res.Winners))
	}
	return fmt.Sprintf("🎉 Congratulations %s! You won **%s**!", mentionList(res.Winners), gw.Prize)
}

func listEmbed(giveaways []*giveaway.Snapshot, footerText string, now time.Time) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:  "🎉 Giveaways",
		Color:  colorBlurple,
		Footer: footer(footerText),
	}
	if len(giveaways) == 0 {
		embed.Description = "There are no giveaways right now."
		return embed
	}

	for _, gw := range giveaways {
		status := fmt.Sprintf("ends %s", relativeTime(gw.EndsAt))
		if gw.State == giveaway.StateEnded {
			status = fmt.Sprintf("ended %s", humanize.RelTime(gw.EndsAt, now, "ago", "from now"))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: gw.Prize,
			Value: fmt.Sprintf(
				"%s • %s • %s %s • %s\nID: `%s`",
				channelMention(gw.ChannelID),
				status,
				humanize.Comma(int64(gw.Entrants)),
				pluralize(gw.Entrants, "entrant", "entrants"),
				pluralize(gw.Winners, "1 winner", fmt.Sprintf("%d winners", gw.Winners)),
				gw.ID,
			),
		})
	}
	return embed
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func profileEmbed(user *roblox.User, groupURL string, footerText string, now time.Time) *discordgo.MessageEmbed {
	link := user.ProfileURL()
	return &discordgo.MessageEmbed{
		Title:       user.DisplayName + " • Roblox Profile",
		URL:         link,
		Description: fmt.Sprintf("[Open profile on Roblox](%s)", link),
		Color:       colorBlurple,
		Image:       &discordgo.MessageEmbedImage{URL: user.HeadshotURL()},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Username", Value: user.Name, Inline: true},
			{Name: "Display Name", Value: user.DisplayName, Inline: true},
			{Name: "User ID", Value: fmt.Sprint(user.ID), Inline: true},
			communityField(groupURL),
		},
		Footer:    footer(footerText),
		Timestamp: now.Format(time.RFC3339),
	}
}

type submissionKind struct {
	title string
	color int
	reply string
}

var (
	bugReport = submissionKind{title: "🐞 Bug Report", color: colorRed, reply: "✅ Your bug report was sent!"}
	idea      = submissionKind{title: "💡 Suggestion", color: colorGreen, reply: "✅ Your suggestion was sent!"}
)

func submissionEmbed(
	kind submissionKind,
	author *discordgo.User,
	content string,
	reference string,
	groupURL string,
	footerText string,
	now time.Time,
) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       kind.title,
		Description: content,
		Color:       kind.color,
		Author: &discordgo.MessageEmbedAuthor{
			Name:    author.String(),
			IconURL: author.AvatarURL(""),
		},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "From", Value: userMention(author.ID), Inline: true},
			{Name: "Reference", Value: "`" + reference + "`", Inline: true},
			communityField(groupURL),
		},
		Footer:    footer(footerText),
		Timestamp: now.Format(time.RFC3339),
	}
}

func helpEmbed(groupURL string, footerText string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "📖 Tony Studios • Help",
		Description: "Use the slash commands below. Giveaway example:\n" +
			"`/giveaway start duration:1h30m winners:2 prize:Nitro channel:#giveaways " +
			"host:@You required_role:@Members extra_entries:123:2,456:5`",
		Color: colorBlurple,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "🎉 /giveaway", Value: "start • end • reroll • list (host role required to manage)"},
			{Name: "🕹️ /profile", Value: "View a Roblox user's profile"},
			{Name: "🐞 /report", Value: "Send a bug report (DMs owner)"},
			{Name: "💡 /suggest", Value: "Send a suggestion (DMs owner)"},
			communityField(groupURL),
		},
		Footer: footer(footerText),
	}
}
