package bot

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"

	"tonybot/giveaway"
	"tonybot/roblox"
)

var testNow = time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)

func testSnapshot() *giveaway.Snapshot {
	return &giveaway.Snapshot{
		ID:           "1410000000000000001",
		Prize:        "Nitro",
		ChannelID:    "1398545401598050425",
		Host:         giveaway.Host{ID: "42", Label: "tony"},
		RequiredRole: "7",
		Bonus:        giveaway.BonusTable{"8": 2},
		Winners:      2,
		EndsAt:       testNow.Add(90 * time.Minute),
		State:        giveaway.StateScheduled,
		Entrants:     3,
	}
}

func fieldValue(t *testing.T, embed *discordgo.MessageEmbed, name string) string {
	t.Helper()
	for _, field := range embed.Fields {
		if field.Name == name {
			return field.Value
		}
	}
	require.Failf(t, "missing field", "embed has no %q field", name)
	return ""
}

func Test_AnnouncementEmbed(t *testing.T) {
	embed := announcementEmbed(testSnapshot(), "footer", testNow)

	require.Contains(t, embed.Description, "**Prize:** Nitro")
	require.Contains(t, embed.Description, "<t:1756733400:R>")
	require.Contains(t, embed.Description, "from now")
	require.Equal(t, "2", fieldValue(t, embed, "Winners"))
	require.Equal(t, "<@42>", fieldValue(t, embed, "Host"))
	require.Equal(t, "<@&7>", fieldValue(t, embed, "Required Role"))
	require.Equal(t, "<@&8>: +2", fieldValue(t, embed, "Extra Entries"))
	require.Equal(t, "footer", embed.Footer.Text)
}

func Test_AnnouncementEmbed_NoRequiredRole(t *testing.T) {
	gw := testSnapshot()
	gw.RequiredRole = ""
	gw.Bonus = nil

	embed := announcementEmbed(gw, "footer", testNow)
	require.Equal(t, "None", fieldValue(t, embed, "Required Role"))
	require.Equal(t, "None", fieldValue(t, embed, "Extra Entries"))
}

func Test_EndedEmbed(t *testing.T) {
	gw := testSnapshot()

	embed := endedEmbed(gw, &giveaway.Resolution{
		Outcome:  giveaway.OutcomeWinners,
		Winners:  []string{"1", "2"},
		Eligible: 1200,
		Tickets:  3400,
	}, "footer")
	require.Contains(t, embed.Description, "**Winner(s):** <@1>, <@2>")
	require.Equal(t, "1,200 members, 3,400 tickets", fieldValue(t, embed, "Entries"))

	embed = endedEmbed(gw, &giveaway.Resolution{Outcome: giveaway.OutcomeNoEligibleEntries}, "footer")
	require.Contains(t, embed.Description, "No valid entries.")
}

func Test_ResultContent(t *testing.T) {
	gw := testSnapshot()

	require.Equal(t,
		"🎉 Congratulations <@1>, <@2>! You won **Nitro**!",
		resultContent(gw, &giveaway.Resolution{Outcome: giveaway.OutcomeWinners, Winners: []string{"1", "2"}}))
	require.Equal(t,
		"🔄 New winner(s) for **Nitro**: <@3>",
		resultContent(gw, &giveaway.Resolution{Outcome: giveaway.OutcomeWinners, Winners: []string{"3"}, Reroll: true}))
	require.Equal(t,
		"😢 No valid entries for **Nitro**.",
		resultContent(gw, &giveaway.Resolution{Outcome: giveaway.OutcomeNoEligibleEntries}))
}

func Test_JoinButtonRow(t *testing.T) {
	row := joinButtonRow(true)[0].(discordgo.ActionsRow)
	button := row.Components[0].(discordgo.Button)

	require.Equal(t, joinButtonID, button.CustomID)
	require.True(t, button.Disabled)
	require.Equal(t, entryEmoji, button.Emoji.Name)
}

func Test_ListEmbed(t *testing.T) {
	embed := listEmbed(nil, "footer", testNow)
	require.Equal(t, "There are no giveaways right now.", embed.Description)

	ended := testSnapshot()
	ended.ID = "1410000000000000002"
	ended.Prize = "Robux"
	ended.State = giveaway.StateEnded
	ended.EndsAt = testNow.Add(-2 * time.Hour)
	ended.Entrants = 1
	ended.Winners = 1

	embed = listEmbed([]*giveaway.Snapshot{ended, testSnapshot()}, "footer", testNow)
	require.Len(t, embed.Fields, 2)

	require.Equal(t, "Robux", embed.Fields[0].Name)
	require.Contains(t, embed.Fields[0].Value, "ended 2 hours ago")
	require.Contains(t, embed.Fields[0].Value, "1 entrant •")
	require.Contains(t, embed.Fields[0].Value, "1 winner")

	require.Equal(t, "Nitro", embed.Fields[1].Name)
	require.Contains(t, embed.Fields[1].Value, "<#1398545401598050425>")
	require.Contains(t, embed.Fields[1].Value, "3 entrants")
	require.Contains(t, embed.Fields[1].Value, "2 winners")
	require.Contains(t, embed.Fields[1].Value, "`1410000000000000001`")
}

func Test_ProfileEmbed(t *testing.T) {
	user := &roblox.User{ID: 156, Name: "builderman", DisplayName: "Builderman"}

	embed := profileEmbed(user, "https://group", "footer", testNow)
	require.Equal(t, "https://www.roblox.com/users/156/profile", embed.URL)
	require.Equal(t, user.HeadshotURL(), embed.Image.URL)
	require.Equal(t, "156", fieldValue(t, embed, "User ID"))
	require.Equal(t, "[Join our Roblox group](https://group)", fieldValue(t, embed, "Community"))
}

func Test_SubmissionEmbed(t *testing.T) {
	author := &discordgo.User{ID: "99", Username: "alice"}

	embed := submissionEmbed(bugReport, author, "it broke", "ref-1", "https://group", "footer", testNow)
	require.Equal(t, "🐞 Bug Report", embed.Title)
	require.Equal(t, "it broke", embed.Description)
	require.Equal(t, "<@99>", fieldValue(t, embed, "From"))
	require.Equal(t, "`ref-1`", fieldValue(t, embed, "Reference"))
	require.Equal(t, colorRed, embed.Color)
}
