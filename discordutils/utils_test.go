package discordutils

import (
	"fmt"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/require"
)

func Test_IsUnknownMember(t *testing.T) {
	unknown := &discordgo.RESTError{Message: &discordgo.APIErrorMessage{Code: discordgo.ErrCodeUnknownMember}}
	other := &discordgo.RESTError{Message: &discordgo.APIErrorMessage{Code: discordgo.ErrCodeMissingAccess}}

	require.True(t, IsUnknownMember(unknown))
	require.True(t, IsUnknownMember(fmt.Errorf("lookup: %w", unknown)))
	require.False(t, IsUnknownMember(other))
	require.False(t, IsUnknownMember(&discordgo.RESTError{}))
	require.False(t, IsUnknownMember(nil))
}

func Test_InteractionUser(t *testing.T) {
	guildUser := &discordgo.User{ID: "guild"}
	dmUser := &discordgo.User{ID: "dm"}

	require.Equal(t, guildUser, InteractionUser(&discordgo.Interaction{Member: &discordgo.Member{User: guildUser}}))
	require.Equal(t, dmUser, InteractionUser(&discordgo.Interaction{User: dmUser}))
}

func Test_OptionMap(t *testing.T) {
	options := OptionMap([]*discordgo.ApplicationCommandInteractionDataOption{
		{Name: "duration", Type: discordgo.ApplicationCommandOptionString, Value: "1h"},
		{Name: "winners", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(2)},
	})

	require.Equal(t, "1h", options["duration"].StringValue())
	require.EqualValues(t, 2, options["winners"].IntValue())
	require.Nil(t, options["prize"])
}

func Test_MentionsUser(t *testing.T) {
	mentions := []*discordgo.User{{ID: "1"}, {ID: "bot"}}
	require.True(t, MentionsUser(mentions, "bot"))
	require.False(t, MentionsUser(mentions, "2"))
	require.False(t, MentionsUser(nil, "bot"))
}
