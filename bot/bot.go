package bot

import (
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"gorm.io/gorm"

	"tonybot/config"
	"tonybot/counting"
	"tonybot/giveaway"
	"tonybot/roblox"
)

const intents = discordgo.IntentsGuilds |
	discordgo.IntentsGuildMembers |
	discordgo.IntentsGuildMessages |
	discordgo.IntentsGuildMessageReactions |
	discordgo.IntentsMessageContent

type interactionHandler = func(*discordgo.InteractionCreate)

// Bot represents a running instance of the bot in its guild.
type Bot struct {
	session            *discordgo.Session
	cfg                *config.Config
	db                 *gorm.DB
	giveaways          *giveaway.Manager
	counting           *counting.Game
	roblox             *roblox.Client
	registeredCommands []*discordgo.ApplicationCommand
	commandHandlers    map[string]interactionHandler
	componentHandlers  map[string]interactionHandler
}

func botCommands() []*discordgo.ApplicationCommand {
	return append([]*discordgo.ApplicationCommand{giveawayCommand}, communityCommands...)
}

func (bot *Bot) initSession() error {
	session, err := discordgo.New("Bot " + bot.cfg.Bot.Token)
	if err != nil {
		return fmt.Errorf("failed to create discord session: %w", err)
	}

	session.Identify.Intents = intents
	session.State.TrackMembers = true

	session.AddHandler(func(_ *discordgo.Session, r *discordgo.Ready) {
		slog.Info("Bot is up!", slog.String("user", r.User.String()))
	})
	session.AddHandler(bot.onInteraction)
	session.AddHandler(bot.OnMessage)

	bot.session = session
	return nil
}

func (bot *Bot) onInteraction(_ *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.GuildID != bot.cfg.Bot.GuildID.String() {
		return
	}

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		if handler, ok := bot.commandHandlers[i.ApplicationCommandData().Name]; ok {
			handler(i)
		}
	case discordgo.InteractionMessageComponent:
		if handler, ok := bot.componentHandlers[i.MessageComponentData().CustomID]; ok {
			handler(i)
		}
	}
}

func (bot *Bot) registerCommands() error {
	guildID := bot.cfg.Bot.GuildID.String()
	for _, command := range botCommands() {
		newCommand, err := bot.session.ApplicationCommandCreate(
			bot.session.State.User.ID,
			guildID,
			command,
		)
		if err != nil {
			return fmt.Errorf("failed to create %v command: %w", command.Name, err)
		}
		bot.registeredCommands = append(bot.registeredCommands, newCommand)
		slog.Info("Created command", slog.String("command", command.Name))
	}
	return nil
}

// New connects to Discord, wires the giveaway manager and the other features to the
// session, and registers the guild's slash commands.
func New(cfg *config.Config, db *gorm.DB) (*Bot, error) {
	giveawayCfg, err := cfg.Giveaway.Config()
	if err != nil {
		return nil, err
	}

	robloxClient, err := roblox.NewClient(cfg.Roblox.UsersURL, cfg.Roblox.CacheSize)
	if err != nil {
		return nil, err
	}

	bot := &Bot{
		cfg:      cfg,
		db:       db,
		counting: counting.New(db, cfg.Counting.CountingChannels()),
		roblox:   robloxClient,
	}
	if err = bot.initSession(); err != nil {
		return nil, err
	}

	bot.giveaways = giveaway.NewManager(
		giveawayCfg,
		&discordPublisher{
			session:         bot.session,
			footer:          cfg.Community.Footer,
			legacyReactions: giveawayCfg.LegacyReactions,
		},
		&guildDirectory{session: bot.session, guildID: cfg.Bot.GuildID.String()},
	)

	bot.commandHandlers = map[string]interactionHandler{
		"giveaway": bot.Giveaway,
		"profile":  bot.Profile,
		"report":   bot.Report,
		"suggest":  bot.Suggest,
		"help":     bot.Help,
	}
	bot.componentHandlers = map[string]interactionHandler{
		joinButtonID: bot.GiveawayJoin,
	}

	if err = bot.session.Open(); err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}
	if err = bot.registerCommands(); err != nil {
		bot.Shutdown()
		return nil, err
	}

	return bot, nil
}

// Shutdown deletes the registered commands and closes the session. Giveaways that
// have not ended are dropped.
func (bot *Bot) Shutdown() {
	slog.Info("Shutting down")

	if pending := scheduledCount(bot.giveaways.List()); pending > 0 {
		slog.Warn("Dropping in-memory giveaways", slog.Int("count", pending))
	}

	for _, command := range bot.registeredCommands {
		err := bot.session.ApplicationCommandDelete(
			bot.session.State.User.ID,
			bot.cfg.Bot.GuildID.String(),
			command.ID,
		)
		if err != nil {
			slog.Error("Failed to delete command",
				slog.String("command", command.Name),
				slog.Any("error", err))
		} else {
			slog.Info("Deleted command", slog.String("command", command.Name))
		}
	}

	if err := bot.session.Close(); err != nil {
		slog.Error("Failed to close session", slog.Any("error", err))
	}
}

func scheduledCount(giveaways []*giveaway.Snapshot) int {
	count := 0
	for _, gw := range giveaways {
		if gw.State == giveaway.StateScheduled {
			count++
		}
	}
	return count
}

// PurgeCommands deletes every command registered in the guild, including ones left
// behind by a bot that did not shut down cleanly.
func PurgeCommands(cfg *config.Config) error {
	session, err := discordgo.New("Bot " + cfg.Bot.Token)
	if err != nil {
		return fmt.Errorf("failed to create discord session: %w", err)
	}

	me, err := session.User("@me")
	if err != nil {
		return fmt.Errorf("failed to fetch application user: %w", err)
	}

	guildID := cfg.Bot.GuildID.String()
	commands, err := session.ApplicationCommands(me.ID, guildID)
	if err != nil {
		return fmt.Errorf("failed to list commands: %w", err)
	}

	for _, command := range commands {
		if err = session.ApplicationCommandDelete(me.ID, guildID, command.ID); err != nil {
			return fmt.Errorf("failed to delete %v command: %w", command.Name, err)
		}
		slog.Info("Deleted command", slog.String("command", command.Name))
	}
	return nil
}
