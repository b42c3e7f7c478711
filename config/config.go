package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/disgoorg/snowflake/v2"
	"github.com/pelletier/go-toml/v2"

	"tonybot/giveaway"
)

// Defaults applied to settings left empty in the config file.
const (
	DefaultDBDriver       = "sqlite"
	DefaultDBPath         = "bot_data.db"
	DefaultMaxDuration    = "30d"
	DefaultRobloxUsersURL = "https://users.roblox.com"
	DefaultRobloxCache    = 256
	DefaultGroupURL       = "https://www.roblox.com/share/g/84587582"
)

// Load reads the TOML config at path, applies defaults and lets the DISCORD_TOKEN and
// OWNER_ID environment variables override the file.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.applyDefaults()
	if err = cfg.applyEnv(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Config is the bot's whole configuration file.
type Config struct {
	Log       LogConfig       `toml:"log"`
	Bot       BotConfig       `toml:"bot"`
	DB        DBConfig        `toml:"db"`
	Giveaway  GiveawayConfig  `toml:"giveaway"`
	Counting  CountingConfig  `toml:"counting"`
	Roblox    RobloxConfig    `toml:"roblox"`
	Community CommunityConfig `toml:"community"`
}

// LogConfig sets the log level and whether output is colored.
type LogConfig struct {
	Level   slog.Level `toml:"level"`
	NoColor bool       `toml:"no_color"`
}

// BotConfig identifies the bot, its guild and its owner.
type BotConfig struct {
	Token   string       `toml:"token"`
	GuildID snowflake.ID `toml:"guild_id"`
	OwnerID snowflake.ID `toml:"owner_id"`
}

// DBConfig selects the database.
type DBConfig struct {
	// Driver is either "sqlite" or "mysql".
	Driver string `toml:"driver"`
	DSN    string `toml:"dsn"`
}

// GiveawayConfig holds the guild-wide giveaway settings as written in the file.
type GiveawayConfig struct {
	HostRoleID      snowflake.ID   `toml:"host_role_id"`
	BonusRoles      map[string]int `toml:"bonus_roles"`
	MaxDuration     string         `toml:"max_duration"`
	LegacyReactions bool           `toml:"legacy_reactions"`
}

// CountingConfig lists the counting channels and the role given for a wrong count.
type CountingConfig struct {
	ChannelIDs    []snowflake.ID `toml:"channel_ids"`
	FailureRoleID snowflake.ID   `toml:"failure_role_id"`
}

// RobloxConfig configures the Roblox profile lookups.
type RobloxConfig struct {
	UsersURL  string `toml:"users_url"`
	CacheSize int    `toml:"cache_size"`
}

// CommunityConfig holds the community link shown in embeds.
type CommunityConfig struct {
	GroupURL string `toml:"group_url"`
	Footer   string `toml:"footer"`
}

func (c *Config) applyDefaults() {
	if c.DB.Driver == "" {
		c.DB.Driver = DefaultDBDriver
	}
	if c.DB.DSN == "" && c.DB.Driver == DefaultDBDriver {
		c.DB.DSN = DefaultDBPath
	}
	if c.Giveaway.MaxDuration == "" {
		c.Giveaway.MaxDuration = DefaultMaxDuration
	}
	if c.Roblox.UsersURL == "" {
		c.Roblox.UsersURL = DefaultRobloxUsersURL
	}
	if c.Roblox.CacheSize <= 0 {
		c.Roblox.CacheSize = DefaultRobloxCache
	}
	if c.Community.GroupURL == "" {
		c.Community.GroupURL = DefaultGroupURL
	}
	if c.Community.Footer == "" {
		c.Community.Footer = "Join my Roblox group ➜ " + c.Community.GroupURL
	}
}

func (c *Config) applyEnv() error {
	if token := os.Getenv("DISCORD_TOKEN"); token != "" {
		c.Bot.Token = token
	}
	if owner := os.Getenv("OWNER_ID"); owner != "" {
		id, err := snowflake.Parse(owner)
		if err != nil {
			return fmt.Errorf("invalid OWNER_ID: %w", err)
		}
		c.Bot.OwnerID = id
	}
	return nil
}

// Validate reports every missing or malformed required setting.
func (c *Config) Validate() error {
	var errs []error

	if c.Bot.Token == "" {
		errs = append(errs, errors.New("bot.token (or DISCORD_TOKEN) must be set"))
	}
	if c.Bot.GuildID == 0 {
		errs = append(errs, errors.New("bot.guild_id must be set"))
	}
	if c.Bot.OwnerID == 0 {
		errs = append(errs, errors.New("bot.owner_id (or OWNER_ID) must be set"))
	}
	if c.Giveaway.HostRoleID == 0 {
		errs = append(errs, errors.New("giveaway.host_role_id must be set"))
	}
	if _, err := c.Giveaway.Config(); err != nil {
		errs = append(errs, err)
	}
	switch c.DB.Driver {
	case "sqlite", "mysql":
	default:
		errs = append(errs, fmt.Errorf("db.driver %q is not supported", c.DB.Driver))
	}
	if c.DB.DSN == "" {
		errs = append(errs, errors.New("db.dsn must be set"))
	}

	return errors.Join(errs...)
}

// Config converts the giveaway section into the giveaway manager's settings.
func (g GiveawayConfig) Config() (giveaway.Config, error) {
	maxDuration, ok := giveaway.ParseDuration(g.MaxDuration)
	if !ok {
		return giveaway.Config{}, fmt.Errorf("giveaway.max_duration %q is not a valid duration", g.MaxDuration)
	}

	bonus := make(giveaway.BonusTable, len(g.BonusRoles))
	for roleID, entries := range g.BonusRoles {
		if _, err := snowflake.Parse(roleID); err != nil {
			return giveaway.Config{}, fmt.Errorf("giveaway.bonus_roles: invalid role ID %q", roleID)
		}
		bonus[roleID] = entries
	}

	return giveaway.Config{
		HostRoleID:      g.HostRoleID.String(),
		BonusRoles:      bonus,
		MaxDuration:     maxDuration,
		LegacyReactions: g.LegacyReactions,
	}, nil
}

// CountingChannels returns the counting channel IDs as strings.
func (c CountingConfig) CountingChannels() []string {
	ids := make([]string, 0, len(c.ChannelIDs))
	for _, id := range c.ChannelIDs {
		ids = append(ids, id.String())
	}
	return ids
}

// FailureRole returns the failure role ID, or "" when none is configured.
func (c CountingConfig) FailureRole() string {
	if c.FailureRoleID == 0 {
		return ""
	}
	return c.FailureRoleID.String()
}
