package main

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"tonybot/bot"
	"tonybot/config"
	"tonybot/dal"
	"tonybot/logger"
)

const sweepInterval = time.Minute

func main() {
	app := cli.NewApp()
	app.Name = "tonybot"
	app.Usage = "Giveaways and community tools for a single Discord guild"
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Value:   "config.toml",
			Usage:   "Path to the TOML config file.",
		},
		&cli.StringFlag{
			Name:  "env",
			Value: ".env",
			Usage: "Optional dotenv file providing DISCORD_TOKEN and OWNER_ID.",
		},
	}
	app.Before = loadEnv
	app.Action = run
	app.Commands = []*cli.Command{
		{
			Action:      run,
			Name:        "run",
			Usage:       "Start the bot",
			Description: `Connects to Discord, registers the guild's slash commands and runs until interrupted.`,
		},
		{
			Action:      purgeCommands,
			Name:        "purge-commands",
			Usage:       "Delete every slash command registered in the guild",
			Description: `Cleans up commands left behind when the bot did not shut down cleanly.`,
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("Exiting", slog.Any("error", err))
		os.Exit(1)
	}
}

func loadEnv(c *cli.Context) error {
	err := godotenv.Load(c.String("env"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	logger.Setup(cfg.Log.Level, cfg.Log.NoColor)

	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	db, err := dal.InitDB(cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		return err
	}

	b, err := bot.New(cfg, db)
	if err != nil {
		return err
	}
	defer b.Shutdown()

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	done := make(chan bool)
	go b.Sweeper(ticker, done)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	done <- true
	return nil
}

func purgeCommands(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	return bot.PurgeCommands(cfg)
}
