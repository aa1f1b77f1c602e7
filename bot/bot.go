package bot

import (
	"log"
	"math/rand"
	"sync/atomic"
	"time"

	"level-helper/commands"
	"level-helper/config"
	"level-helper/leveling"
	"level-helper/model"
	"level-helper/utils/database"

	"github.com/bwmarrin/discordgo"
)

type Bot struct {
	Session            *discordgo.Session
	RegisteredCommands []*discordgo.ApplicationCommand
	config             atomic.Value // *model.Config
	CommandHandlers    map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate)
	DB                 *database.LevelingDB

	Engine       *leveling.Engine
	Synchronizer *leveling.Synchronizer
	Admin        *leveling.MappingAdmin
	Query        *leveling.QueryService
	Announcer    *Announcer

	scheduler *Scheduler
	done      chan struct{}
}

func (b *Bot) GetConfig() *model.Config {
	return b.config.Load().(*model.Config)
}

func (b *Bot) GetSession() *discordgo.Session {
	return b.Session
}

func (b *Bot) GetDB() *database.LevelingDB {
	return b.DB
}

func New(cfg *model.Config, db *database.LevelingDB) (*Bot, error) {
	dg, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, err
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMessages
	dg.StateEnabled = false

	b := &Bot{
		Session: dg,
		DB:      db,
		done:    make(chan struct{}),
	}
	b.config.Store(cfg)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	roles := &RoleManager{Session: dg}
	b.Engine = leveling.NewEngine(db, func() model.LevelingSettings { return b.GetConfig().Leveling }, rng)
	b.Synchronizer = leveling.NewSynchronizer(db, roles)
	b.Admin = leveling.NewMappingAdmin(db)
	b.Query = leveling.NewQueryService(db)
	b.Announcer = &Announcer{Session: dg, Config: b}

	b.scheduler = NewScheduler(b)
	return b, nil
}

func (b *Bot) GetScheduler() *Scheduler {
	return b.scheduler
}

func (b *Bot) Close() {
	log.Println("Gracefully shutting down.")
	close(b.done)
	b.scheduler.Stop()
	b.Session.Close()
	if err := b.DB.Close(); err != nil {
		log.Printf("Error closing database: %v", err)
	}
}

func (b *Bot) RefreshCommands(guildID string) {
	serverCfg, ok := b.GetConfig().ServerConfigs[guildID]
	if !ok {
		log.Printf("Could not find server config for guild: %s", guildID)
		return
	}
	log.Printf("Updating commands for guild %s", serverCfg.GuildID)

	cmds := commands.GenerateCommands()
	registeredCmds, err := b.Session.ApplicationCommandBulkOverwrite(b.GetConfig().AppID, serverCfg.GuildID, cmds)
	if err != nil {
		log.Printf("cannot update commands for guild '%s': %v", serverCfg.GuildID, err)
		return
	}
	b.RegisteredCommands = append(b.RegisteredCommands, registeredCmds...)
}

func (b *Bot) ReloadConfig() error {
	log.Println("Reloading configuration...")
	newCfg, err := config.Load()
	if err != nil {
		log.Printf("Error reloading config: %v", err)
		return err
	}

	b.config.Store(newCfg)
	log.Println("Configuration reloaded successfully.")

	for _, serverCfg := range newCfg.ServerConfigs {
		go b.RefreshCommands(serverCfg.GuildID)
	}

	return nil
}
