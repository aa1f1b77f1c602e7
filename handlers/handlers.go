package handlers

import (
	"log"

	"level-helper/bot"
	levelinghandlers "level-helper/handlers/leveling"
	"level-helper/utils"

	"github.com/bwmarrin/discordgo"
)

func Register(b *bot.Bot) {
	b.CommandHandlers = commandHandlers(b)
	addHandlers(b)
}

func commandHandlers(b *bot.Bot) map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate) {
	return map[string]func(s *discordgo.Session, i *discordgo.InteractionCreate){
		"rank": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			levelinghandlers.HandleRank(s, i, b.Query)
		},
		"leaderboard": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			levelinghandlers.HandleLeaderboard(s, i, b.Query)
		},
		"leveling": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			if !isAdmin(b, i) {
				utils.SendErrorResponse(s, i, "You need Administrator permission to use this!")
				return
			}
			levelinghandlers.HandleLevelingAdmin(s, i, b.Admin, b.Synchronizer, b.Engine.Settings())
		},
		"status": func(s *discordgo.Session, i *discordgo.InteractionCreate) {
			if !isAdmin(b, i) {
				utils.SendErrorResponse(s, i, "You need Administrator permission to use this!")
				return
			}
			SystemInfoHandler(s, i, b.GetConfig().DBPath)
		},
	}
}

func isAdmin(b *bot.Bot, i *discordgo.InteractionCreate) bool {
	if i.Member == nil {
		return false
	}
	config := b.GetConfig()
	serverConfig, ok := config.ServerConfigs[i.GuildID]
	if !ok {
		log.Printf("Could not find server config for guild: %s", i.GuildID)
		return false
	}
	permissionLevel := utils.CheckPermission(i.Member.Roles, i.Member.User.ID, serverConfig.AdminRoleIDs, config.DeveloperUserIDs)
	return permissionLevel != utils.GuestPermission
}

func addHandlers(b *bot.Bot) {
	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Printf("Logged in as: %v#%v", s.State.User.Username, s.State.User.Discriminator)
	})
	b.Session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if i.Type != discordgo.InteractionApplicationCommand {
			return
		}
		if h, ok := b.CommandHandlers[i.ApplicationCommandData().Name]; ok {
			h(s, i)
		}
	})
	b.Session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		levelinghandlers.HandleMessageCreate(s, m, b.Engine, b.Synchronizer, b.Announcer)
	})
}
