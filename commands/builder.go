package commands

import (
	"level-helper/commands/defs"

	"github.com/bwmarrin/discordgo"
)

// GenerateCommands returns the slash commands registered per guild.
func GenerateCommands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		defs.Rank,
		defs.Leaderboard,
		defs.Leveling,
		defs.Status,
	}
}
