package leveling

import (
	"fmt"
	"log"
	"strings"

	"level-helper/leveling"
	"level-helper/utils"

	"github.com/bwmarrin/discordgo"
)

const leaderboardSize = 10

// HandleLeaderboard replies with the guild's top-10 leaderboard.
func HandleLeaderboard(s *discordgo.Session, i *discordgo.InteractionCreate, query *leveling.QueryService) {
	entries, err := query.Leaderboard(i.GuildID, leaderboardSize)
	if err != nil {
		log.Printf("Leaderboard query failed for guild %s: %v", i.GuildID, err)
		utils.SendErrorResponse(s, i, "Something went wrong while building the leaderboard.")
		return
	}
	if len(entries) == 0 {
		utils.SendSimpleResponse(s, i, "No users on the leaderboard yet!")
		return
	}

	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("%s <@%s>\n     Level %d • %d XP • %d msgs\n\n",
			medal(e.Position), e.UserID, e.Level, e.XP, e.TotalMessages))
	}

	embed := &discordgo.MessageEmbed{
		Title:       "🏆 Server Leaderboard",
		Description: fmt.Sprintf("**Top %d Members by XP**", leaderboardSize),
		Color:       0xf1c40f,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Rankings", Value: sb.String()},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Compete for the top spot! • Users shown: %d", len(entries)),
		},
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
	if err != nil {
		log.Printf("Error sending leaderboard response: %v", err)
	}
}

func medal(position int) string {
	switch position {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return fmt.Sprintf("`#%2d`", position)
	}
}
