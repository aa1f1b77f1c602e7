package leveling

import (
	"fmt"
	"log"
	"strings"

	"level-helper/leveling"
	"level-helper/utils"

	"github.com/bwmarrin/discordgo"
)

// HandleRank replies with the rank card for the invoking user or the
// user passed in the command option.
func HandleRank(s *discordgo.Session, i *discordgo.InteractionCreate, query *leveling.QueryService) {
	target := i.Member.User
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "user" {
			target = opt.UserValue(s)
		}
	}

	info, err := query.Rank(i.GuildID, target.ID)
	if err != nil {
		log.Printf("Rank query failed for user %s in guild %s: %v", target.ID, i.GuildID, err)
		utils.SendErrorResponse(s, i, "Something went wrong while looking up the rank.")
		return
	}
	if info == nil {
		utils.SendSimpleResponse(s, i, fmt.Sprintf("<@%s> hasn't earned any XP yet!", target.ID))
		return
	}

	stats := fmt.Sprintf(
		"**Rank:** #%d 🏆\n**Level:** %d ⭐\n**Total XP:** %d 💎\n**Messages:** %d 💬",
		info.Position, info.Level, info.XP, info.TotalMessages,
	)

	progress := fmt.Sprintf(
		"**Level %d → %d**\n%s\n`%d / %d XP`",
		info.Level, info.Level+1,
		progressBar(info.XPIntoLevel, info.XPForNextLevel, 15),
		info.XPIntoLevel, info.XPForNextLevel,
	)

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s's Profile", displayName(target, i.Member)),
		Description: fmt.Sprintf("Progress and statistics for <@%s>", target.ID),
		Color:       rankColor(info.Level),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "📊 Statistics", Value: stats},
			{Name: "📈 Level Progress", Value: progress},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Keep chatting to level up! • XP needed: %d", info.XPForNextLevel-info.XPIntoLevel),
		},
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
	if err != nil {
		log.Printf("Error sending rank response: %v", err)
	}
}

func progressBar(current, needed int64, width int) string {
	filled := 0
	if needed > 0 {
		filled = int(current * int64(width) / needed)
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat("▰", filled) + strings.Repeat("▱", width-filled)
}

func rankColor(level int) int {
	switch {
	case level >= 50:
		return 0xf1c40f
	case level >= 25:
		return 0x9b59b6
	case level >= 10:
		return 0x3498db
	default:
		return 0x2ecc71
	}
}

func displayName(user *discordgo.User, invoker *discordgo.Member) string {
	if invoker != nil && invoker.User != nil && invoker.User.ID == user.ID && invoker.Nick != "" {
		return invoker.Nick
	}
	if user.GlobalName != "" {
		return user.GlobalName
	}
	return user.Username
}
