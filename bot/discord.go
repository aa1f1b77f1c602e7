package bot

import (
	"fmt"
	"log"

	"level-helper/leveling"
	"level-helper/model"

	"github.com/bwmarrin/discordgo"
)

// RoleManager implements leveling.RoleManager on top of the Discord
// REST API.
type RoleManager struct {
	Session *discordgo.Session
}

func (r *RoleManager) GetUserRoles(guildID, userID string) ([]string, error) {
	member, err := r.Session.GuildMember(guildID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch member %s in guild %s: %w", userID, guildID, err)
	}
	return member.Roles, nil
}

func (r *RoleManager) GrantRole(guildID, userID, roleID string) error {
	return r.Session.GuildMemberRoleAdd(guildID, userID, roleID)
}

// Announcer posts level-up messages. When a level-up channel is
// configured it wins over the channel the triggering message came
// from.
type Announcer struct {
	Session *discordgo.Session
	Config  model.BotConfigProvider
}

// PostLevelUp sends the level-up embed. channelID is the channel of
// the message that triggered the award; failures are logged only, a
// missed announcement never affects progression state.
func (a *Announcer) PostLevelUp(guildID, channelID, userID string, res *model.AwardResult) {
	settings := a.Config.GetConfig().Leveling
	if !settings.LevelUpMessage {
		return
	}
	target := channelID
	if settings.LevelUpChannelID != "" {
		target = settings.LevelUpChannelID
	}

	title := "Level Up!"
	color := 0x2ecc71
	switch {
	case res.NewLevel%25 == 0:
		title = fmt.Sprintf("🌟 MILESTONE! Level %d!", res.NewLevel)
		color = 0xf1c40f
	case res.NewLevel%10 == 0:
		title = "🎉 Major Level Up!"
		color = 0xf1c40f
	}

	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: fmt.Sprintf("<@%s> just reached **Level %d**! ⭐", userID, res.NewLevel),
		Color:       color,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name: "Progress",
				Value: fmt.Sprintf("**Total XP:** %d 💎\n**Next Level:** %d XP needed",
					res.XP, leveling.XPRequiredForLevel(res.NewLevel)),
			},
		},
	}

	if _, err := a.Session.ChannelMessageSendEmbed(target, embed); err != nil {
		log.Printf("Failed to send level-up message for user %s in guild %s: %v", userID, guildID, err)
	}
}
