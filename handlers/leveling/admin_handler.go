package leveling

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"level-helper/leveling"
	"level-helper/model"
	"level-helper/utils"

	"github.com/bwmarrin/discordgo"
)

// HandleLevelingAdmin dispatches the /leveling subcommands. The caller
// has already passed the admin permission gate.
func HandleLevelingAdmin(s *discordgo.Session, i *discordgo.InteractionCreate, admin *leveling.MappingAdmin, synchronizer *leveling.Synchronizer, settings model.LevelingSettings) {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return
	}
	sub := options[0]

	switch sub.Name {
	case "setlevelrole":
		handleSetLevelRole(s, i, admin, synchronizer, sub.Options)
	case "removelevelrole":
		handleRemoveLevelRole(s, i, admin, sub.Options)
	case "levelroles":
		handleListLevelRoles(s, i, admin)
	case "settings":
		handleSettings(s, i, settings)
	}
}

func handleSetLevelRole(s *discordgo.Session, i *discordgo.InteractionCreate, admin *leveling.MappingAdmin, synchronizer *leveling.Synchronizer, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	var level int
	var role *discordgo.Role
	for _, opt := range opts {
		switch opt.Name {
		case "level":
			level = int(opt.IntValue())
		case "role":
			role = opt.RoleValue(s, i.GuildID)
		}
	}
	if role == nil {
		utils.SendErrorResponse(s, i, "Could not resolve the role option.")
		return
	}

	if err := admin.SetLevelRole(i.GuildID, level, role.ID); err != nil {
		if errors.Is(err, leveling.ErrInvalidLevel) {
			utils.SendErrorResponse(s, i, "Level must be 1 or higher!")
			return
		}
		log.Printf("Failed to set level role in guild %s: %v", i.GuildID, err)
		utils.SendErrorResponse(s, i, "Failed to save the role reward.")
		return
	}

	if err := utils.DeferResponse(s, i, false); err != nil {
		log.Printf("Error deferring setlevelrole response: %v", err)
		return
	}

	// Retroactively grant the new reward to members already at or
	// above the level.
	go func() {
		updated, failures, err := synchronizer.ReconcileLevel(i.GuildID, level)
		if err != nil {
			log.Printf("Reconcile after setlevelrole failed in guild %s: %v", i.GuildID, err)
			utils.SendFollowUp(s, i.Interaction, fmt.Sprintf(
				"<@&%s> will now be given to users who reach **Level %d**, but the retroactive sweep failed.", role.ID, level))
			return
		}
		for _, f := range failures {
			log.Printf("Reconcile after setlevelrole: %v", f)
		}

		msg := fmt.Sprintf("<@&%s> will now be given to users who reach **Level %d**!", role.ID, level)
		if updated > 0 {
			msg += fmt.Sprintf(" Retroactively granted to %d existing members.", updated)
		}
		if len(failures) > 0 {
			msg += fmt.Sprintf(" %d grants failed (check role hierarchy).", len(failures))
		}
		utils.SendFollowUp(s, i.Interaction, msg)
	}()
}

func handleRemoveLevelRole(s *discordgo.Session, i *discordgo.InteractionCreate, admin *leveling.MappingAdmin, opts []*discordgo.ApplicationCommandInteractionDataOption) {
	var level int
	for _, opt := range opts {
		if opt.Name == "level" {
			level = int(opt.IntValue())
		}
	}

	err := admin.RemoveLevelRole(i.GuildID, level)
	if errors.Is(err, leveling.ErrMappingNotFound) {
		utils.SendErrorResponse(s, i, fmt.Sprintf("No role reward found for Level %d!", level))
		return
	}
	if err != nil {
		log.Printf("Failed to remove level role in guild %s: %v", i.GuildID, err)
		utils.SendErrorResponse(s, i, "Failed to remove the role reward.")
		return
	}
	utils.SendPublicResponse(s, i, fmt.Sprintf("Removed role reward for Level %d!", level))
}

func handleListLevelRoles(s *discordgo.Session, i *discordgo.InteractionCreate, admin *leveling.MappingAdmin) {
	mappings, err := admin.ListLevelRoles(i.GuildID)
	if err != nil {
		log.Printf("Failed to list level roles in guild %s: %v", i.GuildID, err)
		utils.SendErrorResponse(s, i, "Failed to load the role rewards.")
		return
	}
	if len(mappings) == 0 {
		utils.SendSimpleResponse(s, i, "No level role rewards configured yet!")
		return
	}

	var sb strings.Builder
	for _, m := range mappings {
		sb.WriteString(fmt.Sprintf("**Level %d** → <@&%s>\n", m.Level, m.RoleID))
	}

	embed := &discordgo.MessageEmbed{
		Title:       "⭐ Level Role Rewards",
		Description: "Roles automatically assigned when reaching specific levels",
		Color:       0x9b59b6,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Configured Rewards", Value: sb.String()},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Total role rewards: %d • Use /leveling setlevelrole to add more", len(mappings)),
		},
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
	if err != nil {
		log.Printf("Error sending level roles response: %v", err)
	}
}

func handleSettings(s *discordgo.Session, i *discordgo.InteractionCreate, settings model.LevelingSettings) {
	levelUp := "❌ Disabled"
	if settings.LevelUpMessage {
		levelUp = "✅ Enabled"
	}

	embed := &discordgo.MessageEmbed{
		Title: "⚙️ Leveling Settings",
		Color: 0x3498db,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "XP Per Message", Value: fmt.Sprintf("%d-%d XP", settings.XPMin, settings.XPMax), Inline: true},
			{Name: "Message Cooldown", Value: fmt.Sprintf("%d seconds", settings.CooldownSeconds), Inline: true},
			{Name: "Level Up Messages", Value: levelUp, Inline: true},
		},
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
	if err != nil {
		log.Printf("Error sending settings response: %v", err)
	}
}
