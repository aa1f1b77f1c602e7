package leveling

import (
	"errors"
	"log"

	"level-helper/leveling"
	"level-helper/model"

	"github.com/bwmarrin/discordgo"
)

// LevelUpAnnouncer posts the level-up notification. Implemented by the
// bot package on top of the Discord channel API.
type LevelUpAnnouncer interface {
	PostLevelUp(guildID, channelID, userID string, res *model.AwardResult)
}

// HandleMessageCreate feeds every observed guild message into the
// accrual engine. Role sync and the announcement run on their own
// goroutine after the award has committed, so slow Discord calls never
// hold up XP accrual.
func HandleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate, engine *leveling.Engine, synchronizer *leveling.Synchronizer, announcer LevelUpAnnouncer) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}

	res, err := engine.Award(m.GuildID, m.Author.ID, m.Timestamp)
	if err != nil {
		if errors.Is(err, leveling.ErrNotEligible) {
			return
		}
		log.Printf("Failed to award XP to user %s in guild %s: %v", m.Author.ID, m.GuildID, err)
		return
	}

	if !res.LeveledUp() {
		return
	}

	go func() {
		_, failures, err := synchronizer.Synchronize(m.GuildID, m.Author.ID, res.NewLevel)
		if err != nil {
			log.Printf("Role sync failed for user %s in guild %s: %v", m.Author.ID, m.GuildID, err)
		}
		for _, f := range failures {
			log.Printf("Role sync: %v", f)
		}
		announcer.PostLevelUp(m.GuildID, m.ChannelID, m.Author.ID, res)
	}()
}
