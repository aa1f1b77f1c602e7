package leveling

import "level-helper/model"

// QueryService is the read-only layer over the progression store. It
// decorates stored rows with progress fields derived from the level
// formula.
type QueryService struct {
	store Store
}

func NewQueryService(store Store) *QueryService {
	return &QueryService{store: store}
}

// Rank returns the user's position and progress inside the guild, or
// (nil, nil) when the user has never earned XP there.
func (q *QueryService) Rank(guildID, userID string) (*model.RankInfo, error) {
	p, err := q.store.GetProgress(guildID, userID)
	if err != nil {
		return nil, &StorageError{Op: "rank lookup", Err: err}
	}
	if p == nil {
		return nil, nil
	}

	pos, err := q.store.RankOf(guildID, userID)
	if err != nil {
		return nil, &StorageError{Op: "rank position", Err: err}
	}

	return &model.RankInfo{
		Position:       pos,
		Level:          p.Level,
		XP:             p.XP,
		TotalMessages:  p.TotalMessages,
		XPIntoLevel:    XPIntoLevel(p.XP),
		XPForNextLevel: XPRequiredForLevel(p.Level),
	}, nil
}

// Leaderboard returns the guild's topN highest-XP users in a stable
// order: xp descending, ties broken by row creation order.
func (q *QueryService) Leaderboard(guildID string, topN int) ([]model.LeaderboardEntry, error) {
	rows, err := q.store.TopN(guildID, topN)
	if err != nil {
		return nil, &StorageError{Op: "leaderboard", Err: err}
	}

	entries := make([]model.LeaderboardEntry, 0, len(rows))
	for i, p := range rows {
		entries = append(entries, model.LeaderboardEntry{
			Position:      i + 1,
			UserID:        p.UserID,
			Level:         p.Level,
			XP:            p.XP,
			TotalMessages: p.TotalMessages,
		})
	}
	return entries, nil
}
