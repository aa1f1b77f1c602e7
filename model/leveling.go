package model

// UserProgress is one row of the user_progress table: the XP state of a
// single user inside a single guild. Level is always the projection of
// XP through the level formula, recomputed on every write.
type UserProgress struct {
	GuildID       string `db:"guild_id"`
	UserID        string `db:"user_id"`
	XP            int64  `db:"xp"`
	Level         int    `db:"level"`
	TotalMessages int64  `db:"total_messages"`
	LastAwardTime int64  `db:"last_award_time"` // unix nanoseconds of the last XP-awarding event
	CreatedAt     int64  `db:"created_at"`      // unix nanoseconds, leaderboard tiebreak
}

// LevelRoleMapping grants role_id to every member at or above level.
type LevelRoleMapping struct {
	GuildID string `db:"guild_id"`
	Level   int    `db:"level"`
	RoleID  string `db:"role_id"`
}

// AwardResult reports a successful XP award.
type AwardResult struct {
	OldLevel int
	NewLevel int
	XP       int64
	XPDelta  int
}

// LeveledUp reports whether the award crossed at least one level boundary.
func (r *AwardResult) LeveledUp() bool {
	return r.NewLevel > r.OldLevel
}

// RankInfo is the full answer to a rank query, with the progress fields
// derived from the level formula.
type RankInfo struct {
	Position       int
	Level          int
	XP             int64
	TotalMessages  int64
	XPIntoLevel    int64
	XPForNextLevel int64
}

// LeaderboardEntry is one row of a leaderboard query.
type LeaderboardEntry struct {
	Position      int
	UserID        string
	Level         int
	XP            int64
	TotalMessages int64
}
