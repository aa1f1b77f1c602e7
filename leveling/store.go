package leveling

import "level-helper/model"

// Store is the durable progression state. Implementations must give
// UpdateProgress read-modify-write atomicity for a single row: either
// the whole mutation the callback applies becomes visible, or none of
// it does.
type Store interface {
	// GetProgress returns the row for (guildID, userID), or nil when
	// the user has never earned XP in the guild.
	GetProgress(guildID, userID string) (*model.UserProgress, error)

	// UpdateProgress loads or lazily creates the row for
	// (guildID, userID), applies fn to it, and persists the result in
	// one transaction. If fn returns an error the row is left
	// untouched and the error is returned as-is.
	UpdateProgress(guildID, userID string, fn func(p *model.UserProgress) error) error

	// TopN returns the n highest-XP rows of the guild, ordered by xp
	// descending with ties broken by row creation order.
	TopN(guildID string, n int) ([]model.UserProgress, error)

	// RankOf returns the 1-based position of the user in the guild's
	// descending-XP ordering, or 0 when the user has no row.
	RankOf(guildID, userID string) (int, error)

	// UsersAtOrAbove returns every row of the guild whose level is at
	// least the given level.
	UsersAtOrAbove(guildID string, level int) ([]model.UserProgress, error)

	SetLevelRole(guildID string, level int, roleID string) error
	RemoveLevelRole(guildID string, level int) (bool, error)
	ListLevelRoles(guildID string) ([]model.LevelRoleMapping, error)

	// RolesForLevel returns the role IDs of every mapping in the guild
	// with mapping level <= level.
	RolesForLevel(guildID string, level int) ([]string, error)
}
