package leveling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankDerivedFields(t *testing.T) {
	store := newMemStore()
	query := NewQueryService(store)

	store.seed("g1", "u1", 120) // level 1, 20 into it
	store.seed("g1", "u2", 500) // level 3

	info, err := query.Rank("g1", "u1")
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, 2, info.Position)
	assert.Equal(t, 1, info.Level)
	assert.Equal(t, int64(120), info.XP)
	assert.Equal(t, int64(20), info.XPIntoLevel)
	assert.Equal(t, int64(155), info.XPForNextLevel)
}

func TestRankUnknownUser(t *testing.T) {
	store := newMemStore()
	query := NewQueryService(store)

	info, err := query.Rank("g1", "nobody")
	require.NoError(t, err)
	assert.Nil(t, info)
}

func TestLeaderboardOrderingAndTiebreak(t *testing.T) {
	store := newMemStore()
	query := NewQueryService(store)

	store.seed("g1", "first", 300)
	store.seed("g1", "tied-early", 200) // created before tied-late
	store.seed("g1", "tied-late", 200)
	store.seed("g1", "last", 100)
	store.seed("g2", "other-guild", 9999)

	entries, err := query.Leaderboard("g1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	assert.Equal(t, "first", entries[0].UserID)
	assert.Equal(t, "tied-early", entries[1].UserID)
	assert.Equal(t, "tied-late", entries[2].UserID)
	assert.Equal(t, "last", entries[3].UserID)
	for i, e := range entries {
		assert.Equal(t, i+1, e.Position)
	}

	// Re-reading with no writes in between yields the identical order.
	again, err := query.Leaderboard("g1", 10)
	require.NoError(t, err)
	assert.Equal(t, entries, again)
}

func TestLeaderboardLimitsToTopN(t *testing.T) {
	store := newMemStore()
	query := NewQueryService(store)

	store.seed("g1", "a", 300)
	store.seed("g1", "b", 200)
	store.seed("g1", "c", 100)

	entries, err := query.Leaderboard("g1", 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "a", entries[0].UserID)
	assert.Equal(t, "b", entries[1].UserID)
}

func TestRankMatchesLeaderboardPosition(t *testing.T) {
	store := newMemStore()
	query := NewQueryService(store)

	store.seed("g1", "a", 300)
	store.seed("g1", "b", 200)
	store.seed("g1", "c", 100)

	entries, err := query.Leaderboard("g1", 10)
	require.NoError(t, err)
	for _, e := range entries {
		info, err := query.Rank("g1", e.UserID)
		require.NoError(t, err)
		assert.Equal(t, e.Position, info.Position, "rank of %s", e.UserID)
	}
}
