package leveling

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"level-helper/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSettings() model.LevelingSettings {
	return model.LevelingSettings{
		XPMin:           15,
		XPMax:           25,
		CooldownSeconds: 60,
		LevelUpMessage:  true,
	}
}

func newTestEngine(store Store, settings model.LevelingSettings) *Engine {
	return NewEngine(store, func() model.LevelingSettings { return settings }, rand.New(rand.NewSource(1)))
}

func TestAwardCreatesRowLazily(t *testing.T) {
	store := newMemStore()
	engine := newTestEngine(store, testSettings())
	now := time.Unix(1_700_000_000, 0)

	res, err := engine.Award("g1", "u1", now)
	require.NoError(t, err)
	assert.Equal(t, 0, res.OldLevel)
	assert.GreaterOrEqual(t, res.XPDelta, 15)
	assert.LessOrEqual(t, res.XPDelta, 25)
	assert.Equal(t, int64(res.XPDelta), res.XP)

	p, err := store.GetProgress("g1", "u1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, int64(1), p.TotalMessages)
	assert.Equal(t, now.UnixNano(), p.LastAwardTime)
	assert.Equal(t, LevelForXP(p.XP), p.Level)
}

func TestAwardWithinCooldownLeavesStateUntouched(t *testing.T) {
	store := newMemStore()
	engine := newTestEngine(store, testSettings())
	now := time.Unix(1_700_000_000, 0)

	_, err := engine.Award("g1", "u1", now)
	require.NoError(t, err)

	before, err := store.GetProgress("g1", "u1")
	require.NoError(t, err)

	res, err := engine.Award("g1", "u1", now.Add(30*time.Second))
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrNotEligible)

	after, err := store.GetProgress("g1", "u1")
	require.NoError(t, err)
	assert.Equal(t, before.XP, after.XP)
	assert.Equal(t, before.TotalMessages, after.TotalMessages)
	assert.Equal(t, before.LastAwardTime, after.LastAwardTime)
}

func TestAwardAfterCooldownMutatesAgain(t *testing.T) {
	store := newMemStore()
	engine := newTestEngine(store, testSettings())
	now := time.Unix(1_700_000_000, 0)

	_, err := engine.Award("g1", "u1", now)
	require.NoError(t, err)
	_, err = engine.Award("g1", "u1", now.Add(60*time.Second))
	require.NoError(t, err)

	p, err := store.GetProgress("g1", "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), p.TotalMessages)
}

func TestAwardSpacedEventsAllSucceed(t *testing.T) {
	store := newMemStore()
	engine := newTestEngine(store, testSettings())
	now := time.Unix(1_700_000_000, 0)

	const n = 5
	for k := 0; k < n; k++ {
		_, err := engine.Award("g1", "u1", now.Add(time.Duration(k)*60*time.Second))
		require.NoError(t, err)
	}

	p, err := store.GetProgress("g1", "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(n), p.TotalMessages)
}

func TestAwardCanCrossMultipleLevels(t *testing.T) {
	store := newMemStore()
	settings := testSettings()
	settings.XPMin = 500
	settings.XPMax = 500
	engine := newTestEngine(store, settings)

	// 500 XP covers the 100/155/220 thresholds in one shot.
	res, err := engine.Award("g1", "u1", time.Unix(1_700_000_000, 0))
	require.NoError(t, err)
	assert.Equal(t, 0, res.OldLevel)
	assert.Equal(t, 3, res.NewLevel)
	assert.True(t, res.LeveledUp())
}

func TestAwardStorageFailureIsTyped(t *testing.T) {
	store := newMemStore()
	engine := newTestEngine(store, testSettings())
	store.failing = true

	res, err := engine.Award("g1", "u1", time.Unix(1_700_000_000, 0))
	assert.Nil(t, res)

	var storageErr *StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.ErrorIs(t, err, errStoreDown)

	store.failing = false
	p, err := store.GetProgress("g1", "u1")
	require.NoError(t, err)
	assert.Nil(t, p, "failed award must not leave a row behind")
}

func TestConcurrentAwardsSameUserSingleWinner(t *testing.T) {
	store := newMemStore()
	engine := newTestEngine(store, testSettings())
	now := time.Unix(1_700_000_000, 0)

	const n = 16
	var wg sync.WaitGroup
	results := make(chan error, n)

	for k := 0; k < n; k++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := engine.Award("g1", "u1", now)
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, ErrNotEligible)
		}
	}
	assert.Equal(t, 1, succeeded)

	p, err := store.GetProgress("g1", "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), p.TotalMessages)
}

func TestConcurrentAwardsDifferentUsersAllSucceed(t *testing.T) {
	store := newMemStore()
	engine := newTestEngine(store, testSettings())
	now := time.Unix(1_700_000_000, 0)

	const n = 16
	var wg sync.WaitGroup
	errs := make([]error, n)

	for k := 0; k < n; k++ {
		wg.Add(1)
		go func(k int) {
			defer wg.Done()
			_, errs[k] = engine.Award("g1", "user-"+string(rune('a'+k)), now)
		}(k)
	}
	wg.Wait()

	for k, err := range errs {
		assert.NoError(t, err, "user %d", k)
	}
}

func TestGateFirstEventAlwaysEligible(t *testing.T) {
	gate := Gate{Window: time.Minute}
	assert.True(t, gate.Eligible(&model.UserProgress{}, time.Unix(0, 0)))
}

func TestGateWindowBoundary(t *testing.T) {
	gate := Gate{Window: time.Minute}
	p := &model.UserProgress{LastAwardTime: time.Unix(1000, 0).UnixNano()}

	assert.False(t, gate.Eligible(p, time.Unix(1059, 0)))
	assert.True(t, gate.Eligible(p, time.Unix(1060, 0)))
}

func TestGateKeepsSubSecondPrecision(t *testing.T) {
	gate := Gate{Window: time.Minute}
	last := time.Unix(1000, 900_000_000)
	p := &model.UserProgress{LastAwardTime: last.UnixNano()}

	// 59.1s elapsed: a whole-second comparison would let this through.
	assert.False(t, gate.Eligible(p, time.Unix(1060, 0)))
	assert.False(t, gate.Eligible(p, time.Unix(1060, 899_999_999)))
	assert.True(t, gate.Eligible(p, time.Unix(1060, 900_000_000)))
}

func TestAwardUsesReloadedSettings(t *testing.T) {
	store := newMemStore()
	var mu sync.Mutex
	current := testSettings()
	engine := NewEngine(store, func() model.LevelingSettings {
		mu.Lock()
		defer mu.Unlock()
		return current
	}, rand.New(rand.NewSource(1)))
	now := time.Unix(1_700_000_000, 0)

	_, err := engine.Award("g1", "u1", now)
	require.NoError(t, err)

	mu.Lock()
	current.XPMin = 500
	current.XPMax = 500
	current.CooldownSeconds = 10
	mu.Unlock()

	// The shortened cooldown and new XP range apply without a rebuild.
	res, err := engine.Award("g1", "u1", now.Add(10*time.Second))
	require.NoError(t, err)
	assert.Equal(t, 500, res.XPDelta)
	assert.Equal(t, 500, engine.Settings().XPMin)
}
