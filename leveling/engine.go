package leveling

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"level-helper/model"
)

// Engine is the XP accrual service: it gates incoming message events
// on the cooldown window, draws a random XP delta and commits the
// whole award as one atomic store update. Awards for the same
// (guild, user) key are serialized; different keys never block each
// other.
type Engine struct {
	store    Store
	settings func() model.LevelingSettings

	rngMu sync.Mutex
	rng   *rand.Rand

	locks *keyedLocks
}

// NewEngine builds an engine over the given store. Settings are read
// through the callback on every award, so a config reload takes
// effect without rebuilding the engine. The random source is injected
// so tests can pass a fixed seed.
func NewEngine(store Store, settings func() model.LevelingSettings, rng *rand.Rand) *Engine {
	return &Engine{
		store:    store,
		settings: settings,
		rng:      rng,
		locks:    newKeyedLocks(),
	}
}

// Settings returns the current leveling configuration.
func (e *Engine) Settings() model.LevelingSettings {
	return e.settings()
}

// Award processes one message event. It returns ErrNotEligible while
// the user is on cooldown, a *StorageError when the store fails, and
// otherwise the committed award. No partial state is ever visible:
// xp, level, message count and award timestamp change together or not
// at all.
func (e *Engine) Award(guildID, userID string, eventTime time.Time) (*model.AwardResult, error) {
	key := guildID + ":" + userID
	l := e.locks.lock(key)
	defer e.locks.unlock(key, l)

	cfg := e.settings()
	gate := Gate{Window: time.Duration(cfg.CooldownSeconds) * time.Second}
	delta := e.rollXP(cfg)

	var res model.AwardResult
	err := e.store.UpdateProgress(guildID, userID, func(p *model.UserProgress) error {
		if !gate.Eligible(p, eventTime) {
			return ErrNotEligible
		}
		res.OldLevel = p.Level
		p.XP += int64(delta)
		p.TotalMessages++
		p.Level = LevelForXP(p.XP)
		p.LastAwardTime = eventTime.UnixNano()
		res.NewLevel = p.Level
		res.XP = p.XP
		res.XPDelta = delta
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotEligible) {
			return nil, err
		}
		return nil, &StorageError{Op: "award", Err: err}
	}
	return &res, nil
}

// rollXP draws a uniform delta from [XPMin, XPMax]. rand.Rand is not
// safe for concurrent use, hence the mutex.
func (e *Engine) rollXP(cfg model.LevelingSettings) int {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()
	return cfg.XPMin + e.rng.Intn(cfg.XPMax-cfg.XPMin+1)
}
