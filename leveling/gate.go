package leveling

import (
	"time"

	"level-helper/model"
)

// Gate decides whether a message event may earn XP. It reads the
// stored award timestamp and has no state of its own; the timestamp
// update is committed together with the XP award so bursts inside one
// window cost exactly one award.
type Gate struct {
	Window time.Duration
}

// Eligible reports whether the event at eventTime reopens the window
// for the given row. A row that has never been awarded is always
// eligible.
func (g Gate) Eligible(p *model.UserProgress, eventTime time.Time) bool {
	if p.LastAwardTime == 0 {
		return true
	}
	return eventTime.Sub(time.Unix(0, p.LastAwardTime)) >= g.Window
}
