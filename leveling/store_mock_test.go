package leveling

import (
	"errors"
	"sort"
	"sync"

	"level-helper/model"
)

// memStore is an in-memory Store for tests. Row creation order is
// tracked with a sequence counter so leaderboard tiebreaks are
// deterministic.
type memStore struct {
	mu       sync.Mutex
	rows     map[string]*model.UserProgress
	mappings map[string]map[int]string // guild -> level -> role
	seq      int64
	failing  bool
}

func newMemStore() *memStore {
	return &memStore{
		rows:     make(map[string]*model.UserProgress),
		mappings: make(map[string]map[int]string),
	}
}

var errStoreDown = errors.New("store unavailable")

func (s *memStore) key(guildID, userID string) string {
	return guildID + ":" + userID
}

func (s *memStore) GetProgress(guildID, userID string) (*model.UserProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return nil, errStoreDown
	}
	p, ok := s.rows[s.key(guildID, userID)]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (s *memStore) UpdateProgress(guildID, userID string, fn func(p *model.UserProgress) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var p model.UserProgress
	if existing, ok := s.rows[s.key(guildID, userID)]; ok {
		p = *existing
	} else {
		s.seq++
		p = model.UserProgress{GuildID: guildID, UserID: userID, CreatedAt: s.seq}
	}

	if err := fn(&p); err != nil {
		return err
	}
	if s.failing {
		return errStoreDown
	}
	s.rows[s.key(guildID, userID)] = &p
	return nil
}

func (s *memStore) guildRows(guildID string) []model.UserProgress {
	var rows []model.UserProgress
	for _, p := range s.rows {
		if p.GuildID == guildID {
			rows = append(rows, *p)
		}
	}
	sort.Slice(rows, func(a, b int) bool {
		if rows[a].XP != rows[b].XP {
			return rows[a].XP > rows[b].XP
		}
		if rows[a].CreatedAt != rows[b].CreatedAt {
			return rows[a].CreatedAt < rows[b].CreatedAt
		}
		return rows[a].UserID < rows[b].UserID
	})
	return rows
}

func (s *memStore) TopN(guildID string, n int) ([]model.UserProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return nil, errStoreDown
	}
	rows := s.guildRows(guildID)
	if len(rows) > n {
		rows = rows[:n]
	}
	return rows, nil
}

func (s *memStore) RankOf(guildID, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return 0, errStoreDown
	}
	for i, p := range s.guildRows(guildID) {
		if p.UserID == userID {
			return i + 1, nil
		}
	}
	return 0, nil
}

func (s *memStore) UsersAtOrAbove(guildID string, level int) ([]model.UserProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return nil, errStoreDown
	}
	var rows []model.UserProgress
	for _, p := range s.guildRows(guildID) {
		if p.Level >= level {
			rows = append(rows, p)
		}
	}
	return rows, nil
}

func (s *memStore) SetLevelRole(guildID string, level int, roleID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return errStoreDown
	}
	if s.mappings[guildID] == nil {
		s.mappings[guildID] = make(map[int]string)
	}
	s.mappings[guildID][level] = roleID
	return nil
}

func (s *memStore) RemoveLevelRole(guildID string, level int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return false, errStoreDown
	}
	if _, ok := s.mappings[guildID][level]; !ok {
		return false, nil
	}
	delete(s.mappings[guildID], level)
	return true, nil
}

func (s *memStore) ListLevelRoles(guildID string) ([]model.LevelRoleMapping, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return nil, errStoreDown
	}
	var mappings []model.LevelRoleMapping
	for level, roleID := range s.mappings[guildID] {
		mappings = append(mappings, model.LevelRoleMapping{GuildID: guildID, Level: level, RoleID: roleID})
	}
	sort.Slice(mappings, func(a, b int) bool { return mappings[a].Level < mappings[b].Level })
	return mappings, nil
}

func (s *memStore) RolesForLevel(guildID string, level int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return nil, errStoreDown
	}
	var levels []int
	for l := range s.mappings[guildID] {
		if l <= level {
			levels = append(levels, l)
		}
	}
	sort.Ints(levels)
	var roleIDs []string
	for _, l := range levels {
		roleIDs = append(roleIDs, s.mappings[guildID][l])
	}
	return roleIDs, nil
}

// seed installs a row directly, bypassing the award pipeline.
func (s *memStore) seed(guildID, userID string, xp int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.rows[s.key(guildID, userID)] = &model.UserProgress{
		GuildID:   guildID,
		UserID:    userID,
		XP:        xp,
		Level:     LevelForXP(xp),
		CreatedAt: s.seq,
	}
}
