package leveling

import "level-helper/model"

// MappingAdmin is the administrator-facing surface for level-role
// mappings. Validation happens here, before anything reaches the
// store; the retroactive reconcile after a successful SetLevelRole is
// the caller's to trigger (see Synchronizer.ReconcileLevel).
type MappingAdmin struct {
	store Store
}

func NewMappingAdmin(store Store) *MappingAdmin {
	return &MappingAdmin{store: store}
}

// SetLevelRole configures roleID as the reward for reaching level.
// Setting an already-mapped level replaces its role.
func (a *MappingAdmin) SetLevelRole(guildID string, level int, roleID string) error {
	if level < 1 {
		return ErrInvalidLevel
	}
	if err := a.store.SetLevelRole(guildID, level, roleID); err != nil {
		return &StorageError{Op: "set level role", Err: err}
	}
	return nil
}

// RemoveLevelRole deletes the mapping for level, reporting
// ErrMappingNotFound when none exists.
func (a *MappingAdmin) RemoveLevelRole(guildID string, level int) error {
	removed, err := a.store.RemoveLevelRole(guildID, level)
	if err != nil {
		return &StorageError{Op: "remove level role", Err: err}
	}
	if !removed {
		return ErrMappingNotFound
	}
	return nil
}

// ListLevelRoles returns the guild's mappings ordered by level.
func (a *MappingAdmin) ListLevelRoles(guildID string) ([]model.LevelRoleMapping, error) {
	mappings, err := a.store.ListLevelRoles(guildID)
	if err != nil {
		return nil, &StorageError{Op: "list level roles", Err: err}
	}
	return mappings, nil
}
