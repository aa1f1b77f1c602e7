package leveling

import (
	"log"
	"sync"

	"level-helper/model"
)

// RoleManager is the outward interface to the platform's role API.
type RoleManager interface {
	GetUserRoles(guildID, userID string) ([]string, error)
	GrantRole(guildID, userID, roleID string) error
}

// RoleGrantError records a single failed grant inside a
// reconciliation. One failed role never blocks the others.
type RoleGrantError struct {
	UserID string
	RoleID string
	Err    error
}

func (e RoleGrantError) Error() string {
	return "failed to grant role " + e.RoleID + " to user " + e.UserID + ": " + e.Err.Error()
}

// Synchronizer reconciles the roles a user holds against the guild's
// level-role mappings. Reward roles are cumulative: every mapping at
// or below the user's level applies, and nothing is ever revoked here.
type Synchronizer struct {
	store Store
	roles RoleManager
}

func NewSynchronizer(store Store, roles RoleManager) *Synchronizer {
	return &Synchronizer{store: store, roles: roles}
}

// Synchronize grants the user every mapped role for levels up to and
// including level that they do not already hold. It returns the roles
// granted and the per-role failures; the error return is reserved for
// lookups that prevent the reconciliation from running at all.
func (s *Synchronizer) Synchronize(guildID, userID string, level int) ([]string, []RoleGrantError, error) {
	wanted, err := s.store.RolesForLevel(guildID, level)
	if err != nil {
		return nil, nil, &StorageError{Op: "role lookup", Err: err}
	}
	if len(wanted) == 0 {
		return nil, nil, nil
	}

	held, err := s.roles.GetUserRoles(guildID, userID)
	if err != nil {
		return nil, nil, err
	}
	heldSet := make(map[string]struct{}, len(held))
	for _, id := range held {
		heldSet[id] = struct{}{}
	}

	var granted []string
	var failures []RoleGrantError
	for _, roleID := range wanted {
		if _, ok := heldSet[roleID]; ok {
			continue
		}
		if err := s.roles.GrantRole(guildID, userID, roleID); err != nil {
			failures = append(failures, RoleGrantError{UserID: userID, RoleID: roleID, Err: err})
			continue
		}
		granted = append(granted, roleID)
	}
	return granted, failures, nil
}

// ReconcileLevel retroactively applies the guild's mappings to every
// member already at or above the given level. Invoked when an
// administrator adds a mapping that existing members may qualify for.
// Returns the number of members that received at least one role.
func (s *Synchronizer) ReconcileLevel(guildID string, level int) (int, []RoleGrantError, error) {
	users, err := s.store.UsersAtOrAbove(guildID, level)
	if err != nil {
		return 0, nil, &StorageError{Op: "reconcile scan", Err: err}
	}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		updated  int
		failures []RoleGrantError
	)
	guard := make(chan struct{}, 4) // limit concurrent Discord calls

	for _, u := range users {
		wg.Add(1)
		guard <- struct{}{}
		go func(u model.UserProgress) {
			defer func() {
				<-guard
				wg.Done()
			}()
			granted, fails, err := s.Synchronize(guildID, u.UserID, u.Level)
			if err != nil {
				log.Printf("Reconcile: skipping user %s in guild %s: %v", u.UserID, guildID, err)
				return
			}
			mu.Lock()
			if len(granted) > 0 {
				updated++
			}
			failures = append(failures, fails...)
			mu.Unlock()
		}(u)
	}
	wg.Wait()

	return updated, failures, nil
}
