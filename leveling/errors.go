package leveling

import (
	"errors"
	"fmt"
)

// ErrNotEligible is returned by Award when the user is still inside the
// cooldown window. It is a normal outcome, not a failure: no state was
// touched.
var ErrNotEligible = errors.New("user is on xp cooldown")

// ErrInvalidLevel is returned when an admin tries to map a role to a
// level below 1.
var ErrInvalidLevel = errors.New("level must be 1 or higher")

// ErrMappingNotFound is returned when removing a level-role mapping
// that does not exist.
var ErrMappingNotFound = errors.New("no role reward configured for this level")

// StorageError wraps a progression-store failure. The operation it
// covers was aborted with no partial mutation.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("leveling storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
