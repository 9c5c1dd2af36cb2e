package tree

import (
	"errors"
	"fmt"

	"github.com/abhisek/skilltree/internal/store"
)

// Rejections reported by Manager commands. The tree is unchanged whenever
// one of these is returned.
var (
	ErrMissingEndpoints   = errors.New("connection is missing an endpoint")
	ErrSkillNotFound      = errors.New("skill not found")
	ErrLockedIntoUnlocked = errors.New("locked skill cannot be a prerequisite of an unlocked skill")
	ErrInvalidConnection  = errors.New("invalid connection")
	ErrSelfLoop           = fmt.Errorf("%w: self-loop", ErrInvalidConnection)
	ErrDuplicateEdge      = fmt.Errorf("%w: duplicate", ErrInvalidConnection)
	ErrCycle              = errors.New("connection would create a cycle")
	ErrAlreadyUnlocked    = errors.New("skill already unlocked")
	ErrNotUnlockable      = errors.New("skill has locked prerequisites")
)

// User-facing notification text.
const (
	msgLockedIntoUnlocked = "Cannot add locked skill as a prerequisite of an unlocked skill"
	msgInvalidConnection  = "Invalid connection (self-loop or duplicate)"
	msgCycle              = "Cannot create circular prerequisites"
	msgSkillNotFound      = "Skill not found"
	msgReset              = "Skill tree reset"
	msgStorageFull        = "Storage is full: your latest change was not saved"
	msgSaveFailed         = "Failed to save skill tree"
)

// Message returns the notification text shown for err, or "" for errors
// that are reported silently.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrLockedIntoUnlocked):
		return msgLockedIntoUnlocked
	case errors.Is(err, ErrInvalidConnection):
		return msgInvalidConnection
	case errors.Is(err, ErrCycle):
		return msgCycle
	case errors.Is(err, ErrSkillNotFound):
		return msgSkillNotFound
	case store.IsStorageFull(err):
		return msgStorageFull
	case IsSaveError(err):
		return msgSaveFailed
	default:
		return ""
	}
}

// IsSaveError reports whether err came from persisting a committed change.
// The in-memory tree already reflects the change in that case.
func IsSaveError(err error) bool {
	var se *store.ErrSave
	return errors.As(err, &se)
}
