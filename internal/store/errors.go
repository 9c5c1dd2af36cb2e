package store

import (
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrStorageFull is returned when a tree cannot be saved for lack of space,
// either because it exceeds the configured size cap or the disk is full.
var ErrStorageFull = errors.New("storage full")

// ErrSave wraps any failure to persist a tree.
type ErrSave struct {
	Err error
}

func (e *ErrSave) Error() string {
	return fmt.Sprintf("save skill tree: %v", e.Err)
}

func (e *ErrSave) Unwrap() error {
	return e.Err
}

// IsStorageFull reports whether err means the tree could not be stored for
// lack of space.
func IsStorageFull(err error) bool {
	return errors.Is(err, ErrStorageFull)
}

// classify maps driver errors onto the package's error values.
func classify(err error) error {
	var se *sqlite.Error
	if errors.As(err, &se) && se.Code()&0xff == sqlite3.SQLITE_FULL {
		return fmt.Errorf("%w: %v", ErrStorageFull, err)
	}
	return err
}
