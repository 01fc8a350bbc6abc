package phrase

import (
	"errors"
	"fmt"
)

// ErrEmptyText is returned by Add when the text is blank after trimming.
var ErrEmptyText = errors.New("phrase text is empty")

// ImportFormatError reports a backup that is not a well-formed phrase list.
// The library is left unchanged when it is returned.
type ImportFormatError struct {
	Err error
}

func (e *ImportFormatError) Error() string {
	return fmt.Sprintf("invalid phrase backup: %v", e.Err)
}

func (e *ImportFormatError) Unwrap() error { return e.Err }

// PersistenceError reports a failed read or write of the local store.
// It is not fatal: the in-memory library stays authoritative and the
// operation that returned it has already been applied in memory.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("phrase library %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// IsPersistenceError reports whether err is (or wraps) a PersistenceError.
func IsPersistenceError(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
