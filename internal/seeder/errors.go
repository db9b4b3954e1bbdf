package seeder

import (
	"errors"
	"fmt"
)

// ErrPrecondition marks an operation invoked without its inputs, such as
// generating flows before any sources exist. Nothing is written.
var ErrPrecondition = errors.New("precondition failed")

// PersistenceError reports a failed insert. The whole run was rolled back.
type PersistenceError struct {
	Table string
	Err   error
}

func (e *PersistenceError) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("failed to persist records: %v", e.Err)
	}
	return fmt.Sprintf("failed to insert into %s: %v", e.Table, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func precondition(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrPrecondition, fmt.Sprintf(format, args...))
}
