package db

import (
	"errors"
	"fmt"

	"github.com/ramanasai/streak/internal/records"
)

// ErrUnsupportedEnvironment is returned when there is no usable location for
// the local database. Store calls fail with it immediately.
var ErrUnsupportedEnvironment = errors.New("local database is not available in this environment")

// PersistenceError wraps any failure opening the database or running a
// transaction against it.
type PersistenceError struct {
	Op   string
	Kind records.Kind
	Err  error
}

func (e *PersistenceError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("store %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Kind, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func persistErr(op string, kind records.Kind, err error) error {
	if err == nil {
		return nil
	}
	var pe *PersistenceError
	if errors.As(err, &pe) || errors.Is(err, ErrUnsupportedEnvironment) {
		return err
	}
	return &PersistenceError{Op: op, Kind: kind, Err: err}
}
