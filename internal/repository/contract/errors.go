package contract

import "errors"

// ErrDuplicate is returned when a write violates a unique constraint.
var ErrDuplicate = errors.New("duplicate key")

// ErrNotFound is returned when an update targets a row that no longer exists.
var ErrNotFound = errors.New("record not found")
