package repository

import "errors"

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrInUse is returned when an entity cannot be removed because other
	// records still reference it.
	ErrInUse = errors.New("entity is referenced by other records")
)
