// Package storage holds what the animal store implementations share.
// The zoo.Store interface itself lives with its consumer in pkg/zoo;
// memory and postgres implement it and report failures with the
// sentinels below so callers can use errors.Is.
package storage

import "errors"

var (
	// ErrNotFound reports a name with no stored animal.
	ErrNotFound = errors.New("animal not found")

	// ErrConflict reports a save under a name that is already taken.
	ErrConflict = errors.New("animal already exists")
)
