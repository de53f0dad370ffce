package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNilSnapshot   = errors.New("view has no snapshot")
	ErrStaleSnapshot = errors.New("snapshot is older than the published one")
)
