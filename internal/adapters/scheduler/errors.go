package scheduler

import "errors"

// Sentinel kinds for scheduler errors.
var (
	ErrNilRefresher    = errors.New("refresher is nil")
	ErrInvalidInterval = errors.New("refresh interval must be positive")
	ErrAlreadyRunning  = errors.New("scheduler already running")
)
