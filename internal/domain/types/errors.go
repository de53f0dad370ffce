package types

import "errors"

// Error kinds shared by the refresh pipeline and its readers. Producers wrap
// them; consumers match with errors.Is.
var (
	ErrRefreshInProgress = errors.New("refresh already in progress")
	ErrEmptyCategory     = errors.New("category must not be empty")
	ErrSourceFetch       = errors.New("sheet fetch failed")
	ErrSourceParse       = errors.New("sheet parse failed")
)
