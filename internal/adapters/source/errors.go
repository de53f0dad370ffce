package source

import (
	"fmt"

	"github.com/okian/sheetboard/internal/domain/types"
)

// Sentinel kinds for source errors.
var (
	ErrFetch = types.ErrSourceFetch
	ErrParse = types.ErrSourceParse
)

// FetchError reports a transport failure or a non-2xx response.
type FetchError struct {
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%v: %s: status %d", ErrFetch, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%v: %s: %v", ErrFetch, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is matches ErrFetch.
func (e *FetchError) Is(target error) bool { return target == ErrFetch }

// ParseError reports a body that is not a well-formed export.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: %s: %v", ErrParse, e.Reason, e.Err)
	}
	return fmt.Sprintf("%v: %s", ErrParse, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Is matches ErrParse.
func (e *ParseError) Is(target error) bool { return target == ErrParse }
