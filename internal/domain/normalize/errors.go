package normalize

import "errors"

// ErrUnknownLayout is returned by New for a layout it cannot read.
var ErrUnknownLayout = errors.New("unknown layout")
