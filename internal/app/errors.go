package service

import (
	"errors"

	"github.com/okian/sheetboard/internal/domain/types"
)

// Sentinel kinds for service errors.
var (
	ErrRefreshInProgress = types.ErrRefreshInProgress
	ErrEmptyCategory     = types.ErrEmptyCategory
	ErrNoSource          = errors.New("no source configured")
)
