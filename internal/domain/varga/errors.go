package varga

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrUnknownScheme = errors.New("unknown chart scheme")
)
