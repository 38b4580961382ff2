package rectification

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrNoEvents = errors.New("no events supplied")
)
