package lznf

import (
	"errors"
	"fmt"
)

// Errors returned by the codec and the file helpers.
var (
	ErrInvalidContainer = errors.New("lznf: not an LZNF container")
	ErrSourceNotFound   = errors.New("lznf: source file not found")
	ErrIntegrity        = errors.New("lznf: integrity check failed")
	ErrTooLarge         = errors.New("lznf: too large for a 32-bit field")

	// ErrCorrupt reports a payload that could not be decoded. It wraps
	// ErrIntegrity.
	ErrCorrupt = fmt.Errorf("%w: malformed payload", ErrIntegrity)
)
