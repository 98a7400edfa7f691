package inventory

import (
	"errors"
	"fmt"
)

// Failure kinds the presentation layer maps to protocol codes. Specific
// failures wrap these, so errors.Is works across the boundary.
var (
	ErrInvalidRequest    = errors.New("invalid request")
	ErrNotFound          = errors.New("not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidTransition = errors.New("invalid status transition")
)

var (
	ErrProductNotFound = fmt.Errorf("product %w", ErrNotFound)
	ErrOrderNotFound   = fmt.Errorf("order %w", ErrNotFound)
)
