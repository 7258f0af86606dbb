package internalerr

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidConfig    = errors.New("invalid configuration")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrUnavailable      = errors.New("upstream unavailable")
	ErrMalformedListing = errors.New("malformed listing response")
)

// ErrInvalidPolicy is an ErrInvalidInput raised while constructing a filter policy.
var ErrInvalidPolicy = fmt.Errorf("%w: filter policy", ErrInvalidInput)
