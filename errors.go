package suffixer

import (
	"github.com/pkg/errors"
)

var (
	ErrInvalidConfiguration       = errors.New("suffixer: invalid configuration")
	ErrInvalidPrefixLength        = errors.New("suffixer: invalid prefix length")
	ErrPartitioning               = errors.New("suffixer: cannot partition bucket table")
	ErrAllocation                 = errors.New("suffixer: memory limit too small")
	ErrDifferenceCoverUnavailable = errors.New("suffixer: difference cover unavailable")
	// ErrBucketFill means a bucket did not receive exactly as many suffixes as
	// were counted for it. It indicates an inconsistent input sequence.
	ErrBucketFill = errors.New("suffixer: bucket fill mismatch")
)

// IsConfigurationError reports whether err was caused by the builder
// settings rather than by the input or the environment.
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrInvalidConfiguration) ||
		errors.Is(err, ErrInvalidPrefixLength) ||
		errors.Is(err, ErrPartitioning)
}
