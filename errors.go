package empatches

import "errors"

var (
	// ErrInvalidArgument reports bad tiling parameters or a misused
	// session handle. Not recoverable by retrying.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrStorageUnavailable reports an I/O failure during session setup
	// or patch persistence. The session remains safe to release.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrShapeMismatch reports a reconstruction input whose geometry
	// disagrees with its expected window or channel count.
	ErrShapeMismatch = errors.New("shape mismatch")
)
