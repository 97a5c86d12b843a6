package types

import "errors"

// Error taxonomy for the processing pipeline. Every stage failure is
// terminal for the current request; callers classify with errors.Is.
var (
	// ErrDecode means the input bytes could not be read as an image.
	ErrDecode = errors.New("image decode failed")
	// ErrEncode means the output image could not be encoded.
	ErrEncode = errors.New("image encode failed")
	// ErrInvalidParameters means a parameter invariant was violated
	// (threshold ordering, tile grid, clip limit, mask ratio, resolution).
	ErrInvalidParameters = errors.New("invalid parameters")
	// ErrInference means the inference adapter failed (model not loaded,
	// shape mismatch, backend error). May be transient; callers can retry
	// or reconfigure, the pipeline itself never retries.
	ErrInference = errors.New("inference failed")
	// ErrDimensionMismatch means an internal size invariant between mask
	// and raster was violated. A contract bug, not a user-recoverable state.
	ErrDimensionMismatch = errors.New("dimension mismatch")
)
