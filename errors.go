package cuspatial

import "errors"

var (
	// ErrInvalidDomain is returned when the domain bounds are degenerate
	// (min >= max on either axis) or MinSize is negative.
	ErrInvalidDomain = errors.New("cuspatial: invalid domain")

	// ErrInvalidScale is returned when Scale is not positive or when
	// Scale * 2^MaxDepth does not cover the domain extent.
	ErrInvalidScale = errors.New("cuspatial: scale does not cover the domain")

	// ErrDepthOutOfRange is returned when MaxDepth is outside [0, MaxDepthLimit].
	ErrDepthOutOfRange = errors.New("cuspatial: max depth out of range")

	// ErrMismatchedLength is returned when the four coordinate sequences
	// passed to QuadtreeOnEdges differ in length.
	ErrMismatchedLength = errors.New("cuspatial: coordinate sequences differ in length")
)
