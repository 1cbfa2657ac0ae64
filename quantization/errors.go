package quantization

import "errors"

var (
	// ErrDegenerateCluster is returned when statistics are requested for fewer than two pixels.
	ErrDegenerateCluster = errors.New("quantization: cluster needs at least two pixels")

	// ErrInvalidTarget is returned for a target color count below one.
	ErrInvalidTarget = errors.New("quantization: target color count must be positive")

	// ErrEmptyInput is returned when partitioning an empty pixel set.
	ErrEmptyInput = errors.New("quantization: no pixels")
)
