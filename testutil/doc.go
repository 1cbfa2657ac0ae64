// Package testutil provides testing utilities for cqt.
//
// This package is intended for use in tests and benchmarks only.
// It provides deterministic generators for synthetic pixel buffers.
//
// # Random Images
//
//	rng := testutil.NewRNG(seed)
//	buf := rng.UniformBuffer(64, 48)             // uniform noise
//	buf = rng.ClusteredBuffer(64, 48, centers, 6) // Gaussian blobs around centers
//	buf = testutil.Gradient(64, 48)              // smooth RGB ramp
package testutil
