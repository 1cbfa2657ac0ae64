// Package quantization builds a color palette by recursive principal-axis
// partitioning of a pixel population, a PCA/LDA variant of median cut.
//
// # Algorithm
//
// The whole image starts as one cluster. Each round:
//
//  1. Statistics (mean, covariance, dominant eigenpair) are computed for every
//     cluster that lacks them. Distinct clusters are processed in parallel.
//  2. The cluster with the largest eigenvalue × pixel count is selected.
//     Ties go to the earliest cluster.
//  3. Its pixels are projected onto the dominant eigenvector and sorted by the
//     resulting score.
//  4. The split index maximizing the separability
//     G(i) = n1·n2·(m1−m2)² is located by a bounded hill climb.
//  5. The cluster is replaced by its low and high halves.
//
// Rounds stop when the target count is reached, when no cluster can be split
// any further, or when the safeguard counter exceeds the target. Stopping early
// is not an error; the caller sees fewer clusters than requested.
//
// # Cut point search
//
// The hill climb assumes the separability curve over the sorted scores has a
// single interior peak. On a multi-peaked curve it may return a local maximum.
//
// # Usage
//
//	clusters, err := quantization.Partition(ctx, buf.Pix, 16,
//	    quantization.WithParallelism(4),
//	)
//	if err != nil {
//	    return err
//	}
//	pal := quantization.ReducePalette(clusters)
package quantization
