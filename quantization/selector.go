package quantization

// SelectCluster returns the index of the cluster with the largest
// eigenvalue × pixel count. Ties resolve to the lowest index. Clusters without
// statistics, with fewer than two pixels, or with no measurable spread are
// skipped; -1 is returned when none qualifies.
func SelectCluster(clusters []*Cluster) int {
	best, bestScore := -1, 0.0
	for i, c := range clusters {
		if !c.splittable() {
			continue
		}
		if score := c.stats.Eigenvalue * float64(len(c.pixels)); score > bestScore {
			best, bestScore = i, score
		}
	}
	return best
}
