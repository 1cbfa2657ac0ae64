package quantization

// prefixSums supports O(1) separability queries over a sorted score sequence.
type prefixSums []float64

func newPrefixSums(scores []float64) prefixSums {
	ps := make(prefixSums, len(scores)+1)
	for i, s := range scores {
		ps[i+1] = ps[i] + s
	}
	return ps
}

// g returns the separability of splitting after position i. Positions that
// would leave either side empty score 0.
func (ps prefixSums) g(i int) float64 {
	n := len(ps) - 1
	if i < 0 || i >= n-1 {
		return 0
	}
	n1 := float64(i + 1)
	n2 := float64(n - i - 1)
	m1 := ps[i+1] / n1
	m2 := (ps[n] - ps[i+1]) / n2
	d := m1 - m2
	return n1 * n2 * d * d
}

// Separability returns G(i) = n1·n2·(mean(scores[0..i]) − mean(scores[i+1..]))²
// with n1 = i+1 and n2 = len(scores)−n1. It returns 0 when either group is empty.
func Separability(scores []float64, i int) float64 {
	return newPrefixSums(scores).g(i)
}

// CutPoint returns the split index for ascending scores: elements [0..index]
// form the low group. The search is a bisecting hill climb over the valid
// split positions [0, len−2]; it stops at the first position whose neighbours
// are both no larger. For fewer than two scores it returns 0.
func CutPoint(scores []float64) int {
	if len(scores) < 2 {
		return 0
	}
	ps := newPrefixSums(scores)

	lo, hi := 0, len(scores)-2
	for lo < hi {
		m := (lo + hi) / 2
		gm := ps.g(m)
		switch {
		case gm < ps.g(m+1):
			lo = m + 1
		case gm < ps.g(m-1):
			hi = m - 1
		default:
			return m
		}
	}
	return lo
}
