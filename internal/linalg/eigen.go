package linalg

import "math"

// crossEps is the relative threshold below which a row-pair cross product is
// treated as zero when recovering an eigenvector.
const crossEps = 1e-12

// SymEigenvalues returns the eigenvalues of the symmetric matrix a in
// descending order, using the trigonometric solution of the characteristic
// cubic. Only the upper triangle of a is read.
func SymEigenvalues(a Mat3) [3]float64 {
	p1 := a[0][1]*a[0][1] + a[0][2]*a[0][2] + a[1][2]*a[1][2]
	if p1 == 0 {
		e := [3]float64{a[0][0], a[1][1], a[2][2]}
		sortDesc(&e)
		return e
	}

	q := a.Trace() / 3
	d0, d1, d2 := a[0][0]-q, a[1][1]-q, a[2][2]-q
	p2 := d0*d0 + d1*d1 + d2*d2 + 2*p1
	p := math.Sqrt(p2 / 6)

	b := Mat3{
		{d0 / p, a[0][1] / p, a[0][2] / p},
		{a[0][1] / p, d1 / p, a[1][2] / p},
		{a[0][2] / p, a[1][2] / p, d2 / p},
	}
	r := b.Det() / 2
	r = max(-1, min(1, r))
	phi := math.Acos(r) / 3

	l1 := q + 2*p*math.Cos(phi)
	l3 := q + 2*p*math.Cos(phi+2*math.Pi/3)
	l2 := 3*q - l1 - l3
	e := [3]float64{l1, l2, l3}
	sortDesc(&e)
	return e
}

// DominantEigen returns the largest eigenvalue of the symmetric matrix a and a
// unit eigenvector for it. The vector's sign is fixed so that its first
// nonzero component is positive.
func DominantEigen(a Mat3) (float64, Vec3) {
	a = a.Symmetrize()
	lambda := SymEigenvalues(a)[0]
	return lambda, canonicalSign(Eigenvector(a, lambda))
}

// Eigenvector returns a unit vector spanning (part of) the null space of
// a−λI. For a repeated eigenvalue any vector of the eigenspace is returned.
func Eigenvector(a Mat3, lambda float64) Vec3 {
	m := a
	m[0][0] -= lambda
	m[1][1] -= lambda
	m[2][2] -= lambda

	scale := 0.0
	for i := range 3 {
		for j := range 3 {
			scale = max(scale, math.Abs(m[i][j]))
		}
	}
	if scale == 0 {
		// a == λI: every direction is an eigenvector.
		return Vec3{1, 0, 0}
	}

	rows := [3]Vec3{}
	for i := range 3 {
		rows[i] = Vec3{m[i][0] / scale, m[i][1] / scale, m[i][2] / scale}
	}

	best, bestNorm := Vec3{}, 0.0
	for _, pair := range [3][2]int{{0, 1}, {0, 2}, {1, 2}} {
		c := Cross(rows[pair[0]], rows[pair[1]])
		if n := Dot(c, c); n > bestNorm {
			best, bestNorm = c, n
		}
	}
	if bestNorm > crossEps {
		return Normalize(best)
	}

	// Rank one: the eigenspace is the plane orthogonal to the largest row.
	big, bigNorm := rows[0], Dot(rows[0], rows[0])
	for _, r := range rows[1:] {
		if n := Dot(r, r); n > bigNorm {
			big, bigNorm = r, n
		}
	}
	return Normalize(orthogonal(big))
}

// orthogonal returns a nonzero vector orthogonal to v.
func orthogonal(v Vec3) Vec3 {
	var axis Vec3
	ax, ay, az := math.Abs(v[0]), math.Abs(v[1]), math.Abs(v[2])
	switch {
	case ax <= ay && ax <= az:
		axis = Vec3{1, 0, 0}
	case ay <= az:
		axis = Vec3{0, 1, 0}
	default:
		axis = Vec3{0, 0, 1}
	}
	return Cross(v, axis)
}

func canonicalSign(v Vec3) Vec3 {
	for _, c := range v {
		if c == 0 {
			continue
		}
		if c < 0 {
			return Vec3{-v[0], -v[1], -v[2]}
		}
		break
	}
	return v
}

func sortDesc(e *[3]float64) {
	if e[0] < e[1] {
		e[0], e[1] = e[1], e[0]
	}
	if e[1] < e[2] {
		e[1], e[2] = e[2], e[1]
	}
	if e[0] < e[1] {
		e[0], e[1] = e[1], e[0]
	}
}
