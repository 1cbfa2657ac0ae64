// Package linalg implements the small fixed-size linear algebra needed for
// color statistics: 3-vectors, symmetric 3×3 matrices, sample covariance and
// a closed-form symmetric eigensolver.
package linalg

import "math"

// Vec3 is a 3-component vector.
type Vec3 [3]float64

// Mat3 is a row-major 3×3 matrix.
type Mat3 [3][3]float64

// Dot returns a·b.
func Dot(a, b Vec3) float64 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// Cross returns a×b.
func Cross(a, b Vec3) Vec3 {
	return Vec3{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Norm returns the Euclidean length of v.
func Norm(v Vec3) float64 {
	return math.Sqrt(Dot(v, v))
}

// Normalize returns v scaled to unit length. The zero vector is returned unchanged.
func Normalize(v Vec3) Vec3 {
	n := Norm(v)
	if n == 0 {
		return v
	}
	return Vec3{v[0] / n, v[1] / n, v[2] / n}
}

// Mean returns the column-wise mean of rows. It returns the zero vector for
// an empty input.
func Mean[V ~[3]float64](rows []V) Vec3 {
	var sum Vec3
	if len(rows) == 0 {
		return sum
	}
	for _, r := range rows {
		sum[0] += r[0]
		sum[1] += r[1]
		sum[2] += r[2]
	}
	n := float64(len(rows))
	return Vec3{sum[0] / n, sum[1] / n, sum[2] / n}
}

// Covariance returns the unbiased sample covariance Xcᵀ·Xc/(n−1) of rows
// about mean. It requires at least two rows; callers guard the degenerate case.
func Covariance[V ~[3]float64](rows []V, mean Vec3) Mat3 {
	var c Mat3
	for _, r := range rows {
		d0, d1, d2 := r[0]-mean[0], r[1]-mean[1], r[2]-mean[2]
		c[0][0] += d0 * d0
		c[0][1] += d0 * d1
		c[0][2] += d0 * d2
		c[1][1] += d1 * d1
		c[1][2] += d1 * d2
		c[2][2] += d2 * d2
	}
	inv := 1 / float64(len(rows)-1)
	c[0][0] *= inv
	c[0][1] *= inv
	c[0][2] *= inv
	c[1][1] *= inv
	c[1][2] *= inv
	c[2][2] *= inv
	c[1][0], c[2][0], c[2][1] = c[0][1], c[0][2], c[1][2]
	return c
}

// Trace returns the sum of the diagonal.
func (m Mat3) Trace() float64 {
	return m[0][0] + m[1][1] + m[2][2]
}

// Det returns the determinant.
func (m Mat3) Det() float64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// MulVec returns m·v.
func (m Mat3) MulVec(v Vec3) Vec3 {
	return Vec3{
		m[0][0]*v[0] + m[0][1]*v[1] + m[0][2]*v[2],
		m[1][0]*v[0] + m[1][1]*v[1] + m[1][2]*v[2],
		m[2][0]*v[0] + m[2][1]*v[1] + m[2][2]*v[2],
	}
}

// Symmetrize returns (m+mᵀ)/2.
func (m Mat3) Symmetrize() Mat3 {
	var s Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			s[i][j] = (m[i][j] + m[j][i]) / 2
		}
	}
	return s
}
