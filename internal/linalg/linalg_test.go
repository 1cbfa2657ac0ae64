package linalg

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestCovariance(t *testing.T) {
	rows := []Vec3{{1, 2, 3}, {2, 4, 1}, {3, 1, 1}, {4, 1, 2}}
	want := Mat3{
		{1.667, -1.0, -0.5},
		{-1.0, 2.0, -0.333},
		{-0.5, -0.333, 0.917},
	}

	got := Covariance(rows, Mean(rows))
	for i := range 3 {
		for j := range 3 {
			assert.InDelta(t, want[i][j], got[i][j], 0.01, "cov[%d][%d]", i, j)
			assert.Equal(t, got[i][j], got[j][i])
		}
	}
}

func TestMean(t *testing.T) {
	assert.Equal(t, Vec3{}, Mean([]Vec3(nil)))
	assert.Equal(t, Vec3{2, 3, 4}, Mean([]Vec3{{1, 2, 3}, {3, 4, 5}}))
}

func TestDominantEigen(t *testing.T) {
	a := Mat3{
		{0.95, 2.0, 0.5},
		{2.0, -1.45, -1.667},
		{0.5, -1.667, 1.5},
	}
	lambda, v := DominantEigen(a)
	assert.InDelta(t, 2.4626, lambda, 0.01)

	want := Vec3{0.490, 0.542, -0.683}
	// The sign of an eigenvector is arbitrary.
	if Dot(v, want) < 0 {
		v = Vec3{-v[0], -v[1], -v[2]}
	}
	for i := range 3 {
		assert.InDelta(t, want[i], v[i], 0.1)
	}
	assert.InDelta(t, 1.0, Norm(v), 1e-9)
}

func TestDominantEigenDiagonal(t *testing.T) {
	lambda, v := DominantEigen(Mat3{{1, 0, 0}, {0, 5, 0}, {0, 0, 3}})
	assert.Equal(t, 5.0, lambda)
	assert.InDelta(t, 1.0, v[1], 1e-12)
	assert.InDelta(t, 0.0, v[0], 1e-12)
	assert.InDelta(t, 0.0, v[2], 1e-12)
}

func TestDominantEigenZero(t *testing.T) {
	lambda, v := DominantEigen(Mat3{})
	assert.Equal(t, 0.0, lambda)
	assert.Equal(t, Vec3{1, 0, 0}, v)
}

func TestDominantEigenRepeated(t *testing.T) {
	// Eigenvalues 4, 1, 1 with dominant axis (1,1,1)/√3.
	a := Mat3{{2, 1, 1}, {1, 2, 1}, {1, 1, 2}}
	lambda, v := DominantEigen(a)
	assert.InDelta(t, 4.0, lambda, 1e-9)
	s := 1 / math.Sqrt(3)
	for i := range 3 {
		assert.InDelta(t, s, v[i], 1e-9)
	}

	// Top eigenvalue of multiplicity two.
	b := Mat3{{3, 0, 0}, {0, 2, 1}, {0, 1, 2}}
	lambda, v = DominantEigen(b)
	assert.InDelta(t, 3.0, lambda, 1e-9)
	r := b.MulVec(v)
	for i := range 3 {
		assert.InDelta(t, lambda*v[i], r[i], 1e-9)
	}
}

func TestCanonicalSign(t *testing.T) {
	assert.Equal(t, Vec3{0, 1, -2}, canonicalSign(Vec3{0, -1, 2}))
	assert.Equal(t, Vec3{1, -1, 0}, canonicalSign(Vec3{1, -1, 0}))
}

func TestSymEigenvaluesAgainstGonum(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 200; trial++ {
		rows := make([]Vec3, 2+rng.Intn(50))
		for i := range rows {
			rows[i] = Vec3{rng.Float64() * 255, rng.Float64() * 255, rng.Float64() * 255}
		}
		c := Covariance(rows, Mean(rows))

		sym := mat.NewSymDense(3, []float64{
			c[0][0], c[0][1], c[0][2],
			c[1][0], c[1][1], c[1][2],
			c[2][0], c[2][1], c[2][2],
		})
		var es mat.EigenSym
		require.True(t, es.Factorize(sym, true))
		ref := es.Values(nil) // ascending

		got := SymEigenvalues(c)
		tol := 1e-6 * max(1, math.Abs(ref[2]))
		assert.InDelta(t, ref[2], got[0], tol)
		assert.InDelta(t, ref[1], got[1], tol)
		assert.InDelta(t, ref[0], got[2], tol)

		lambda, v := DominantEigen(c)
		mv := c.MulVec(v)
		for i := range 3 {
			assert.InDelta(t, lambda*v[i], mv[i], 1e-6*max(1, lambda))
		}
	}
}

func TestCross(t *testing.T) {
	assert.Equal(t, Vec3{0, 0, 1}, Cross(Vec3{1, 0, 0}, Vec3{0, 1, 0}))
	assert.Equal(t, 0.0, Dot(orthogonal(Vec3{3, 4, 5}), Vec3{3, 4, 5}))
}
