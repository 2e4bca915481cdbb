package gates

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
		ok   bool
	}{
		{"h", H, true},
		{"H", H, true},
		{"Rx", RX, true},
		{"CCX", CCX, true},
		{"cx", CX, true},
		{"swap", Invalid, false},
		{"", Invalid, false},
		{"invalid", Invalid, false},
	}

	for _, tt := range tests {
		got, ok := Parse(tt.in)
		assert.Equal(t, tt.ok, ok, "Parse(%q)", tt.in)
		assert.Equal(t, tt.want, got, "Parse(%q)", tt.in)
	}
}

func TestCatalogShape(t *testing.T) {
	for _, k := range All() {
		assert.True(t, k.Valid(), k.String())
		back, ok := Parse(k.String())
		require.True(t, ok)
		assert.Equal(t, k, back)
	}

	assert.Equal(t, 1, H.Arity())
	assert.Equal(t, 1, RZ.Arity())
	assert.Equal(t, 2, CX.Arity())
	assert.Equal(t, 3, CCX.Arity())
	assert.Equal(t, 0, T.Controls())
	assert.Equal(t, 1, CX.Controls())
	assert.Equal(t, 2, CCX.Controls())
	assert.Equal(t, 0, Invalid.Controls())

	assert.True(t, RX.IsRotation())
	assert.False(t, S.IsRotation())
	assert.Equal(t, "RY", RY.Symbol())
	assert.False(t, Invalid.Valid())
	assert.Equal(t, "invalid", Kind(200).String())
}

func TestMatricesAreUnitary(t *testing.T) {
	for _, k := range All() {
		for _, angle := range []float64{0, math.Pi / 3, -2.5} {
			m := k.Matrix(angle)
			r, c := m.Dims()
			require.Equal(t, 2, r)
			require.Equal(t, 2, c)
			assertIdentity(t, product(m.H(), m), k.String())
		}
	}
}

func TestRotationMatrices(t *testing.T) {
	// RX(pi) is -iX, RY(pi) maps |0> to |1>, RZ(pi) is diag(-i, i).
	rx := RX.Matrix(math.Pi)
	assert.InDelta(t, 0, cmplx.Abs(rx.At(0, 0)), 1e-12)
	assert.InDelta(t, 0, cmplx.Abs(rx.At(0, 1)-(-1i)), 1e-12)

	ry := RY.Matrix(math.Pi)
	assert.InDelta(t, 0, cmplx.Abs(ry.At(1, 0)-1), 1e-12)

	rz := RZ.Matrix(math.Pi)
	assert.InDelta(t, 0, cmplx.Abs(rz.At(0, 0)-(-1i)), 1e-12)
	assert.InDelta(t, 0, cmplx.Abs(rz.At(1, 1)-1i), 1e-12)
}

func TestMatrixPanicsOnInvalid(t *testing.T) {
	assert.Panics(t, func() { Invalid.Matrix(0) })
}

func product(a, b mat.CMatrix) [2][2]complex128 {
	var out [2][2]complex128
	for i := range 2 {
		for j := range 2 {
			for k := range 2 {
				out[i][j] += a.At(i, k) * b.At(k, j)
			}
		}
	}
	return out
}

func assertIdentity(t *testing.T, m [2][2]complex128, name string) {
	t.Helper()
	for i := range 2 {
		for j := range 2 {
			want := complex128(0)
			if i == j {
				want = 1
			}
			assert.InDelta(t, 0, cmplx.Abs(m[i][j]-want), 1e-12, "%s U†U[%d][%d]", name, i, j)
		}
	}
}
