// Package gates is the fixed catalog of gate kinds the simulator understands.
package gates

import (
	"math"
	"math/cmplx"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Kind identifies one entry of the gate catalog.
type Kind uint8

const (
	Invalid Kind = iota
	H
	X
	Y
	Z
	S
	T
	RX
	RY
	RZ
	CX
	CCX
)

var names = [...]string{
	Invalid: "invalid",
	H:       "h",
	X:       "x",
	Y:       "y",
	Z:       "z",
	S:       "s",
	T:       "t",
	RX:      "rx",
	RY:      "ry",
	RZ:      "rz",
	CX:      "cx",
	CCX:     "ccx",
}

// All returns the catalog in canonical order.
func All() []Kind {
	return []Kind{H, X, Y, Z, S, T, RX, RY, RZ, CX, CCX}
}

// Parse looks a gate name up case-insensitively.
func Parse(name string) (Kind, bool) {
	lower := strings.ToLower(name)
	for _, k := range All() {
		if names[k] == lower {
			return k, true
		}
	}
	return Invalid, false
}

// String returns the canonical lowercase gate name.
func (k Kind) String() string {
	if int(k) < len(names) {
		return names[k]
	}
	return names[Invalid]
}

// Symbol returns the label drawn inside a gate box.
func (k Kind) Symbol() string {
	return strings.ToUpper(k.String())
}

// Valid reports whether k is a catalog member.
func (k Kind) Valid() bool {
	return k > Invalid && k <= CCX
}

// Arity is the number of wires the gate touches.
func (k Kind) Arity() int {
	switch k {
	case CX:
		return 2
	case CCX:
		return 3
	case Invalid:
		return 0
	default:
		return 1
	}
}

// Controls is the number of control wires.
func (k Kind) Controls() int {
	if k.Arity() == 0 {
		return 0
	}
	return k.Arity() - 1
}

// IsRotation reports whether the gate takes an angle.
func (k Kind) IsRotation() bool {
	return k == RX || k == RY || k == RZ
}

// Matrix returns the 2x2 unitary the gate applies to its target subspace.
// Controlled kinds return X, the action taken when every control is |1⟩.
// angle is ignored for fixed gates.
func (k Kind) Matrix(angle float64) *mat.CDense {
	c := math.Cos(angle / 2)
	s := math.Sin(angle / 2)

	switch k {
	case H:
		h := complex(1/math.Sqrt2, 0)
		return mat.NewCDense(2, 2, []complex128{h, h, h, -h})
	case X, CX, CCX:
		return mat.NewCDense(2, 2, []complex128{0, 1, 1, 0})
	case Y:
		return mat.NewCDense(2, 2, []complex128{0, -1i, 1i, 0})
	case Z:
		return mat.NewCDense(2, 2, []complex128{1, 0, 0, -1})
	case S:
		return mat.NewCDense(2, 2, []complex128{1, 0, 0, 1i})
	case T:
		return mat.NewCDense(2, 2, []complex128{1, 0, 0, cmplx.Exp(complex(0, math.Pi/4))})
	case RX:
		return mat.NewCDense(2, 2, []complex128{
			complex(c, 0), complex(0, -s),
			complex(0, -s), complex(c, 0),
		})
	case RY:
		return mat.NewCDense(2, 2, []complex128{
			complex(c, 0), complex(-s, 0),
			complex(s, 0), complex(c, 0),
		})
	case RZ:
		return mat.NewCDense(2, 2, []complex128{
			cmplx.Exp(complex(0, -angle/2)), 0,
			0, cmplx.Exp(complex(0, angle/2)),
		})
	}
	panic("gates: no matrix for " + k.String())
}
