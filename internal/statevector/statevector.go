// Package statevector applies validated circuits to a dense amplitude
// vector. Bit i of a basis index is the state of qubit i.
package statevector

import (
	"fmt"
	"math"
	"math/cmplx"

	"qcomposer/internal/circuit"
	"qcomposer/internal/gates"
)

// Vector is the 2^n complex amplitude vector of one simulation run. It is
// not safe for concurrent use.
type Vector struct {
	amps      []complex128
	numQubits int
}

// New returns |0...0⟩ over n qubits.
func New(n int) *Vector {
	amps := make([]complex128, 1<<n)
	amps[0] = 1
	return &Vector{amps: amps, numQubits: n}
}

// NumQubits returns the register width.
func (v *Vector) NumQubits() int {
	return v.numQubits
}

// Len returns 2^n.
func (v *Vector) Len() int {
	return len(v.amps)
}

// At returns the amplitude of basis state i.
func (v *Vector) At(i int) complex128 {
	return v.amps[i]
}

// Amplitudes returns a copy of the amplitudes in basis order.
func (v *Vector) Amplitudes() []complex128 {
	out := make([]complex128, len(v.amps))
	copy(out, v.amps)
	return out
}

// Clone returns an independent copy.
func (v *Vector) Clone() *Vector {
	return &Vector{amps: v.Amplitudes(), numQubits: v.numQubits}
}

// Norm returns the sum of squared magnitudes.
func (v *Vector) Norm() float64 {
	var sum float64
	for _, a := range v.amps {
		sum += real(a)*real(a) + imag(a)*imag(a)
	}
	return sum
}

// Apply performs one operation in place. The operation must already have
// been validated against this vector's width.
func (v *Vector) Apply(op circuit.Op) {
	switch op.Kind {
	case gates.X:
		v.applyX(op.Target)
	case gates.Z:
		v.applyPhase(op.Target, -1)
	case gates.S:
		v.applyPhase(op.Target, 1i)
	case gates.T:
		v.applyPhase(op.Target, cmplx.Exp(complex(0, math.Pi/4)))
	case gates.H, gates.Y, gates.RX, gates.RY, gates.RZ:
		m := op.Kind.Matrix(op.Angle)
		v.applyUnitary(op.Target, m.At(0, 0), m.At(0, 1), m.At(1, 0), m.At(1, 1))
	case gates.CX:
		v.applyControlledX(1<<op.Control, op.Target)
	case gates.CCX:
		v.applyControlledX(1<<op.Control1|1<<op.Control2, op.Target)
	default:
		panic(fmt.Sprintf("statevector: unhandled gate kind %v", op.Kind))
	}
}

// applyX swaps every amplitude pair that differs only in the target bit.
func (v *Vector) applyX(q int) {
	bit := 1 << q
	for i := range v.amps {
		if i&bit == 0 {
			j := i | bit
			v.amps[i], v.amps[j] = v.amps[j], v.amps[i]
		}
	}
}

// applyPhase multiplies the |1⟩ branch of qubit q by factor.
func (v *Vector) applyPhase(q int, factor complex128) {
	bit := 1 << q
	for i := range v.amps {
		if i&bit != 0 {
			v.amps[i] *= factor
		}
	}
}

// applyUnitary recombines each (|..0..⟩, |..1..⟩) pair on qubit q with the
// matrix [[m00, m01], [m10, m11]].
func (v *Vector) applyUnitary(q int, m00, m01, m10, m11 complex128) {
	bit := 1 << q
	for i := range v.amps {
		if i&bit == 0 {
			j := i | bit
			a0, a1 := v.amps[i], v.amps[j]
			v.amps[i] = m00*a0 + m01*a1
			v.amps[j] = m10*a0 + m11*a1
		}
	}
}

// applyControlledX flips the target bit on every index whose control bits
// are all set.
func (v *Vector) applyControlledX(controlMask, target int) {
	tBit := 1 << target
	for i := range v.amps {
		if i&controlMask == controlMask && i&tBit == 0 {
			j := i | tBit
			v.amps[i], v.amps[j] = v.amps[j], v.amps[i]
		}
	}
}

// Run applies every operation of c to a fresh |0...0⟩ vector.
func Run(c *circuit.Circuit) *Vector {
	v := New(c.NumQubits())
	for i := range c.Len() {
		v.Apply(c.Op(i))
	}
	return v
}

// Walk runs c like Run but calls fn after each operation with the step index
// and the live vector. fn must not retain v. A non-nil error from fn stops
// the walk and is returned.
func Walk(c *circuit.Circuit, fn func(step int, op circuit.Op, v *Vector) error) (*Vector, error) {
	v := New(c.NumQubits())
	for i := range c.Len() {
		op := c.Op(i)
		v.Apply(op)
		if err := fn(i, op, v); err != nil {
			return v, err
		}
	}
	return v, nil
}
