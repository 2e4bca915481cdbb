// Package circuit validates gate programs and holds the resulting circuits.
package circuit

import (
	"qcomposer/internal/gates"
)

// Limits that form part of the request contract.
const (
	MaxQubits       = 4
	MaxGatesPerWire = 10
)

// GateSpec is one gate descriptor as submitted by a client. Pointer fields
// distinguish "absent" from zero.
type GateSpec struct {
	Gate     string   `json:"gate"`
	Target   *int     `json:"target"`
	Control  *int     `json:"control,omitempty"`
	Control1 *int     `json:"control1,omitempty"`
	Control2 *int     `json:"control2,omitempty"`
	Angle    *float64 `json:"angle,omitempty"`
}

// Request is an unvalidated simulation request.
type Request struct {
	QubitCount int        `json:"qubit_count"`
	Program    []GateSpec `json:"program"`
}

// Op is a validated gate bound to concrete wires.
type Op struct {
	Kind     gates.Kind
	Target   int
	Control  int // CX only
	Control1 int // CCX only
	Control2 int // CCX only
	Angle    float64
}

// Wires returns the wires the operation touches, controls first.
func (o Op) Wires() []int {
	switch o.Kind {
	case gates.CX:
		return []int{o.Control, o.Target}
	case gates.CCX:
		return []int{o.Control1, o.Control2, o.Target}
	default:
		return []int{o.Target}
	}
}

// Touches reports whether the operation references wire q.
func (o Op) Touches(q int) bool {
	for _, w := range o.Wires() {
		if w == q {
			return true
		}
	}
	return false
}

// Spec converts the operation back into its wire form.
func (o Op) Spec() GateSpec {
	s := GateSpec{Gate: o.Kind.String(), Target: intPtr(o.Target)}
	switch o.Kind {
	case gates.CX:
		s.Control = intPtr(o.Control)
	case gates.CCX:
		s.Control1 = intPtr(o.Control1)
		s.Control2 = intPtr(o.Control2)
	}
	if o.Kind.IsRotation() {
		s.Angle = floatPtr(o.Angle)
	}
	return s
}

// Circuit is an ordered, validated program bound to a qubit count. It is
// never modified after Validate returns it.
type Circuit struct {
	numQubits int
	ops       []Op
}

// NumQubits returns the register width.
func (c *Circuit) NumQubits() int {
	return c.numQubits
}

// Len returns the number of operations.
func (c *Circuit) Len() int {
	return len(c.ops)
}

// Op returns the i-th operation.
func (c *Circuit) Op(i int) Op {
	return c.ops[i]
}

// Ops returns a copy of the operations in execution order.
func (c *Circuit) Ops() []Op {
	out := make([]Op, len(c.ops))
	copy(out, c.ops)
	return out
}

// Prefix returns a circuit holding the first k operations. k is clamped to
// [0, Len()].
func (c *Circuit) Prefix(k int) *Circuit {
	k = max(0, min(k, len(c.ops)))
	return &Circuit{numQubits: c.numQubits, ops: c.ops[:k:k]}
}

// WireCounts returns how many operations touch each wire.
func (c *Circuit) WireCounts() []int {
	counts := make([]int, c.numQubits)
	for _, op := range c.ops {
		for _, w := range op.Wires() {
			counts[w]++
		}
	}
	return counts
}

// Request converts the circuit back into a request.
func (c *Circuit) Request() Request {
	req := Request{QubitCount: c.numQubits, Program: make([]GateSpec, len(c.ops))}
	for i, op := range c.ops {
		req.Program[i] = op.Spec()
	}
	return req
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }
