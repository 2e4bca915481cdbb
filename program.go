package main

import (
	"slices"

	"qcomposer/internal/circuit"
	"qcomposer/internal/gates"
)

// Program is the editable, ordered gate list behind the composer. Step i of
// the grid is Gates[i], so every column holds exactly one gate.
type Program struct {
	NumQubits int
	Gates     []circuit.GateSpec
}

// Request returns the program in request form. The gate slice is copied.
func (p *Program) Request() circuit.Request {
	return circuit.Request{QubitCount: p.NumQubits, Program: slices.Clone(p.Gates)}
}

// Compile validates the program.
func (p *Program) Compile() (*circuit.Circuit, error) {
	return circuit.Validate(p.Request())
}

// Len returns the number of steps.
func (p *Program) Len() int {
	return len(p.Gates)
}

// GateAt returns the gate at step, or nil past the end.
func (p *Program) GateAt(step int) *circuit.GateSpec {
	if step < 0 || step >= len(p.Gates) {
		return nil
	}
	return &p.Gates[step]
}

// withGate returns a copy of p with spec placed at step. A step inside the
// program replaces the gate there; anything past the end appends.
func (p *Program) withGate(step int, spec circuit.GateSpec) Program {
	out := Program{NumQubits: p.NumQubits, Gates: slices.Clone(p.Gates)}
	if step >= 0 && step < len(out.Gates) {
		out.Gates[step] = spec
	} else {
		out.Gates = append(out.Gates, spec)
	}
	return out
}

// withoutStep returns a copy of p with the gate at step removed.
func (p *Program) withoutStep(step int) Program {
	out := Program{NumQubits: p.NumQubits, Gates: slices.Clone(p.Gates)}
	if step >= 0 && step < len(out.Gates) {
		out.Gates = slices.Delete(out.Gates, step, step+1)
	}
	return out
}

// withQubits returns a copy of p resized to n wires. Gates touching a
// removed wire are dropped.
func (p *Program) withQubits(n int) Program {
	out := Program{NumQubits: n, Gates: slices.Clone(p.Gates)}
	out.Gates = slices.DeleteFunc(out.Gates, func(g circuit.GateSpec) bool {
		for _, q := range specWires(g) {
			if q >= n {
				return true
			}
		}
		return false
	})
	return out
}

// specWires lists the wires a gate names, controls first. Fields the gate
// kind ignores are skipped.
func specWires(g circuit.GateSpec) []int {
	kind, _ := gates.Parse(g.Gate)
	var wires []int
	add := func(q *int) {
		if q != nil {
			wires = append(wires, *q)
		}
	}
	switch kind {
	case gates.CX:
		add(g.Control)
	case gates.CCX:
		add(g.Control1)
		add(g.Control2)
	}
	add(g.Target)
	return wires
}

// cellInfo describes what occupies a single cell in the circuit grid.
type cellInfo struct {
	gate        *circuit.GateSpec
	kind        gates.Kind
	isControl   bool
	isTarget    bool
	vertAbove   bool
	vertBelow   bool
	passThrough bool
}

// getCellInfo returns rendering information for the cell at (step, qubit).
func (p *Program) getCellInfo(step, qubit int) cellInfo {
	var info cellInfo

	g := p.GateAt(step)
	if g == nil {
		return info
	}
	kind, _ := gates.Parse(g.Gate)
	wires := specWires(*g)
	if len(wires) == 0 {
		return info
	}

	target := wires[len(wires)-1]
	controls := wires[:len(wires)-1]
	if qubit == target {
		info.gate = g
		info.kind = kind
		info.isTarget = len(controls) > 0
	}
	if slices.Contains(controls, qubit) {
		info.gate = g
		info.kind = kind
		info.isControl = true
	}

	if len(controls) > 0 {
		minQ, maxQ := slices.Min(wires), slices.Max(wires)
		if qubit >= minQ && qubit <= maxQ {
			info.vertAbove = qubit > minQ
			info.vertBelow = qubit < maxQ
			info.passThrough = info.gate == nil && qubit > minQ && qubit < maxQ
		}
	}

	return info
}

// intRef returns a pointer to a copy of v.
func intRef(v int) *int {
	return &v
}

// floatRef returns a pointer to a copy of v.
func floatRef(v float64) *float64 {
	return &v
}
