package circuit

import (
	"fmt"
	"math"
	"strings"

	"qcomposer/internal/gates"
)

// Validate checks a request and builds its circuit. It returns the first
// problem found as a *ValidationError.
//
// Every descriptor is schema-checked (gate name, target, angle) before any
// structural check runs; structural checks then walk the program in order.
func Validate(req Request) (*Circuit, error) {
	n := req.QubitCount
	if n < 1 || n > MaxQubits {
		return nil, &ValidationError{
			Kind:  ErrRange,
			Step:  -1,
			Field: "qubit_count",
			Msg:   fmt.Sprintf("qubit_count must be between 1 and %d", MaxQubits),
		}
	}

	kinds := make([]gates.Kind, len(req.Program))
	for i, spec := range req.Program {
		k, err := checkSchema(i, spec)
		if err != nil {
			return nil, err
		}
		kinds[i] = k
	}

	ops := make([]Op, 0, len(req.Program))
	counts := make([]int, n)
	for i, spec := range req.Program {
		op, err := buildOp(i, kinds[i], spec, n)
		if err != nil {
			return nil, err
		}

		for _, w := range op.Wires() {
			counts[w]++
		}
		for q, cnt := range counts {
			if cnt > MaxGatesPerWire {
				return nil, &ValidationError{
					Kind:  ErrResourceLimit,
					Step:  i,
					Field: "program",
					Msg:   fmt.Sprintf("gate limit (%d) exceeded on qubit %d", MaxGatesPerWire, q),
				}
			}
		}
		ops = append(ops, op)
	}

	return &Circuit{numQubits: n, ops: ops}, nil
}

func checkSchema(step int, spec GateSpec) (gates.Kind, error) {
	k, ok := gates.Parse(spec.Gate)
	if !ok {
		return gates.Invalid, stepErrorf(ErrSchema, step, "gate", "unsupported gate '%s'", strings.ToLower(spec.Gate))
	}
	if spec.Target == nil {
		return k, stepErrorf(ErrSchema, step, "target", "target is required")
	}
	if k.IsRotation() {
		if spec.Angle == nil {
			return k, stepErrorf(ErrSemantic, step, "angle", "%s requires an 'angle' field", k)
		}
		if math.IsNaN(*spec.Angle) || math.IsInf(*spec.Angle, 0) {
			return k, stepErrorf(ErrSemantic, step, "angle", "angle must be finite")
		}
	}
	return k, nil
}

func buildOp(step int, k gates.Kind, spec GateSpec, n int) (Op, error) {
	op := Op{Kind: k, Target: *spec.Target}

	switch k {
	case gates.CX:
		if spec.Control == nil {
			return op, stepErrorf(ErrSemantic, step, "control", "cx requires 'control'")
		}
		op.Control = *spec.Control
		if err := checkWire(step, "control", op.Control, n); err != nil {
			return op, err
		}
		if err := checkWire(step, "target", op.Target, n); err != nil {
			return op, err
		}
		if op.Control == op.Target {
			return op, stepErrorf(ErrSemantic, step, "control", "cx control and target must differ")
		}

	case gates.CCX:
		if spec.Control1 == nil || spec.Control2 == nil {
			return op, stepErrorf(ErrSemantic, step, "control1", "ccx requires 'control1' and 'control2'")
		}
		op.Control1, op.Control2 = *spec.Control1, *spec.Control2
		for _, w := range []struct {
			role string
			idx  int
		}{{"control1", op.Control1}, {"control2", op.Control2}, {"target", op.Target}} {
			if err := checkWire(step, w.role, w.idx, n); err != nil {
				return op, err
			}
		}
		if op.Control1 == op.Control2 || op.Control1 == op.Target || op.Control2 == op.Target {
			return op, stepErrorf(ErrSemantic, step, "target", "ccx control1, control2, target must be distinct")
		}

	default:
		if err := checkWire(step, "target", op.Target, n); err != nil {
			return op, err
		}
		if k.IsRotation() {
			op.Angle = *spec.Angle
		}
	}

	return op, nil
}

func checkWire(step int, role string, idx, n int) error {
	if idx < 0 || idx >= n {
		return stepErrorf(ErrRange, step, role, "%s=%d out of range 0..%d", role, idx, n-1)
	}
	return nil
}
