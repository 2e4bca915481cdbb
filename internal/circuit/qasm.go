package circuit

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"qcomposer/internal/gates"
)

// Pre-compiled regexps for the QASM subset the simulator accepts.
var (
	qregRegex       = regexp.MustCompile(`^qreg\s+q\s*\[\s*(\d+)\s*\]\s*;?$`)
	singleGateRegex = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\]\s*;?$`)
	angleGateRegex  = regexp.MustCompile(`^(\w+)\s*\(\s*(` + anglePattern + `)\s*\)\s+q\[(\d+)\]\s*;?$`)
	twoQubitRegex   = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\]\s*,\s*q\[(\d+)\]\s*;?$`)
	threeQubitRegex = regexp.MustCompile(`^(\w+)\s+q\[(\d+)\]\s*,\s*q\[(\d+)\]\s*,\s*q\[(\d+)\]\s*;?$`)
)

// ToQASM renders the circuit as OpenQASM 2.0.
func (c *Circuit) ToQASM() string {
	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")
	fmt.Fprintf(&sb, "qreg q[%d];\n", c.numQubits)
	if len(c.ops) > 0 {
		sb.WriteString("\n")
	}

	for _, op := range c.ops {
		switch {
		case op.Kind == gates.CX:
			fmt.Fprintf(&sb, "cx q[%d], q[%d];\n", op.Control, op.Target)
		case op.Kind == gates.CCX:
			fmt.Fprintf(&sb, "ccx q[%d], q[%d], q[%d];\n", op.Control1, op.Control2, op.Target)
		case op.Kind.IsRotation():
			fmt.Fprintf(&sb, "%s(%s) q[%d];\n", op.Kind, FormatAngle(op.Angle), op.Target)
		default:
			fmt.Fprintf(&sb, "%s q[%d];\n", op.Kind, op.Target)
		}
	}

	return sb.String()
}

// ParseQASM reads the OpenQASM 2.0 subset written by ToQASM back into a
// request. Headers, creg declarations, comments and barriers are skipped;
// any other unrecognised statement is rejected. The request still has to go
// through Validate.
func ParseQASM(text string) (Request, error) {
	req := Request{Program: []GateSpec{}}
	sawQreg := false

	for i, line := range strings.Split(text, "\n") {
		lineNo := i + 1
		line = strings.TrimSpace(line)
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		if line == "" ||
			strings.HasPrefix(line, "OPENQASM") ||
			strings.HasPrefix(line, "include") ||
			strings.HasPrefix(line, "creg") ||
			strings.HasPrefix(line, "barrier") {
			continue
		}

		if strings.HasPrefix(line, "qreg") {
			m := qregRegex.FindStringSubmatch(line)
			if m == nil || sawQreg {
				return req, qasmError(lineNo, "only a single 'qreg q[n];' declaration is supported")
			}
			req.QubitCount, _ = strconv.Atoi(m[1])
			sawQreg = true
			continue
		}

		spec, ok := parseGateLine(line)
		if !ok {
			return req, qasmError(lineNo, fmt.Sprintf("unsupported statement %q", line))
		}
		req.Program = append(req.Program, spec)
	}

	if !sawQreg {
		return req, qasmError(0, "missing qreg declaration")
	}
	return req, nil
}

func parseGateLine(line string) (GateSpec, bool) {
	if m := threeQubitRegex.FindStringSubmatch(line); m != nil {
		name := strings.ToLower(m[1])
		if name == "toffoli" {
			name = gates.CCX.String()
		}
		if name != gates.CCX.String() {
			return GateSpec{}, false
		}
		return GateSpec{Gate: name, Control1: atoiPtr(m[2]), Control2: atoiPtr(m[3]), Target: atoiPtr(m[4])}, true
	}

	if m := twoQubitRegex.FindStringSubmatch(line); m != nil {
		name := strings.ToLower(m[1])
		if name == "cnot" {
			name = gates.CX.String()
		}
		if name != gates.CX.String() {
			return GateSpec{}, false
		}
		return GateSpec{Gate: name, Control: atoiPtr(m[2]), Target: atoiPtr(m[3])}, true
	}

	if m := angleGateRegex.FindStringSubmatch(line); m != nil {
		k, ok := gates.Parse(m[1])
		if !ok || !k.IsRotation() {
			return GateSpec{}, false
		}
		angle, ok := ParseAngle(m[2])
		if !ok {
			return GateSpec{}, false
		}
		return GateSpec{Gate: k.String(), Target: atoiPtr(m[3]), Angle: &angle}, true
	}

	if m := singleGateRegex.FindStringSubmatch(line); m != nil {
		k, ok := gates.Parse(m[1])
		if !ok || k.Arity() != 1 || k.IsRotation() {
			return GateSpec{}, false
		}
		return GateSpec{Gate: k.String(), Target: atoiPtr(m[2])}, true
	}

	return GateSpec{}, false
}

func qasmError(line int, msg string) *ValidationError {
	if line > 0 {
		msg = fmt.Sprintf("line %d: %s", line, msg)
	}
	return &ValidationError{Kind: ErrSchema, Step: -1, Field: "qasm", Msg: msg}
}

func atoiPtr(s string) *int {
	v, _ := strconv.Atoi(s)
	return &v
}
