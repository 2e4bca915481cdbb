package circuit

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToQASM(t *testing.T) {
	c, err := Validate(Request{QubitCount: 3, Program: []GateSpec{
		single("h", 0),
		rot("rx", 1, math.Pi/2),
		rot("rz", 2, -math.Pi),
		cx(0, 1),
		ccx(0, 1, 2),
	}})
	require.NoError(t, err)

	want := `OPENQASM 2.0;
include "qelib1.inc";

qreg q[3];

h q[0];
rx(pi/2) q[1];
rz(-pi) q[2];
cx q[0], q[1];
ccx q[0], q[1], q[2];
`
	assert.Equal(t, want, c.ToQASM())
}

func TestQASMRoundTrip(t *testing.T) {
	orig, err := Validate(Request{QubitCount: 4, Program: []GateSpec{
		single("y", 3),
		single("s", 2),
		rot("ry", 0, 0.3125),
		cx(3, 0),
		ccx(2, 0, 1),
		single("t", 1),
	}})
	require.NoError(t, err)

	req, err := ParseQASM(orig.ToQASM())
	require.NoError(t, err)

	back, err := Validate(req)
	require.NoError(t, err)
	assert.Equal(t, orig.Ops(), back.Ops())
	assert.Equal(t, 4, back.NumQubits())
}

func TestParseQASMLenient(t *testing.T) {
	src := `OPENQASM 2.0;
include "qelib1.inc";
// bell pair
qreg q[2];
creg c[2];

H q[0];   // superpose
barrier q[0], q[1];
cnot q[0], q[1];
rz(3*pi/4) q[1];
toffoli q[0], q[1], q[1];`

	req, err := ParseQASM(src)
	require.NoError(t, err)
	assert.Equal(t, 2, req.QubitCount)
	require.Len(t, req.Program, 4)
	assert.Equal(t, "h", req.Program[0].Gate)
	assert.Equal(t, "cx", req.Program[1].Gate)
	assert.Equal(t, 0, *req.Program[1].Control)
	assert.InDelta(t, 3*math.Pi/4, *req.Program[2].Angle, 1e-12)
	assert.Equal(t, "ccx", req.Program[3].Gate)

	// Parsing does not validate; the repeated wire is caught later.
	_, err = Validate(req)
	assert.ErrorIs(t, err, ErrSemantic)
}

func TestParseQASMRejects(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"no qreg", "h q[0];", "missing qreg declaration"},
		{"two qregs", "qreg q[1];\nqreg r[1];", "line 2: only a single 'qreg q[n];' declaration is supported"},
		{"register not named q", "qreg r[2];\nh r[0];", "line 1: only a single 'qreg q[n];' declaration is supported"},
		{"swap", "qreg q[2];\nswap q[0], q[1];", `line 2: unsupported statement "swap q[0], q[1];"`},
		{"measure", "qreg q[1];\nmeasure q[0] -> c[0];", `line 2: unsupported statement "measure q[0] -> c[0];"`},
		{"rotation without angle", "qreg q[1];\nrx q[0];", `line 2: unsupported statement "rx q[0];"`},
		{"angle on fixed gate", "qreg q[1];\nh(pi) q[0];", `line 2: unsupported statement "h(pi) q[0];"`},
		{"cx with one wire", "qreg q[2];\ncx q[0];", `line 2: unsupported statement "cx q[0];"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseQASM(tt.src)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrSchema)
			assert.Equal(t, tt.msg, err.Error())
			assert.False(t, strings.Contains(err.Error(), "step"))
		})
	}
}
