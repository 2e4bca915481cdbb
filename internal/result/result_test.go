package result

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"qcomposer/internal/circuit"
	"qcomposer/internal/statevector"
)

func run(t *testing.T, req circuit.Request) *Result {
	t.Helper()
	c, err := circuit.Validate(req)
	require.NoError(t, err)
	return Derive(statevector.Run(c))
}

func at(q int) *int { return &q }

func angle(a float64) *float64 { return &a }

func TestDeriveEmptyProgram(t *testing.T) {
	r := run(t, circuit.Request{QubitCount: 2})

	assert.Equal(t, 2, r.QubitCount)
	assert.Equal(t, []Amplitude{{1, 0}, {0, 0}, {0, 0}, {0, 0}}, r.Statevector)
	assert.Equal(t, []float64{1, 0, 0, 0}, r.Probabilities)
	assert.Equal(t, []float64{0, 0, 0, 0}, r.Phases)
}

func TestDeriveHadamard(t *testing.T) {
	r := run(t, circuit.Request{QubitCount: 1, Program: []circuit.GateSpec{{Gate: "h", Target: at(0)}}})

	assert.Equal(t, []Amplitude{{0.70710678, 0}, {0.70710678, 0}}, r.Statevector)
	assert.Equal(t, []float64{0.5, 0.5}, r.Probabilities)
	assert.Equal(t, []float64{0, 0}, r.Phases)
}

func TestDeriveBellPair(t *testing.T) {
	r := run(t, circuit.Request{QubitCount: 2, Program: []circuit.GateSpec{
		{Gate: "h", Target: at(0)},
		{Gate: "cx", Control: at(0), Target: at(1)},
	}})

	assert.Equal(t, []float64{0.5, 0, 0, 0.5}, r.Probabilities)
}

func TestDeriveToffoli(t *testing.T) {
	r := run(t, circuit.Request{QubitCount: 3, Program: []circuit.GateSpec{
		{Gate: "x", Target: at(0)},
		{Gate: "x", Target: at(1)},
		{Gate: "ccx", Control1: at(0), Control2: at(1), Target: at(2)},
	}})

	want := make([]float64, 8)
	want[7] = 1
	assert.Equal(t, want, r.Probabilities)
}

func TestDerivePhases(t *testing.T) {
	r := run(t, circuit.Request{QubitCount: 1, Program: []circuit.GateSpec{
		{Gate: "x", Target: at(0)},
		{Gate: "s", Target: at(0)},
	}})
	assert.Equal(t, []float64{0, round(math.Pi / 2)}, r.Phases)
	assert.Equal(t, Amplitude{0, 1}, r.Statevector[1])

	r = run(t, circuit.Request{QubitCount: 1, Program: []circuit.GateSpec{
		{Gate: "x", Target: at(0)},
		{Gate: "z", Target: at(0)},
	}})
	assert.InDelta(t, math.Pi, r.Phases[1], 1e-8)
	assert.Equal(t, []float64{0, 1}, r.Probabilities)
}

func TestProbabilitiesSumToOne(t *testing.T) {
	prog := []circuit.GateSpec{
		{Gate: "h", Target: at(0)},
		{Gate: "ry", Target: at(1), Angle: angle(0.9)},
		{Gate: "rx", Target: at(2), Angle: angle(2.2)},
		{Gate: "cx", Control: at(0), Target: at(3)},
		{Gate: "ccx", Control1: at(1), Control2: at(3), Target: at(2)},
		{Gate: "t", Target: at(2)},
		{Gate: "rz", Target: at(0), Angle: angle(-1.1)},
		{Gate: "h", Target: at(3)},
	}
	r := run(t, circuit.Request{QubitCount: 4, Program: prog})

	require.Len(t, r.Probabilities, 16)
	require.Len(t, r.Statevector, 16)
	require.Len(t, r.Phases, 16)
	assert.InDelta(t, 1, floats.Sum(r.Probabilities), 1e-6)
	for i, p := range r.Probabilities {
		assert.GreaterOrEqual(t, p, 0.0, "index %d", i)
		if p == 0 && r.Statevector[i] == (Amplitude{}) {
			assert.Zero(t, r.Phases[i], "index %d", i)
		}
	}
}

func TestRound(t *testing.T) {
	assert.Equal(t, 0.70710678, round(1/math.Sqrt2))
	assert.Equal(t, 0.12345679, round(0.123456789))
	assert.Equal(t, 0.0, round(-1e-12))
	assert.False(t, math.Signbit(round(-1e-12)))
	assert.Equal(t, -0.5, round(-0.5))
}
