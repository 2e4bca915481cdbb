// Package result turns a final amplitude vector into the response shape
// shared by every transport.
package result

import (
	"math"
	"strconv"

	"qcomposer/internal/statevector"
)

// Digits is the number of decimal places kept in every reported value.
const Digits = 8

// Amplitude is one complex amplitude in rectangular form.
type Amplitude struct {
	Re float64 `json:"re" msgpack:"re"`
	Im float64 `json:"im" msgpack:"im"`
}

// Result is the observable outcome of a simulation. All three slices have
// length 2^QubitCount and are indexed by basis state, where bit i of the
// index is qubit i.
type Result struct {
	QubitCount    int         `json:"qubit_count" msgpack:"qubit_count"`
	Statevector   []Amplitude `json:"statevector" msgpack:"statevector"`
	Probabilities []float64   `json:"probabilities" msgpack:"probabilities"`
	Phases        []float64   `json:"phases" msgpack:"phases"`
}

// Derive reports v rounded to Digits places. Phases are taken from the raw
// amplitudes, and the zero amplitude has phase 0.
func Derive(v *statevector.Vector) *Result {
	n := v.Len()
	r := &Result{
		QubitCount:    v.NumQubits(),
		Statevector:   make([]Amplitude, n),
		Probabilities: make([]float64, n),
		Phases:        make([]float64, n),
	}
	for i := range n {
		a := v.At(i)
		re, im := real(a), imag(a)
		r.Statevector[i] = Amplitude{Re: round(re), Im: round(im)}
		r.Probabilities[i] = round(re*re + im*im)
		if re != 0 || im != 0 {
			r.Phases[i] = round(math.Atan2(im, re))
		}
	}
	return r
}

// round goes through the decimal formatter so that halfway cases follow the
// correctly rounded decimal expansion rather than binary scaling.
func round(x float64) float64 {
	out, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', Digits, 64), 64)
	if err != nil {
		return x
	}
	if out == 0 {
		// Drop negative zero.
		return 0
	}
	return out
}
