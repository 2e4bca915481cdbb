package main

import (
	"fmt"
	"strings"

	"qcomposer/internal/result"
	"qcomposer/internal/statevector"
)

// qubitProbability is the marginal distribution of a single wire.
type qubitProbability struct {
	prob0 float64
	prob1 float64
}

// qubitProbabilities sums the basis probabilities by the value of each bit.
func qubitProbabilities(r *result.Result) []qubitProbability {
	probs := make([]qubitProbability, r.QubitCount)
	for i, p := range r.Probabilities {
		for q := range r.QubitCount {
			if i&(1<<q) != 0 {
				probs[q].prob1 += p
			} else {
				probs[q].prob0 += p
			}
		}
	}
	return probs
}

// basisState is one row of the state panel.
type basisState struct {
	index int
	prob  float64
	phase float64
}

// visibleStates returns the basis states with non-zero reported probability.
func visibleStates(r *result.Result) []basisState {
	var states []basisState
	for i, p := range r.Probabilities {
		if p > 0 {
			states = append(states, basisState{index: i, prob: p, phase: r.Phases[i]})
		}
	}
	return states
}

// stateAtCursor simulates the program up to and including the gate under
// the cursor. It returns the number of gates applied.
func (m Model) stateAtCursor() (*result.Result, int, error) {
	c, err := m.prog.Compile()
	if err != nil {
		return nil, 0, err
	}
	k := min(m.cursorStep+1, c.Len())
	return result.Derive(statevector.Run(c.Prefix(k))), k, nil
}

// basisLabel renders index as a ket with the highest qubit leftmost.
func basisLabel(index, numQubits int) string {
	return fmt.Sprintf("|%0*b⟩", numQubits, index)
}

// probabilityBar draws p as a bar of at most barW cells.
func probabilityBar(p float64) string {
	n := int(p*barW + 0.5)
	return barStyle.Render(strings.Repeat("█", n)) + dimStyle.Render(strings.Repeat("·", barW-n))
}

// renderStatePanel renders probabilities and phases after the cursor step.
func (m Model) renderStatePanel(width, height int) string {
	var sb strings.Builder

	res, applied, err := m.stateAtCursor()
	sb.WriteString(titleStyle.Render("State"))
	if err != nil {
		sb.WriteString("\n\n")
		sb.WriteString(limitStyle.Render(err.Error()))
		return stateStyle.Width(width).Height(height).Render(sb.String())
	}
	sb.WriteString(dimStyle.Render(fmt.Sprintf("  after %d of %d gates", applied, m.prog.Len())))
	sb.WriteString("\n\n")

	for _, st := range visibleStates(res) {
		fmt.Fprintf(&sb, "%s %s %6.4f  φ=%+.4f\n",
			qubitLabelStyle.Render(basisLabel(st.index, res.QubitCount)),
			probabilityBar(st.prob), st.prob, st.phase)
	}

	sb.WriteString("\n")
	for q, qp := range qubitProbabilities(res) {
		fmt.Fprintf(&sb, "%s P(1)=%.4f  ", qubitLabelStyle.Render(fmt.Sprintf("q[%d]", q)), qp.prob1)
		if q%2 == 1 {
			sb.WriteString("\n")
		}
	}

	return stateStyle.Width(width).Height(height).Render(sb.String())
}
