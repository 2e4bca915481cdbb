// Package simulator ties validation, the statevector engine and result
// derivation into the single entry point used by every transport.
package simulator

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"qcomposer/internal/circuit"
	"qcomposer/internal/result"
	"qcomposer/internal/statevector"
)

// Run is one completed simulation.
type Run struct {
	ID     string
	Result *result.Result
}

// Step is the state after one applied operation.
type Step struct {
	Step   int            `json:"step" msgpack:"step"`
	Gate   string         `json:"gate" msgpack:"gate"`
	Result *result.Result `json:"result" msgpack:"result"`
}

// Simulator is stateless between requests and safe for concurrent use.
type Simulator struct {
	log     zerolog.Logger
	timeout time.Duration
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithTimeout bounds the wall-clock time of a single run. Zero disables the
// guard.
func WithTimeout(d time.Duration) Option {
	return func(s *Simulator) {
		s.timeout = d
	}
}

// New creates a simulator.
func New(log zerolog.Logger, opts ...Option) *Simulator {
	s := &Simulator{
		log: log.With().Str("component", "simulator").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Simulate validates req and runs it from |0...0⟩. Validation failures are
// returned as *circuit.ValidationError.
func (s *Simulator) Simulate(ctx context.Context, req circuit.Request) (*Run, error) {
	return s.Stream(ctx, req, nil)
}

// Stream is Simulate with fn called after every applied operation. A non-nil
// error from fn aborts the run and is returned wrapped.
func (s *Simulator) Stream(ctx context.Context, req circuit.Request, fn func(Step) error) (*Run, error) {
	c, err := circuit.Validate(req)
	if err != nil {
		return nil, err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	id := uuid.New().String()
	start := time.Now()

	final, err := statevector.Walk(c, func(step int, op circuit.Op, v *statevector.Vector) error {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("simulation stopped at step %d: %w", step, err)
		}
		if fn == nil {
			return nil
		}
		if err := fn(Step{Step: step, Gate: op.Kind.String(), Result: result.Derive(v)}); err != nil {
			return fmt.Errorf("step %d: %w", step, err)
		}
		return nil
	})
	if err != nil {
		s.log.Debug().Str("run_id", id).Err(err).Msg("Simulation aborted")
		return nil, err
	}

	s.log.Debug().
		Str("run_id", id).
		Int("qubits", c.NumQubits()).
		Int("gates", c.Len()).
		Float64("norm_drift", math.Abs(final.Norm()-1)).
		Dur("duration", time.Since(start)).
		Msg("Simulation complete")

	return &Run{ID: id, Result: result.Derive(final)}, nil
}
