//
// Copyright (c) 2024 gatec authors
//
// All rights reserved.
//

package gc

import (
	"context"
	"crypto/rand"
	"fmt"

	"github.com/ppcircuit/gatec/circuit"
	"github.com/ppcircuit/gatec/ot"
)

// Executor runs a circuit as a two-party garbled-circuit evaluation,
// with both parties in-process: the contributor garbles and sends its
// own input labels directly, the evaluator fetches its input labels over
// a Chou-Orlandi OT pipe and evaluates. Results match executor.Plaintext
// bit for bit on every circuit.
type Executor struct{}

// NewExecutor creates a garbled-circuit executor.
func NewExecutor() *Executor {
	return &Executor{}
}

// Execute implements executor.Executor.
func (e *Executor) Execute(ctx context.Context, c *circuit.Circuit,
	contrib, eval []bool) ([]bool, error) {

	if len(contrib) != c.N1 {
		return nil, fmt.Errorf("gc: expected %d contributor bits, got %d",
			c.N1, len(contrib))
	}
	if len(eval) != c.N2 {
		return nil, fmt.Errorf("gc: expected %d evaluator bits, got %d",
			c.N2, len(eval))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := make([]byte, 16)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	garbler, err := NewGarbler(key)
	if err != nil {
		return nil, err
	}
	garbled, err := garbler.Garble(c)
	if err != nil {
		return nil, err
	}

	inputs := make([]ot.Label, c.N1+c.N2)

	// The contributor knows its own bits: hand over the matching labels
	// directly.
	for i, bit := range contrib {
		if bit {
			inputs[i] = garbled.Wires[i].L1
		} else {
			inputs[i] = garbled.Wires[i].L0
		}
	}

	// The evaluator's labels go through oblivious transfer so neither
	// party learns the other's half.
	if c.N2 > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		sIO, rIO := ot.NewPipe()
		sOT := ot.NewCO()
		rOT := ot.NewCO()

		errs := make(chan error, 1)
		go func() {
			if err := sOT.InitSender(sIO); err != nil {
				errs <- err
				return
			}
			errs <- sOT.Send(garbled.Wires[c.N1 : c.N1+c.N2])
		}()

		if err := rOT.InitReceiver(rIO); err != nil {
			return nil, err
		}
		evalLabels := make([]ot.Label, c.N2)
		if err := rOT.Receive(eval, evalLabels); err != nil {
			return nil, err
		}
		if err := <-errs; err != nil {
			return nil, err
		}
		copy(inputs[c.N1:], evalLabels)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	outLabels, err := Evaluate(c, key, garbled.Gates, inputs)
	if err != nil {
		return nil, err
	}

	// Decode through the select bits: with R's S bit set, L0 and L1
	// always disagree on S, so the output bit is the label's S relative
	// to L0's.
	out := make([]bool, len(outLabels))
	for i, o := range c.Outputs {
		out[i] = outLabels[i].S() != garbled.Wires[o].L0.S()
	}
	return out, nil
}
