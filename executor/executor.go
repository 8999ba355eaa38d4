//
// Copyright (c) 2024 gatec authors
//
// All rights reserved.
//

// Package executor defines the contract between the circuit compiler and
// whatever evaluates a finished circuit: plaintext or cryptographic, both
// must produce identical outputs for the same circuit and inputs. The
// compiler calls an Executor at most once, synchronously, at the end of
// execute mode.
package executor

import (
	"context"

	"github.com/ppcircuit/gatec/circuit"
)

// Executor evaluates a circuit against contributor and evaluator input
// bits and returns the output bits, one per circuit output index.
type Executor interface {
	Execute(ctx context.Context, c *circuit.Circuit, contrib, eval []bool) ([]bool, error)
}

// Plaintext is the in-process reference executor: direct boolean gate
// evaluation through circuit.Compute. It never blocks, so the context is
// ignored.
type Plaintext struct{}

// Execute implements Executor.
func (Plaintext) Execute(ctx context.Context, c *circuit.Circuit,
	contrib, eval []bool) ([]bool, error) {
	return c.Compute(contrib, eval)
}
