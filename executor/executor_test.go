//
// Copyright (c) 2024 gatec authors
//
// All rights reserved.
//

package executor_test

import (
	"context"
	"testing"

	"github.com/ppcircuit/gatec/circuits"
	"github.com/ppcircuit/gatec/executor"
	"github.com/ppcircuit/gatec/value"
)

func TestPlaintext(t *testing.T) {
	cb := circuits.NewBuilder()
	x := cb.AllocContrib(8)
	y := cb.AllocEval(8)
	out := circuits.NewSubtractor(cb, x, y)
	c, err := cb.Finalize(out)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	exec := executor.Plaintext{}
	bits, err := exec.Execute(context.Background(), c,
		value.FromUint64(100, 8).Bits, value.FromUint64(58, 8).Bits)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := value.New(bits, 8).ToUint64(); got != 42 {
		t.Errorf("100-58: got %d", got)
	}

	// The output length equals the circuit's output count.
	if len(bits) != len(c.Outputs) {
		t.Errorf("output length %d, expected %d", len(bits), len(c.Outputs))
	}
}

func TestPlaintextBadInputs(t *testing.T) {
	cb := circuits.NewBuilder()
	x := cb.AllocContrib(4)
	c, err := cb.Finalize(x)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := (executor.Plaintext{}).Execute(context.Background(), c,
		nil, nil); err == nil {
		t.Error("expected input count error")
	}
}
