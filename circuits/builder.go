//
// Copyright (c) 2024 gatec authors
//
// All rights reserved.
//

// Package circuits implements the gate-level synthesis algorithms: the
// Builder appends gates to a single growing circuit, and the NewXxx
// functions synthesize arithmetic, comparison, mux, shift, and bitwise
// sub-circuits over ranges of its wires.
//
// This is an append-only builder: a gate's wire index is its position in
// the gate list. Every NewXxx function knows its operand wires before it
// emits anything, so gates are numbered as they are pushed — there is no
// deferred wire-ID assignment pass.
package circuits

import (
	"fmt"

	"github.com/ppcircuit/gatec/circuit"
)

// Wire identifies one wire (gate output) by its append position.
type Wire uint32

// state is the builder's lifecycle. Transitions are never reversed.
type state int

const (
	stateEmpty state = iota
	stateInputsAllocated
	stateBuilding
	stateFinalized
)

// Builder accumulates a single circuit's gates as a compiled function's
// expressions are lowered into gate-level calls.
type Builder struct {
	state state
	gates []circuit.Gate
	n1    int // contributor input gates allocated so far
	n2    int // evaluator input gates allocated so far

	zero *Wire
	one  *Wire
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{gates: make([]circuit.Gate, 0, 1024)}
}

// contract panics with a descriptive message: structural contract
// violations (inputs allocated after synthesis has started, constants
// requested before any input exists, use-after-finalize) are unrecoverable
// programmer errors that abort compilation immediately.
func contract(format string, args ...interface{}) {
	panic(fmt.Sprintf("circuits: contract violation: "+format, args...))
}

// AllocContrib pushes n fresh InContrib input gates and returns their
// wires. Must be called before the first derived gate (state Building);
// allocating inputs after Building has started is a contract violation.
func (b *Builder) AllocContrib(n int) []Wire {
	if b.state == stateBuilding || b.state == stateFinalized {
		contract("cannot allocate inputs after synthesis has started")
	}
	return b.allocInput(n, circuit.InContrib, &b.n1)
}

// AllocEval pushes n fresh InEval input gates and returns their wires.
func (b *Builder) AllocEval(n int) []Wire {
	if b.state == stateBuilding || b.state == stateFinalized {
		contract("cannot allocate inputs after synthesis has started")
	}
	return b.allocInput(n, circuit.InEval, &b.n2)
}

func (b *Builder) allocInput(n int, op circuit.Op, counter *int) []Wire {
	wires := make([]Wire, n)
	for i := 0; i < n; i++ {
		wires[i] = Wire(len(b.gates))
		b.gates = append(b.gates, circuit.Gate{Op: op})
		*counter++
	}
	if len(b.gates) > 0 {
		b.state = stateInputsAllocated
	}
	return wires
}

func (b *Builder) addGate(g circuit.Gate) Wire {
	if b.state == stateFinalized {
		contract("builder already finalized")
	}
	if b.state == stateInputsAllocated {
		b.state = stateBuilding
	}
	w := Wire(len(b.gates))
	b.gates = append(b.gates, g)
	return w
}

// Xor appends an Xor(a, b) gate.
func (b *Builder) Xor(a, c Wire) Wire {
	return b.addGate(circuit.Gate{Op: circuit.Xor, In0: uint32(a), In1: uint32(c)})
}

// And appends an And(a, b) gate.
func (b *Builder) And(a, c Wire) Wire {
	return b.addGate(circuit.Gate{Op: circuit.And, In0: uint32(a), In1: uint32(c)})
}

// Not appends a Not(a) gate.
func (b *Builder) Not(a Wire) Wire {
	return b.addGate(circuit.Gate{Op: circuit.Not, In0: uint32(a)})
}

// ZeroWire returns the wire carrying the constant false, materializing it
// once per circuit as XOR(w, w) for the first input wire w. The gate
// alphabet has no explicit constants.
func (b *Builder) ZeroWire() Wire {
	if b.zero == nil {
		if len(b.gates) == 0 {
			contract("no inputs allocated: cannot materialize constants")
		}
		w := b.Xor(Wire(0), Wire(0))
		b.zero = &w
	}
	return *b.zero
}

// OneWire returns the wire carrying the constant true: NOT(ZeroWire()).
func (b *Builder) OneWire() Wire {
	if b.one == nil {
		w := b.Not(b.ZeroWire())
		b.one = &w
	}
	return *b.one
}

// ID returns i unchanged through a gate (XOR with the zero wire), useful
// when a value must be re-bound to a fresh wire without aliasing.
func (b *Builder) ID(i Wire) Wire {
	return b.Xor(i, b.ZeroWire())
}

// ZeroPad extends the shorter of x, y with zero wires so both have equal
// length.
func (b *Builder) ZeroPad(x, y []Wire) ([]Wire, []Wire) {
	n := len(x)
	if len(y) > n {
		n = len(y)
	}
	rx := make([]Wire, n)
	ry := make([]Wire, n)
	for i := 0; i < n; i++ {
		if i < len(x) {
			rx[i] = x[i]
		} else {
			rx[i] = b.ZeroWire()
		}
		if i < len(y) {
			ry[i] = y[i]
		} else {
			ry[i] = b.ZeroWire()
		}
	}
	return rx, ry
}

// Finalize binds outputs as the circuit's output vector and freezes the
// gate list (state Building -> Finalized). No further gates may be added.
func (b *Builder) Finalize(outputs []Wire) (*circuit.Circuit, error) {
	if b.state == stateFinalized {
		contract("builder already finalized")
	}
	out := make([]uint32, len(outputs))
	for i, w := range outputs {
		out[i] = uint32(w)
	}
	c, err := circuit.New(b.gates, out, b.n1, b.n2)
	if err != nil {
		return nil, err
	}
	b.state = stateFinalized
	return c, nil
}
