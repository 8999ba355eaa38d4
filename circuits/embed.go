//
// Copyright (c) 2024 gatec authors
//
// All rights reserved.
//

package circuits

import (
	"fmt"

	"github.com/ppcircuit/gatec/circuit"
)

// Embed replays a previously-compiled circuit into the builder as a
// sub-circuit: inputs[0] feeds the embedded circuit's contributor input
// wires and inputs[1] its evaluator input wires (short groups are padded
// with the zero wire, extra bits are dropped), every derived gate is
// re-emitted against the caller's wire space, and the embedded circuit's
// output wires are returned. This is the `native` builtin's engine.
func Embed(b *Builder, c *circuit.Circuit, inputs [][]Wire) ([]Wire, error) {
	if len(inputs) != 2 {
		return nil, fmt.Errorf("embed: expected 2 input groups, got %d",
			len(inputs))
	}

	wmap := make([]Wire, len(c.Gates))
	pad := func(group []Wire, n int, base int) {
		for i := 0; i < n; i++ {
			if i < len(group) {
				wmap[base+i] = group[i]
			} else {
				wmap[base+i] = b.ZeroWire()
			}
		}
	}
	pad(inputs[0], c.N1, 0)
	pad(inputs[1], c.N2, c.N1)

	for i := c.N1 + c.N2; i < len(c.Gates); i++ {
		g := c.Gates[i]
		switch g.Op {
		case circuit.Xor:
			wmap[i] = b.Xor(wmap[g.In0], wmap[g.In1])
		case circuit.And:
			wmap[i] = b.And(wmap[g.In0], wmap[g.In1])
		case circuit.Not:
			wmap[i] = b.Not(wmap[g.In0])
		default:
			return nil, fmt.Errorf("embed: input gate %s at wire %d", g.Op, i)
		}
	}

	out := make([]Wire, len(c.Outputs))
	for i, o := range c.Outputs {
		out[i] = wmap[o]
	}
	return out, nil
}
