//
// Copyright (c) 2024 gatec authors
//
// All rights reserved.
//

package gc

import (
	"crypto/aes"
	"fmt"

	"github.com/ppcircuit/gatec/circuit"
	"github.com/ppcircuit/gatec/ot"
)

// Evaluate walks the circuit with one label per input wire and the
// garbled tables, producing one label per output wire. It sees only one
// label per wire, never the garbler's secrets.
func Evaluate(c *circuit.Circuit, key []byte, tables [][]ot.Label,
	inputs []ot.Label) ([]ot.Label, error) {

	if len(inputs) != c.N1+c.N2 {
		return nil, fmt.Errorf("gc: expected %d input labels, got %d",
			c.N1+c.N2, len(inputs))
	}
	alg, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	labels := make([]ot.Label, len(c.Gates))
	copy(labels, inputs)

	var data ot.LabelData
	for i := c.N1 + c.N2; i < len(c.Gates); i++ {
		gate := c.Gates[i]
		la := labels[gate.In0]

		switch gate.Op {
		case circuit.Xor:
			l := la
			l.Xor(labels[gate.In1])
			labels[i] = l

		case circuit.Not:
			// Free NOT: the label is unchanged, only its meaning flips.
			labels[i] = la

		case circuit.And:
			table := tables[i]
			if len(table) != 2 {
				return nil, fmt.Errorf("gc: bad AND table at wire %d", i)
			}
			lb := labels[gate.In1]

			j0 := uint32(2 * i)
			j1 := uint32(2*i + 1)

			wg := encryptHalf(alg, la, j0, &data)
			if la.S() {
				wg.Xor(table[0])
			}
			we := encryptHalf(alg, lb, j1, &data)
			if lb.S() {
				we.Xor(table[1])
				we.Xor(la)
			}
			wg.Xor(we)
			labels[i] = wg

		default:
			return nil, fmt.Errorf("gc: invalid gate type %s", gate.Op)
		}
	}

	out := make([]ot.Label, len(c.Outputs))
	for i, o := range c.Outputs {
		out[i] = labels[o]
	}
	return out, nil
}
