//
// Copyright (c) 2024 gatec authors
//
// All rights reserved.
//

// Package gc implements a garbled-circuit executor for the compiler's
// five-gate circuits: free-XOR wire labels, point-and-permute select
// bits, and two-row half-gate tables for AND. XOR and NOT cost no
// ciphertext; only AND gates carry garbled material.
package gc

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	"github.com/ppcircuit/gatec/circuit"
	"github.com/ppcircuit/gatec/ot"
)

// Hash function for half gates: Hπ(x, i) to be π(K) ⊕ K where K = 2x ⊕ i
func encryptHalf(alg cipher.Block, x ot.Label, i uint32,
	data *ot.LabelData) ot.Label {

	k := makeKHalf(x, i)

	k.GetData(data)
	alg.Encrypt(data[:], data[:])

	var pi ot.Label
	pi.SetData(data)

	pi.Xor(k)

	return pi
}

// K = 2x ⊕ i
func makeKHalf(x ot.Label, i uint32) ot.Label {
	x.Mul2()
	x.Xor(ot.NewTweak(i))
	return x
}

func makeLabels(r ot.Label) (ot.Wire, error) {
	l0, err := ot.NewLabel(rand.Reader)
	if err != nil {
		return ot.Wire{}, err
	}
	l1 := l0
	l1.Xor(r)

	return ot.Wire{
		L0: l0,
		L1: l1,
	}, nil
}

// Garbled contains garbled circuit information. Wires (both labels of
// every wire) and R are the garbler's secret; Gates is the garbled
// material shipped to the evaluator.
type Garbled struct {
	R     ot.Label
	Wires []ot.Wire
	Gates [][]ot.Label
}

// Garble garbles the circuit with the given AES key.
func (g *Garbler) Garble(c *circuit.Circuit) (*Garbled, error) {
	// Create R with its select bit set, so every wire's two labels
	// always disagree on S.
	r, err := ot.NewLabel(rand.Reader)
	if err != nil {
		return nil, err
	}
	r.SetS(true)

	garbled := make([][]ot.Label, len(c.Gates))
	wires := make([]ot.Wire, len(c.Gates))

	// Assign all input wires.
	for i := 0; i < c.N1+c.N2; i++ {
		w, err := makeLabels(r)
		if err != nil {
			return nil, err
		}
		wires[i] = w
	}

	// Garble gates.
	var data ot.LabelData
	for i := c.N1 + c.N2; i < len(c.Gates); i++ {
		gate := c.Gates[i]

		a := wires[gate.In0]
		var out ot.Wire

		switch gate.Op {
		case circuit.Xor:
			// Free XOR.
			b := wires[gate.In1]
			l0 := a.L0
			l0.Xor(b.L0)

			l1 := l0
			l1.Xor(r)
			out = ot.Wire{
				L0: l0,
				L1: l1,
			}

		case circuit.Not:
			// Free NOT: swap the labels' meanings.
			l0 := a.L0
			l0.Xor(r)
			out = ot.Wire{
				L0: l0,
				L1: a.L0,
			}

		case circuit.And:
			b := wires[gate.In1]

			pa := a.L0.S()
			pb := b.L0.S()

			j0 := uint32(2 * i)
			j1 := uint32(2*i + 1)

			// First half gate.
			tg := encryptHalf(g.alg, a.L0, j0, &data)
			tg.Xor(encryptHalf(g.alg, a.L1, j0, &data))
			if pb {
				tg.Xor(r)
			}
			wg0 := encryptHalf(g.alg, a.L0, j0, &data)
			if pa {
				wg0.Xor(tg)
			}

			// Second half gate.
			te := encryptHalf(g.alg, b.L0, j1, &data)
			te.Xor(encryptHalf(g.alg, b.L1, j1, &data))
			te.Xor(a.L0)
			we0 := encryptHalf(g.alg, b.L0, j1, &data)
			if pb {
				we0.Xor(te)
				we0.Xor(a.L0)
			}

			// Combine halves.
			l0 := wg0
			l0.Xor(we0)

			l1 := l0
			l1.Xor(r)

			out = ot.Wire{
				L0: l0,
				L1: l1,
			}
			garbled[i] = []ot.Label{tg, te}

		default:
			return nil, fmt.Errorf("gc: invalid gate type %s", gate.Op)
		}
		wires[i] = out
	}

	return &Garbled{
		R:     r,
		Wires: wires,
		Gates: garbled,
	}, nil
}

// Garbler holds the garbling cipher.
type Garbler struct {
	alg cipher.Block
}

// NewGarbler creates a garbler keyed with the given AES key.
func NewGarbler(key []byte) (*Garbler, error) {
	alg, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return &Garbler{alg: alg}, nil
}
