//
// Copyright (c) 2024 gatec authors
//
// All rights reserved.
//

package ast

import (
	"github.com/ppcircuit/gatec/compiler/mpa"
	"github.com/ppcircuit/gatec/value"
)

// Eval reduces a constant-only expression tree to an mpa.Int without
// emitting any gates. It returns false when the expression depends on a
// circuit input (references, comparisons, if/else) and must be lowered to
// gates instead. The arithmetic itself routes through mpa, which folds by
// building and running a throwaway circuit, so compile-time and
// circuit-time results agree by construction.
func Eval(e Expr) (*mpa.Int, bool) {
	switch n := e.(type) {
	case *Lit:
		return litInt(n), true

	case *Unary:
		x, ok := Eval(n.X)
		if !ok {
			return nil, false
		}
		switch n.Op {
		case Neg:
			zero := &Lit{Bits: x.Bits()}
			return new(mpa.Int).Sub(litInt(zero), x), true
		case Not, BoolNot:
			ones := &Lit{Bits: x.Bits(), Value: ^uint64(0)}
			return new(mpa.Int).Xor(x, litInt(ones)), true
		default:
			return nil, false
		}

	case *Binary:
		x, ok := Eval(n.X)
		if !ok {
			return nil, false
		}
		y, ok := Eval(n.Y)
		if !ok {
			return nil, false
		}
		z := new(mpa.Int)
		switch n.Op {
		case Add:
			return z.Add(x, y), true
		case Sub:
			return z.Sub(x, y), true
		case Mul:
			return z.Mul(x, y), true
		case Div:
			return z.Div(x, y), true
		case Mod:
			return z.Mod(x, y), true
		case And:
			return z.And(x, y), true
		case Or:
			return z.Or(x, y), true
		case Xor:
			return z.Xor(x, y), true
		default:
			return nil, false
		}

	case *Shift:
		x, ok := Eval(n.X)
		if !ok {
			return nil, false
		}
		if n.Left {
			return new(mpa.Int).Lsh(x, uint(n.Count)), true
		}
		return new(mpa.Int).Rsh(x, uint(n.Count)), true

	default:
		return nil, false
	}
}

func litInt(lit *Lit) *mpa.Int {
	bits := make([]bool, lit.Bits)
	for i := 0; i < lit.Bits; i++ {
		bits[i] = (lit.Value>>uint(i))&1 == 1
	}
	return mpa.FromValue(value.New(bits, lit.Bits))
}
