//
// Copyright (c) 2024 gatec authors
//
// All rights reserved.
//

package circuits

// Equality, inequality, and ordering comparators: equality via an
// XNOR-AND reduction chain, unsigned ordering via
// subtract-and-inspect-borrow, signed ordering via the sign-bit flip,
// ">"/">=" derived from "<" by operand swap or negation rather than a
// second kind of subtraction.

// NewEqComparator returns a 1-bit Wire that is true iff x == y: XNOR each
// bit pair, then AND-reduce.
func NewEqComparator(b *Builder, x, y []Wire) Wire {
	x, y = b.ZeroPad(x, y)
	acc := b.OneWire()
	for i := range x {
		eqBit := b.Not(b.Xor(x[i], y[i]))
		acc = b.And(acc, eqBit)
	}
	return acc
}

// NewNeqComparator returns a 1-bit Wire that is true iff x != y.
func NewNeqComparator(b *Builder, x, y []Wire) Wire {
	return b.Not(NewEqComparator(b, x, y))
}

// NewUltComparator returns a 1-bit Wire that is true iff unsigned x < y,
// by inspecting the borrow out of x - y: a borrow occurred iff x < y.
func NewUltComparator(b *Builder, x, y []Wire) Wire {
	x, y = b.ZeroPad(x, y)
	_, carryOut := subtractorWithBorrow(b, x, y)
	return b.Not(carryOut)
}

// NewUleComparator returns a 1-bit Wire that is true iff unsigned x <= y:
// NOT(y < x).
func NewUleComparator(b *Builder, x, y []Wire) Wire {
	return b.Not(NewUltComparator(b, y, x))
}

// NewUgtComparator returns a 1-bit Wire that is true iff unsigned x > y,
// derived by swapping operands into NewUltComparator rather than
// resynthesizing a second subtractor.
func NewUgtComparator(b *Builder, x, y []Wire) Wire {
	return NewUltComparator(b, y, x)
}

// NewUgeComparator returns a 1-bit Wire that is true iff unsigned x >= y.
func NewUgeComparator(b *Builder, x, y []Wire) Wire {
	return b.Not(NewUltComparator(b, x, y))
}

// NewSltComparator returns a 1-bit Wire that is true iff signed x < y.
// Flipping the sign bit of both operands turns signed comparison into
// unsigned comparison over the same magnitude ordering; equivalently, when
// the sign bits differ the more-negative operand is the one with the set
// sign bit, otherwise the unsigned order applies directly.
func NewSltComparator(b *Builder, x, y []Wire) Wire {
	x, y = b.ZeroPad(x, y)
	n := len(x)
	fx := make([]Wire, n)
	fy := make([]Wire, n)
	copy(fx, x)
	copy(fy, y)
	fx[n-1] = b.Not(x[n-1])
	fy[n-1] = b.Not(y[n-1])
	return NewUltComparator(b, fx, fy)
}

// NewSleComparator returns a 1-bit Wire that is true iff signed x <= y.
func NewSleComparator(b *Builder, x, y []Wire) Wire {
	return b.Not(NewSltComparator(b, y, x))
}

// NewSgtComparator returns a 1-bit Wire that is true iff signed x > y.
func NewSgtComparator(b *Builder, x, y []Wire) Wire {
	return NewSltComparator(b, y, x)
}

// NewSgeComparator returns a 1-bit Wire that is true iff signed x >= y.
func NewSgeComparator(b *Builder, x, y []Wire) Wire {
	return b.Not(NewSltComparator(b, x, y))
}
