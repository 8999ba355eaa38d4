//
// Copyright (c) 2024 gatec authors
//
// All rights reserved.
//

package circuits

// Full-adder ripple, subtraction, multiplication, and restoring division.

// fullAdder returns (sum, carryOut) for one bit position, expressed in
// XOR/AND only.
func fullAdder(b *Builder, a, c, cin Wire) (sum, cout Wire) {
	axc := b.Xor(a, c)
	sum = b.Xor(axc, cin)
	cout = b.Xor(b.And(a, c), b.And(axc, cin))
	return sum, cout
}

// NewAdder synthesizes N-bit unsigned ripple-carry addition. The final
// carry-out is discarded, giving modular width-N wraparound.
func NewAdder(b *Builder, x, y []Wire) []Wire {
	x, y = b.ZeroPad(x, y)
	n := len(x)
	out := make([]Wire, n)
	cin := b.ZeroWire()
	for i := 0; i < n; i++ {
		out[i], cin = fullAdder(b, x[i], y[i], cin)
	}
	return out
}

// invertBits returns NOT(y) bit by bit, the first half of
// "a - b = a + NOT(b) + 1".
func invertBits(b *Builder, y []Wire) []Wire {
	out := make([]Wire, len(y))
	for i, w := range y {
		out[i] = b.Not(w)
	}
	return out
}

// NewSubtractor synthesizes N-bit x - y as x + NOT(y) + 1 (two's
// complement negation), initializing the adder's carry-in to constant
// true. Overflow wraps; the bit pattern is the same whether interpreted
// as signed or unsigned.
func NewSubtractor(b *Builder, x, y []Wire) []Wire {
	x, y = b.ZeroPad(x, y)
	n := len(x)
	ny := invertBits(b, y)
	out := make([]Wire, n)
	cin := b.OneWire()
	for i := 0; i < n; i++ {
		out[i], cin = fullAdder(b, x[i], ny[i], cin)
	}
	return out
}

// subtractorWithBorrow is NewSubtractor but also returns the final
// carry-out, whose complement is the borrow flag used by the unsigned
// less-than comparator.
func subtractorWithBorrow(b *Builder, x, y []Wire) (diff []Wire, carryOut Wire) {
	n := len(x)
	ny := invertBits(b, y)
	diff = make([]Wire, n)
	cin := b.OneWire()
	for i := 0; i < n; i++ {
		diff[i], cin = fullAdder(b, x[i], ny[i], cin)
	}
	return diff, cin
}

// NewNegate computes NOT(x) + 1, two's-complement unary negation.
func NewNegate(b *Builder, x []Wire) []Wire {
	n := len(x)
	nx := invertBits(b, x)
	one := make([]Wire, n)
	one[0] = b.OneWire()
	for i := 1; i < n; i++ {
		one[i] = b.ZeroWire()
	}
	return NewAdder(b, nx, one)
}

// muxBit computes one bit of mux(c, t, f) = f XOR (c AND (t XOR f)).
func muxBit(b *Builder, c, t, f Wire) Wire {
	return b.Xor(f, b.And(c, b.Xor(t, f)))
}

// NewMultiplier synthesizes N-bit-by-N-bit shift-and-add multiplication
// truncated to N bits: for each bit i of y, a partial product
// (y_i ? x<<i : 0) is formed with N muxes, and the partial products are
// summed with a ripple-adder chain. Overflow wraps.
func NewMultiplier(b *Builder, x, y []Wire) []Wire {
	x, y = b.ZeroPad(x, y)
	n := len(x)

	zero := make([]Wire, n)
	for i := range zero {
		zero[i] = b.ZeroWire()
	}

	sum := make([]Wire, n)
	copy(sum, zero)

	for i := 0; i < n; i++ {
		shifted := ShiftLeftConst(b, x, n, i)
		partial := make([]Wire, n)
		for j := 0; j < n; j++ {
			partial[j] = muxBit(b, y[i], shifted[j], zero[j])
		}
		sum = NewAdder(b, sum, partial)
	}
	return sum
}

// NewDivider synthesizes N-bit unsigned restoring long division,
// bit-serial and data-independent in structure. It always produces both
// quotient and remainder; callers that only need one discard the other.
//
// Division by zero is deliberately unguarded: it resolves to
// quotient = all-ones, remainder = dividend, since no iteration
// restores (the "subtract 0" borrow never fires, so the quotient bit is
// always 1 and R - 0 = R is kept).
func NewDivider(b *Builder, x, y []Wire) (quotient, remainder []Wire) {
	n := len(x)

	// R is 2N bits wide and holds the running partial remainder: each
	// step shifts the next dividend bit into bit 0 and compares the whole
	// of R against y, zero-extended to 2N bits. The low N bits end up
	// holding the remainder.
	r := make([]Wire, 2*n)
	for i := range r {
		r[i] = b.ZeroWire()
	}
	yWide := make([]Wire, 2*n)
	copy(yWide, y)
	for i := n; i < 2*n; i++ {
		yWide[i] = b.ZeroWire()
	}

	q := make([]Wire, n)

	for i := n - 1; i >= 0; i-- {
		// Shift R left by 1, feeding in bit i of the dividend.
		shifted := make([]Wire, 2*n)
		shifted[0] = x[i]
		copy(shifted[1:], r[:2*n-1])
		r = shifted

		diff, borrowOut := subtractorWithBorrow(b, r, yWide)
		borrow := b.Not(borrowOut) // subtractorWithBorrow's carry-out is the adder convention; invert to get "did R < yWide".

		restored := make([]Wire, 2*n)
		for j := range restored {
			restored[j] = muxBit(b, borrow, r[j], diff[j])
		}
		r = restored
		q[i] = b.Not(borrow)
	}

	return q, r[:n]
}
