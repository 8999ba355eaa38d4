//
// Copyright (c) 2024 gatec authors
//
// All rights reserved.
//

package circuits

// Elementary bitwise synthesizers, one gate (or composite) per bit
// position.

// NewBinaryXOR computes x XOR y bitwise.
func NewBinaryXOR(b *Builder, x, y []Wire) []Wire {
	x, y = b.ZeroPad(x, y)
	out := make([]Wire, len(x))
	for i := range x {
		out[i] = b.Xor(x[i], y[i])
	}
	return out
}

// NewBinaryAND computes x AND y bitwise.
func NewBinaryAND(b *Builder, x, y []Wire) []Wire {
	x, y = b.ZeroPad(x, y)
	out := make([]Wire, len(x))
	for i := range x {
		out[i] = b.And(x[i], y[i])
	}
	return out
}

// NewBinaryNOT computes NOT x bitwise.
func NewBinaryNOT(b *Builder, x []Wire) []Wire {
	out := make([]Wire, len(x))
	for i := range x {
		out[i] = b.Not(x[i])
	}
	return out
}

// NewBinaryOR computes x OR y bitwise as XOR(XOR(a,b), AND(a,b)): the
// five-gate alphabet has no native OR.
func NewBinaryOR(b *Builder, x, y []Wire) []Wire {
	x, y = b.ZeroPad(x, y)
	out := make([]Wire, len(x))
	for i := range x {
		xr := b.Xor(x[i], y[i])
		and := b.And(x[i], y[i])
		out[i] = b.Xor(xr, and)
	}
	return out
}

// NewBinaryNAND computes NOT(x AND y) bitwise.
func NewBinaryNAND(b *Builder, x, y []Wire) []Wire {
	return NewBinaryNOT(b, NewBinaryAND(b, x, y))
}

// NewBinaryNOR computes NOT(x OR y) bitwise.
func NewBinaryNOR(b *Builder, x, y []Wire) []Wire {
	return NewBinaryNOT(b, NewBinaryOR(b, x, y))
}

// NewBinaryXNOR computes NOT(x XOR y) bitwise.
func NewBinaryXNOR(b *Builder, x, y []Wire) []Wire {
	return NewBinaryNOT(b, NewBinaryXOR(b, x, y))
}

// NewBinaryClear computes "bit clear": x AND (NOT y) bitwise.
func NewBinaryClear(b *Builder, x, y []Wire) []Wire {
	x, y = b.ZeroPad(x, y)
	out := make([]Wire, len(x))
	for i := range x {
		out[i] = b.And(x[i], b.Not(y[i]))
	}
	return out
}

// NewLogicalAND computes the 1-bit logical AND of two 1-bit predicates,
// distinct from the N-bit NewBinaryAND.
func NewLogicalAND(b *Builder, x, y []Wire) []Wire {
	return []Wire{b.And(x[0], y[0])}
}

// NewLogicalOR computes the 1-bit logical OR of two 1-bit predicates.
func NewLogicalOR(b *Builder, x, y []Wire) []Wire {
	return NewBinaryOR(b, x[:1], y[:1])
}

// NewBitSetTest returns a 1-bit Wire testing whether bit `index` of x is
// set.
func NewBitSetTest(b *Builder, x []Wire, index int) Wire {
	if index < 0 || index >= len(x) {
		return b.ZeroWire()
	}
	return x[index]
}

// NewBitClrTest returns a 1-bit Wire testing whether bit `index` of x is
// clear.
func NewBitClrTest(b *Builder, x []Wire, index int) Wire {
	if index < 0 || index >= len(x) {
		return b.OneWire()
	}
	return b.Not(x[index])
}

// ShiftLeftConst relabels bit positions to shift x left by a constant
// native amount, introducing zero wires for the vacated low bits and
// dropping the high bits that fall off the top. No gates are produced for
// the shift itself.
func ShiftLeftConst(b *Builder, x []Wire, size, count int) []Wire {
	out := make([]Wire, size)
	for i := 0; i < size; i++ {
		if i < count || i-count >= len(x) {
			out[i] = b.ZeroWire()
		} else {
			out[i] = x[i-count]
		}
	}
	return out
}

// ShiftRightConst relabels bit positions to logically shift x right by a
// constant native amount, zero fill at the top. There is no arithmetic
// variant; the front end rejects right shifts on signed values.
func ShiftRightConst(b *Builder, x []Wire, count int) []Wire {
	out := make([]Wire, len(x))
	for i := 0; i < len(x); i++ {
		if i+count >= len(x) {
			out[i] = b.ZeroWire()
		} else {
			out[i] = x[i+count]
		}
	}
	return out
}
