//
// Copyright (c) 2024 gatec authors
//
// All rights reserved.
//

// Package mpa provides compile-time constant folding for the front end:
// Int wraps a fixed-width two's-complement integer and implements its
// arithmetic by building a tiny throwaway circuit and running it through
// circuit.Compute, rather than reimplementing arithmetic natively. Folded
// constants therefore agree with circuit results by construction.
package mpa

import (
	"math/big"

	"github.com/ppcircuit/gatec/circuit"
	"github.com/ppcircuit/gatec/circuits"
	"github.com/ppcircuit/gatec/value"
)

// Int is a multi-precision integer carrying its own bit width, used by
// compiler/ast and compiler/builder to fold literal and context.xxx
// escape hatch expressions at compile time.
type Int struct {
	bits   int
	values *big.Int
}

// NewInt creates an Int from a native int64, defaulting to 64 bits.
func NewInt(x int64) *Int {
	return &Int{bits: 64, values: big.NewInt(x)}
}

// FromValue builds an Int from a compiled bit-vector Value, unsigned.
func FromValue(v value.Value) *Int {
	return &Int{bits: v.Width(), values: new(big.Int).SetUint64(v.ToUint64())}
}

// ToValue reinterprets z's low Bits() bits as a Value.
func (z *Int) ToValue() value.Value {
	bits := make([]bool, z.bits)
	for i := 0; i < z.bits; i++ {
		bits[i] = z.values.Bit(i) == 1
	}
	return value.New(bits, z.bits)
}

// Bits returns z's declared bit width.
func (z *Int) Bits() int {
	return z.bits
}

// Int64 returns z's value as an int64 after fixing its sign from its
// declared width.
func (z *Int) Int64() int64 {
	z.setSign()
	return z.values.Int64()
}

func (z *Int) String() string {
	return z.values.String()
}

type binaryOp func(b *circuits.Builder, x, y []circuits.Wire) []circuits.Wire

// Add sets z to x+y and returns z.
func (z *Int) Add(x, y *Int) *Int {
	return z.bin(circuits.NewAdder, x, y)
}

// Sub sets z to x-y and returns z.
func (z *Int) Sub(x, y *Int) *Int {
	return z.bin(circuits.NewSubtractor, x, y)
}

// Mul sets z to x*y and returns z.
func (z *Int) Mul(x, y *Int) *Int {
	return z.bin(circuits.NewMultiplier, x, y)
}

// Div sets z to x/y and returns z.
func (z *Int) Div(x, y *Int) *Int {
	q, _ := z.divmod(x, y)
	*z = *q
	return z
}

// Mod sets z to x%y and returns z.
func (z *Int) Mod(x, y *Int) *Int {
	_, r := z.divmod(x, y)
	*z = *r
	return z
}

// And sets z to x&y and returns z.
func (z *Int) And(x, y *Int) *Int {
	return z.bin(circuits.NewBinaryAND, x, y)
}

// Or sets z to x|y and returns z.
func (z *Int) Or(x, y *Int) *Int {
	return z.bin(circuits.NewBinaryOR, x, y)
}

// Xor sets z to x^y and returns z.
func (z *Int) Xor(x, y *Int) *Int {
	return z.bin(circuits.NewBinaryXOR, x, y)
}

// Lsh sets z to x<<n and returns z.
func (z *Int) Lsh(x *Int, n uint) *Int {
	b := circuits.NewBuilder()
	xw := b.AllocContrib(x.bits)
	shifted := circuits.ShiftLeftConst(b, xw, x.bits, int(n))
	circ := finalize(b, shifted)
	out, err := circ.Compute(bitsOf(x), nil)
	if err != nil {
		panic(err)
	}
	z.bits = x.bits
	z.values = bigFromBits(out)
	z.setSign()
	return z
}

// Rsh sets z to x>>n (logical shift) and returns z.
func (z *Int) Rsh(x *Int, n uint) *Int {
	b := circuits.NewBuilder()
	xw := b.AllocContrib(x.bits)
	shifted := circuits.ShiftRightConst(b, xw, int(n))
	circ := finalize(b, shifted)
	out, err := circ.Compute(bitsOf(x), nil)
	if err != nil {
		panic(err)
	}
	z.bits = x.bits
	z.values = bigFromBits(out)
	z.setSign()
	return z
}

func (z *Int) bin(op binaryOp, x, y *Int) *Int {
	n := x.bits
	if y.bits > n {
		n = y.bits
	}
	b := circuits.NewBuilder()
	xw := b.AllocContrib(x.bits)
	yw := b.AllocContrib(y.bits)
	outw := op(b, xw, yw)
	circ := finalize(b, outw)
	out, err := circ.Compute(append(bitsOf(x), bitsOf(y)...), nil)
	if err != nil {
		panic(err)
	}
	z.bits = n
	z.values = bigFromBits(out)
	z.setSign()
	return z
}

func (z *Int) divmod(x, y *Int) (q, r *Int) {
	n := x.bits
	if y.bits > n {
		n = y.bits
	}
	b := circuits.NewBuilder()
	xw := b.AllocContrib(x.bits)
	yw := b.AllocContrib(y.bits)
	qw, rw := circuits.NewDivider(b, xw, yw)
	outw := append(append([]circuits.Wire{}, qw...), rw...)
	circ := finalize(b, outw)
	out, err := circ.Compute(append(bitsOf(x), bitsOf(y)...), nil)
	if err != nil {
		panic(err)
	}
	qBits := out[:len(qw)]
	rBits := out[len(qw):]
	q = &Int{bits: n, values: bigFromBits(qBits)}
	r = &Int{bits: n, values: bigFromBits(rBits)}
	q.setSign()
	r.setSign()
	return q, r
}

func finalize(b *circuits.Builder, outputs []circuits.Wire) *circuit.Circuit {
	circ, err := b.Finalize(outputs)
	if err != nil {
		panic(err)
	}
	return circ
}

func bitsOf(z *Int) []bool {
	bits := make([]bool, z.bits)
	for i := 0; i < z.bits; i++ {
		bits[i] = z.values.Bit(i) == 1
	}
	return bits
}

func bigFromBits(bits []bool) *big.Int {
	v := new(big.Int)
	for i, bit := range bits {
		if bit {
			v.SetBit(v, i, 1)
		}
	}
	return v
}

// setSign reinterprets the raw unsigned magnitude in z.values as a
// two's-complement signed integer of width z.bits. Circuit.Compute
// always reassembles outputs as unsigned magnitudes. A value that is
// already negative has been reinterpreted and is left unchanged.
func (z *Int) setSign() {
	if z.bits == 0 {
		return
	}
	if z.values.Sign() >= 0 && z.values.Bit(z.bits-1) == 1 {
		modulus := new(big.Int).Lsh(big.NewInt(1), uint(z.bits))
		z.values.Sub(z.values, modulus)
	}
}
