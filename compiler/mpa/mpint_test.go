//
// Copyright (c) 2024 gatec authors
//
// All rights reserved.
//

package mpa

import (
	"testing"

	"github.com/ppcircuit/gatec/value"
)

func fromU8(x uint64) *Int {
	return FromValue(value.FromUint64(x, 8))
}

func TestArithmetic(t *testing.T) {
	cases := []struct {
		a, b uint64
	}{
		{0, 0}, {1, 1}, {5, 3}, {200, 100}, {255, 255}, {17, 4},
	}
	for _, c := range cases {
		if got := new(Int).Add(fromU8(c.a), fromU8(c.b)).ToValue().ToUint64(); got != (c.a+c.b)&0xff {
			t.Errorf("%d+%d: got %d", c.a, c.b, got)
		}
		if got := new(Int).Sub(fromU8(c.a), fromU8(c.b)).ToValue().ToUint64(); got != (c.a-c.b)&0xff {
			t.Errorf("%d-%d: got %d", c.a, c.b, got)
		}
		if got := new(Int).Mul(fromU8(c.a), fromU8(c.b)).ToValue().ToUint64(); got != (c.a*c.b)&0xff {
			t.Errorf("%d*%d: got %d", c.a, c.b, got)
		}
		if c.b != 0 {
			if got := new(Int).Div(fromU8(c.a), fromU8(c.b)).ToValue().ToUint64(); got != c.a/c.b {
				t.Errorf("%d/%d: got %d", c.a, c.b, got)
			}
			if got := new(Int).Mod(fromU8(c.a), fromU8(c.b)).ToValue().ToUint64(); got != c.a%c.b {
				t.Errorf("%d%%%d: got %d", c.a, c.b, got)
			}
		}
		if got := new(Int).And(fromU8(c.a), fromU8(c.b)).ToValue().ToUint64(); got != c.a&c.b {
			t.Errorf("%d&%d: got %d", c.a, c.b, got)
		}
		if got := new(Int).Or(fromU8(c.a), fromU8(c.b)).ToValue().ToUint64(); got != c.a|c.b {
			t.Errorf("%d|%d: got %d", c.a, c.b, got)
		}
		if got := new(Int).Xor(fromU8(c.a), fromU8(c.b)).ToValue().ToUint64(); got != c.a^c.b {
			t.Errorf("%d^%d: got %d", c.a, c.b, got)
		}
	}
}

func TestShifts(t *testing.T) {
	a := fromU8(0x96)
	if got := new(Int).Lsh(a, 2).ToValue().ToUint64(); got != 0x58 {
		t.Errorf("0x96<<2: got %#x", got)
	}
	if got := new(Int).Rsh(a, 2).ToValue().ToUint64(); got != 0x25 {
		t.Errorf("0x96>>2: got %#x", got)
	}
}

func TestSignedView(t *testing.T) {
	z := new(Int).Sub(fromU8(3), fromU8(5))
	if got := z.Int64(); got != -2 {
		t.Errorf("3-5 signed: got %d", got)
	}
	if got := z.ToValue().ToUint64(); got != 254 {
		t.Errorf("3-5 unsigned: got %d", got)
	}
}

func TestMixedWidths(t *testing.T) {
	a := FromValue(value.FromUint64(300, 16))
	b := fromU8(12)
	z := new(Int).Add(a, b)
	if z.Bits() != 16 {
		t.Fatalf("result width %d", z.Bits())
	}
	if got := z.ToValue().ToUint64(); got != 312 {
		t.Errorf("300+12: got %d", got)
	}
}
