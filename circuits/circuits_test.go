//
// Copyright (c) 2024 gatec authors
//
// All rights reserved.
//

package circuits

import (
	"math/rand"
	"testing"

	"github.com/ppcircuit/gatec/circuit"
	"github.com/ppcircuit/gatec/value"
)

type synth func(b *Builder, x, y []Wire) []Wire

// eval2 synthesizes op over an n-bit contributor input and an n-bit
// evaluator input, runs the circuit on concrete values, and reassembles
// the result.
func eval2(t *testing.T, n int, op synth, a, b uint64) uint64 {
	t.Helper()
	cb := NewBuilder()
	x := cb.AllocContrib(n)
	y := cb.AllocEval(n)
	out := op(cb, x, y)
	if len(out) != n {
		t.Fatalf("result width %d, expected %d", len(out), n)
	}
	circ, err := cb.Finalize(out)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	bits, err := circ.Compute(value.FromUint64(a, n).Bits, value.FromUint64(b, n).Bits)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	return value.New(bits, n).ToUint64()
}

// evalPred synthesizes a 1-bit comparator over two n-bit inputs.
func evalPred(t *testing.T, n int, op func(b *Builder, x, y []Wire) Wire, a, b uint64) bool {
	t.Helper()
	cb := NewBuilder()
	x := cb.AllocContrib(n)
	y := cb.AllocEval(n)
	out := op(cb, x, y)
	circ, err := cb.Finalize([]Wire{out})
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	bits, err := circ.Compute(value.FromUint64(a, n).Bits, value.FromUint64(b, n).Bits)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	return bits[0]
}

func mask(n int) uint64 {
	if n >= 64 {
		return ^uint64(0)
	}
	return (1 << uint(n)) - 1
}

// pairs returns every 4-bit operand pair plus random pairs at the wider
// widths.
func pairs(n int, rng *rand.Rand) [][2]uint64 {
	var out [][2]uint64
	if n == 4 {
		for a := uint64(0); a < 16; a++ {
			for b := uint64(0); b < 16; b++ {
				out = append(out, [2]uint64{a, b})
			}
		}
		return out
	}
	for i := 0; i < 64; i++ {
		out = append(out, [2]uint64{rng.Uint64() & mask(n), rng.Uint64() & mask(n)})
	}
	// Edges.
	out = append(out,
		[2]uint64{0, 0},
		[2]uint64{mask(n), mask(n)},
		[2]uint64{mask(n), 1},
		[2]uint64{1, mask(n)},
	)
	return out
}

func TestAdder(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, n := range []int{4, 8, 16, 32} {
		for _, p := range pairs(n, rng) {
			want := (p[0] + p[1]) & mask(n)
			if got := eval2(t, n, NewAdder, p[0], p[1]); got != want {
				t.Fatalf("n=%d: %d+%d: got %d, want %d", n, p[0], p[1], got, want)
			}
		}
	}
}

func TestSubtractor(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for _, n := range []int{4, 8, 16, 32} {
		for _, p := range pairs(n, rng) {
			want := (p[0] - p[1]) & mask(n)
			if got := eval2(t, n, NewSubtractor, p[0], p[1]); got != want {
				t.Fatalf("n=%d: %d-%d: got %d, want %d", n, p[0], p[1], got, want)
			}
		}
	}
}

func TestMultiplier(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for _, n := range []int{4, 8, 16} {
		for _, p := range pairs(n, rng) {
			want := (p[0] * p[1]) & mask(n)
			if got := eval2(t, n, NewMultiplier, p[0], p[1]); got != want {
				t.Fatalf("n=%d: %d*%d: got %d, want %d", n, p[0], p[1], got, want)
			}
		}
	}
}

func evalDivMod(t *testing.T, n int, a, b uint64) (uint64, uint64) {
	t.Helper()
	cb := NewBuilder()
	x := cb.AllocContrib(n)
	y := cb.AllocEval(n)
	q, r := NewDivider(cb, x, y)
	if len(q) != n || len(r) != n {
		t.Fatalf("divider widths %d/%d, expected %d", len(q), len(r), n)
	}
	out := append(append([]Wire{}, q...), r...)
	circ, err := cb.Finalize(out)
	if err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	bits, err := circ.Compute(value.FromUint64(a, n).Bits, value.FromUint64(b, n).Bits)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	return value.New(bits[:n], n).ToUint64(), value.New(bits[n:], n).ToUint64()
}

func TestDivider(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	for _, n := range []int{4, 8, 16} {
		for _, p := range pairs(n, rng) {
			if p[1] == 0 {
				continue
			}
			q, r := evalDivMod(t, n, p[0], p[1])
			if q != p[0]/p[1] || r != p[0]%p[1] {
				t.Fatalf("n=%d: %d/%d: got q=%d r=%d", n, p[0], p[1], q, r)
			}
			// Division law.
			if (q*p[1]+r)&mask(n) != p[0] || r >= p[1] {
				t.Fatalf("n=%d: division law broken for %d/%d", n, p[0], p[1])
			}
		}
	}

	// 20/3 = 6 rem 2.
	q, r := evalDivMod(t, 8, 20, 3)
	if q != 6 || r != 2 {
		t.Fatalf("20/3: got q=%d r=%d", q, r)
	}
}

func TestDividerByZero(t *testing.T) {
	// Quotient all-ones, remainder the dividend.
	for _, a := range []uint64{0, 1, 20, 255} {
		q, r := evalDivMod(t, 8, a, 0)
		if q != 255 {
			t.Errorf("%d/0: quotient %d, expected 255", a, q)
		}
		if r != a {
			t.Errorf("%d%%0: remainder %d, expected %d", a, r, a)
		}
	}
}

func TestBitwise(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	ops := []struct {
		name   string
		op     synth
		native func(a, b uint64) uint64
	}{
		{"xor", NewBinaryXOR, func(a, b uint64) uint64 { return a ^ b }},
		{"and", NewBinaryAND, func(a, b uint64) uint64 { return a & b }},
		{"or", NewBinaryOR, func(a, b uint64) uint64 { return a | b }},
		{"nand", NewBinaryNAND, func(a, b uint64) uint64 { return ^(a & b) }},
		{"nor", NewBinaryNOR, func(a, b uint64) uint64 { return ^(a | b) }},
		{"xnor", NewBinaryXNOR, func(a, b uint64) uint64 { return ^(a ^ b) }},
		{"clear", NewBinaryClear, func(a, b uint64) uint64 { return a &^ b }},
	}
	for _, op := range ops {
		for _, n := range []int{4, 8, 16} {
			for _, p := range pairs(n, rng) {
				want := op.native(p[0], p[1]) & mask(n)
				if got := eval2(t, n, op.op, p[0], p[1]); got != want {
					t.Fatalf("%s n=%d: (%d, %d): got %d, want %d",
						op.name, n, p[0], p[1], got, want)
				}
			}
		}
	}

	// 170 NAND 85 = 255.
	if got := eval2(t, 8, NewBinaryNAND, 170, 85); got != 255 {
		t.Errorf("170 NAND 85: got %d", got)
	}
}

func TestBinaryNOT(t *testing.T) {
	for _, n := range []int{4, 8, 16} {
		for _, a := range []uint64{0, 1, 5, mask(n)} {
			got := eval2(t, n, func(b *Builder, x, y []Wire) []Wire {
				return NewBinaryNOT(b, x)
			}, a, 0)
			if want := ^a & mask(n); got != want {
				t.Fatalf("n=%d: NOT %d: got %d, want %d", n, a, got, want)
			}
		}
	}
}

func TestNegate(t *testing.T) {
	for _, a := range []uint64{0, 1, 5, 127, 128, 255} {
		got := eval2(t, 8, func(b *Builder, x, y []Wire) []Wire {
			return NewNegate(b, x)
		}, a, 0)
		if want := (-a) & 0xff; got != want {
			t.Fatalf("-%d: got %d, want %d", a, got, want)
		}
	}
}

func TestUnsignedCompare(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	for _, n := range []int{4, 8, 16} {
		for _, p := range pairs(n, rng) {
			a, b := p[0], p[1]
			if got := evalPred(t, n, NewUltComparator, a, b); got != (a < b) {
				t.Fatalf("n=%d: %d<%d: got %v", n, a, b, got)
			}
			if got := evalPred(t, n, NewUleComparator, a, b); got != (a <= b) {
				t.Fatalf("n=%d: %d<=%d: got %v", n, a, b, got)
			}
			if got := evalPred(t, n, NewUgtComparator, a, b); got != (a > b) {
				t.Fatalf("n=%d: %d>%d: got %v", n, a, b, got)
			}
			if got := evalPred(t, n, NewUgeComparator, a, b); got != (a >= b) {
				t.Fatalf("n=%d: %d>=%d: got %v", n, a, b, got)
			}
			if got := evalPred(t, n, NewEqComparator, a, b); got != (a == b) {
				t.Fatalf("n=%d: %d==%d: got %v", n, a, b, got)
			}
			if got := evalPred(t, n, NewNeqComparator, a, b); got != (a != b) {
				t.Fatalf("n=%d: %d!=%d: got %v", n, a, b, got)
			}

			// Comparison totality: exactly one of <, ==, > holds.
			var count int
			for _, v := range []bool{a < b, a == b, a > b} {
				if v {
					count++
				}
			}
			if count != 1 {
				t.Fatalf("totality broken for %d, %d", a, b)
			}
		}
	}
}

func TestSignedCompare(t *testing.T) {
	// Exhaustive over 4-bit two's complement.
	for ua := uint64(0); ua < 16; ua++ {
		for ub := uint64(0); ub < 16; ub++ {
			a := value.FromUint64(ua, 4).ToInt64()
			b := value.FromUint64(ub, 4).ToInt64()
			if got := evalPred(t, 4, NewSltComparator, ua, ub); got != (a < b) {
				t.Fatalf("%d<%d signed: got %v", a, b, got)
			}
			if got := evalPred(t, 4, NewSleComparator, ua, ub); got != (a <= b) {
				t.Fatalf("%d<=%d signed: got %v", a, b, got)
			}
			if got := evalPred(t, 4, NewSgtComparator, ua, ub); got != (a > b) {
				t.Fatalf("%d>%d signed: got %v", a, b, got)
			}
			if got := evalPred(t, 4, NewSgeComparator, ua, ub); got != (a >= b) {
				t.Fatalf("%d>=%d signed: got %v", a, b, got)
			}
		}
	}
}

func TestMux(t *testing.T) {
	for _, cond := range []uint64{0, 1} {
		cb := NewBuilder()
		c := cb.AllocContrib(1)
		tv := cb.AllocContrib(8)
		fv := cb.AllocEval(8)
		out := NewMux(cb, c[0], tv, fv)
		if len(out) != 8 {
			t.Fatalf("mux width %d", len(out))
		}
		circ, err := cb.Finalize(out)
		if err != nil {
			t.Fatalf("Finalize: %v", err)
		}
		contrib := append(value.FromUint64(cond, 1).Bits,
			value.FromUint64(0xa5, 8).Bits...)
		bits, err := circ.Compute(contrib, value.FromUint64(0x3c, 8).Bits)
		if err != nil {
			t.Fatalf("Compute: %v", err)
		}
		got := value.New(bits, 8).ToUint64()
		want := uint64(0x3c)
		if cond == 1 {
			want = 0xa5
		}
		if got != want {
			t.Errorf("mux(%d): got %#x, want %#x", cond, got, want)
		}
	}
}

func TestMuxCost(t *testing.T) {
	// The mux costs exactly 3 gates per bit position.
	cb := NewBuilder()
	c := cb.AllocContrib(1)
	tv := cb.AllocContrib(8)
	fv := cb.AllocEval(8)
	before := len(cb.gates)
	NewMux(cb, c[0], tv, fv)
	if got := len(cb.gates) - before; got != 3*8 {
		t.Errorf("mux cost: %d gates, expected %d", got, 3*8)
	}
}

func TestShifts(t *testing.T) {
	for _, k := range []int{0, 1, 3, 7, 8} {
		a := uint64(0xb7)
		gotL := eval2(t, 8, func(b *Builder, x, y []Wire) []Wire {
			return ShiftLeftConst(b, x, 8, k)
		}, a, 0)
		if want := (a << uint(k)) & 0xff; gotL != want {
			t.Errorf("%d<<%d: got %d, want %d", a, k, gotL, want)
		}
		gotR := eval2(t, 8, func(b *Builder, x, y []Wire) []Wire {
			return ShiftRightConst(b, x, k)
		}, a, 0)
		if want := a >> uint(k); gotR != want {
			t.Errorf("%d>>%d: got %d, want %d", a, k, gotR, want)
		}
	}
}

func TestBitTests(t *testing.T) {
	a := uint64(0b1010)
	for i := 0; i < 4; i++ {
		set := evalPred(t, 4, func(b *Builder, x, y []Wire) Wire {
			return NewBitSetTest(b, x, i)
		}, a, 0)
		if set != (a&(1<<uint(i)) != 0) {
			t.Errorf("bts(%d): got %v", i, set)
		}
		clr := evalPred(t, 4, func(b *Builder, x, y []Wire) Wire {
			return NewBitClrTest(b, x, i)
		}, a, 0)
		if clr != (a&(1<<uint(i)) == 0) {
			t.Errorf("btc(%d): got %v", i, clr)
		}
	}
	// Out-of-range indices fall to constants.
	if evalPred(t, 4, func(b *Builder, x, y []Wire) Wire {
		return NewBitSetTest(b, x, 9)
	}, a, 0) {
		t.Error("bts out of range: expected false")
	}
}

func TestLogical(t *testing.T) {
	for i := 0; i < 4; i++ {
		a := uint64(i & 1)
		b := uint64(i >> 1)
		and := eval2(t, 1, NewLogicalAND, a, b)
		if and != a&b {
			t.Errorf("logical and(%d,%d): got %d", a, b, and)
		}
		or := eval2(t, 1, NewLogicalOR, a, b)
		if or != a|b {
			t.Errorf("logical or(%d,%d): got %d", a, b, or)
		}
	}
}

func TestEmbed(t *testing.T) {
	// Compile a 4-bit adder, then embed it into a larger circuit that
	// negates its result.
	cb := NewBuilder()
	x := cb.AllocContrib(4)
	y := cb.AllocEval(4)
	sum := NewAdder(cb, x, y)
	inner, err := cb.Finalize(sum)
	if err != nil {
		t.Fatalf("Finalize inner: %v", err)
	}

	outer := NewBuilder()
	ox := outer.AllocContrib(4)
	oy := outer.AllocEval(4)
	embedded, err := Embed(outer, inner, [][]Wire{ox, oy})
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	out := NewBinaryNOT(outer, embedded)
	circ, err := outer.Finalize(out)
	if err != nil {
		t.Fatalf("Finalize outer: %v", err)
	}

	bits, err := circ.Compute(value.FromUint64(5, 4).Bits, value.FromUint64(6, 4).Bits)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if got := value.New(bits, 4).ToUint64(); got != (^uint64(11))&0xf {
		t.Errorf("embed: got %d", got)
	}
}

func TestBuilderContract(t *testing.T) {
	expectPanic := func(name string, f func()) {
		defer func() {
			if recover() == nil {
				t.Errorf("%s: expected contract violation", name)
			}
		}()
		f()
	}

	expectPanic("inputs after building", func() {
		cb := NewBuilder()
		x := cb.AllocContrib(2)
		cb.Xor(x[0], x[1])
		cb.AllocEval(2)
	})
	expectPanic("constants without inputs", func() {
		cb := NewBuilder()
		cb.ZeroWire()
	})
	expectPanic("finalize twice", func() {
		cb := NewBuilder()
		x := cb.AllocContrib(1)
		if _, err := cb.Finalize(x); err != nil {
			t.Fatal(err)
		}
		cb.Finalize(x)
	})
}

func TestConstantWiresCached(t *testing.T) {
	cb := NewBuilder()
	cb.AllocContrib(2)
	z1 := cb.ZeroWire()
	o1 := cb.OneWire()
	z2 := cb.ZeroWire()
	o2 := cb.OneWire()
	if z1 != z2 || o1 != o2 {
		t.Error("constant wires not cached")
	}

	circ, err := cb.Finalize([]Wire{z1, o1})
	if err != nil {
		t.Fatal(err)
	}
	out, err := circ.Compute([]bool{true, false}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if out[0] != false || out[1] != true {
		t.Errorf("constants: got %v", out)
	}
}

var benchSink *circuit.Circuit

func BenchmarkMultiplier64(b *testing.B) {
	for i := 0; i < b.N; i++ {
		cb := NewBuilder()
		x := cb.AllocContrib(64)
		y := cb.AllocEval(64)
		out := NewMultiplier(cb, x, y)
		circ, err := cb.Finalize(out)
		if err != nil {
			b.Fatal(err)
		}
		benchSink = circ
	}
}
