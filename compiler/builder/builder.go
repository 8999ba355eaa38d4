//
// Copyright (c) 2024 gatec authors
//
// All rights reserved.
//

// Package builder is the compiler's stateful front end: it walks a
// compiler/ast.Expr tree, allocates parameter input wires, and lowers
// every expression node into circuits.Builder gate calls.
//
// The lowering table has one case per ast.BinOp/UnOp, each calling
// straight into the matching circuits.NewXxx synthesizer. If/else is the
// one interesting case: both branches are lowered unconditionally and
// combined with circuits.NewMux, so gate count never depends on the
// runtime value of the condition.
package builder

import (
	"fmt"

	"github.com/ppcircuit/gatec/circuit"
	"github.com/ppcircuit/gatec/circuits"
	"github.com/ppcircuit/gatec/compiler/ast"
	"github.com/ppcircuit/gatec/compiler/mpa"
	"github.com/ppcircuit/gatec/compiler/utils"
	"github.com/ppcircuit/gatec/types"
	"github.com/ppcircuit/gatec/value"
)

// Kind classifies a builder Error.
type Kind int

// The three error kinds.
const (
	KindContractViolation Kind = iota
	KindUnsupported
	KindExecutor
)

func (k Kind) String() string {
	switch k {
	case KindContractViolation:
		return "contract violation"
	case KindUnsupported:
		return "unsupported"
	case KindExecutor:
		return "executor"
	default:
		return "unknown"
	}
}

// Error is the error type every builder failure is wrapped in, carrying
// the source Point of the offending expression.
type Error struct {
	Loc  utils.Point
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Loc, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func errf(loc utils.Point, kind Kind, format string, args ...interface{}) *Error {
	return &Error{Loc: loc, Kind: kind, Err: fmt.Errorf(format, args...)}
}

// contract panics: a width mismatch or use of an unbound name is a
// programmer error, not a recoverable one. Compile converts the panic to
// a returned error at the entry point.
func contract(loc utils.Point, format string, args ...interface{}) {
	panic(errf(loc, KindContractViolation, format, args...))
}

type binding struct {
	wires []circuits.Wire
	typ   types.Info
}

// Param describes one formal parameter of the function being compiled.
type Param struct {
	Name string
	Type types.Info
}

// Builder lowers one function body into a single circuit.Circuit.
type Builder struct {
	params *utils.Params
	cb     *circuits.Builder
	scopes []map[string]binding
	nextIn int // number of parameters bound so far, for the input-party split

	// Aggregated concrete input bits, recorded while parameters are bound
	// so finalization can emit the (Circuit, input bits) pair without
	// re-walking the AST.
	contrib []bool
	eval    []bool
}

// New creates a Builder using the given compile-time parameters.
func New(params *utils.Params) *Builder {
	if params == nil {
		params = utils.NewParams()
	}
	return &Builder{
		params: params,
		cb:     circuits.NewBuilder(),
		scopes: []map[string]binding{make(map[string]binding)},
	}
}

func (b *Builder) push() { b.scopes = append(b.scopes, make(map[string]binding)) }
func (b *Builder) pop()  { b.scopes = b.scopes[:len(b.scopes)-1] }

func (b *Builder) bind(name string, wires []circuits.Wire, typ types.Info) {
	b.scopes[len(b.scopes)-1][name] = binding{wires: wires, typ: typ}
}

func (b *Builder) lookup(loc utils.Point, name string) binding {
	for i := len(b.scopes) - 1; i >= 0; i-- {
		if bd, ok := b.scopes[i][name]; ok {
			return bd
		}
	}
	contract(loc, "unbound variable %q", name)
	panic("unreachable")
}

// BindParams allocates input wires for every formal parameter in order:
// the first parameter becomes InContrib, the second InEval, and any
// parameter after that falls back to InContrib.
func (b *Builder) BindParams(params []Param) {
	b.BindArgs(params, nil)
}

// BindArgs is BindParams plus concrete argument values: each argument's
// bits are appended to the builder's contributor or evaluator input
// vector according to the same positional party split. A nil args binds
// parameters with all-zero input bits.
func (b *Builder) BindArgs(params []Param, args []value.Value) {
	if args != nil && len(args) != len(params) {
		contract(utils.Point{}, "expected %d arguments, got %d",
			len(params), len(args))
	}
	var evalParam *Param
	var evalBits []bool
	for i, p := range params {
		if p.Type.Bits <= 0 || p.Type.Bits > b.params.MaxWireBits {
			contract(utils.Point{}, "parameter %q: unsupported width %d",
				p.Name, p.Type.Bits)
		}
		bits := make([]bool, p.Type.Bits)
		if args != nil {
			if args[i].Width() != p.Type.Bits {
				contract(utils.Point{},
					"argument %d: width mismatch: parameter %s, argument %d bits",
					i, p.Type, args[i].Width())
			}
			copy(bits, args[i].Bits)
		}
		if b.nextIn == 1 {
			// Allocated after the loop: every InContrib gate must
			// precede every InEval gate in the gate list.
			evalParam, evalBits = &params[i], bits
		} else {
			wires := b.cb.AllocContrib(p.Type.Bits)
			b.contrib = append(b.contrib, bits...)
			b.bind(p.Name, wires, p.Type)
		}
		b.nextIn++
	}
	if evalParam != nil {
		wires := b.cb.AllocEval(evalParam.Type.Bits)
		b.eval = append(b.eval, evalBits...)
		b.bind(evalParam.Name, wires, evalParam.Type)
	}
}

// InputBits returns the contributor and evaluator input bit vectors
// aggregated by BindArgs.
func (b *Builder) InputBits() (contrib, eval []bool) {
	return b.contrib, b.eval
}

// constWires materializes a constant bit pattern as wires built from the
// circuit's cached zero/one constant wires.
func (b *Builder) constWires(bits []bool) []circuits.Wire {
	out := make([]circuits.Wire, len(bits))
	for i, bit := range bits {
		if bit {
			out[i] = b.cb.OneWire()
		} else {
			out[i] = b.cb.ZeroWire()
		}
	}
	return out
}

// Lower walks one expression node and returns its wires plus its result
// type.
func (b *Builder) Lower(e ast.Expr) ([]circuits.Wire, types.Info) {
	switch n := e.(type) {
	case *ast.Lit:
		ti := types.UintN(n.Bits)
		if n.Signed {
			ti = types.IntN(n.Bits)
		}
		v := make([]bool, n.Bits)
		for i := 0; i < n.Bits; i++ {
			v[i] = (n.Value>>uint(i))&1 == 1
		}
		return b.constWires(v), ti

	case *ast.Ref:
		bd := b.lookup(n.Loc(), n.Name)
		return bd.wires, bd.typ

	case *ast.Let:
		vw, vt := b.Lower(n.Value)
		b.push()
		b.bind(n.Name, vw, vt)
		rw, rt := b.Lower(n.Body)
		b.pop()
		return rw, rt

	case *ast.Assign:
		return b.lowerAssign(n)

	case *ast.Block:
		if len(n.List) == 0 {
			contract(n.Loc(), "empty block")
		}
		var rw []circuits.Wire
		var rt types.Info
		for _, e := range n.List {
			rw, rt = b.Lower(e)
		}
		return rw, rt

	case *ast.Native:
		return b.lowerNative(n)

	case *ast.If:
		cw, ct := b.Lower(n.Cond)
		if ct.Bits != 1 {
			contract(n.Loc(), "if condition must be 1 bit, got %d", ct.Bits)
		}
		tw, tt := b.Lower(n.Then)
		fw, _ := b.Lower(n.Else)
		out := circuits.NewMux(b.cb, cw[0], tw, fw)
		return out, tt

	case *ast.Shift:
		xw, xt := b.Lower(n.X)
		if n.Left {
			return circuits.ShiftLeftConst(b.cb, xw, len(xw), n.Count), xt
		}
		if xt.Signed() {
			contract(n.Loc(), "arithmetic right shift is not supported")
		}
		return circuits.ShiftRightConst(b.cb, xw, n.Count), xt

	case *ast.BitTest:
		xw, _ := b.Lower(n.X)
		var w circuits.Wire
		if n.Clear {
			w = circuits.NewBitClrTest(b.cb, xw, n.Index)
		} else {
			w = circuits.NewBitSetTest(b.cb, xw, n.Index)
		}
		return []circuits.Wire{w}, types.BoolType

	case *ast.Unary:
		return b.lowerUnary(n)

	case *ast.Binary:
		return b.lowerBinary(n)

	case *ast.Escape:
		return b.lowerEscape(n)

	default:
		contract(e.Loc(), "unsupported expression node %T", e)
		panic("unreachable")
	}
}

// lowerAssign rebinds an existing name, in the scope where it was bound.
// Compound assignment (`a op= b`) is sugar for `a = a op b` against the
// same binding name.
func (b *Builder) lowerAssign(n *ast.Assign) ([]circuits.Wire, types.Info) {
	rhs := n.Value
	if n.Op != nil {
		rhs = &ast.Binary{Op: *n.Op, X: &ast.Ref{Name: n.Name}, Y: n.Value}
	}
	vw, vt := b.Lower(rhs)
	for i := len(b.scopes) - 1; i >= 0; i-- {
		if _, ok := b.scopes[i][n.Name]; ok {
			b.scopes[i][n.Name] = binding{wires: vw, typ: vt}
			return vw, vt
		}
	}
	contract(n.Loc(), "assignment to unbound variable %q", n.Name)
	panic("unreachable")
}

// lowerNative splices a previously-compiled circuit into the gate list
// (the `native` builtin): argument wires are zero-padded onto the
// embedded circuit's input wires and its gates are replayed through
// circuits.Embed.
func (b *Builder) lowerNative(n *ast.Native) ([]circuits.Wire, types.Info) {
	if n.Circ == nil {
		contract(n.Loc(), "native: no circuit")
	}
	if len(n.Args) != 2 {
		contract(n.Loc(), "native: embedded circuits take 2 arguments, got %d",
			len(n.Args))
	}
	inputs := make([][]circuits.Wire, len(n.Args))
	for i, a := range n.Args {
		inputs[i], _ = b.Lower(a)
	}
	out, err := circuits.Embed(b.cb, n.Circ, inputs)
	if err != nil {
		contract(n.Loc(), "native: %v", err)
	}
	return out, types.UintN(len(out))
}

func (b *Builder) lowerUnary(n *ast.Unary) ([]circuits.Wire, types.Info) {
	xw, xt := b.Lower(n.X)
	switch n.Op {
	case ast.Not:
		return circuits.NewBinaryNOT(b.cb, xw), xt
	case ast.Neg:
		return circuits.NewNegate(b.cb, xw), xt
	case ast.BoolNot:
		return []circuits.Wire{b.cb.Not(xw[0])}, types.BoolType
	default:
		contract(n.Loc(), "unsupported unary op %v", n.Op)
		panic("unreachable")
	}
}

// widenConst sign- or zero-extends a constant operand's wires to n bits.
// The fill wire is the operand's own sign wire for signed constants and
// the cached zero wire otherwise; for a constant both are compile-time
// known, so no data-dependent gates are introduced.
func (b *Builder) widenConst(w []circuits.Wire, t types.Info, n int) []circuits.Wire {
	out := make([]circuits.Wire, n)
	copy(out, w)
	fill := b.cb.ZeroWire()
	if t.Signed() && len(w) > 0 {
		fill = w[len(w)-1]
	}
	for i := len(w); i < n; i++ {
		out[i] = fill
	}
	return out
}

func (b *Builder) lowerBinary(n *ast.Binary) ([]circuits.Wire, types.Info) {
	xw, xt := b.Lower(n.X)
	yw, yt := b.Lower(n.Y)
	signed := xt.Signed() || yt.Signed()
	resultType := xt
	if len(yw) > len(xw) {
		resultType = yt
	}

	// Operands must agree on width. The one exception is a mixed-width
	// constant, which widens to the other operand; anything else requires
	// explicit widening by the caller and aborts before any operator
	// gates are emitted.
	if len(xw) != len(yw) {
		_, xConst := ast.Eval(n.X)
		_, yConst := ast.Eval(n.Y)
		switch {
		case len(xw) < len(yw) && xConst:
			xw = b.widenConst(xw, xt, len(yw))
		case len(yw) < len(xw) && yConst:
			yw = b.widenConst(yw, yt, len(xw))
		default:
			contract(n.Loc(), "width mismatch: %s vs %s", xt, yt)
		}
	}

	switch n.Op {
	case ast.Add:
		return circuits.NewAdder(b.cb, xw, yw), resultType
	case ast.Sub:
		return circuits.NewSubtractor(b.cb, xw, yw), resultType
	case ast.Mul:
		return circuits.NewMultiplier(b.cb, xw, yw), resultType
	case ast.Div:
		q, _ := circuits.NewDivider(b.cb, xw, yw)
		return q, resultType
	case ast.Mod:
		_, r := circuits.NewDivider(b.cb, xw, yw)
		return r, resultType
	case ast.And:
		return circuits.NewBinaryAND(b.cb, xw, yw), resultType
	case ast.Or:
		return circuits.NewBinaryOR(b.cb, xw, yw), resultType
	case ast.Xor:
		return circuits.NewBinaryXOR(b.cb, xw, yw), resultType
	case ast.Clear:
		return circuits.NewBinaryClear(b.cb, xw, yw), resultType
	case ast.Nand:
		return circuits.NewBinaryNAND(b.cb, xw, yw), resultType
	case ast.Nor:
		return circuits.NewBinaryNOR(b.cb, xw, yw), resultType
	case ast.Xnor:
		return circuits.NewBinaryXNOR(b.cb, xw, yw), resultType
	case ast.Eq:
		return []circuits.Wire{circuits.NewEqComparator(b.cb, xw, yw)}, types.BoolType
	case ast.Neq:
		return []circuits.Wire{circuits.NewNeqComparator(b.cb, xw, yw)}, types.BoolType
	case ast.Lt:
		return []circuits.Wire{signedOrUnsigned(b.cb, signed, xw, yw, circuits.NewSltComparator, circuits.NewUltComparator)}, types.BoolType
	case ast.Le:
		return []circuits.Wire{signedOrUnsigned(b.cb, signed, xw, yw, circuits.NewSleComparator, circuits.NewUleComparator)}, types.BoolType
	case ast.Gt:
		return []circuits.Wire{signedOrUnsigned(b.cb, signed, xw, yw, circuits.NewSgtComparator, circuits.NewUgtComparator)}, types.BoolType
	case ast.Ge:
		return []circuits.Wire{signedOrUnsigned(b.cb, signed, xw, yw, circuits.NewSgeComparator, circuits.NewUgeComparator)}, types.BoolType
	case ast.LogAnd:
		return circuits.NewLogicalAND(b.cb, xw, yw), types.BoolType
	case ast.LogOr:
		return circuits.NewLogicalOR(b.cb, xw, yw), types.BoolType
	default:
		contract(n.Loc(), "unsupported binary op %v", n.Op)
		panic("unreachable")
	}
}

type comparator func(b *circuits.Builder, x, y []circuits.Wire) circuits.Wire

func signedOrUnsigned(b *circuits.Builder, signed bool, x, y []circuits.Wire, s, u comparator) circuits.Wire {
	if signed {
		return s(b, x, y)
	}
	return u(b, x, y)
}

// lowerEscape evaluates a context.xxx call at compile time: every
// argument must itself reduce to a constant. The result substitutes a
// constant bit pattern, so no gates are emitted for the call itself.
func (b *Builder) lowerEscape(n *ast.Escape) ([]circuits.Wire, types.Info) {
	builtin, ok := ast.LookupBuiltin(n.Name)
	if !ok {
		contract(n.Loc(), "unknown context builtin %q", n.Name)
	}
	if builtin.Args >= 0 && len(n.Args) != builtin.Args {
		contract(n.Loc(), "context.%s expects %d arguments, got %d",
			n.Name, builtin.Args, len(n.Args))
	}

	// size(x) is a compile-time width query on a bound name.
	if n.Name == "size" {
		ref, ok := n.Args[0].(*ast.Ref)
		if !ok {
			contract(n.Args[0].Loc(), "size(%T) is not a variable", n.Args[0])
		}
		bd := b.lookup(n.Loc(), ref.Name)
		return b.lowerConstInt(uint64(bd.typ.Bits), 64)
	}

	x := b.evalConst(n.Args[0])
	y := b.evalConst(n.Args[1])

	var z *mpa.Int
	switch n.Name {
	case "add":
		z = new(mpa.Int).Add(x, y)
	case "sub":
		z = new(mpa.Int).Sub(x, y)
	case "mul":
		z = new(mpa.Int).Mul(x, y)
	case "div":
		z = new(mpa.Int).Div(x, y)
	case "mod":
		z = new(mpa.Int).Mod(x, y)
	default:
		contract(n.Loc(), "context builtin %q is not constant arithmetic", n.Name)
	}

	v := z.ToValue()
	ti := types.UintN(v.Width())
	bits := make([]bool, v.Width())
	for i := 0; i < v.Width(); i++ {
		bits[i] = v.Bit(i)
	}
	return b.constWires(bits), ti
}

func (b *Builder) lowerConstInt(val uint64, width int) ([]circuits.Wire, types.Info) {
	bits := make([]bool, width)
	for i := 0; i < width; i++ {
		bits[i] = (val>>uint(i))&1 == 1
	}
	return b.constWires(bits), types.UintN(width)
}

// evalConst reduces a constant-only expression to an mpa.Int without
// emitting any gates.
func (b *Builder) evalConst(e ast.Expr) *mpa.Int {
	z, ok := ast.Eval(e)
	if !ok {
		contract(e.Loc(), "context.xxx arguments must be compile-time constants")
	}
	return z
}

// Finalize binds outputs and produces the finished circuit (Builder moves
// to its Finalized state; see circuits.Builder.Finalize).
func (b *Builder) Finalize(outputs []circuits.Wire) (*circuit.Circuit, error) {
	return b.cb.Finalize(outputs)
}
