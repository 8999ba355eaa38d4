//
// Copyright (c) 2024 gatec authors
//
// All rights reserved.
//

package builder

import (
	"context"
	"fmt"

	"github.com/ppcircuit/gatec/circuit"
	"github.com/ppcircuit/gatec/compiler/ast"
	"github.com/ppcircuit/gatec/compiler/utils"
	"github.com/ppcircuit/gatec/executor"
	"github.com/ppcircuit/gatec/types"
	"github.com/ppcircuit/gatec/value"
)

// A circuit function terminates in one of two modes: Compile returns the
// circuit and its split input bits without touching any executor, for
// callers that ship the circuit to a remote evaluator; Run additionally
// evaluates the circuit and reinterprets the output bits as the declared
// return type.

// Func is one circuit function: a signature plus an expression body.
// Parameter order fixes the two-party input split (first parameter
// contributor, second evaluator, the rest contributor).
type Func struct {
	Name   string
	Params []Param
	Ret    types.Info
	Body   ast.Expr
}

// Compiled is Compile's result: the finished circuit together with
// the argument bits already split into the two party halves, ready to
// hand to a remote evaluator.
type Compiled struct {
	Circuit *circuit.Circuit
	Contrib []bool
	Eval    []bool
}

// Compile lowers fn against the given arguments and finalizes the
// circuit. Contract violations inside the lowering abort with an *Error
// panic; Compile converts them to a returned error so callers get the
// descriptive message without the process dying.
func Compile(params *utils.Params, fn *Func, args []value.Value) (res *Compiled, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(*Error); ok {
				res = nil
				err = e
				return
			}
			panic(r)
		}
	}()

	b := New(params)
	b.BindArgs(fn.Params, args)
	out, ot := b.Lower(fn.Body)
	if fn.Ret.Bits != 0 && len(out) != fn.Ret.Bits {
		return nil, errf(fn.Body.Loc(), KindContractViolation,
			"%s: result is %s, declared return type %s", fn.Name, ot, fn.Ret)
	}
	circ, err := b.Finalize(out)
	if err != nil {
		return nil, err
	}
	if b.params.Verbose {
		fmt.Printf("%s: %s\n", fn.Name, circ)
	}
	if err := writeSinks(b.params, circ); err != nil {
		return nil, err
	}
	contrib, eval := b.InputBits()
	return &Compiled{Circuit: circ, Contrib: contrib, Eval: eval}, nil
}

// writeSinks dumps the finished circuit to the configured output sinks.
func writeSinks(params *utils.Params, circ *circuit.Circuit) error {
	if params.CircOut != nil {
		switch params.CircFormat {
		case "", "binary":
			if err := circ.Marshal(params.CircOut); err != nil {
				return err
			}
		case "text":
			if err := circ.MarshalText(params.CircOut); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown circuit format %q", params.CircFormat)
		}
	}
	if params.CircDotOut != nil {
		if err := circ.MarshalDot(params.CircDotOut); err != nil {
			return err
		}
	}
	return nil
}

// Run compiles fn and evaluates it through exec, reinterpreting the
// output bits as fn's declared return type. An executor failure
// propagates out unchanged, never retried or swallowed.
func Run(ctx context.Context, params *utils.Params, fn *Func,
	exec executor.Executor, args []value.Value) (value.Value, error) {

	res, err := Compile(params, fn, args)
	if err != nil {
		return value.Value{}, err
	}
	out, err := exec.Execute(ctx, res.Circuit, res.Contrib, res.Eval)
	if err != nil {
		return value.Value{}, err
	}
	return value.New(out, len(res.Circuit.Outputs)), nil
}
