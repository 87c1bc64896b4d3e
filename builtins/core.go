// Package builtins implements the core operation registry (§4.5): list,
// array, string, and I/O primitives, installed into a fresh root frame by
// MakeEnv. It is grounded throughout on the teacher's builtin command
// table (grammar.go's method/builtin registration, simple.go/complex.go's
// individual command implementations), adapted from oh's Cell-based
// argument list to musil's []*value.Value slice.
package builtins

import (
	"github.com/musil-lang/musil/env"
	"github.com/musil-lang/musil/eval"
	"github.com/musil-lang/musil/value"
)

// opEnv implements `env` (§4.5): with no argument, the symbols defined
// directly in the current frame; with the symbol `full`, every frame in
// the chain, outermost first, each rendered as the list of its own names.
func opEnv(args []*value.Value, fr *env.Frame) *value.Value {
	if len(args) == 0 {
		return namesOf(fr)
	}
	if args[0].Kind == value.Symbol && args[0].Symbol() == "full" {
		var chain []*value.Value
		for f := fr; f != nil; f = f.Parent() {
			chain = append([]*value.Value{namesOf(f)}, chain...)
		}
		return value.NewList(chain)
	}
	return namesOf(fr)
}

func namesOf(fr *env.Frame) *value.Value {
	names := fr.Names()
	out := make([]*value.Value, len(names))
	for i, n := range names {
		out[i] = value.NewSymbol(n)
	}
	return value.NewList(out)
}

// opType implements `type` (§4.5): the tag name of its one argument.
func opType(args []*value.Value, fr *env.Frame) *value.Value {
	return value.NewSymbol(args[0].Kind.String())
}

// opList implements `list` (§4.5): wrap args into a List, verbatim.
func opList(args []*value.Value, fr *env.Frame) *value.Value {
	elems := make([]*value.Value, len(args))
	copy(elems, args)
	return value.NewList(elems)
}

// opEqual implements `==` (§4.3's equality contract, exposed as an op).
func opEqual(args []*value.Value, fr *env.Frame) *value.Value {
	if value.Equal(args[0], args[1]) {
		return value.NewScalar(1)
	}
	return value.NewScalar(0)
}

func registerCore(fr *env.Frame) {
	eval.RegisterOp(fr, "env", opEnv, 0)
	eval.RegisterOp(fr, "type", opType, 1)
	eval.RegisterOp(fr, "list", opList, 0)
	eval.RegisterOp(fr, "==", opEqual, 2)
}
