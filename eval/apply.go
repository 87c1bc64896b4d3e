package eval

import (
	"github.com/musil-lang/musil/env"
	"github.com/musil-lang/musil/value"
)

// applyTail applies fn to args (already in their final form: evaluated
// for a Lambda/Op call, raw for a Macro call) and reports how the caller's
// trampoline should proceed. When cont is true, node/fr replace the
// caller's (node, env) pair for the next loop iteration — this is how a
// lambda or macro body's tail expression avoids growing the stack.
// callerFr is the environment Ops see; it is NOT the frame a Lambda or
// Macro body runs in, which is always built from the closure's captured
// env instead.
func (ev *Evaluator) applyTail(callerFr *env.Frame, fn *value.Value, args []*value.Value) (cont bool, node *value.Value, fr *env.Frame, result *value.Value) {
	switch fn.Kind {
	case value.Lambda, value.Macro:
		return ev.applyClosure(fn, args)
	case value.Op:
		return ev.applyOp(callerFr, fn, args)
	default:
		ev.fail("not callable: %s", value.Write(fn))
		return false, nil, nil, nil
	}
}

func (ev *Evaluator) applyClosure(fn *value.Value, args []*value.Value) (cont bool, node *value.Value, fr *env.Frame, result *value.Value) {
	closure := fn.Closure()
	params := closure.Params
	captured, _ := closure.Env.(*env.Frame)

	switch {
	case len(args) > len(params):
		ev.fail("too many arguments: %s expects at most %d, got %d", value.Write(fn), len(params), len(args))
	case len(args) < len(params):
		bound := env.New(captured)
		bindParams(bound, params[:len(args)], args)
		partial := value.NewClosure(fn.Kind, params[len(args):], closure.Body, bound)
		return false, nil, nil, partial
	}

	callFr := env.New(captured)
	bindParams(callFr, params, args)

	body := closure.Body
	for _, expr := range body[:len(body)-1] {
		ev.eval(callFr, expr)
	}
	last := body[len(body)-1]

	if fn.Kind == value.Lambda {
		return true, last, callFr, nil
	}

	// Macro: the body's last expression is evaluated once, here, to
	// produce a new form; that form is what the trampoline re-dispatches
	// in the same macro frame (§4.3 "evaluated again in the same macro
	// env").
	expanded := ev.eval(callFr, last)
	return true, expanded, callFr, nil
}

func bindParams(fr *env.Frame, params []*value.Value, args []*value.Value) {
	for i, p := range params {
		fr.Define(p.Symbol(), args[i])
	}
}

func (ev *Evaluator) applyOp(callerFr *env.Frame, op *value.Value, args []*value.Value) (cont bool, node *value.Value, fr *env.Frame, result *value.Value) {
	builtin := op.Builtin()
	if len(args) < builtin.MinArgs {
		ev.fail("arity error: %s expects at least %d argument(s), got %d", builtin.Name, builtin.MinArgs, len(args))
	}

	fn, ok := builtin.Fn.(OpFunc)
	if !ok {
		ev.fail("op %s has no implementation", builtin.Name)
	}

	return false, nil, nil, fn(args, callerFr)
}
