package eval

import (
	"log"
	"time"

	"github.com/musil-lang/musil/env"
	"github.com/musil-lang/musil/value"
)

// specialNames are the head symbols resolved to sentinel Ops by
// RegisterSpecialForms. The evaluator never compares against this map at
// dispatch time — only at registration — since special forms are
// identified by the resolved Op's identity (§9), not by re-parsing a name.
var specialNames = map[string]value.SpecialForm{
	"quote":    value.Quote,
	"def":      value.Def,
	"=":        value.Assign,
	`\`:        value.MakeLambda,
	"macro":    value.MakeMacro,
	"if":       value.If,
	"while":    value.While,
	"begin":    value.Begin,
	"eval":     value.EvalForm,
	"apply":    value.Apply,
	"schedule": value.Schedule,
}

// RegisterSpecialForms binds every special-form name in fr to its
// sentinel Op. MakeEnv calls this before installing any built-in; a later
// definition under one of these names replaces the sentinel, since
// Define overwrites an existing binding.
func RegisterSpecialForms(fr *env.Frame) {
	for name, tag := range specialNames {
		fr.Define(name, value.NewSpecialOp(name, tag))
	}
}

// dispatchSpecial implements the special forms of §4.3. args are the
// raw, unevaluated forms following the operator — none of the pre-eval
// that an ordinary call performs has happened yet, since each special
// form decides for itself which of its operands (if any) to evaluate.
func (ev *Evaluator) dispatchSpecial(fr *env.Frame, tag value.SpecialForm, args []*value.Value) (cont bool, node *value.Value, nextFr *env.Frame, result *value.Value) {
	switch tag {
	case value.Quote:
		ev.requireArgs("quote", args, 1)
		return false, nil, nil, args[0]

	case value.Def:
		ev.requireArgs("def", args, 2)
		sym := ev.symbolArg("def", args[0])
		val := ev.eval(fr, args[1])
		fr.Define(sym, val)
		return false, nil, nil, val

	case value.Assign:
		ev.requireArgs("=", args, 2)
		sym := ev.symbolArg("=", args[0])
		val := ev.eval(fr, args[1])
		if !fr.Assign(sym, val) {
			ev.fail("unbound identifier: %s", sym)
		}
		return false, nil, nil, val

	case value.MakeLambda:
		return false, nil, nil, ev.makeClosure(value.Lambda, fr, args)

	case value.MakeMacro:
		return false, nil, nil, ev.makeClosure(value.Macro, fr, args)

	case value.If:
		if len(args) != 2 && len(args) != 3 {
			ev.fail("if expects 2 or 3 arguments, got %d", len(args))
		}
		test := ev.eval(fr, args[0])
		if test.Kind != value.Array {
			ev.fail(typeError(value.Array, test))
		}
		if test.Bool() {
			return true, args[1], fr, nil
		}
		if len(args) == 3 {
			return true, args[2], fr, nil
		}
		return false, nil, nil, value.Nil

	case value.While:
		ev.requireArgs("while", args, 2)
		test, body := args[0], args[1]
		last := value.Nil
		for {
			t := ev.eval(fr, test)
			if t.Kind != value.Array {
				ev.fail(typeError(value.Array, t))
			}
			if !t.Bool() {
				break
			}
			last = ev.eval(fr, body)
		}
		return false, nil, nil, last

	case value.Begin:
		if len(args) == 0 {
			return false, nil, nil, value.Nil
		}
		for _, expr := range args[:len(args)-1] {
			ev.eval(fr, expr)
		}
		return true, args[len(args)-1], fr, nil

	case value.EvalForm:
		ev.requireArgs("eval", args, 1)
		form := ev.eval(fr, args[0])
		return true, form, fr, nil

	case value.Apply:
		ev.requireArgs("apply", args, 2)
		fn := ev.eval(fr, args[0])
		argList := ev.eval(fr, args[1])
		if argList.Kind != value.List {
			ev.fail(typeError(value.List, argList))
		}
		return ev.applyTail(fr, fn, argList.List())

	case value.Schedule:
		return ev.dispatchSchedule(fr, args)

	default:
		ev.fail("unrecognized special form")
		return false, nil, nil, nil
	}
}

func (ev *Evaluator) requireArgs(name string, args []*value.Value, n int) {
	if len(args) != n {
		ev.fail("%s expects %d argument(s), got %d", name, n, len(args))
	}
}

func (ev *Evaluator) symbolArg(form string, v *value.Value) string {
	if v.Kind != value.Symbol {
		ev.fail("%s: expected symbol, got %s", form, v.Kind)
	}
	return v.Symbol()
}

func (ev *Evaluator) makeClosure(kind value.Kind, fr *env.Frame, args []*value.Value) *value.Value {
	name := "\\"
	if kind == value.Macro {
		name = "macro"
	}
	if len(args) < 2 {
		ev.fail("%s expects a parameter list and at least one body expression", name)
	}
	paramsForm := args[0]
	if paramsForm.Kind != value.List {
		ev.fail(typeError(value.List, paramsForm))
	}
	for _, p := range paramsForm.List() {
		if p.Kind != value.Symbol {
			ev.fail("%s: parameter list must contain only symbols, got %s", name, p.Kind)
		}
	}
	return value.NewClosure(kind, paramsForm.List(), args[1:], fr)
}

func (ev *Evaluator) dispatchSchedule(fr *env.Frame, args []*value.Value) (cont bool, node *value.Value, nextFr *env.Frame, result *value.Value) {
	ev.requireArgs("schedule", args, 3)
	task := args[0]

	delayVal := ev.eval(fr, args[1])
	if delayVal.Kind != value.Array {
		ev.fail(typeError(value.Array, delayVal))
	}
	asyncVal := ev.eval(fr, args[2])
	if asyncVal.Kind != value.Array {
		ev.fail(typeError(value.Array, asyncVal))
	}

	delay := time.Duration(delayVal.Floats()[0] * float64(time.Millisecond))

	if asyncVal.Bool() {
		limits := ev.limits
		scheduler := ev.scheduler()
		scheduler.Enqueue(delay, func() {
			sub := NewEvaluator(limits, scheduler)
			if _, err := sub.Eval(fr, task); err != nil {
				log.Printf("musil: scheduled task failed: %v", err)
			}
		})
		return false, nil, nil, value.NewScalar(1)
	}

	time.Sleep(delay)
	ev.eval(fr, task)
	return false, nil, nil, value.NewScalar(1)
}
