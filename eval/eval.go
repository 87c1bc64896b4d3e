// Package eval implements the evaluator: the dispatch loop, special-form
// handling, closure/macro application, and the tail-call trampoline
// (§4.3). It is grounded in the teacher's Task.Run register machine
// (task.go) for its overall shape — a loop that repeatedly inspects and
// rewrites its own state rather than recursing for every step — adapted
// from oh's explicit continuation stack to a plain (node, env) pair
// rewritten in place, since musil's tail-call contract only needs to
// avoid stack growth on tail position, not model an arbitrary resumable
// continuation.
package eval

import (
	"fmt"
	"sync"

	"github.com/musil-lang/musil/env"
	"github.com/musil-lang/musil/sched"
	"github.com/musil-lang/musil/value"
)

// OpFunc is the signature every built-in primitive implements; it is also
// the embedding interface (§6) extensions such as a future scientific
// package register against via RegisterOp.
type OpFunc func(args []*value.Value, fr *env.Frame) *value.Value

// RegisterOp defines name in fr as an ordinary callable Op. minArgs is
// enforced before fn is ever invoked.
func RegisterOp(fr *env.Frame, name string, fn OpFunc, minArgs int) {
	fr.Define(name, value.NewOp(name, minArgs, fn))
}

// Evaluator carries the per-activation call stack used for diagnostics
// (§4.3, §9: "a thread-local vector, pushed on eval entry and popped on
// every exit path"). Go has no goroutine-local storage, so each top-level
// Eval call (REPL form, load form, scheduled task) gets its own
// Evaluator; nothing about it may be shared across goroutines.
type Evaluator struct {
	limits Limits
	stack  []*value.Value
	sched  *sched.Scheduler
}

// NewEvaluator constructs an Evaluator with the given stack-depth limit
// and scheduler. scheduler may be nil; the first special form that
// actually needs one (schedule with async=true) falls back to a
// lazily-created, process-wide default so that unrelated callers never
// pay for a worker goroutine they never use.
func NewEvaluator(limits Limits, scheduler *sched.Scheduler) *Evaluator {
	return &Evaluator{limits: limits, sched: scheduler}
}

// Eval evaluates node in fr using a fresh Evaluator with default limits,
// and is the one catch site (§7) that turns any panic — an *Error from
// fail, or anything else a primitive might let escape — into a returned
// error instead of letting it cross into caller code.
func Eval(fr *env.Frame, node *value.Value) (result *value.Value, err *Error) {
	return NewEvaluator(DefaultLimits(), nil).Eval(fr, node)
}

var (
	defaultSchedOnce sync.Once
	defaultSched     *sched.Scheduler
)

// defaultScheduler lazily starts the process-wide scheduler used by any
// Evaluator that was not explicitly given one of its own.
func defaultScheduler() *sched.Scheduler {
	defaultSchedOnce.Do(func() {
		defaultSched = sched.New(sched.DefaultOptions())
	})
	return defaultSched
}

func (ev *Evaluator) scheduler() *sched.Scheduler {
	if ev.sched == nil {
		ev.sched = defaultScheduler()
	}
	return ev.sched
}

// Eval is the catching entry point for an Evaluator that a caller wants
// to reuse across several top-level forms so that stack bookkeeping does
// not get reallocated every time.
func (ev *Evaluator) Eval(fr *env.Frame, node *value.Value) (result *value.Value, err *Error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if e, ok := r.(*Error); ok {
			if len(e.Stack) == 0 {
				e.Stack = ev.snapshot()
			}
			err = e
			return
		}
		err = &Error{Message: fmt.Sprintf("%v", r), Stack: ev.snapshot()}
	}()
	result = ev.eval(fr, node)
	return result, nil
}

// fail raises a uniform *Error, snapshotting the stack as it stands at
// the moment of the call (before any deferred pop has a chance to run).
func (ev *Evaluator) fail(format string, args ...any) {
	panic(&Error{Message: fmt.Sprintf(format, args...), Stack: ev.snapshot()})
}

func (ev *Evaluator) snapshot() []*value.Value {
	out := make([]*value.Value, len(ev.stack))
	copy(out, ev.stack)
	return out
}

func (ev *Evaluator) push(node *value.Value) {
	if len(ev.stack) >= ev.limits.MaxStackDepth {
		panic(&Error{Message: "recursion too deep", Stack: ev.snapshot()})
	}
	ev.stack = append(ev.stack, node)
}

func (ev *Evaluator) pop() {
	ev.stack = ev.stack[:len(ev.stack)-1]
}

// eval is the trampoline. One call is one "activation": node/fr are
// rewritten in place for every tail-position step, so a tail call never
// grows ev.stack or the Go call stack. Stepping into a non-tail
// sub-expression (an argument, a test, a non-last body form) recurses
// into eval, which pushes one frame for the duration of that
// sub-evaluation and pops it via defer on every exit, panic included.
func (ev *Evaluator) eval(fr *env.Frame, node *value.Value) *value.Value {
	ev.push(node)
	defer ev.pop()

	for {
		switch {
		case value.IsNil(node):
			return node
		case node.Kind == value.Symbol:
			v, ok := fr.Lookup(node.Symbol())
			if !ok {
				ev.fail("unbound identifier: %s", node.Symbol())
			}
			return v
		case node.Kind != value.List:
			return node
		}

		list := node.List()
		headForm, rest := list[0], list[1:]
		head := ev.eval(fr, headForm)

		if head.Kind == value.Op && head.Builtin().Special != value.NotSpecial {
			cont, nextNode, nextFr, result := ev.dispatchSpecial(fr, head.Builtin().Special, rest)
			if !cont {
				return result
			}
			node, fr = nextNode, nextFr
			continue
		}

		if head.Kind == value.Macro {
			cont, nextNode, nextFr, result := ev.applyTail(fr, head, rest)
			if !cont {
				return result
			}
			node, fr = nextNode, nextFr
			continue
		}

		args := make([]*value.Value, len(rest))
		for i, a := range rest {
			args[i] = ev.eval(fr, a)
		}

		cont, nextNode, nextFr, result := ev.applyTail(fr, head, args)
		if !cont {
			return result
		}
		node, fr = nextNode, nextFr
	}
}
