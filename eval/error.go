package eval

import (
	"fmt"
	"strings"

	"github.com/musil-lang/musil/value"
)

// Error is the single uniform failure the evaluator raises: a message plus
// a snapshot of the forms under evaluation when it was raised, outermost
// first and innermost last; Error() prints the trace innermost first (§7). Every panic eval.Eval recovers from is normalized to one of
// these, even panics that did not originate from eval.fail.
type Error struct {
	Message string
	Stack   []*value.Value
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("error: ")
	b.WriteString(e.Message)
	if len(e.Stack) > 0 {
		b.WriteString(" -> ")
		b.WriteString(value.Write(e.Stack[len(e.Stack)-1]))
	}
	for i := len(e.Stack) - 1; i >= 0; i-- {
		fmt.Fprintf(&b, "\n%d: %s", len(e.Stack)-i, value.Write(e.Stack[i]))
	}
	return b.String()
}

// typeError reports that v does not have the kind a primitive required.
func typeError(want value.Kind, v *value.Value) string {
	return fmt.Sprintf("type error: expected %s, got %s", want, v.Kind)
}
