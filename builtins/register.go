package builtins

import (
	"github.com/musil-lang/musil/env"
	"github.com/musil-lang/musil/eval"
)

// MakeEnv builds a fresh root frame with every special form and built-in
// primitive installed (§6's embedding interface). Special forms are
// registered first; a later registration under the same name would
// replace one, and none of the core built-ins uses a special form's name.
func MakeEnv() *env.Frame {
	fr := env.New(nil)
	eval.RegisterSpecialForms(fr)
	registerCore(fr)
	registerList(fr)
	registerArray(fr)
	registerString(fr)
	registerIO(fr)
	return fr
}
