package main

import (
	"strings"
	"testing"

	"github.com/musil-lang/musil/builtins"
)

func TestEvalFormsContinuesAfterEvalError(t *testing.T) {
	fr := builtins.MakeEnv()
	src := "(def x 1)\n(unbound-name)\n(def y 2)\n"
	evalForms(fr, strings.NewReader(src), "test.ms")

	if v, ok := fr.Lookup("x"); !ok || v.Floats()[0] != 1 {
		t.Fatalf("x not defined before the failing form")
	}
	if v, ok := fr.Lookup("y"); !ok || v.Floats()[0] != 2 {
		t.Fatalf("y not defined after the failing form: evalForms aborted the whole pass")
	}
}

func TestEvalFormsStopsOnParseError(t *testing.T) {
	fr := builtins.MakeEnv()
	src := "(def x 1)\n(unbalanced\n(def y 2)\n"
	evalForms(fr, strings.NewReader(src), "test.ms")

	if v, ok := fr.Lookup("x"); !ok || v.Floats()[0] != 1 {
		t.Fatalf("x not defined before the parse error")
	}
	if _, ok := fr.Lookup("y"); ok {
		t.Fatalf("y should not be defined: a parse error should end the pass")
	}
}
