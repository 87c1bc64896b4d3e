package main

import (
	"fmt"
	"io"
	"os"

	"github.com/musil-lang/musil/env"
	"github.com/musil-lang/musil/eval"
	"github.com/musil-lang/musil/reader"
)

// evalForms reads and evaluates every top-level form from r in order,
// tagging each evaluation failure with "[path:line]" and continuing
// with the next form rather than aborting (§7's load policy). A reader
// (parse) failure ends the pass outright: the reader's position can't
// be resynchronized to "the next form" once it has desynced.
func evalForms(fr *env.Frame, r io.Reader, path string) {
	rd := reader.New(r)
	for {
		form, err := rd.Read()
		if err == io.EOF {
			return
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "[%s:%d] %s\n", path, rd.Line, err)
			return
		}

		if _, evalErr := eval.Eval(fr, form); evalErr != nil {
			fmt.Fprintf(os.Stderr, "[%s:%d] %s\n", path, rd.Line, evalErr)
		}
	}
}
