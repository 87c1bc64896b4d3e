package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/musil-lang/musil/env"
	"github.com/musil-lang/musil/eval"
	"github.com/musil-lang/musil/internal/history"
	"github.com/musil-lang/musil/reader"
	"github.com/musil-lang/musil/value"
)

const version = "0.1"

// banner keeps the original driver's structure (name/version line,
// tagline, copyright line) without the bold-blue ANSI styling §10.5
// says to drop.
const banner = `[musil, version ` + version + `]

music scripting language
(c) the musil project contributors

`

// runREPL drives an interactive read-eval-print loop over stdin,
// grounded on the teacher's own prompt/history/line-editing loop
// (internal/ui.Run) but reading musil's own S-expression grammar
// instead of oh's shell grammar. A form that runs off the end of the
// current line (an open paren or string with no closing delimiter
// yet) keeps prompting with a continuation prompt rather than
// reporting a parse error, so multi-line input works the way it does
// at any Lisp REPL.
func runREPL(fr *env.Frame, showBanner bool) {
	if showBanner && interactiveTerminal() {
		fmt.Print(banner)
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	if err := history.Load(line.ReadHistory); err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not load history: %s\n", err)
	}
	defer func() {
		if err := history.Save(line.WriteHistory); err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not save history: %s\n", err)
		}
	}()

	var buf strings.Builder
	for {
		prompt := ">> "
		if buf.Len() > 0 {
			prompt = ".. "
		}

		input, err := line.Prompt(prompt)
		switch {
		case errors.Is(err, liner.ErrPromptAborted):
			buf.Reset()
			continue
		case err != nil:
			fmt.Println("exit")
			return
		}

		line.AppendHistory(input)
		buf.WriteString(input)
		buf.WriteByte('\n')

		form, rerr := reader.New(strings.NewReader(buf.String())).Read()

		if rerr == io.EOF {
			buf.Reset()
			continue
		}

		var incomplete *reader.Error
		if errors.As(rerr, &incomplete) && incomplete.Incomplete {
			continue
		}

		buf.Reset()

		if rerr != nil {
			fmt.Fprintf(os.Stderr, "error: %s\n", rerr)
			continue
		}

		result, evalErr := eval.Eval(fr, form)
		if evalErr != nil {
			fmt.Fprintln(os.Stderr, evalErr)
			continue
		}
		fmt.Println(value.Write(result))
	}
}
