// Command musil is the standalone interpreter driver: load zero or more
// source files, then either exit or drop into a REPL (§6's CLI surface).
package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/musil-lang/musil/builtins"
	"github.com/musil-lang/musil/env"
	"github.com/musil-lang/musil/internal/options"
)

func main() {
	options.Parse()

	fr := builtins.MakeEnv()

	files := options.Files()
	if len(files) == 0 {
		runREPL(fr, true)
		return
	}

	for _, path := range files {
		if err := loadFile(fr, path); err != nil {
			fmt.Fprintf(os.Stderr, "warning: cannot open input file %s\n", path)
		}
	}

	if options.Interactive() {
		runREPL(fr, false)
	}
}

func interactiveTerminal() bool {
	return isatty.IsTerminal(os.Stdin.Fd())
}

// loadFile evaluates every top-level form in path, in the teacher's own
// "one bad form doesn't abort the file" style (grounded on §7's load
// policy, implemented in builtins.opLoad; duplicated here rather than
// called because the CLI's own open-failure wording (§10.5, following
// `musil.cpp`'s `std::cerr` warning) differs from the `load` builtin's).
func loadFile(fr *env.Frame, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	evalForms(fr, f, path)
	return nil
}
