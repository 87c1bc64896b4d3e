// Package options parses musil's command-line arguments, adapted from
// the teacher's internal/system/options package: a package-level
// Parse plus accessors, rather than a struct the caller threads
// around, so cmd/musil reads the same way the teacher's own main does.
package options

import (
	"github.com/docopt/docopt-go"
)

//nolint:gochecknoglobals
var (
	files       []string
	interactive bool
	usage       = `musil

Usage:
  musil [-i] [FILE...]
  musil -h

Options:
  -i, --interactive  Keep a REPL open after evaluating FILE(s).
  -h, --help         Show this help.
`
)

// Parse reads os.Args (via docopt) into the package's accessors. It
// exits the process on a usage error or on -h/--help, matching
// docopt's own convention and the teacher's own options.Parse.
func Parse() {
	opts, err := docopt.ParseDoc(usage)
	if err != nil {
		panic(err.Error())
	}

	interactive, _ = opts.Bool("--interactive")
	files, _ = opts["FILE"].([]string)
}

// Files returns the source files named on the command line, in order.
func Files() []string {
	return files
}

// Interactive reports whether -i was given.
func Interactive() bool {
	return interactive
}
