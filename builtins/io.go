package builtins

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/musil-lang/musil/internal/adapted"

	"github.com/musil-lang/musil/env"
	"github.com/musil-lang/musil/eval"
	"github.com/musil-lang/musil/reader"
	"github.com/musil-lang/musil/value"
)

var (
	stdinReaderOnce sync.Once
	stdinReader     *reader.Reader
)

// stdin returns a single *reader.Reader kept alive over os.Stdin for the
// lifetime of the process. A fresh reader per call would wrap its own
// bufio.Reader around os.Stdin, and a pipe's Read syscall typically
// returns more than one form's worth of bytes at a time — a throwaway
// bufio.Reader would buffer those extra bytes and then discard them when
// it went out of scope, losing input a later (read) call still needs.
func stdin() *reader.Reader {
	stdinReaderOnce.Do(func() {
		stdinReader = reader.New(os.Stdin)
	})
	return stdinReader
}

// opDisplay implements `display` (§4.5): human-mode printing of every
// argument, space-separated, newline-terminated.
func opDisplay(args []*value.Value, fr *env.Frame) *value.Value {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = value.Display(a)
	}
	fmt.Println(strings.Join(parts, " "))
	return value.Nil
}

// opSave implements `save` (§4.5): write-mode (readable) rendering of
// every remaining argument to the named file, one per line.
func opSave(args []*value.Value, fr *env.Frame) *value.Value {
	path := requireString("save", args[0])
	f, err := os.Create(path)
	if err != nil {
		panic(&eval.Error{Message: "save: " + err.Error()})
	}
	defer f.Close()
	for _, a := range args[1:] {
		fmt.Fprintln(f, value.Write(a))
	}
	return value.Nil
}

// opRead implements `read` (§4.5): with no argument, one form from
// stdin; with a path, every top-level form in that file as a List.
func opRead(args []*value.Value, fr *env.Frame) *value.Value {
	if len(args) == 0 {
		v, err := stdin().Read()
		if err == io.EOF {
			return value.Nil
		}
		if err != nil {
			panic(&eval.Error{Message: "read: " + err.Error()})
		}
		return v
	}

	path := requireString("read", args[0])
	f, err := os.Open(path)
	if err != nil {
		panic(&eval.Error{Message: "read: " + err.Error()})
	}
	defer f.Close()

	r := reader.New(f)
	var forms []*value.Value
	for {
		v, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			panic(&eval.Error{Message: "read: " + err.Error()})
		}
		forms = append(forms, v)
	}
	return value.NewList(forms)
}

// opLoad implements `load` (§4.5 and §7): read and evaluate every
// top-level form in path in order, tagging each evaluation failure with
// a `[path:line]` diagnostic on stderr and continuing with the next form
// rather than aborting the whole file. A reader (parse) failure, unlike
// an evaluation failure, ends the load: the reader's position can't be
// resynchronized to "the next form" once its grammar has desynced.
func opLoad(args []*value.Value, fr *env.Frame) *value.Value {
	path := requireString("load", args[0])
	f, err := os.Open(path)
	if err != nil {
		panic(&eval.Error{Message: "load: " + err.Error()})
	}
	defer f.Close()

	r := reader.New(f)
	last := value.Nil
	for {
		form, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "[%s:%d] %s\n", path, r.Line, err)
			break
		}

		result, evalErr := eval.Eval(fr, form)
		if evalErr != nil {
			fmt.Fprintf(os.Stderr, "[%s:%d] %s\n", path, r.Line, evalErr.Message)
			continue
		}
		last = result
	}
	return last
}

// opExec implements `exec` (§4.5): runs command through the host shell,
// returning its exit status. The command's first word is resolved
// against $PATH with adapted.LookPath before the shell is invoked at
// all, so an unknown command fails with the teacher's own
// "command not found" wording (§10.4) instead of a shell-specific one.
func opExec(args []*value.Value, fr *env.Frame) *value.Value {
	cmdline := requireString("exec", args[0])
	fields := strings.Fields(cmdline)
	if len(fields) == 0 {
		panic(&eval.Error{Message: "exec: empty command"})
	}

	if _, _, err := adapted.LookPath(fields[0], os.Getenv("PATH")); err != nil {
		panic(&eval.Error{Message: "exec: " + err.Error()})
	}

	cmd := exec.Command("sh", "-c", cmdline)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	status := 0
	if err := cmd.Run(); err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			panic(&eval.Error{Message: "exec: " + err.Error()})
		}
		status = exitErr.ExitCode()
	}
	return value.NewScalar(float64(status))
}

// opExit implements `exit` (§4.5): terminate the process immediately.
func opExit(args []*value.Value, fr *env.Frame) *value.Value {
	os.Exit(0)
	return value.Nil
}

func registerIO(fr *env.Frame) {
	eval.RegisterOp(fr, "display", opDisplay, 0)
	eval.RegisterOp(fr, "save", opSave, 1)
	eval.RegisterOp(fr, "read", opRead, 0)
	eval.RegisterOp(fr, "load", opLoad, 1)
	eval.RegisterOp(fr, "exec", opExec, 1)
	eval.RegisterOp(fr, "exit", opExit, 0)
}
