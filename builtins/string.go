package builtins

import (
	"regexp"
	"strings"

	"github.com/musil-lang/musil/env"
	"github.com/musil-lang/musil/eval"
	"github.com/musil-lang/musil/value"
)

func requireString(name string, v *value.Value) string {
	if v.Kind != value.String {
		panic(&eval.Error{Message: name + ": expected string, got " + v.Kind.String()})
	}
	return v.Str()
}

func requireSymbol(name string, v *value.Value) string {
	if v.Kind != value.Symbol {
		panic(&eval.Error{Message: name + ": expected symbol, got " + v.Kind.String()})
	}
	return v.Symbol()
}

// opStr implements the `str` subcommand dispatcher (§4.5): `length`,
// `find`, `range`, `replace`, `split`, `regex`. Indexing and lengths are
// counted in runes, not bytes, so musil's "index" concept stays consistent
// between ASCII and non-ASCII source text. `regex` uses Go's regexp
// package (RE2 syntax) and returns every non-overlapping match.
func opStr(args []*value.Value, fr *env.Frame) *value.Value {
	cmd := requireSymbol("str", args[0])
	rest := args[1:]

	switch cmd {
	case "length":
		s := []rune(requireString("str length", rest[0]))
		return value.NewScalar(float64(len(s)))

	case "find":
		s := requireString("str find", rest[0])
		sub := requireString("str find", rest[1])
		byteIdx := strings.Index(s, sub)
		if byteIdx < 0 {
			return value.NewScalar(-1)
		}
		return value.NewScalar(float64(len([]rune(s[:byteIdx]))))

	case "range":
		s := []rune(requireString("str range", rest[0]))
		start := indexArg("str range", rest[1])
		length := indexArg("str range", rest[2])
		if start < 0 || start > len(s) {
			panic(&eval.Error{Message: "str range: start out of range"})
		}
		if start+length > len(s) {
			length = len(s) - start
		}
		return value.NewString(string(s[start : start+length]))

	case "replace":
		s := requireString("str replace", rest[0])
		old := requireString("str replace", rest[1])
		replacement := requireString("str replace", rest[2])
		return value.NewString(strings.ReplaceAll(s, old, replacement))

	case "split":
		s := requireString("str split", rest[0])
		sep := requireString("str split", rest[1])
		parts := strings.Split(s, sep)
		out := make([]*value.Value, len(parts))
		for i, p := range parts {
			out[i] = value.NewString(p)
		}
		return value.NewList(out)

	case "regex":
		s := requireString("str regex", rest[0])
		pattern := requireString("str regex", rest[1])
		re, err := regexp.Compile(pattern)
		if err != nil {
			panic(&eval.Error{Message: "str regex: " + err.Error()})
		}
		matches := re.FindAllString(s, -1)
		out := make([]*value.Value, len(matches))
		for i, m := range matches {
			out[i] = value.NewString(m)
		}
		return value.NewList(out)

	default:
		panic(&eval.Error{Message: "str: unrecognized subcommand " + cmd})
	}
}

func registerString(fr *env.Frame) {
	eval.RegisterOp(fr, "str", opStr, 2)
}
