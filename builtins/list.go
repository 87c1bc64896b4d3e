package builtins

import (
	"math/rand"
	"time"

	"github.com/musil-lang/musil/env"
	"github.com/musil-lang/musil/eval"
	"github.com/musil-lang/musil/value"
)

// shuffleSource is the process-scoped PRNG `lshuffle` draws from (§9:
// "global random state... should be process-scoped with documented
// seeding at startup"). It is seeded once, at package load, not per call.
var shuffleSource = rand.New(rand.NewSource(time.Now().UnixNano()))

func requireList(name string, v *value.Value) []*value.Value {
	if v.Kind != value.List {
		panic(&eval.Error{Message: name + ": expected list, got " + v.Kind.String()})
	}
	return v.List()
}

func indexArg(name string, v *value.Value) int {
	return int(requireArray(name, v)[0])
}

// opLindex implements `lindex` (§4.5): zero-based index, out-of-range is
// an error (not nil), so that an off-by-one never silently becomes nil.
func opLindex(args []*value.Value, fr *env.Frame) *value.Value {
	list := requireList("lindex", args[0])
	i := indexArg("lindex", args[1])
	if i < 0 || i >= len(list) {
		panic(&eval.Error{Message: "lindex: index out of range"})
	}
	return list[i]
}

// opLset implements `lset` (§4.5): destructive, in-place element
// replacement; returns the same List Value it was given.
func opLset(args []*value.Value, fr *env.Frame) *value.Value {
	list := requireList("lset", args[0])
	i := indexArg("lset", args[2])
	if i < 0 || i >= len(list) {
		panic(&eval.Error{Message: "lset: index out of range"})
	}
	list[i] = args[1]
	return args[0]
}

func opLlength(args []*value.Value, fr *env.Frame) *value.Value {
	return value.NewScalar(float64(len(requireList("llength", args[0]))))
}

// opLappend implements `lappend` (§4.5): destructive append, returning
// the same List Value — callers rely on v's identity surviving the call.
func opLappend(args []*value.Value, fr *env.Frame) *value.Value {
	list := requireList("lappend", args[0])
	args[0].SetList(append(list, args[1:]...))
	return args[0]
}

func stridedIndices(name string, n int, startV, lenV, strideV *value.Value) []int {
	start, length, stride := strideRange(name, n, startV, lenV, strideV)
	out := make([]int, length)
	idx := start
	for i := 0; i < length; i++ {
		out[i] = idx
		idx += stride
	}
	return out
}

// opLrange implements `lrange` (§4.5): copies a strided window, clamping
// the requested length to what the source actually has (§4.5, §4.5
// "clamps end to length").
func opLrange(args []*value.Value, fr *env.Frame) *value.Value {
	src := requireList("lrange", args[0])
	var strideArg *value.Value
	if len(args) > 3 {
		strideArg = args[3]
	}
	indices := stridedIndices("lrange", len(src), args[1], args[2], strideArg)
	out := make([]*value.Value, len(indices))
	for i, idx := range indices {
		out[i] = src[idx]
	}
	return value.NewList(out)
}

// opLreplace implements `lreplace` (§4.5): overwrites a strided window of
// the destination list in place from src, and — per the contract table's
// "returns source slice L" — returns the (overwritten) destination
// window as a fresh list, not the whole destination.
func opLreplace(args []*value.Value, fr *env.Frame) *value.Value {
	dst := requireList("lreplace", args[0])
	src := requireList("lreplace", args[1])
	var strideArg *value.Value
	if len(args) > 4 {
		strideArg = args[4]
	}
	indices := stridedIndices("lreplace", len(dst), args[2], args[3], strideArg)
	written := make([]*value.Value, 0, len(indices))
	for i, idx := range indices {
		if i >= len(src) {
			break
		}
		dst[idx] = src[i]
		written = append(written, dst[idx])
	}
	return value.NewList(written)
}

// opLshuffle implements `lshuffle` (§4.5): returns a fresh shuffled copy,
// leaving the argument list untouched (unlike lset/lappend/lreplace).
func opLshuffle(args []*value.Value, fr *env.Frame) *value.Value {
	src := requireList("lshuffle", args[0])
	out := make([]*value.Value, len(src))
	copy(out, src)
	shuffleSource.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return value.NewList(out)
}

func registerList(fr *env.Frame) {
	eval.RegisterOp(fr, "lindex", opLindex, 2)
	eval.RegisterOp(fr, "lset", opLset, 3)
	eval.RegisterOp(fr, "llength", opLlength, 1)
	eval.RegisterOp(fr, "lappend", opLappend, 1)
	eval.RegisterOp(fr, "lrange", opLrange, 3)
	eval.RegisterOp(fr, "lreplace", opLreplace, 4)
	eval.RegisterOp(fr, "lshuffle", opLshuffle, 1)
}
