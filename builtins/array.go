package builtins

import (
	"math"

	"github.com/musil-lang/musil/env"
	"github.com/musil-lang/musil/eval"
	"github.com/musil-lang/musil/value"
)

func requireArray(name string, v *value.Value) []float64 {
	if v.Kind != value.Array {
		panic(&eval.Error{Message: name + ": expected array, got " + v.Kind.String()})
	}
	return v.Floats()
}

// elementwise applies f to a and b, broadcasting whichever side has
// length 1 against the other (§4.5's "scalar broadcast if either side is
// length-1"). Equal, non-broadcast lengths must match exactly; anything
// else is a domain error rather than a silent truncation.
func elementwise(a, b []float64, f func(x, y float64) float64) []float64 {
	switch {
	case len(a) == 1 && len(b) != 1:
		out := make([]float64, len(b))
		for i, y := range b {
			out[i] = f(a[0], y)
		}
		return out
	case len(b) == 1 && len(a) != 1:
		out := make([]float64, len(a))
		for i, x := range a {
			out[i] = f(x, b[0])
		}
		return out
	case len(a) != len(b):
		panic(&eval.Error{Message: "domain error: array length mismatch"})
	default:
		out := make([]float64, len(a))
		for i := range out {
			out[i] = f(a[i], b[i])
		}
		return out
	}
}

func binArith(name string, f func(x, y float64) float64) eval.OpFunc {
	return func(args []*value.Value, fr *env.Frame) *value.Value {
		a := requireArray(name, args[0])
		b := requireArray(name, args[1])
		return value.NewArray(elementwise(a, b, f))
	}
}

func boolFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func binCompare(name string, f func(x, y float64) bool) eval.OpFunc {
	return func(args []*value.Value, fr *env.Frame) *value.Value {
		a := requireArray(name, args[0])
		b := requireArray(name, args[1])
		return value.NewArray(elementwise(a, b, func(x, y float64) float64 { return boolFloat(f(x, y)) }))
	}
}

func reduce(name string, f func(acc, x float64) float64, seed func([]float64) float64) eval.OpFunc {
	return func(args []*value.Value, fr *env.Frame) *value.Value {
		a := requireArray(name, args[0])
		if len(a) == 0 {
			return value.NewScalar(seed(a))
		}
		acc := a[0]
		for _, x := range a[1:] {
			acc = f(acc, x)
		}
		return value.NewScalar(acc)
	}
}

func unaryMath(name string, f func(float64) float64) eval.OpFunc {
	return func(args []*value.Value, fr *env.Frame) *value.Value {
		a := requireArray(name, args[0])
		out := make([]float64, len(a))
		for i, x := range a {
			out[i] = f(x)
		}
		return value.NewArray(out)
	}
}

// elementwiseVariadic builds `neg`/`floor` (§4.5): elementwise over every
// Array argument, returning a bare Array for one argument or a List of
// Arrays for several.
func elementwiseVariadic(name string, f func(float64) float64) eval.OpFunc {
	return func(args []*value.Value, fr *env.Frame) *value.Value {
		results := make([]*value.Value, len(args))
		for i, a := range args {
			in := requireArray(name, a)
			out := make([]float64, len(in))
			for j, x := range in {
				out[j] = f(x)
			}
			results[i] = value.NewArray(out)
		}
		if len(results) == 1 {
			return results[0]
		}
		return value.NewList(results)
	}
}

func opArrayConcat(args []*value.Value, fr *env.Frame) *value.Value {
	var out []float64
	for _, a := range args {
		out = append(out, requireArray("array", a)...)
	}
	return value.NewArray(out)
}

// strideRange resolves (start, length, stride) against n, the source's
// element count, clamping the end as §4.5 requires for lrange/lreplace and
// analogously for slice/assign.
func strideRange(name string, n int, startV, lenV, strideV *value.Value) (start, length, stride int) {
	start = int(requireArray(name, startV)[0])
	length = int(requireArray(name, lenV)[0])
	stride = 1
	if strideV != nil {
		stride = int(requireArray(name, strideV)[0])
	}
	if stride == 0 {
		panic(&eval.Error{Message: name + ": stride must be non-zero"})
	}
	if start < 0 || start > n {
		panic(&eval.Error{Message: name + ": start out of range"})
	}
	maxLen := (n - start + stride - 1) / stride
	if stride < 0 {
		maxLen = (start + 1 + (-stride) - 1) / (-stride)
	}
	if length > maxLen {
		length = maxLen
	}
	return start, length, stride
}

func opSlice(args []*value.Value, fr *env.Frame) *value.Value {
	src := requireArray("slice", args[0])
	var strideArg *value.Value
	if len(args) > 3 {
		strideArg = args[3]
	}
	start, length, stride := strideRange("slice", len(src), args[1], args[2], strideArg)
	out := make([]float64, length)
	idx := start
	for i := 0; i < length; i++ {
		out[i] = src[idx]
		idx += stride
	}
	return value.NewArray(out)
}

func opAssign(args []*value.Value, fr *env.Frame) *value.Value {
	dst := requireArray("assign", args[0])
	src := requireArray("assign", args[1])
	var strideArg *value.Value
	if len(args) > 4 {
		strideArg = args[4]
	}
	start, length, stride := strideRange("assign", len(dst), args[2], args[3], strideArg)
	idx := start
	for i := 0; i < length && i < len(src); i++ {
		dst[idx] = src[i]
		idx += stride
	}
	return args[0]
}

func registerArray(fr *env.Frame) {
	eval.RegisterOp(fr, "+", binArith("+", func(x, y float64) float64 { return x + y }), 2)
	eval.RegisterOp(fr, "-", binArith("-", func(x, y float64) float64 { return x - y }), 2)
	eval.RegisterOp(fr, "*", binArith("*", func(x, y float64) float64 { return x * y }), 2)
	eval.RegisterOp(fr, "/", binArith("/", func(x, y float64) float64 { return x / y }), 2)

	eval.RegisterOp(fr, "<", binCompare("<", func(x, y float64) bool { return x < y }), 2)
	eval.RegisterOp(fr, "<=", binCompare("<=", func(x, y float64) bool { return x <= y }), 2)
	eval.RegisterOp(fr, ">", binCompare(">", func(x, y float64) bool { return x > y }), 2)
	eval.RegisterOp(fr, ">=", binCompare(">=", func(x, y float64) bool { return x >= y }), 2)

	eval.RegisterOp(fr, "min", reduce("min", math.Min, func(a []float64) float64 { return 0 }), 1)
	eval.RegisterOp(fr, "max", reduce("max", math.Max, func(a []float64) float64 { return 0 }), 1)
	eval.RegisterOp(fr, "sum", reduce("sum", func(acc, x float64) float64 { return acc + x }, func(a []float64) float64 { return 0 }), 1)
	eval.RegisterOp(fr, "size", func(args []*value.Value, fr *env.Frame) *value.Value {
		return value.NewScalar(float64(len(requireArray("size", args[0]))))
	}, 1)

	eval.RegisterOp(fr, "sin", unaryMath("sin", math.Sin), 1)
	eval.RegisterOp(fr, "cos", unaryMath("cos", math.Cos), 1)
	eval.RegisterOp(fr, "tan", unaryMath("tan", math.Tan), 1)
	eval.RegisterOp(fr, "asin", unaryMath("asin", math.Asin), 1)
	eval.RegisterOp(fr, "acos", unaryMath("acos", math.Acos), 1)
	eval.RegisterOp(fr, "atan", unaryMath("atan", math.Atan), 1)
	eval.RegisterOp(fr, "sinh", unaryMath("sinh", math.Sinh), 1)
	eval.RegisterOp(fr, "cosh", unaryMath("cosh", math.Cosh), 1)
	eval.RegisterOp(fr, "tanh", unaryMath("tanh", math.Tanh), 1)
	eval.RegisterOp(fr, "log", unaryMath("log", math.Log), 1)
	eval.RegisterOp(fr, "log10", unaryMath("log10", math.Log10), 1)
	eval.RegisterOp(fr, "exp", unaryMath("exp", math.Exp), 1)
	eval.RegisterOp(fr, "abs", unaryMath("abs", math.Abs), 1)

	eval.RegisterOp(fr, "neg", elementwiseVariadic("neg", func(x float64) float64 { return -x }), 1)
	eval.RegisterOp(fr, "floor", elementwiseVariadic("floor", math.Floor), 1)

	eval.RegisterOp(fr, "array", opArrayConcat, 0)
	eval.RegisterOp(fr, "slice", opSlice, 3)
	eval.RegisterOp(fr, "assign", opAssign, 4)
}
