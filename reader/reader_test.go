package reader

import (
	"io"
	"strings"
	"testing"

	"github.com/musil-lang/musil/value"
)

func read(t *testing.T, src string) *value.Value {
	t.Helper()
	v, err := New(strings.NewReader(src)).Read()
	if err != nil {
		t.Fatalf("Read(%q) error: %v", src, err)
	}
	return v
}

func TestReadAtomNumber(t *testing.T) {
	v := read(t, "42")
	if v.Kind != value.Array || v.Floats()[0] != 42 {
		t.Fatalf("Read(42) = %v", value.Write(v))
	}
}

func TestReadAtomSymbol(t *testing.T) {
	v := read(t, "foo-bar")
	if v.Kind != value.Symbol || v.Symbol() != "foo-bar" {
		t.Fatalf("Read(foo-bar) = %v", value.Write(v))
	}
}

func TestReadAmbiguousSymbolPreserved(t *testing.T) {
	// §9 open question (b): 1-2 is one symbol, not two tokens, since the
	// lexer is delimited only by whitespace and parens.
	v := read(t, "1-2")
	if v.Kind != value.Symbol || v.Symbol() != "1-2" {
		t.Fatalf("Read(1-2) = %v, want symbol 1-2", value.Write(v))
	}
}

func TestReadString(t *testing.T) {
	v := read(t, `"hello\nworld\t\"x\""`)
	if v.Kind != value.String {
		t.Fatalf("expected string, got %v", value.Write(v))
	}
	if got, want := v.Str(), "hello\nworld\t\"x\""; got != want {
		t.Fatalf("Str() = %q, want %q", got, want)
	}
}

func TestReadStringPassthroughEscape(t *testing.T) {
	v := read(t, `"a\zb"`)
	if got, want := v.Str(), "azb"; got != want {
		t.Fatalf("Str() = %q, want %q", got, want)
	}
}

func TestReadQuoteSugar(t *testing.T) {
	v := read(t, "'x")
	want := value.NewList([]*value.Value{value.NewSymbol("quote"), value.NewSymbol("x")})
	if !value.Equal(v, want) {
		t.Fatalf("Read('x) = %v, want %v", value.Write(v), value.Write(want))
	}
}

func TestReadList(t *testing.T) {
	v := read(t, "(+ 1 2)")
	if v.Kind != value.List || len(v.List()) != 3 {
		t.Fatalf("Read((+ 1 2)) = %v", value.Write(v))
	}
}

func TestReadNestedList(t *testing.T) {
	v := read(t, "(a (b c) d)")
	if got, want := value.Write(v), "(a (b c) d)"; got != want {
		t.Fatalf("Write() = %q, want %q", got, want)
	}
}

func TestReadEmptyListIsNil(t *testing.T) {
	v := read(t, "()")
	if !value.IsNil(v) {
		t.Fatalf("Read(()) should be nil, got %v", value.Write(v))
	}
}

func TestReadComment(t *testing.T) {
	v := read(t, "; a comment\n42")
	if v.Floats()[0] != 42 {
		t.Fatalf("Read with leading comment = %v", value.Write(v))
	}
}

func TestReadEOFWithNoToken(t *testing.T) {
	_, err := New(strings.NewReader("   \n ; just a comment\n")).Read()
	if err != io.EOF {
		t.Fatalf("Read() error = %v, want io.EOF", err)
	}
}

func TestReadUnterminatedStringIsError(t *testing.T) {
	_, err := New(strings.NewReader(`"abc`)).Read()
	if err == nil {
		t.Fatalf("expected error for unterminated string")
	}
}

func TestReadUnbalancedParensIsError(t *testing.T) {
	_, err := New(strings.NewReader(`(a b`)).Read()
	if err == nil {
		t.Fatalf("expected error for unbalanced parens")
	}
}

// TestIncompleteErrorsAreMarked confirms running out of input mid-list
// or mid-string is distinguishable from a genuine syntax error, which
// a line-oriented REPL needs to decide whether to prompt for more
// input rather than report a failure.
func TestIncompleteErrorsAreMarked(t *testing.T) {
	_, err := New(strings.NewReader(`(a b`)).Read()
	rerr, ok := err.(*Error)
	if !ok || !rerr.Incomplete {
		t.Fatalf("unbalanced parens error = %v, want an Incomplete *Error", err)
	}

	_, err = New(strings.NewReader(`"abc`)).Read()
	rerr, ok = err.(*Error)
	if !ok || !rerr.Incomplete {
		t.Fatalf("unterminated string error = %v, want an Incomplete *Error", err)
	}

	r := New(strings.NewReader(`(a))`))
	_, err = r.Read()
	if err != nil {
		t.Fatalf("Read((a)) = %v, want nil error", err)
	}
	_, err = r.Read()
	rerr, ok = err.(*Error)
	if !ok || rerr.Incomplete {
		t.Fatalf("stray ')' error = %v, want a non-Incomplete *Error", err)
	}
}

func TestLineCounterAdvances(t *testing.T) {
	r := New(strings.NewReader("1\n2\n3"))
	for i := 0; i < 3; i++ {
		if _, err := r.Read(); err != nil {
			t.Fatalf("Read() #%d error: %v", i, err)
		}
	}
	if r.Line != 3 {
		t.Fatalf("Line = %d, want 3", r.Line)
	}
}

func TestReadRoundTrip(t *testing.T) {
	srcs := []string{
		"(a b c)",
		`"hi\nthere"`,
		"42",
		"'(quote x)",
	}
	for _, src := range srcs {
		v := read(t, src)
		roundTripped := read(t, value.Write(v))
		if !value.Equal(v, roundTripped) {
			t.Errorf("round trip of %q: %v != %v", src, value.Write(v), value.Write(roundTripped))
		}
	}
}
