package value

import (
	"fmt"
	"strconv"
	"strings"
)

// Display renders v for human consumption: strings print raw, ops print
// opaquely. This is what the `display` built-in uses.
func Display(v *Value) string {
	var b strings.Builder
	write(&b, v, false)
	return b.String()
}

// Write renders v in a form the Reader can parse back (modulo Lambda,
// Macro and Op, which have no surface syntax and are rendered only for
// diagnostics). This is what `save` and the REPL's echoed results use.
func Write(v *Value) string {
	var b strings.Builder
	write(&b, v, true)
	return b.String()
}

func write(b *strings.Builder, v *Value, readable bool) {
	if IsNil(v) {
		b.WriteString("()")
		return
	}

	switch v.Kind {
	case List:
		b.WriteByte('(')
		for i, e := range v.list {
			if i > 0 {
				b.WriteByte(' ')
			}
			write(b, e, readable)
		}
		b.WriteByte(')')
	case Symbol:
		b.WriteString(v.sym)
	case String:
		if readable {
			b.WriteString(quoteString(v.str))
		} else {
			b.WriteString(v.str)
		}
	case Array:
		// A length-1 Array (a scalar) prints as a bare number, which the
		// reader reads back as the same scalar; any other length is
		// bracketed.
		if len(v.arr) == 1 {
			b.WriteString(formatFloat(v.arr[0]))
			return
		}
		b.WriteByte('[')
		for i, x := range v.arr {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(formatFloat(x))
		}
		b.WriteByte(']')
	case Lambda:
		writeClosure(b, "lambda", v.closure, readable)
	case Macro:
		writeClosure(b, "macro", v.closure, readable)
	case Op:
		if readable {
			b.WriteString(v.op.Name)
		} else {
			fmt.Fprintf(b, "<op @ %p>", v.op)
		}
	default:
		fmt.Fprintf(b, "<unprintable %s>", v.Kind)
	}
}

func writeClosure(b *strings.Builder, keyword string, c *Closure, readable bool) {
	b.WriteByte('(')
	b.WriteString(keyword)
	b.WriteByte(' ')
	write(b, NewList(c.Params), readable)
	for _, e := range c.Body {
		b.WriteByte(' ')
		write(b, e, readable)
	}
	b.WriteByte(')')
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}

// quoteString renders s as a double-quoted literal whose escapes the
// reader (§4.1) can decode back to the same bytes: backslash and the
// quote character must be escaped or they would be misread, and \n \r \t
// are escaped for readability even though a literal control byte would
// also round-trip correctly (the reader passes unrecognized escapes and
// unescaped bytes through unchanged).
func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
