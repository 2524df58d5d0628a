// Package printer renders value.Value as text, in both the readable
// syntax pr-str/prn use and the human-oriented syntax str/print/println
// use for strings (no surrounding quotes, no escapes) - spec.md §6.3.
//
// Grounded on the teacher's evaluator.toString (pkg/evaluator/
// eval_impl.go): one recursive per-Value-kind switch producing a Go
// string, generalized from JSON scalars/arrays/objects to the full
// value.Value closed sum.
package printer

import (
	"strconv"
	"strings"

	"github.com/sandrolain/cljcore/pkg/lazyseq"
	"github.com/sandrolain/cljcore/pkg/ns"
	"github.com/sandrolain/cljcore/pkg/refs"
	"github.com/sandrolain/cljcore/pkg/value"
)

// Display renders v the way str/print/println do: strings and chars
// appear literally, with no quoting.
func Display(v value.Value) string {
	var b strings.Builder
	write(&b, v, false)
	return b.String()
}

// Readable renders v the way pr-str/prn do: strings are double-quoted
// and escaped, chars use \x syntax, matching what the reader could read
// back (spec.md §3.1's roundtrip requirement for primitive literals).
func Readable(v value.Value) string {
	var b strings.Builder
	write(&b, v, true)
	return b.String()
}

func write(b *strings.Builder, v value.Value, readable bool) {
	switch x := v.(type) {
	case value.Nil:
		b.WriteString("nil")
	case value.Bool:
		if x {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case value.Int:
		b.WriteString(strconv.FormatInt(int64(x), 10))
	case value.Float:
		b.WriteString(formatFloat(float64(x)))
	case value.Char:
		if readable {
			b.WriteString("\\" + charName(rune(x)))
		} else {
			b.WriteRune(rune(x))
		}
	case value.String:
		if readable {
			b.WriteString(strconv.Quote(string(x)))
		} else {
			b.WriteString(string(x))
		}
	case value.Keyword:
		b.WriteString(":" + x.QualifiedName())
	case value.Symbol:
		b.WriteString(x.QualifiedName())
	case *value.List:
		b.WriteByte('(')
		for i, e := range x.ToSlice() {
			if i > 0 {
				b.WriteByte(' ')
			}
			write(b, e, readable)
		}
		b.WriteByte(')')
	case *value.Vector:
		b.WriteByte('[')
		for i, e := range x.Items() {
			if i > 0 {
				b.WriteByte(' ')
			}
			write(b, e, readable)
		}
		b.WriteByte(']')
	case *value.Set:
		b.WriteString("#{")
		for i, e := range x.Items() {
			if i > 0 {
				b.WriteByte(' ')
			}
			write(b, e, readable)
		}
		b.WriteByte('}')
	case *value.Map:
		b.WriteByte('{')
		for i, entry := range x.Entries() {
			if i > 0 {
				b.WriteByte(' ')
			}
			items := entry.Items()
			write(b, items[0], readable)
			b.WriteByte(' ')
			write(b, items[1], readable)
		}
		b.WriteByte('}')
	case *lazyseq.LazySeq:
		b.WriteString("#<LazySeq>")
	case *refs.Atom:
		b.WriteString("#<Atom " + Readable(x.Deref()) + ">")
	case *refs.Volatile:
		b.WriteString("#<Volatile " + Readable(x.Deref()) + ">")
	case *refs.Delay:
		b.WriteString("#<Delay>")
	case *refs.Promise:
		b.WriteString("#<Promise>")
	case *refs.Reduced:
		b.WriteString("#<Reduced " + Readable(x.Val) + ">")
	case *value.Fn:
		b.WriteString("#<Fn " + x.Name + ">")
	case *ns.Namespace:
		b.WriteString("#namespace[" + x.Name() + "]")
	case *ns.Var:
		b.WriteString("#'" + x.Sym().QualifiedName())
	default:
		b.WriteString(string(value.TypeTag(v)))
	}
}

func charName(r rune) string {
	switch r {
	case ' ':
		return "space"
	case '\n':
		return "newline"
	case '\t':
		return "tab"
	case '\r':
		return "return"
	default:
		return string(r)
	}
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
