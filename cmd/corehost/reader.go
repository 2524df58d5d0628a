package main

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/sandrolain/cljcore/pkg/value"
)

// reader turns source text into the Value forms the evaluator walks — the
// host's half of spec.md §6.2's "reader/analyzer/evaluator chain". It
// covers exactly the syntax the §8 scenarios and this package's special
// forms use: lists, vectors, maps, symbols, keywords, integers, floats,
// strings, nil/true/false, ; line comments, and the quote/deref/var-quote
// reader macros.
type reader struct {
	src []rune
	pos int
}

func newReader(src string) *reader { return &reader{src: []rune(src)} }

// readAll parses every top-level form in src.
func readAll(src string) ([]value.Value, error) {
	r := newReader(src)
	var forms []value.Value
	for {
		r.skipSpace()
		if r.atEnd() {
			return forms, nil
		}
		form, err := r.readForm()
		if err != nil {
			return nil, err
		}
		forms = append(forms, form)
	}
}

func (r *reader) atEnd() bool { return r.pos >= len(r.src) }

func (r *reader) peek() rune { return r.src[r.pos] }

func (r *reader) skipSpace() {
	for !r.atEnd() {
		c := r.peek()
		switch {
		case c == ';':
			for !r.atEnd() && r.peek() != '\n' {
				r.pos++
			}
		case unicode.IsSpace(c) || c == ',':
			r.pos++
		default:
			return
		}
	}
}

func (r *reader) readForm() (value.Value, error) {
	r.skipSpace()
	if r.atEnd() {
		return nil, fmt.Errorf("unexpected end of input")
	}
	switch c := r.peek(); {
	case c == '(':
		return r.readSeq('(', ')')
	case c == '[':
		return r.readVector()
	case c == '{':
		return r.readMap()
	case c == '\'':
		r.pos++
		inner, err := r.readForm()
		if err != nil {
			return nil, err
		}
		return value.ListFromSlice([]value.Value{value.NewSymbol("", "quote"), inner}), nil
	case c == '@':
		r.pos++
		inner, err := r.readForm()
		if err != nil {
			return nil, err
		}
		return value.ListFromSlice([]value.Value{value.NewSymbol("", "deref"), inner}), nil
	case c == '#' && r.pos+1 < len(r.src) && r.src[r.pos+1] == '\'':
		r.pos += 2
		inner, err := r.readForm()
		if err != nil {
			return nil, err
		}
		return value.ListFromSlice([]value.Value{value.NewSymbol("", "var"), inner}), nil
	case c == '"':
		return r.readString()
	case c == ':':
		return r.readKeyword()
	default:
		return r.readAtom()
	}
}

func (r *reader) readSeq(open, close rune) (value.Value, error) {
	r.pos++ // consume open
	var items []value.Value
	for {
		r.skipSpace()
		if r.atEnd() {
			return nil, fmt.Errorf("unterminated list")
		}
		if r.peek() == close {
			r.pos++
			return value.ListFromSlice(items), nil
		}
		item, err := r.readForm()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
}

func (r *reader) readVector() (value.Value, error) {
	r.pos++
	var items []value.Value
	for {
		r.skipSpace()
		if r.atEnd() {
			return nil, fmt.Errorf("unterminated vector")
		}
		if r.peek() == ']' {
			r.pos++
			return value.NewVector(items...), nil
		}
		item, err := r.readForm()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
}

func (r *reader) readMap() (value.Value, error) {
	r.pos++
	var items []value.Value
	for {
		r.skipSpace()
		if r.atEnd() {
			return nil, fmt.Errorf("unterminated map")
		}
		if r.peek() == '}' {
			r.pos++
			return value.NewMap(items...)
		}
		item, err := r.readForm()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
}

func (r *reader) readString() (value.Value, error) {
	r.pos++ // consume opening quote
	var b strings.Builder
	for {
		if r.atEnd() {
			return nil, fmt.Errorf("unterminated string")
		}
		c := r.src[r.pos]
		r.pos++
		if c == '"' {
			return value.String(b.String()), nil
		}
		if c == '\\' && !r.atEnd() {
			esc := r.src[r.pos]
			r.pos++
			switch esc {
			case 'n':
				b.WriteRune('\n')
			case 't':
				b.WriteRune('\t')
			default:
				b.WriteRune(esc)
			}
			continue
		}
		b.WriteRune(c)
	}
}

func isTerminator(c rune) bool {
	return unicode.IsSpace(c) || c == ',' || strings.ContainsRune("()[]{}\";", c)
}

func (r *reader) readToken() string {
	start := r.pos
	for !r.atEnd() && !isTerminator(r.peek()) {
		r.pos++
	}
	return string(r.src[start:r.pos])
}

func (r *reader) readKeyword() (value.Value, error) {
	r.pos++ // consume ':'
	tok := r.readToken()
	if i := strings.IndexByte(tok, '/'); i > 0 {
		return value.NewKeyword(tok[:i], tok[i+1:]), nil
	}
	return value.NewKeyword("", tok), nil
}

func (r *reader) readAtom() (value.Value, error) {
	tok := r.readToken()
	if tok == "" {
		return nil, fmt.Errorf("empty token at position %d", r.pos)
	}
	switch tok {
	case "nil":
		return value.NilVal, nil
	case "true":
		return value.Bool(true), nil
	case "false":
		return value.Bool(false), nil
	}
	if n, err := strconv.ParseInt(tok, 10, 64); err == nil {
		return value.Int(n), nil
	}
	if f, err := strconv.ParseFloat(tok, 64); err == nil {
		return value.Float(f), nil
	}
	if i := strings.IndexByte(tok, '/'); i > 0 {
		return value.NewSymbol(tok[:i], tok[i+1:]), nil
	}
	return value.NewSymbol("", tok), nil
}
