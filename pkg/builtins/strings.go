package builtins

import (
	"strings"

	"github.com/sandrolain/cljcore/pkg/lazyseq"
	"github.com/sandrolain/cljcore/pkg/printer"
	"github.com/sandrolain/cljcore/pkg/value"
)

// Grounded on pkg/evaluator/fn_string.go's fnUppercase/fnLowercase/
// fnTrim/fnSplit/fnJoin/fnSubstring family, re-typed from string/
// interface{} onto value.String and generalized to symbol/keyword/name
// splitting per spec.md §3.1.

func asString(name string, v value.Value) (string, error) {
	s, ok := v.(value.String)
	if !ok {
		return "", typeError(name, "requires a string argument")
	}
	return string(s), nil
}

func fnStr(rt any, args []value.Value) (value.Value, error) {
	var b strings.Builder
	for _, a := range args {
		if _, ok := a.(value.Nil); ok {
			continue
		}
		b.WriteString(printer.Display(a))
	}
	return value.String(b.String()), nil
}

func fnSubs(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("subs", args, 2, 3); err != nil {
		return nil, err
	}
	s, err := asString("subs", args[0])
	if err != nil {
		return nil, err
	}
	runes := []rune(s)
	start, ok := args[1].(value.Int)
	if !ok {
		return nil, typeError("subs", "start must be an integer")
	}
	end := value.Int(len(runes))
	if len(args) == 3 {
		end, ok = args[2].(value.Int)
		if !ok {
			return nil, typeError("subs", "end must be an integer")
		}
	}
	if start < 0 || end > value.Int(len(runes)) || start > end {
		return nil, &value.Error{Code: value.ErrIndexOutOfBounds, Message: "subs: index out of bounds", Position: -1}
	}
	return value.String(string(runes[start:end])), nil
}

func fnUpperCase(rt any, args []value.Value) (value.Value, error) {
	s, err := asString("upper-case", args[0])
	if err != nil {
		return nil, err
	}
	return value.String(strings.ToUpper(s)), nil
}

func fnLowerCase(rt any, args []value.Value) (value.Value, error) {
	s, err := asString("lower-case", args[0])
	if err != nil {
		return nil, err
	}
	return value.String(strings.ToLower(s)), nil
}

func fnTrim(rt any, args []value.Value) (value.Value, error) {
	s, err := asString("trim", args[0])
	if err != nil {
		return nil, err
	}
	return value.String(strings.TrimSpace(s)), nil
}

func fnTrimNewline(rt any, args []value.Value) (value.Value, error) {
	s, err := asString("trim-newline", args[0])
	if err != nil {
		return nil, err
	}
	return value.String(strings.TrimRight(s, "\r\n")), nil
}

func fnTriml(rt any, args []value.Value) (value.Value, error) {
	s, err := asString("triml", args[0])
	if err != nil {
		return nil, err
	}
	return value.String(strings.TrimLeft(s, " \t\r\n")), nil
}

func fnTrimr(rt any, args []value.Value) (value.Value, error) {
	s, err := asString("trimr", args[0])
	if err != nil {
		return nil, err
	}
	return value.String(strings.TrimRight(s, " \t\r\n")), nil
}

func fnStringJoin(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("string-join", args, 1, 2); err != nil {
		return nil, err
	}
	sep := ""
	coll := args[0]
	if len(args) == 2 {
		s, err := asString("string-join", args[0])
		if err != nil {
			return nil, err
		}
		sep = s
		coll = args[1]
	}
	lst, err := lazyseq.ForceAll(coll, caller(rt))
	if err != nil {
		return nil, err
	}
	parts := make([]string, 0, lst.Count())
	for _, it := range lst.ToSlice() {
		parts = append(parts, printer.Display(it))
	}
	return value.String(strings.Join(parts, sep)), nil
}

func fnSplit(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("split", args, 2, 3); err != nil {
		return nil, err
	}
	s, err := asString("split", args[0])
	if err != nil {
		return nil, err
	}
	sep, err := asString("split", args[1])
	if err != nil {
		return nil, err
	}
	limit := -1
	if len(args) == 3 {
		n, ok := args[2].(value.Int)
		if !ok {
			return nil, typeError("split", "limit must be an integer")
		}
		limit = int(n)
	}
	parts := strings.SplitN(s, sep, limit)
	out := make([]value.Value, len(parts))
	for i, p := range parts {
		out[i] = value.String(p)
	}
	return value.NewVector(out...), nil
}

func fnSplitLines(rt any, args []value.Value) (value.Value, error) {
	s, err := asString("split-lines", args[0])
	if err != nil {
		return nil, err
	}
	parts := strings.Split(s, "\n")
	out := make([]value.Value, len(parts))
	for i, p := range parts {
		out[i] = value.String(strings.TrimSuffix(p, "\r"))
	}
	return value.NewVector(out...), nil
}

func fnReplace(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("replace", args, 3, 3); err != nil {
		return nil, err
	}
	s, err := asString("replace", args[0])
	if err != nil {
		return nil, err
	}
	match, err := asString("replace", args[1])
	if err != nil {
		return nil, err
	}
	repl, err := asString("replace", args[2])
	if err != nil {
		return nil, err
	}
	return value.String(strings.ReplaceAll(s, match, repl)), nil
}

func fnReplaceFirst(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("replace-first", args, 3, 3); err != nil {
		return nil, err
	}
	s, err := asString("replace-first", args[0])
	if err != nil {
		return nil, err
	}
	match, err := asString("replace-first", args[1])
	if err != nil {
		return nil, err
	}
	repl, err := asString("replace-first", args[2])
	if err != nil {
		return nil, err
	}
	return value.String(strings.Replace(s, match, repl, 1)), nil
}

func fnStringContainsQ(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("string-contains?", args, 2, 2); err != nil {
		return nil, err
	}
	s, err := asString("string-contains?", args[0])
	if err != nil {
		return nil, err
	}
	sub, err := asString("string-contains?", args[1])
	if err != nil {
		return nil, err
	}
	return value.Bool(strings.Contains(s, sub)), nil
}

func fnStartsWith(rt any, args []value.Value) (value.Value, error) {
	s, err := asString("starts-with?", args[0])
	if err != nil {
		return nil, err
	}
	prefix, err := asString("starts-with?", args[1])
	if err != nil {
		return nil, err
	}
	return value.Bool(strings.HasPrefix(s, prefix)), nil
}

func fnEndsWith(rt any, args []value.Value) (value.Value, error) {
	s, err := asString("ends-with?", args[0])
	if err != nil {
		return nil, err
	}
	suffix, err := asString("ends-with?", args[1])
	if err != nil {
		return nil, err
	}
	return value.Bool(strings.HasSuffix(s, suffix)), nil
}

func fnBlankQ(rt any, args []value.Value) (value.Value, error) {
	if _, isNil := args[0].(value.Nil); isNil {
		return value.Bool(true), nil
	}
	s, err := asString("blank?", args[0])
	if err != nil {
		return nil, err
	}
	return value.Bool(strings.TrimSpace(s) == ""), nil
}

func fnStringReverse(rt any, args []value.Value) (value.Value, error) {
	s, err := asString("string-reverse", args[0])
	if err != nil {
		return nil, err
	}
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return value.String(string(runes)), nil
}

// symbol/keyword/name: spec.md §3.1's identifier constructors and
// accessors, grounded on Ident.QualifiedName and its (Namespace, Name)
// shape already shared by Symbol and Keyword.

func fnSymbol(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("symbol", args, 1, 2); err != nil {
		return nil, err
	}
	if len(args) == 1 {
		s, err := asString("symbol", args[0])
		if err != nil {
			return nil, err
		}
		return value.NewSymbol("", string(s)), nil
	}
	ns, err := asString("symbol", args[0])
	if err != nil {
		return nil, err
	}
	n, err := asString("symbol", args[1])
	if err != nil {
		return nil, err
	}
	return value.NewSymbol(ns, n), nil
}

func fnKeyword(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("keyword", args, 1, 2); err != nil {
		return nil, err
	}
	if len(args) == 1 {
		switch x := args[0].(type) {
		case value.String:
			return value.NewKeyword("", string(x)), nil
		case value.Keyword:
			return x, nil
		case value.Symbol:
			return value.NewKeyword(x.Namespace, x.Name), nil
		}
		return nil, typeError("keyword", "requires a string, keyword, or symbol")
	}
	ns, err := asString("keyword", args[0])
	if err != nil {
		return nil, err
	}
	n, err := asString("keyword", args[1])
	if err != nil {
		return nil, err
	}
	return value.NewKeyword(ns, n), nil
}

func fnName(rt any, args []value.Value) (value.Value, error) {
	switch x := args[0].(type) {
	case value.Symbol:
		return value.String(x.Name), nil
	case value.Keyword:
		return value.String(x.Name), nil
	case value.String:
		return x, nil
	}
	return nil, typeError("name", "requires a symbol, keyword, or string")
}

func fnNamespace(rt any, args []value.Value) (value.Value, error) {
	switch x := args[0].(type) {
	case value.Symbol:
		if x.Namespace == "" {
			return value.NilVal, nil
		}
		return value.String(x.Namespace), nil
	case value.Keyword:
		if x.Namespace == "" {
			return value.NilVal, nil
		}
		return value.String(x.Namespace), nil
	}
	return nil, typeError("namespace", "requires a symbol or keyword")
}

var stringDefs = []Def{
	def("str", 0, -1, fnStr),
	def("subs", 2, 3, fnSubs),
	def("upper-case", 1, 1, fnUpperCase),
	def("lower-case", 1, 1, fnLowerCase),
	def("trim", 1, 1, fnTrim),
	def("trim-newline", 1, 1, fnTrimNewline),
	def("triml", 1, 1, fnTriml),
	def("trimr", 1, 1, fnTrimr),
	def("string-join", 1, 2, fnStringJoin),
	def("split", 2, 3, fnSplit),
	def("split-lines", 1, 1, fnSplitLines),
	def("replace", 3, 3, fnReplace),
	def("replace-first", 3, 3, fnReplaceFirst),
	def("string-contains?", 2, 2, fnStringContainsQ),
	def("starts-with?", 2, 2, fnStartsWith),
	def("ends-with?", 2, 2, fnEndsWith),
	def("blank?", 1, 1, fnBlankQ),
	def("string-reverse", 1, 1, fnStringReverse),
	def("symbol", 1, 2, fnSymbol),
	def("keyword", 1, 2, fnKeyword),
	def("name", 1, 1, fnName),
	def("namespace", 1, 1, fnNamespace),
}
