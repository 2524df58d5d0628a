package builtins

import (
	"fmt"
	"strings"

	"github.com/sandrolain/cljcore/pkg/printer"
	"github.com/sandrolain/cljcore/pkg/value"
)

// Grounded on pkg/evaluator/eval_impl.go's toString plus spec.md §6.3's
// output-capture contract: every textual-output builtin writes through
// runtime.Context.Output(), which is wired to the capture buffer when
// one is installed and to the host's stdout otherwise.

func fnPrint(rt any, args []value.Value) (value.Value, error) {
	out := rtOf(rt).Output()
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = printer.Display(a)
	}
	fmt.Fprint(out, strings.Join(parts, " "))
	return value.NilVal, nil
}

func fnPrintln(rt any, args []value.Value) (value.Value, error) {
	out := rtOf(rt).Output()
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = printer.Display(a)
	}
	fmt.Fprintln(out, strings.Join(parts, " "))
	return value.NilVal, nil
}

func fnPr(rt any, args []value.Value) (value.Value, error) {
	out := rtOf(rt).Output()
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = printer.Readable(a)
	}
	fmt.Fprint(out, strings.Join(parts, " "))
	return value.NilVal, nil
}

func fnPrn(rt any, args []value.Value) (value.Value, error) {
	out := rtOf(rt).Output()
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = printer.Readable(a)
	}
	fmt.Fprintln(out, strings.Join(parts, " "))
	return value.NilVal, nil
}

func fnNewline(rt any, args []value.Value) (value.Value, error) {
	fmt.Fprintln(rtOf(rt).Output())
	return value.NilVal, nil
}

func fnPrintf(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("printf", args, 1, -1); err != nil {
		return nil, err
	}
	format, err := asString("printf", args[0])
	if err != nil {
		return nil, err
	}
	fargs := make([]any, len(args)-1)
	for i, a := range args[1:] {
		fargs[i] = printer.Display(a)
	}
	fmt.Fprintf(rtOf(rt).Output(), format, fargs...)
	return value.NilVal, nil
}

func fnPrStr(rt any, args []value.Value) (value.Value, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = printer.Readable(a)
	}
	return value.String(strings.Join(parts, " ")), nil
}

func fnPrintStr(rt any, args []value.Value) (value.Value, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = printer.Display(a)
	}
	return value.String(strings.Join(parts, " ")), nil
}

var ioDefs = []Def{
	def("print", 0, -1, fnPrint),
	def("println", 0, -1, fnPrintln),
	def("pr", 0, -1, fnPr),
	def("prn", 0, -1, fnPrn),
	def("newline", 0, 0, fnNewline),
	def("printf", 1, -1, fnPrintf),
	def("pr-str", 0, -1, fnPrStr),
	def("print-str", 0, -1, fnPrintStr),
}
