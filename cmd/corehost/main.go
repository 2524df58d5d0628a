// Command corehost is a thin host-wiring demo: it wires call_fn to a
// minimal tree-walker (reader.go, eval.go, call.go, env.go, closure.go)
// and runs the eight end-to-end scenarios of spec.md §8, printing each
// result beside the expected one. The tree-walker has no delay form and
// does not evaluate the elements of vector or map literals, so S4 ends in
// an unresolved-symbol error; lazy sequences print as #<LazySeq>, so S1's
// result is shown without its elements.
package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/sandrolain/cljcore/pkg/builtins"
	"github.com/sandrolain/cljcore/pkg/printer"
	"github.com/sandrolain/cljcore/pkg/runtime"
	"github.com/sandrolain/cljcore/pkg/value"
)

type scenario struct {
	name   string
	source string
	want   string // printer.Readable form of the expected result, for display only
	// setup runs once against the fresh Context before source is read and
	// evaluated — used by S8 to pre-intern the dynamic Var the scenario
	// narrative assumes already exists.
	setup func(rt *runtime.Context)
	// after, if set, is evaluated against the same Context once source
	// has run, to observe state once a scope (e.g. binding) has exited.
	after string
}

var scenarios = []scenario{
	{name: "S1", source: "(take 5 (map inc (range)))", want: "(1 2 3 4 5)"},
	{name: "S2", source: "(reduce + 0 (filter odd? (range 10)))", want: "25"},
	{name: "S3", source: "(let [a (atom 0)] (swap! a inc) (swap! a + 10) @a)", want: "11"},
	{name: "S4", source: "(let [d (delay (prn :once) 42)] [(force d) (force d)])", want: "[42 42], captured output exactly one \":once\""},
	{name: "S5", source: "(get-in {:a {:b [10 20 30]}} [:a :b 2])", want: "30"},
	{name: "S6", source: "(partition-by odd? [1 1 2 2 3 1])", want: "((1 1) (2 2) (3) (1))"},
	{name: "S7", source: "(let [v (promise)] (deliver v 1) (deliver v 2) @v)", want: "1"},
	{
		name:   "S8",
		source: "(binding [*x* 7] (deref (var *x*)))",
		want:   "7, then 1 once the binding scope exits",
		setup: func(rt *runtime.Context) {
			v := rt.Env().Current().Intern("*x*", value.Int(1), true)
			v.Dynamic = true
		},
		after: "(deref (var *x*))",
	},
}

// newHost builds a fresh Context with call_fn wired to hostCall. The
// callback closes over the Context pointer before it exists yet — valid
// because hostCall is only ever invoked later, once New has returned and
// rt has been assigned (spec.md §6.1's call_fn slot is filled in at
// construction time but only exercised during evaluation).
func newHost(output *bytes.Buffer) *runtime.Context {
	var rt *runtime.Context
	rt = runtime.New(
		runtime.WithOutputCapture(output),
		runtime.WithCallFn(func(fn value.Value, args []value.Value) (value.Value, error) {
			return hostCall(rt, fn, args)
		}),
	)
	builtins.Register(rt.Env().Core())
	return rt
}

func runScenario(s scenario) (result value.Value, output string, afterResult value.Value, err error) {
	var captured bytes.Buffer
	rt := newHost(&captured)
	if s.setup != nil {
		s.setup(rt)
	}

	forms, err := readAll(s.source)
	if err != nil {
		return nil, "", nil, fmt.Errorf("read: %w", err)
	}
	result, err = evalBody(rt, newEnv(nil), forms)
	if err != nil {
		return nil, captured.String(), nil, err
	}

	if s.after != "" {
		afterForms, err := readAll(s.after)
		if err != nil {
			return nil, captured.String(), nil, fmt.Errorf("read after: %w", err)
		}
		afterResult, err = evalBody(rt, newEnv(nil), afterForms)
		if err != nil {
			return nil, captured.String(), nil, err
		}
	}
	return result, captured.String(), afterResult, nil
}

func main() {
	exit := 0
	for _, s := range scenarios {
		result, output, after, err := runScenario(s)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: ERROR: %v\n", s.name, err)
			exit = 1
			continue
		}
		fmt.Printf("%s: %s => %s  (want %s)\n", s.name, s.source, printer.Readable(result), s.want)
		if output != "" {
			fmt.Printf("  captured output: %q\n", output)
		}
		if after != nil {
			fmt.Printf("  after scope exits: %s\n", printer.Readable(after))
		}
	}
	os.Exit(exit)
}
