package builtins

import "github.com/sandrolain/cljcore/pkg/value"

// Grounded on pkg/evaluator/fn_numeric.go and eval_operators.go's
// numeric-promotion switch: two Ints combine as Int, any Float operand
// promotes the whole expression to Float.

func asNums(name string, args []value.Value) ([]value.Value, error) {
	for _, a := range args {
		if !value.IsNumber(a) {
			return nil, typeError(name, "requires numbers")
		}
	}
	return args, nil
}

func bothInt(a, b value.Value) (value.Int, value.Int, bool) {
	ai, ok1 := a.(value.Int)
	bi, ok2 := b.(value.Int)
	return ai, bi, ok1 && ok2
}

func add2(a, b value.Value) value.Value {
	if ai, bi, ok := bothInt(a, b); ok {
		return ai + bi
	}
	af, _ := value.AsFloat64(a)
	bf, _ := value.AsFloat64(b)
	return value.Float(af + bf)
}

func sub2(a, b value.Value) value.Value {
	if ai, bi, ok := bothInt(a, b); ok {
		return ai - bi
	}
	af, _ := value.AsFloat64(a)
	bf, _ := value.AsFloat64(b)
	return value.Float(af - bf)
}

func mul2(a, b value.Value) value.Value {
	if ai, bi, ok := bothInt(a, b); ok {
		return ai * bi
	}
	af, _ := value.AsFloat64(a)
	bf, _ := value.AsFloat64(b)
	return value.Float(af * bf)
}

func div2(name string, a, b value.Value) (value.Value, error) {
	if ai, bi, ok := bothInt(a, b); ok {
		if bi == 0 {
			return nil, &value.Error{Code: value.ErrDivisionByZero, Message: name + ": division by zero", Position: -1}
		}
		if ai%bi == 0 {
			return ai / bi, nil
		}
		return value.Float(float64(ai) / float64(bi)), nil
	}
	af, _ := value.AsFloat64(a)
	bf, _ := value.AsFloat64(b)
	if bf == 0 {
		return nil, &value.Error{Code: value.ErrDivisionByZero, Message: name + ": division by zero", Position: -1}
	}
	return value.Float(af / bf), nil
}

func fnAdd(rt any, args []value.Value) (value.Value, error) {
	if _, err := asNums("+", args); err != nil {
		return nil, err
	}
	var acc value.Value = value.Int(0)
	for _, a := range args {
		acc = add2(acc, a)
	}
	return acc, nil
}

func fnSub(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("-", args, 1, -1); err != nil {
		return nil, err
	}
	if _, err := asNums("-", args); err != nil {
		return nil, err
	}
	if len(args) == 1 {
		return sub2(value.Int(0), args[0]), nil
	}
	acc := args[0]
	for _, a := range args[1:] {
		acc = sub2(acc, a)
	}
	return acc, nil
}

func fnMul(rt any, args []value.Value) (value.Value, error) {
	if _, err := asNums("*", args); err != nil {
		return nil, err
	}
	var acc value.Value = value.Int(1)
	for _, a := range args {
		acc = mul2(acc, a)
	}
	return acc, nil
}

func fnDiv(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("/", args, 1, -1); err != nil {
		return nil, err
	}
	if _, err := asNums("/", args); err != nil {
		return nil, err
	}
	if len(args) == 1 {
		return div2("/", value.Int(1), args[0])
	}
	acc := args[0]
	var err error
	for _, a := range args[1:] {
		acc, err = div2("/", acc, a)
		if err != nil {
			return nil, err
		}
	}
	return acc, nil
}

func fnQuot(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("quot", args, 2, 2); err != nil {
		return nil, err
	}
	if ai, bi, ok := bothInt(args[0], args[1]); ok {
		if bi == 0 {
			return nil, &value.Error{Code: value.ErrDivisionByZero, Message: "quot: division by zero", Position: -1}
		}
		return ai / bi, nil
	}
	af, _ := value.AsFloat64(args[0])
	bf, _ := value.AsFloat64(args[1])
	if bf == 0 {
		return nil, &value.Error{Code: value.ErrDivisionByZero, Message: "quot: division by zero", Position: -1}
	}
	return value.Float(float64(int64(af / bf))), nil
}

func fnRem(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("rem", args, 2, 2); err != nil {
		return nil, err
	}
	if ai, bi, ok := bothInt(args[0], args[1]); ok {
		if bi == 0 {
			return nil, &value.Error{Code: value.ErrDivisionByZero, Message: "rem: division by zero", Position: -1}
		}
		return ai % bi, nil
	}
	af, _ := value.AsFloat64(args[0])
	bf, _ := value.AsFloat64(args[1])
	if bf == 0 {
		return nil, &value.Error{Code: value.ErrDivisionByZero, Message: "rem: division by zero", Position: -1}
	}
	mod := af - bf*float64(int64(af/bf))
	return value.Float(mod), nil
}

func fnMod(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("mod", args, 2, 2); err != nil {
		return nil, err
	}
	if ai, bi, ok := bothInt(args[0], args[1]); ok {
		if bi == 0 {
			return nil, &value.Error{Code: value.ErrDivisionByZero, Message: "mod: division by zero", Position: -1}
		}
		m := ai % bi
		if m != 0 && (m < 0) != (bi < 0) {
			m += bi
		}
		return m, nil
	}
	af, _ := value.AsFloat64(args[0])
	bf, _ := value.AsFloat64(args[1])
	if bf == 0 {
		return nil, &value.Error{Code: value.ErrDivisionByZero, Message: "mod: division by zero", Position: -1}
	}
	m := af - bf*float64(int64(af/bf))
	if m != 0 && (m < 0) != (bf < 0) {
		m += bf
	}
	return value.Float(m), nil
}

func fnInc(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("inc", args, 1, 1); err != nil {
		return nil, err
	}
	return add2(args[0], value.Int(1)), nil
}

func fnDec(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("dec", args, 1, 1); err != nil {
		return nil, err
	}
	return sub2(args[0], value.Int(1)), nil
}

func numLess(a, b value.Value) bool {
	if ai, bi, ok := bothInt(a, b); ok {
		return ai < bi
	}
	af, _ := value.AsFloat64(a)
	bf, _ := value.AsFloat64(b)
	return af < bf
}

func chain(args []value.Value, less func(a, b value.Value) bool) bool {
	for i := 1; i < len(args); i++ {
		if !less(args[i-1], args[i]) {
			return false
		}
	}
	return true
}

func fnLt(rt any, args []value.Value) (value.Value, error) {
	return value.Bool(chain(args, numLess)), nil
}
func fnLe(rt any, args []value.Value) (value.Value, error) {
	return value.Bool(chain(args, func(a, b value.Value) bool { return !numLess(b, a) })), nil
}
func fnGt(rt any, args []value.Value) (value.Value, error) {
	return value.Bool(chain(args, func(a, b value.Value) bool { return numLess(b, a) })), nil
}
func fnGe(rt any, args []value.Value) (value.Value, error) {
	return value.Bool(chain(args, func(a, b value.Value) bool { return !numLess(a, b) })), nil
}

func fnMin(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("min", args, 1, -1); err != nil {
		return nil, err
	}
	best := args[0]
	for _, a := range args[1:] {
		if numLess(a, best) {
			best = a
		}
	}
	return best, nil
}

func fnMax(rt any, args []value.Value) (value.Value, error) {
	if err := checkArity("max", args, 1, -1); err != nil {
		return nil, err
	}
	best := args[0]
	for _, a := range args[1:] {
		if numLess(best, a) {
			best = a
		}
	}
	return best, nil
}

func fnZeroQ(rt any, args []value.Value) (value.Value, error) {
	f, _ := value.AsFloat64(args[0])
	return value.Bool(f == 0), nil
}
func fnPosQ(rt any, args []value.Value) (value.Value, error) {
	f, _ := value.AsFloat64(args[0])
	return value.Bool(f > 0), nil
}
func fnNegQ(rt any, args []value.Value) (value.Value, error) {
	f, _ := value.AsFloat64(args[0])
	return value.Bool(f < 0), nil
}
func fnEvenQ(rt any, args []value.Value) (value.Value, error) {
	i, ok := args[0].(value.Int)
	if !ok {
		return nil, typeError("even?", "requires an integer")
	}
	return value.Bool(i%2 == 0), nil
}
func fnOddQ(rt any, args []value.Value) (value.Value, error) {
	i, ok := args[0].(value.Int)
	if !ok {
		return nil, typeError("odd?", "requires an integer")
	}
	return value.Bool(i%2 != 0), nil
}

var arithDefs = []Def{
	def("+", 0, -1, fnAdd),
	def("-", 1, -1, fnSub),
	def("*", 0, -1, fnMul),
	def("/", 1, -1, fnDiv),
	def("quot", 2, 2, fnQuot),
	def("rem", 2, 2, fnRem),
	def("mod", 2, 2, fnMod),
	def("inc", 1, 1, fnInc),
	def("dec", 1, 1, fnDec),
	def("<", 1, -1, fnLt),
	def("<=", 1, -1, fnLe),
	def(">", 1, -1, fnGt),
	def(">=", 1, -1, fnGe),
	def("min", 1, -1, fnMin),
	def("max", 1, -1, fnMax),
	def("zero?", 1, 1, fnZeroQ),
	def("pos?", 1, 1, fnPosQ),
	def("neg?", 1, 1, fnNegQ),
	def("even?", 1, 1, fnEvenQ),
	def("odd?", 1, 1, fnOddQ),
}
