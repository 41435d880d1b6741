// Package scalar holds the integer arithmetic shared by the surface
// languages. Each language still registers its own operand-kind
// combinations; only the element-level math lives here.
package scalar

import (
	"fmt"

	"github.com/mikkela/kamin/pkg/eval"
	"github.com/mikkela/kamin/pkg/runtime"
)

// Func computes one integer result from two integer operands.
type Func func(a, b int64) (int64, error)

func Add(a, b int64) (int64, error)      { return a + b, nil }
func Subtract(a, b int64) (int64, error) { return a - b, nil }
func Multiply(a, b int64) (int64, error) { return a * b, nil }

// Divide truncates toward zero. A zero divisor is an error, never a fault.
func Divide(a, b int64) (int64, error) {
	if b == 0 {
		return 0, fmt.Errorf("%w: %d / 0", eval.ErrDivisionByZero, a)
	}
	return a / b, nil
}

func Maximum(a, b int64) (int64, error) {
	if a > b {
		return a, nil
	}
	return b, nil
}

func Minimum(a, b int64) (int64, error) {
	if a < b {
		return a, nil
	}
	return b, nil
}

// Arithmetic lifts fn to a BinaryFunc over two integer values.
func Arithmetic(fn Func) eval.BinaryFunc {
	return func(left, right runtime.Value) (runtime.Value, error) {
		a := left.(runtime.IntegerValue).Val
		b := right.(runtime.IntegerValue).Val
		result, err := fn(a, b)
		if err != nil {
			return nil, err
		}
		return runtime.IntegerValue{Val: result}, nil
	}
}

// Relational lifts pred to a BinaryFunc over two integer values, producing
// the bundle's ambient true or false value.
func Relational(pred func(a, b int64) bool, truth runtime.Truth) eval.BinaryFunc {
	return func(left, right runtime.Value) (runtime.Value, error) {
		a := left.(runtime.IntegerValue).Val
		b := right.(runtime.IntegerValue).Val
		if pred(a, b) {
			return truth.True, nil
		}
		return truth.False, nil
	}
}

// Comparison predicates shared by the relational operators.

func Equal(a, b int64) bool   { return a == b }
func Less(a, b int64) bool    { return a < b }
func Greater(a, b int64) bool { return a > b }
