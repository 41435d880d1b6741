// Package basic contributes the integer-only surface language: scalar
// arithmetic and relational operators over a single value kind.
package basic

import (
	"github.com/mikkela/kamin/pkg/ast"
	"github.com/mikkela/kamin/pkg/eval"
	"github.com/mikkela/kamin/pkg/lang/scalar"
	"github.com/mikkela/kamin/pkg/runtime"
)

// Truth is 1 and 0, the language's only boolean encoding.
func Truth() runtime.Truth {
	return runtime.Truth{
		True:  runtime.IntegerValue{Val: 1},
		False: runtime.IntegerValue{Val: 0},
	}
}

// BinaryOperators lists the operator spellings a front end should parse as
// binary applications for this language.
func BinaryOperators() []ast.Operator {
	return []ast.Operator{
		ast.OpAdd, ast.OpSubtract, ast.OpMultiply, ast.OpDivide,
		ast.OpEqual, ast.OpLess, ast.OpGreater,
	}
}

// Bundle assembles the language configuration. Only integer×integer
// combinations exist; anything else fails dispatch.
func Bundle() eval.Bundle {
	truth := Truth()
	ii := func(op ast.Operator, fn eval.BinaryFunc) eval.Operation {
		return eval.Operation{Operator: op, Left: runtime.KindInteger, Right: runtime.KindInteger, Impl: fn}
	}
	return eval.Bundle{
		Name:  "basic",
		Truth: truth,
		Operations: []eval.Operation{
			ii(ast.OpAdd, scalar.Arithmetic(scalar.Add)),
			ii(ast.OpSubtract, scalar.Arithmetic(scalar.Subtract)),
			ii(ast.OpMultiply, scalar.Arithmetic(scalar.Multiply)),
			ii(ast.OpDivide, scalar.Arithmetic(scalar.Divide)),
			ii(ast.OpEqual, scalar.Relational(scalar.Equal, truth)),
			ii(ast.OpLess, scalar.Relational(scalar.Less, truth)),
			ii(ast.OpGreater, scalar.Relational(scalar.Greater, truth)),
		},
	}
}
