// Package lisp contributes the reduced-LISP surface language: symbols and
// proper lists alongside integer arithmetic. The symbol T and the empty
// list are the language's boolean pair.
package lisp

import (
	"fmt"

	"github.com/mikkela/kamin/pkg/ast"
	"github.com/mikkela/kamin/pkg/eval"
	"github.com/mikkela/kamin/pkg/lang/scalar"
	"github.com/mikkela/kamin/pkg/runtime"
)

const (
	OpCons ast.Operator = "cons"

	OpCar      ast.Operator = "car"
	OpCdr      ast.Operator = "cdr"
	OpIsNull   ast.Operator = "null?"
	OpIsNumber ast.Operator = "number?"
	OpIsSymbol ast.Operator = "symbol?"
	OpIsList   ast.Operator = "list?"
)

// Truth returns the symbol T and the empty list.
func Truth() runtime.Truth {
	return runtime.Truth{
		True:  runtime.SymbolValue{Name: "T"},
		False: &runtime.ListValue{},
	}
}

// BinaryOperators lists the operator spellings a front end should parse as
// binary applications for this language.
func BinaryOperators() []ast.Operator {
	return []ast.Operator{
		ast.OpAdd, ast.OpSubtract, ast.OpMultiply, ast.OpDivide,
		ast.OpEqual, ast.OpLess, ast.OpGreater, OpCons,
	}
}

// UnaryOperators lists the structural and predicate operator spellings.
func UnaryOperators() []ast.Operator {
	return []ast.Operator{OpCar, OpCdr, OpIsNull, OpIsNumber, OpIsSymbol, OpIsList}
}

// Bundle assembles the language configuration. cons and = are dispatched by
// operand-kind pair; the sparse registrations below are the only legal
// combinations.
func Bundle() eval.Bundle {
	truth := Truth()
	var operations []eval.Operation
	reg := func(op ast.Operator, left, right runtime.Kind, impl eval.BinaryFunc) {
		operations = append(operations, eval.Operation{Operator: op, Left: left, Right: right, Impl: impl})
	}

	for _, def := range []struct {
		op ast.Operator
		fn scalar.Func
	}{
		{ast.OpAdd, scalar.Add},
		{ast.OpSubtract, scalar.Subtract},
		{ast.OpMultiply, scalar.Multiply},
		{ast.OpDivide, scalar.Divide},
	} {
		reg(def.op, runtime.KindInteger, runtime.KindInteger, scalar.Arithmetic(def.fn))
	}
	reg(ast.OpLess, runtime.KindInteger, runtime.KindInteger, scalar.Relational(scalar.Less, truth))
	reg(ast.OpGreater, runtime.KindInteger, runtime.KindInteger, scalar.Relational(scalar.Greater, truth))
	reg(ast.OpEqual, runtime.KindInteger, runtime.KindInteger, scalar.Relational(scalar.Equal, truth))
	reg(ast.OpEqual, runtime.KindSymbol, runtime.KindSymbol, eqSymbols(truth))
	reg(ast.OpEqual, runtime.KindList, runtime.KindList, eqLists(truth))

	for _, left := range []runtime.Kind{runtime.KindInteger, runtime.KindSymbol, runtime.KindList} {
		reg(OpCons, left, runtime.KindList, cons)
	}

	return eval.Bundle{
		Name:  "lisp",
		Truth: truth,
		Evaluators: map[ast.NodeType]eval.EvalFunc{
			ast.NodeSymbolLiteral:   evalSymbolLiteral,
			ast.NodeListLiteral:     evalListLiteral,
			ast.NodeUnaryExpression: evalUnary,
		},
		Operations: operations,
	}
}

func evalSymbolLiteral(_ *eval.Evaluator, node ast.Node, _ *runtime.Environment) (runtime.Value, error) {
	n, ok := node.(*ast.SymbolLiteral)
	if !ok {
		return nil, fmt.Errorf("symbol literal evaluator applied to %s node", node.NodeType())
	}
	return runtime.SymbolValue{Name: n.Name}, nil
}

func evalListLiteral(_ *eval.Evaluator, node ast.Node, _ *runtime.Environment) (runtime.Value, error) {
	n, ok := node.(*ast.ListLiteral)
	if !ok {
		return nil, fmt.Errorf("list literal evaluator applied to %s node", node.NodeType())
	}
	return quotedValue(n)
}

// quotedValue converts quoted literal structure into runtime data without
// evaluating anything inside it.
func quotedValue(expr ast.Expression) (runtime.Value, error) {
	switch lit := expr.(type) {
	case *ast.IntegerLiteral:
		return runtime.IntegerValue{Val: lit.Value}, nil
	case *ast.SymbolLiteral:
		return runtime.SymbolValue{Name: lit.Name}, nil
	case *ast.ListLiteral:
		elements := make([]runtime.Value, len(lit.Elements))
		for i, el := range lit.Elements {
			val, err := quotedValue(el)
			if err != nil {
				return nil, err
			}
			elements[i] = val
		}
		return &runtime.ListValue{Elements: elements}, nil
	default:
		return nil, fmt.Errorf("quoted data cannot contain %s node", expr.NodeType())
	}
}

func cons(left, right runtime.Value) (runtime.Value, error) {
	tail := right.(*runtime.ListValue)
	elements := make([]runtime.Value, 0, len(tail.Elements)+1)
	elements = append(elements, left)
	elements = append(elements, tail.Elements...)
	return &runtime.ListValue{Elements: elements}, nil
}

func eqSymbols(truth runtime.Truth) eval.BinaryFunc {
	return func(left, right runtime.Value) (runtime.Value, error) {
		if left.(runtime.SymbolValue).Name == right.(runtime.SymbolValue).Name {
			return truth.True, nil
		}
		return truth.False, nil
	}
}

// eqLists is identity-flavoured equality: only two empty lists compare
// equal, matching eq on lists rather than deep comparison.
func eqLists(truth runtime.Truth) eval.BinaryFunc {
	return func(left, right runtime.Value) (runtime.Value, error) {
		a := left.(*runtime.ListValue)
		b := right.(*runtime.ListValue)
		if len(a.Elements) == 0 && len(b.Elements) == 0 {
			return truth.True, nil
		}
		return truth.False, nil
	}
}

// evalUnary handles the structural and predicate operators.
func evalUnary(ev *eval.Evaluator, node ast.Node, env *runtime.Environment) (runtime.Value, error) {
	n, ok := node.(*ast.UnaryExpression)
	if !ok {
		return nil, fmt.Errorf("unary evaluator applied to %s node", node.NodeType())
	}
	operand, err := ev.Evaluate(n.Operand, env)
	if err != nil {
		return nil, err
	}
	truth := ev.Truth()
	switch n.Operator {
	case OpCar:
		list, err := requireList(n.Operator, operand)
		if err != nil {
			return nil, err
		}
		if len(list.Elements) == 0 {
			return nil, fmt.Errorf("car: first element of empty list")
		}
		return list.Elements[0], nil
	case OpCdr:
		list, err := requireList(n.Operator, operand)
		if err != nil {
			return nil, err
		}
		if len(list.Elements) == 0 {
			return nil, fmt.Errorf("cdr: rest of empty list")
		}
		rest := make([]runtime.Value, len(list.Elements)-1)
		copy(rest, list.Elements[1:])
		return &runtime.ListValue{Elements: rest}, nil
	case OpIsNull:
		if list, ok := operand.(*runtime.ListValue); ok && len(list.Elements) == 0 {
			return truth.True, nil
		}
		return truth.False, nil
	case OpIsNumber:
		return predicate(truth, operand.Kind() == runtime.KindInteger), nil
	case OpIsSymbol:
		return predicate(truth, operand.Kind() == runtime.KindSymbol), nil
	case OpIsList:
		return predicate(truth, operand.Kind() == runtime.KindList), nil
	default:
		return nil, fmt.Errorf("%w: %s on %s", eval.ErrNotSupported, n.Operator, operand.Kind())
	}
}

func requireList(op ast.Operator, v runtime.Value) (*runtime.ListValue, error) {
	list, ok := v.(*runtime.ListValue)
	if !ok {
		return nil, fmt.Errorf("%w: %s on %s", eval.ErrNotSupported, op, v.Kind())
	}
	return list, nil
}

func predicate(truth runtime.Truth, ok bool) runtime.Value {
	if ok {
		return truth.True
	}
	return truth.False
}
