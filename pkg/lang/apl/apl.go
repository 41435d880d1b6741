// Package apl contributes the vector/matrix surface language. Arithmetic
// and relational operators apply element-wise; every legal operand-kind
// combination is registered explicitly, there is no implicit promotion.
package apl

import (
	"fmt"

	"github.com/mikkela/kamin/pkg/ast"
	"github.com/mikkela/kamin/pkg/eval"
	"github.com/mikkela/kamin/pkg/lang/scalar"
	"github.com/mikkela/kamin/pkg/runtime"
)

// Operators beyond the shared arithmetic/relational set.
const (
	OpMax      ast.Operator = "max"
	OpMin      ast.Operator = "min"
	OpRestruct ast.Operator = "restruct"
	OpCompress ast.Operator = "compress"

	OpShape      ast.Operator = "shape"
	OpRavel      ast.Operator = "ravel"
	OpPlusReduce ast.Operator = "+/"
)

// Truth is scalar 1 and 0; aggregates are true when any element is.
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
		OpMax, OpMin, OpRestruct, OpCompress,
	}
}

// UnaryOperators lists the monadic operator spellings.
func UnaryOperators() []ast.Operator {
	return []ast.Operator{OpShape, OpRavel, OpPlusReduce}
}

// Bundle assembles the language configuration. Each element-wise operator
// is registered for the seven combinations the language supports; the
// vector×matrix pairs are deliberately absent and fail dispatch.
func Bundle() eval.Bundle {
	elementWise := []struct {
		op ast.Operator
		fn scalar.Func
	}{
		{ast.OpAdd, scalar.Add},
		{ast.OpSubtract, scalar.Subtract},
		{ast.OpMultiply, scalar.Multiply},
		{ast.OpDivide, scalar.Divide},
		{OpMax, scalar.Maximum},
		{OpMin, scalar.Minimum},
		{ast.OpEqual, boolFunc(scalar.Equal)},
		{ast.OpLess, boolFunc(scalar.Less)},
		{ast.OpGreater, boolFunc(scalar.Greater)},
	}

	var operations []eval.Operation
	reg := func(op ast.Operator, left, right runtime.Kind, impl eval.BinaryFunc) {
		operations = append(operations, eval.Operation{Operator: op, Left: left, Right: right, Impl: impl})
	}
	for _, def := range elementWise {
		reg(def.op, runtime.KindInteger, runtime.KindInteger, scalar.Arithmetic(def.fn))
		reg(def.op, runtime.KindInteger, runtime.KindVector, scalarVector(def.fn))
		reg(def.op, runtime.KindVector, runtime.KindInteger, vectorScalar(def.fn))
		reg(def.op, runtime.KindVector, runtime.KindVector, vectorVector(def.fn))
		reg(def.op, runtime.KindInteger, runtime.KindMatrix, scalarMatrix(def.fn))
		reg(def.op, runtime.KindMatrix, runtime.KindInteger, matrixScalar(def.fn))
		reg(def.op, runtime.KindMatrix, runtime.KindMatrix, matrixMatrix(def.fn))
	}
	reg(OpRestruct, runtime.KindVector, runtime.KindVector, restruct)
	reg(OpCompress, runtime.KindVector, runtime.KindVector, compress)

	return eval.Bundle{
		Name:  "apl",
		Truth: Truth(),
		Evaluators: map[ast.NodeType]eval.EvalFunc{
			ast.NodeListLiteral:     evalVectorLiteral,
			ast.NodeUnaryExpression: evalUnary,
		},
		Operations: operations,
	}
}

func boolFunc(pred func(a, b int64) bool) scalar.Func {
	return func(a, b int64) (int64, error) {
		if pred(a, b) {
			return 1, nil
		}
		return 0, nil
	}
}

// evalVectorLiteral reinterprets quoted lists as vectors: in this language
// '(1 2 3) denotes flat integer data, not list structure.
func evalVectorLiteral(_ *eval.Evaluator, node ast.Node, _ *runtime.Environment) (runtime.Value, error) {
	n, ok := node.(*ast.ListLiteral)
	if !ok {
		return nil, fmt.Errorf("vector literal evaluator applied to %s node", node.NodeType())
	}
	elements := make([]int64, len(n.Elements))
	for i, el := range n.Elements {
		lit, ok := el.(*ast.IntegerLiteral)
		if !ok {
			return nil, fmt.Errorf("vector literal requires integer elements, found %s", el.NodeType())
		}
		elements[i] = lit.Value
	}
	return &runtime.VectorValue{Elements: elements}, nil
}
