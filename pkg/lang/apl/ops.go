package apl

import (
	"fmt"

	"github.com/mikkela/kamin/pkg/ast"
	"github.com/mikkela/kamin/pkg/eval"
	"github.com/mikkela/kamin/pkg/lang/scalar"
	"github.com/mikkela/kamin/pkg/runtime"
)

// Element-wise lifts. Each returns a fresh value; operands are never
// mutated.

func scalarVector(fn scalar.Func) eval.BinaryFunc {
	return func(left, right runtime.Value) (runtime.Value, error) {
		a := left.(runtime.IntegerValue).Val
		vec := right.(*runtime.VectorValue)
		out := make([]int64, len(vec.Elements))
		for i, b := range vec.Elements {
			r, err := fn(a, b)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return &runtime.VectorValue{Elements: out}, nil
	}
}

func vectorScalar(fn scalar.Func) eval.BinaryFunc {
	return func(left, right runtime.Value) (runtime.Value, error) {
		vec := left.(*runtime.VectorValue)
		b := right.(runtime.IntegerValue).Val
		out := make([]int64, len(vec.Elements))
		for i, a := range vec.Elements {
			r, err := fn(a, b)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return &runtime.VectorValue{Elements: out}, nil
	}
}

func vectorVector(fn scalar.Func) eval.BinaryFunc {
	return func(left, right runtime.Value) (runtime.Value, error) {
		a := left.(*runtime.VectorValue)
		b := right.(*runtime.VectorValue)
		if len(a.Elements) != len(b.Elements) {
			return nil, fmt.Errorf("shape mismatch: vectors of length %d and %d", len(a.Elements), len(b.Elements))
		}
		out := make([]int64, len(a.Elements))
		for i := range a.Elements {
			r, err := fn(a.Elements[i], b.Elements[i])
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return &runtime.VectorValue{Elements: out}, nil
	}
}

func scalarMatrix(fn scalar.Func) eval.BinaryFunc {
	return func(left, right runtime.Value) (runtime.Value, error) {
		a := left.(runtime.IntegerValue).Val
		mat := right.(*runtime.MatrixValue)
		out := make([]int64, len(mat.Elements))
		for i, b := range mat.Elements {
			r, err := fn(a, b)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return &runtime.MatrixValue{Rows: mat.Rows, Cols: mat.Cols, Elements: out}, nil
	}
}

func matrixScalar(fn scalar.Func) eval.BinaryFunc {
	return func(left, right runtime.Value) (runtime.Value, error) {
		mat := left.(*runtime.MatrixValue)
		b := right.(runtime.IntegerValue).Val
		out := make([]int64, len(mat.Elements))
		for i, a := range mat.Elements {
			r, err := fn(a, b)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return &runtime.MatrixValue{Rows: mat.Rows, Cols: mat.Cols, Elements: out}, nil
	}
}

func matrixMatrix(fn scalar.Func) eval.BinaryFunc {
	return func(left, right runtime.Value) (runtime.Value, error) {
		a := left.(*runtime.MatrixValue)
		b := right.(*runtime.MatrixValue)
		if a.Rows != b.Rows || a.Cols != b.Cols {
			return nil, fmt.Errorf("shape mismatch: matrices %dx%d and %dx%d", a.Rows, a.Cols, b.Rows, b.Cols)
		}
		out := make([]int64, len(a.Elements))
		for i := range a.Elements {
			r, err := fn(a.Elements[i], b.Elements[i])
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return &runtime.MatrixValue{Rows: a.Rows, Cols: a.Cols, Elements: out}, nil
	}
}

// restruct builds a matrix from a two-element shape vector and a data
// vector, recycling the data until the shape is filled.
func restruct(left, right runtime.Value) (runtime.Value, error) {
	shape := left.(*runtime.VectorValue)
	data := right.(*runtime.VectorValue)
	if len(shape.Elements) != 2 {
		return nil, fmt.Errorf("restruct requires a two-element shape vector, got length %d", len(shape.Elements))
	}
	rows, cols := int(shape.Elements[0]), int(shape.Elements[1])
	if rows < 0 || cols < 0 {
		return nil, fmt.Errorf("restruct shape must be non-negative, got %dx%d", rows, cols)
	}
	if rows*cols > 0 && len(data.Elements) == 0 {
		return nil, fmt.Errorf("restruct requires non-empty data for shape %dx%d", rows, cols)
	}
	out := make([]int64, rows*cols)
	for i := range out {
		out[i] = data.Elements[i%len(data.Elements)]
	}
	return &runtime.MatrixValue{Rows: rows, Cols: cols, Elements: out}, nil
}

// compress keeps the data elements whose control element is nonzero.
func compress(left, right runtime.Value) (runtime.Value, error) {
	control := left.(*runtime.VectorValue)
	data := right.(*runtime.VectorValue)
	if len(control.Elements) != len(data.Elements) {
		return nil, fmt.Errorf("shape mismatch: vectors of length %d and %d", len(control.Elements), len(data.Elements))
	}
	var out []int64
	for i, keep := range control.Elements {
		if keep != 0 {
			out = append(out, data.Elements[i])
		}
	}
	return &runtime.VectorValue{Elements: out}, nil
}

// evalUnary handles the monadic operators: shape, ravel, and +/ reduction.
func evalUnary(ev *eval.Evaluator, node ast.Node, env *runtime.Environment) (runtime.Value, error) {
	n, ok := node.(*ast.UnaryExpression)
	if !ok {
		return nil, fmt.Errorf("unary evaluator applied to %s node", node.NodeType())
	}
	operand, err := ev.Evaluate(n.Operand, env)
	if err != nil {
		return nil, err
	}
	switch n.Operator {
	case OpShape:
		return shapeOf(operand)
	case OpRavel:
		return ravel(operand)
	case OpPlusReduce:
		return plusReduce(operand)
	default:
		return nil, fmt.Errorf("%w: %s on %s", eval.ErrNotSupported, n.Operator, operand.Kind())
	}
}

func shapeOf(v runtime.Value) (runtime.Value, error) {
	switch val := v.(type) {
	case runtime.IntegerValue:
		return &runtime.VectorValue{Elements: []int64{}}, nil
	case *runtime.VectorValue:
		return &runtime.VectorValue{Elements: []int64{int64(len(val.Elements))}}, nil
	case *runtime.MatrixValue:
		return &runtime.VectorValue{Elements: []int64{int64(val.Rows), int64(val.Cols)}}, nil
	default:
		return nil, fmt.Errorf("%w: %s on %s", eval.ErrNotSupported, OpShape, v.Kind())
	}
}

func ravel(v runtime.Value) (runtime.Value, error) {
	switch val := v.(type) {
	case runtime.IntegerValue:
		return &runtime.VectorValue{Elements: []int64{val.Val}}, nil
	case *runtime.VectorValue:
		out := make([]int64, len(val.Elements))
		copy(out, val.Elements)
		return &runtime.VectorValue{Elements: out}, nil
	case *runtime.MatrixValue:
		out := make([]int64, len(val.Elements))
		copy(out, val.Elements)
		return &runtime.VectorValue{Elements: out}, nil
	default:
		return nil, fmt.Errorf("%w: %s on %s", eval.ErrNotSupported, OpRavel, v.Kind())
	}
}

// plusReduce sums a vector to a scalar and a matrix along its rows to a
// vector, matching last-axis reduction.
func plusReduce(v runtime.Value) (runtime.Value, error) {
	switch val := v.(type) {
	case runtime.IntegerValue:
		return val, nil
	case *runtime.VectorValue:
		var sum int64
		for _, el := range val.Elements {
			sum += el
		}
		return runtime.IntegerValue{Val: sum}, nil
	case *runtime.MatrixValue:
		out := make([]int64, val.Rows)
		for r := 0; r < val.Rows; r++ {
			var sum int64
			for c := 0; c < val.Cols; c++ {
				sum += val.At(r, c)
			}
			out[r] = sum
		}
		return &runtime.VectorValue{Elements: out}, nil
	default:
		return nil, fmt.Errorf("%w: %s on %s", eval.ErrNotSupported, OpPlusReduce, v.Kind())
	}
}
