package eval

import (
	"errors"
	"strings"
	"testing"

	"github.com/mikkela/kamin/pkg/ast"
	"github.com/mikkela/kamin/pkg/runtime"
)

func constOp(n int64) BinaryFunc {
	return func(_, _ runtime.Value) (runtime.Value, error) {
		return runtime.IntegerValue{Val: n}, nil
	}
}

func TestOperatorTableExactPairResolution(t *testing.T) {
	table := NewOperatorTable()
	table.Register(ast.OpAdd, runtime.KindInteger, runtime.KindInteger, constOp(1))
	table.Register(ast.OpAdd, runtime.KindInteger, runtime.KindVector, constOp(2))

	// The mirrored pair was never registered and must not resolve.
	if _, ok := table.Lookup(ast.OpAdd, runtime.KindVector, runtime.KindInteger); ok {
		t.Fatalf("expected no implementation for the mirrored operand pair")
	}
	fn, ok := table.Lookup(ast.OpAdd, runtime.KindInteger, runtime.KindVector)
	if !ok {
		t.Fatalf("expected implementation for registered pair")
	}
	val, err := fn(runtime.IntegerValue{Val: 0}, &runtime.VectorValue{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val != (runtime.IntegerValue{Val: 2}) {
		t.Fatalf("unexpected value %#v", val)
	}
}

func TestOperatorTableDispatchUnsupported(t *testing.T) {
	table := NewOperatorTable()
	table.Register(ast.OpAdd, runtime.KindInteger, runtime.KindInteger, constOp(1))

	_, err := table.Dispatch(ast.OpAdd, &runtime.VectorValue{Elements: []int64{1}}, runtime.IntegerValue{Val: 1})
	if !errors.Is(err, ErrNotSupported) {
		t.Fatalf("expected ErrNotSupported, got %v", err)
	}
	if !strings.Contains(err.Error(), "vector") || !strings.Contains(err.Error(), "integer") {
		t.Fatalf("expected both operand kinds in the message, got %q", err.Error())
	}
}

func TestOperatorTableMergeDisjoint(t *testing.T) {
	a := NewOperatorTable()
	a.Register(ast.OpAdd, runtime.KindInteger, runtime.KindInteger, constOp(1))
	b := NewOperatorTable()
	b.Register(ast.OpSubtract, runtime.KindInteger, runtime.KindInteger, constOp(2))

	a.Merge(b)
	if a.Len() != 2 {
		t.Fatalf("expected 2 registrations after merge, got %d", a.Len())
	}
	val, err := a.Dispatch(ast.OpSubtract, runtime.IntegerValue{Val: 0}, runtime.IntegerValue{Val: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val != (runtime.IntegerValue{Val: 2}) {
		t.Fatalf("unexpected value %#v", val)
	}
}

func TestOperatorTableMergeOverlapLastWins(t *testing.T) {
	a := NewOperatorTable()
	a.Register(ast.OpAdd, runtime.KindInteger, runtime.KindInteger, constOp(1))
	b := NewOperatorTable()
	b.Register(ast.OpAdd, runtime.KindInteger, runtime.KindInteger, constOp(9))

	a.Merge(b)
	val, err := a.Dispatch(ast.OpAdd, runtime.IntegerValue{Val: 0}, runtime.IntegerValue{Val: 0})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if val != (runtime.IntegerValue{Val: 9}) {
		t.Fatalf("unexpected value %#v", val)
	}
}
