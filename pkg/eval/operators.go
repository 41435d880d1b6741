package eval

import (
	"fmt"

	"github.com/mikkela/kamin/pkg/ast"
	"github.com/mikkela/kamin/pkg/runtime"
)

// BinaryFunc implements one operator for one ordered operand-kind pair.
type BinaryFunc func(left, right runtime.Value) (runtime.Value, error)

// OperatorKey identifies a binary operation by operator and the exact
// runtime kinds of both operands, in order. (Add, integer, vector) and
// (Add, vector, integer) are distinct keys; a language meaning both legal
// registers both.
type OperatorKey struct {
	Operator ast.Operator
	Left     runtime.Kind
	Right    runtime.Kind
}

// OperatorTable resolves an operator and operand-kind pair to its
// implementation. Resolution is exact: no coercion, no promotion, no
// fallback across kinds. Unregistered combinations fail with
// ErrNotSupported naming the operator and both kinds.
type OperatorTable struct {
	impls map[OperatorKey]BinaryFunc
}

func NewOperatorTable() *OperatorTable {
	return &OperatorTable{impls: make(map[OperatorKey]BinaryFunc)}
}

// Register installs fn for the given operator and operand-kind pair.
// Registering the same key twice is a configuration mistake between
// modules; the table resolves it as last-registered-wins.
func (t *OperatorTable) Register(op ast.Operator, left, right runtime.Kind, fn BinaryFunc) {
	t.impls[OperatorKey{Operator: op, Left: left, Right: right}] = fn
}

// Lookup returns the implementation registered for the exact key, if any.
func (t *OperatorTable) Lookup(op ast.Operator, left, right runtime.Kind) (BinaryFunc, bool) {
	fn, ok := t.impls[OperatorKey{Operator: op, Left: left, Right: right}]
	return fn, ok
}

// Merge copies every registration from other into t. Merging tables with
// disjoint key sets is order-independent; on overlap the table merged last
// wins.
func (t *OperatorTable) Merge(other *OperatorTable) {
	for key, fn := range other.impls {
		t.impls[key] = fn
	}
}

// Dispatch resolves and applies op to the two values.
func (t *OperatorTable) Dispatch(op ast.Operator, left, right runtime.Value) (runtime.Value, error) {
	fn, ok := t.Lookup(op, left.Kind(), right.Kind())
	if !ok {
		return nil, fmt.Errorf("%w: %s on %s and %s", ErrNotSupported, op, left.Kind(), right.Kind())
	}
	return fn(left, right)
}

// Len reports the number of registered combinations.
func (t *OperatorTable) Len() int {
	return len(t.impls)
}
