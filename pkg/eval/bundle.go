package eval

import (
	"github.com/mikkela/kamin/pkg/ast"
	"github.com/mikkela/kamin/pkg/runtime"
)

// Operation is one binary-operation registration contributed by a bundle.
type Operation struct {
	Operator ast.Operator
	Left     runtime.Kind
	Right    runtime.Kind
	Impl     BinaryFunc
}

// Bundle is the explicit per-language configuration assembled once at
// startup: the node evaluators the language contributes, its binary
// operations, and the true/false pair its boolean semantics use. Composing
// a bundle is deliberately centralized rather than auto-discovered; the
// one ordering rule is that later registrations overlay earlier ones.
type Bundle struct {
	Name       string
	Truth      runtime.Truth
	Evaluators map[ast.NodeType]EvalFunc
	Operations []Operation
}

func (b Bundle) install(registry *Registry, table *OperatorTable) {
	for kind, fn := range b.Evaluators {
		registry.Register(kind, fn)
	}
	for _, op := range b.Operations {
		table.Register(op.Operator, op.Left, op.Right, op.Impl)
	}
}
