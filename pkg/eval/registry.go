package eval

import (
	"github.com/mikkela/kamin/pkg/ast"
	"github.com/mikkela/kamin/pkg/runtime"
)

// EvalFunc evaluates one node kind. Implementations receive the evaluator
// for recursion and ambient context (truth pair, function table, operator
// table) and the environment the node is evaluated in.
type EvalFunc func(ev *Evaluator, node ast.Node, env *runtime.Environment) (runtime.Value, error)

// Registry maps node kinds to their evaluators. The engine's entry point
// looks nodes up here and delegates; it never special-cases node kinds
// itself, which is what lets independent language modules contribute node
// kinds without touching shared code.
//
// Registration happens once at startup while a bundle is assembled;
// evaluation treats the registry as read-only.
type Registry struct {
	evaluators map[ast.NodeType]EvalFunc
}

func NewRegistry() *Registry {
	return &Registry{evaluators: make(map[ast.NodeType]EvalFunc)}
}

// Register installs fn as the evaluator for kind, replacing any previous
// registration. Last registration wins; bundles rely on this to overlay
// language-specific evaluators over the core set.
func (r *Registry) Register(kind ast.NodeType, fn EvalFunc) {
	r.evaluators[kind] = fn
}

// Lookup returns the evaluator for kind, if one is registered.
func (r *Registry) Lookup(kind ast.NodeType) (EvalFunc, bool) {
	fn, ok := r.evaluators[kind]
	return fn, ok
}

// Unregister removes the evaluator for kind, if any.
func (r *Registry) Unregister(kind ast.NodeType) {
	delete(r.evaluators, kind)
}

// Clear removes every registration.
func (r *Registry) Clear() {
	r.evaluators = make(map[ast.NodeType]EvalFunc)
}
