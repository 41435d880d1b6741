package eval

import (
	"fmt"

	"github.com/mikkela/kamin/pkg/ast"
	"github.com/mikkela/kamin/pkg/runtime"
)

// DefaultMaxDepth bounds call nesting. Runaway recursion is a language-user
// mistake, not a process fault, so it surfaces as an ordinary error.
const DefaultMaxDepth = 5000

// Options configures an Evaluator.
type Options struct {
	// MaxDepth caps function-call nesting; zero means DefaultMaxDepth.
	MaxDepth int
}

// Evaluator drives evaluation of expression trees for one language bundle.
// It owns no semantics of its own: every node kind is resolved through the
// registry, every binary operation through the operator table.
type Evaluator struct {
	registry  *Registry
	operators *OperatorTable
	functions *runtime.FunctionTable
	truth     runtime.Truth
	maxDepth  int
	depth     int
}

// New assembles an evaluator for bundle. Core construct evaluators
// (literals, variables, assignment, begin, if, while, call, binary
// operators, function definition) are installed first; the bundle's own
// evaluators overlay them, so a language may reinterpret a core node kind.
func New(bundle Bundle, functions *runtime.FunctionTable, opts Options) *Evaluator {
	registry := NewRegistry()
	for kind, fn := range Core() {
		registry.Register(kind, fn)
	}
	table := NewOperatorTable()
	bundle.install(registry, table)

	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Evaluator{
		registry:  registry,
		operators: table,
		functions: functions,
		truth:     bundle.Truth,
		maxDepth:  maxDepth,
	}
}

// Registry exposes the evaluator registry, mainly so tests can exercise
// unregistration paths.
func (ev *Evaluator) Registry() *Registry { return ev.registry }

// Operators exposes the binary-operation table.
func (ev *Evaluator) Operators() *OperatorTable { return ev.operators }

// Functions exposes the shared function table.
func (ev *Evaluator) Functions() *runtime.FunctionTable { return ev.functions }

// Truth returns the ambient true/false pair in effect.
func (ev *Evaluator) Truth() runtime.Truth { return ev.truth }

// Evaluate resolves node's kind through the registry and delegates.
func (ev *Evaluator) Evaluate(node ast.Node, env *runtime.Environment) (runtime.Value, error) {
	fn, ok := ev.registry.Lookup(node.NodeType())
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoEvaluator, node.NodeType())
	}
	return fn(ev, node, env)
}

func (ev *Evaluator) enterCall() error {
	if ev.depth >= ev.maxDepth {
		return fmt.Errorf("%w (%d)", ErrDepthLimit, ev.maxDepth)
	}
	ev.depth++
	return nil
}

func (ev *Evaluator) leaveCall() {
	ev.depth--
}
