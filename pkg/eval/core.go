package eval

import (
	"fmt"

	"github.com/mikkela/kamin/pkg/ast"
	"github.com/mikkela/kamin/pkg/runtime"
)

// Core returns the evaluators for the construct families every surface
// language shares. Each entry is an independent registration; bundles may
// overlay any of them.
func Core() map[ast.NodeType]EvalFunc {
	return map[ast.NodeType]EvalFunc{
		ast.NodeIntegerLiteral:     evalIntegerLiteral,
		ast.NodeVariableReference:  evalVariableReference,
		ast.NodeAssignment:         evalAssignment,
		ast.NodeBegin:              evalBegin,
		ast.NodeIf:                 evalIf,
		ast.NodeWhile:              evalWhile,
		ast.NodeCall:               evalCall,
		ast.NodeBinaryExpression:   evalBinaryExpression,
		ast.NodeFunctionDefinition: evalFunctionDefinition,
	}
}

func nodeMismatch(kind ast.NodeType, node ast.Node) error {
	return fmt.Errorf("evaluator for %s applied to %s node", kind, node.NodeType())
}

func evalIntegerLiteral(_ *Evaluator, node ast.Node, _ *runtime.Environment) (runtime.Value, error) {
	n, ok := node.(*ast.IntegerLiteral)
	if !ok {
		return nil, nodeMismatch(ast.NodeIntegerLiteral, node)
	}
	return runtime.IntegerValue{Val: n.Value}, nil
}

func evalVariableReference(_ *Evaluator, node ast.Node, env *runtime.Environment) (runtime.Value, error) {
	n, ok := node.(*ast.VariableReference)
	if !ok {
		return nil, nodeMismatch(ast.NodeVariableReference, node)
	}
	return env.Get(n.Name)
}

func evalAssignment(ev *Evaluator, node ast.Node, env *runtime.Environment) (runtime.Value, error) {
	n, ok := node.(*ast.Assignment)
	if !ok {
		return nil, nodeMismatch(ast.NodeAssignment, node)
	}
	val, err := ev.Evaluate(n.Value, env)
	if err != nil {
		return nil, err
	}
	env.Set(n.Name, val)
	return val, nil
}

func evalBegin(ev *Evaluator, node ast.Node, env *runtime.Environment) (runtime.Value, error) {
	n, ok := node.(*ast.Begin)
	if !ok {
		return nil, nodeMismatch(ast.NodeBegin, node)
	}
	last := ev.truth.False
	for _, expr := range n.Body {
		val, err := ev.Evaluate(expr, env)
		if err != nil {
			return nil, err
		}
		last = val
	}
	return last, nil
}

func evalIf(ev *Evaluator, node ast.Node, env *runtime.Environment) (runtime.Value, error) {
	n, ok := node.(*ast.If)
	if !ok {
		return nil, nodeMismatch(ast.NodeIf, node)
	}
	test, err := ev.Evaluate(n.Test, env)
	if err != nil {
		return nil, err
	}
	if test.IsTrue() {
		return ev.Evaluate(n.Consequent, env)
	}
	return ev.Evaluate(n.Alternative, env)
}

func evalWhile(ev *Evaluator, node ast.Node, env *runtime.Environment) (runtime.Value, error) {
	n, ok := node.(*ast.While)
	if !ok {
		return nil, nodeMismatch(ast.NodeWhile, node)
	}
	for {
		test, err := ev.Evaluate(n.Test, env)
		if err != nil {
			return nil, err
		}
		if !test.IsTrue() {
			return ev.truth.False, nil
		}
		if _, err := ev.Evaluate(n.Body, env); err != nil {
			return nil, err
		}
	}
}

func evalCall(ev *Evaluator, node ast.Node, env *runtime.Environment) (runtime.Value, error) {
	n, ok := node.(*ast.Call)
	if !ok {
		return nil, nodeMismatch(ast.NodeCall, node)
	}
	fn, ok := ev.functions.Lookup(n.Name)
	if !ok {
		return nil, fmt.Errorf("%w '%s'", ErrUndefinedFunction, n.Name)
	}
	if len(n.Arguments) != len(fn.Parameters) {
		return nil, fmt.Errorf("%w: %s expects %d arguments, got %d",
			ErrArityMismatch, fn.Name, len(fn.Parameters), len(n.Arguments))
	}

	// Arguments are evaluated in the caller's environment, before the
	// callee's scope is installed.
	args := make([]runtime.Value, len(n.Arguments))
	for i, arg := range n.Arguments {
		val, err := ev.Evaluate(arg, env)
		if err != nil {
			return nil, err
		}
		args[i] = val
	}

	if err := ev.enterCall(); err != nil {
		return nil, err
	}
	prev := env.OpenScope(runtime.NewScope(fn.Parameters, args))
	val, err := ev.Evaluate(fn.Body, env)
	env.CloseScope(prev)
	ev.leaveCall()
	return val, err
}

func evalBinaryExpression(ev *Evaluator, node ast.Node, env *runtime.Environment) (runtime.Value, error) {
	n, ok := node.(*ast.BinaryExpression)
	if !ok {
		return nil, nodeMismatch(ast.NodeBinaryExpression, node)
	}
	left, err := ev.Evaluate(n.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := ev.Evaluate(n.Right, env)
	if err != nil {
		return nil, err
	}
	return ev.operators.Dispatch(n.Operator, left, right)
}

func evalFunctionDefinition(ev *Evaluator, node ast.Node, _ *runtime.Environment) (runtime.Value, error) {
	n, ok := node.(*ast.FunctionDefinition)
	if !ok {
		return nil, nodeMismatch(ast.NodeFunctionDefinition, node)
	}
	ev.functions.Define(n.Name, n.Parameters, n.Body)
	return runtime.SymbolValue{Name: n.Name}, nil
}
