package eval

import (
	"errors"
	"testing"

	"github.com/mikkela/kamin/pkg/ast"
	"github.com/mikkela/kamin/pkg/runtime"
)

// testBundle is a minimal integer language: ambient truth 1/0 and the
// arithmetic and comparisons the engine tests need.
func testBundle() Bundle {
	truth := runtime.Truth{
		True:  runtime.IntegerValue{Val: 1},
		False: runtime.IntegerValue{Val: 0},
	}
	lift := func(fn func(a, b int64) int64) BinaryFunc {
		return func(left, right runtime.Value) (runtime.Value, error) {
			a := left.(runtime.IntegerValue).Val
			b := right.(runtime.IntegerValue).Val
			return runtime.IntegerValue{Val: fn(a, b)}, nil
		}
	}
	flag := func(pred func(a, b int64) bool) BinaryFunc {
		return func(left, right runtime.Value) (runtime.Value, error) {
			a := left.(runtime.IntegerValue).Val
			b := right.(runtime.IntegerValue).Val
			if pred(a, b) {
				return truth.True, nil
			}
			return truth.False, nil
		}
	}
	ii := runtime.KindInteger
	return Bundle{
		Name:  "test",
		Truth: truth,
		Operations: []Operation{
			{ast.OpAdd, ii, ii, lift(func(a, b int64) int64 { return a + b })},
			{ast.OpSubtract, ii, ii, lift(func(a, b int64) int64 { return a - b })},
			{ast.OpMultiply, ii, ii, lift(func(a, b int64) int64 { return a * b })},
			{ast.OpEqual, ii, ii, flag(func(a, b int64) bool { return a == b })},
			{ast.OpLess, ii, ii, flag(func(a, b int64) bool { return a < b })},
			{ast.OpGreater, ii, ii, flag(func(a, b int64) bool { return a > b })},
		},
	}
}

func newTestEvaluator(t *testing.T, opts Options) (*Evaluator, *runtime.Environment) {
	t.Helper()
	return New(testBundle(), runtime.NewFunctionTable(), opts), runtime.NewEnvironment()
}

func mustEval(t *testing.T, ev *Evaluator, node ast.Node, env *runtime.Environment) runtime.Value {
	t.Helper()
	val, err := ev.Evaluate(node, env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return val
}

func TestEvaluateLiteralAndVariable(t *testing.T) {
	ev, env := newTestEvaluator(t, Options{})
	if val := mustEval(t, ev, ast.Int(7), env); val != (runtime.IntegerValue{Val: 7}) {
		t.Fatalf("unexpected value %#v", val)
	}

	env.Set("x", runtime.IntegerValue{Val: 3})
	if val := mustEval(t, ev, ast.Var("x"), env); val != (runtime.IntegerValue{Val: 3}) {
		t.Fatalf("unexpected value %#v", val)
	}

	_, err := ev.Evaluate(ast.Var("missing"), env)
	if err == nil {
		t.Fatalf("expected error for unbound variable")
	}
}

func TestEvaluateAssignmentReturnsValue(t *testing.T) {
	ev, env := newTestEvaluator(t, Options{})
	val := mustEval(t, ev, ast.Set("x", ast.Bin(ast.OpAdd, ast.Int(2), ast.Int(3))), env)
	if val != (runtime.IntegerValue{Val: 5}) {
		t.Fatalf("unexpected value %#v", val)
	}
	if got := mustEval(t, ev, ast.Var("x"), env); got != (runtime.IntegerValue{Val: 5}) {
		t.Fatalf("unexpected value %#v", got)
	}
}

func TestEvaluateEmptyBeginYieldsFalse(t *testing.T) {
	ev, env := newTestEvaluator(t, Options{})
	val := mustEval(t, ev, ast.Seq(), env)
	if val != ev.Truth().False {
		t.Fatalf("unexpected value %#v", val)
	}
}

func TestEvaluateBeginStopsAtFirstError(t *testing.T) {
	ev, env := newTestEvaluator(t, Options{})
	_, err := ev.Evaluate(ast.Seq(
		ast.Set("x", ast.Int(1)),
		ast.Apply("boom"),
		ast.Set("x", ast.Int(2)),
	), env)
	if !errors.Is(err, ErrUndefinedFunction) {
		t.Fatalf("expected ErrUndefinedFunction, got %v", err)
	}
	// The first assignment ran, the one after the failure did not.
	if val := mustEval(t, ev, ast.Var("x"), env); val != (runtime.IntegerValue{Val: 1}) {
		t.Fatalf("unexpected value %#v", val)
	}
}

func TestEvaluateIfTakesExactlyOneBranch(t *testing.T) {
	ev, env := newTestEvaluator(t, Options{})

	// The untaken branch would fail if evaluated.
	val := mustEval(t, ev, ast.Cond(ast.Int(1), ast.Int(10), ast.Apply("boom")), env)
	if val != (runtime.IntegerValue{Val: 10}) {
		t.Fatalf("unexpected value %#v", val)
	}
	val = mustEval(t, ev, ast.Cond(ast.Int(0), ast.Apply("boom"), ast.Int(20)), env)
	if val != (runtime.IntegerValue{Val: 20}) {
		t.Fatalf("unexpected value %#v", val)
	}
}

func TestEvaluateWhileIteratesAndYieldsFalse(t *testing.T) {
	ev, env := newTestEvaluator(t, Options{})
	env.Set("i", runtime.IntegerValue{Val: 0})

	val := mustEval(t, ev, ast.Loop(
		ast.Bin(ast.OpLess, ast.Var("i"), ast.Int(4)),
		ast.Set("i", ast.Bin(ast.OpAdd, ast.Var("i"), ast.Int(1))),
	), env)
	if val != ev.Truth().False {
		t.Fatalf("unexpected value %#v", val)
	}
	if got := mustEval(t, ev, ast.Var("i"), env); got != (runtime.IntegerValue{Val: 4}) {
		t.Fatalf("unexpected value %#v", got)
	}
}

func TestEvaluateWhileAbortsOnBodyError(t *testing.T) {
	ev, env := newTestEvaluator(t, Options{})
	env.Set("i", runtime.IntegerValue{Val: 0})

	_, err := ev.Evaluate(ast.Loop(
		ast.Bin(ast.OpLess, ast.Var("i"), ast.Int(10)),
		ast.Seq(
			ast.Set("i", ast.Bin(ast.OpAdd, ast.Var("i"), ast.Int(1))),
			ast.Cond(ast.Bin(ast.OpEqual, ast.Var("i"), ast.Int(3)), ast.Apply("boom"), ast.Int(0)),
		),
	), env)
	if !errors.Is(err, ErrUndefinedFunction) {
		t.Fatalf("expected ErrUndefinedFunction, got %v", err)
	}
	if got := mustEval(t, ev, ast.Var("i"), env); got != (runtime.IntegerValue{Val: 3}) {
		t.Fatalf("unexpected value %#v", got)
	}
}

func TestEvaluateCallUndefinedFunction(t *testing.T) {
	ev, env := newTestEvaluator(t, Options{})
	_, err := ev.Evaluate(ast.Apply("nothing", ast.Int(1)), env)
	if !errors.Is(err, ErrUndefinedFunction) {
		t.Fatalf("expected ErrUndefinedFunction, got %v", err)
	}
}

func TestEvaluateCallArityMismatch(t *testing.T) {
	ev, env := newTestEvaluator(t, Options{})
	mustEval(t, ev, ast.Define("double", []string{"n"},
		ast.Bin(ast.OpMultiply, ast.Var("n"), ast.Int(2))), env)

	_, err := ev.Evaluate(ast.Apply("double", ast.Int(1), ast.Int(2)), env)
	if !errors.Is(err, ErrArityMismatch) {
		t.Fatalf("expected ErrArityMismatch, got %v", err)
	}
}

func TestEvaluateCallArgumentsSeeCallerEnvironment(t *testing.T) {
	ev, env := newTestEvaluator(t, Options{})
	env.Set("n", runtime.IntegerValue{Val: 10})
	mustEval(t, ev, ast.Define("shadow", []string{"n"}, ast.Var("n")), env)

	// The argument expression reads the caller's n, not the parameter.
	val := mustEval(t, ev, ast.Apply("shadow", ast.Bin(ast.OpAdd, ast.Var("n"), ast.Int(1))), env)
	if val != (runtime.IntegerValue{Val: 11}) {
		t.Fatalf("unexpected value %#v", val)
	}
	// The caller's binding is untouched after return.
	if got := mustEval(t, ev, ast.Var("n"), env); got != (runtime.IntegerValue{Val: 10}) {
		t.Fatalf("unexpected value %#v", got)
	}
}

func TestEvaluateCallScopeIsDiscardedOnReturn(t *testing.T) {
	ev, env := newTestEvaluator(t, Options{})
	env.Set("x", runtime.IntegerValue{Val: 1})
	mustEval(t, ev, ast.Define("clobber", []string{"x"},
		ast.Set("x", ast.Int(99))), env)

	mustEval(t, ev, ast.Apply("clobber", ast.Int(5)), env)
	if got := mustEval(t, ev, ast.Var("x"), env); got != (runtime.IntegerValue{Val: 1}) {
		t.Fatalf("unexpected value %#v", got)
	}
}

func TestEvaluateRecursiveFunction(t *testing.T) {
	ev, env := newTestEvaluator(t, Options{})
	// sigma(lo, hi) sums the integers from lo through hi.
	mustEval(t, ev, ast.Define("sigma", []string{"lo", "hi"},
		ast.Cond(
			ast.Bin(ast.OpGreater, ast.Var("lo"), ast.Var("hi")),
			ast.Int(0),
			ast.Bin(ast.OpAdd, ast.Var("lo"),
				ast.Apply("sigma",
					ast.Bin(ast.OpAdd, ast.Var("lo"), ast.Int(1)),
					ast.Var("hi"))),
		)), env)

	if val := mustEval(t, ev, ast.Apply("sigma", ast.Int(1), ast.Int(5)), env); val != (runtime.IntegerValue{Val: 15}) {
		t.Fatalf("unexpected value %#v", val)
	}
	if val := mustEval(t, ev, ast.Apply("sigma", ast.Int(7), ast.Int(6)), env); val != (runtime.IntegerValue{Val: 0}) {
		t.Fatalf("unexpected value %#v", val)
	}
}

func TestEvaluateDefinitionReturnsName(t *testing.T) {
	ev, env := newTestEvaluator(t, Options{})
	val := mustEval(t, ev, ast.Define("f", []string{"x"}, ast.Var("x")), env)
	if val != (runtime.SymbolValue{Name: "f"}) {
		t.Fatalf("unexpected value %#v", val)
	}
	if _, ok := ev.Functions().Lookup("f"); !ok {
		t.Fatalf("expected f in the function table")
	}
}

func TestEvaluateUnregisteredNodeKind(t *testing.T) {
	ev, env := newTestEvaluator(t, Options{})
	ev.Registry().Unregister(ast.NodeWhile)

	_, err := ev.Evaluate(ast.Loop(ast.Int(0), ast.Int(0)), env)
	if !errors.Is(err, ErrNoEvaluator) {
		t.Fatalf("expected ErrNoEvaluator, got %v", err)
	}
}

func TestEvaluateDepthLimit(t *testing.T) {
	ev, env := newTestEvaluator(t, Options{MaxDepth: 16})
	mustEval(t, ev, ast.Define("loop", nil, ast.Apply("loop")), env)

	_, err := ev.Evaluate(ast.Apply("loop"), env)
	if !errors.Is(err, ErrDepthLimit) {
		t.Fatalf("expected ErrDepthLimit, got %v", err)
	}
	// The ceiling resets with the failed evaluation, so a shallow call
	// still works afterwards.
	mustEval(t, ev, ast.Define("one", nil, ast.Int(1)), env)
	if val := mustEval(t, ev, ast.Apply("one"), env); val != (runtime.IntegerValue{Val: 1}) {
		t.Fatalf("unexpected value %#v", val)
	}
}

// tallyNode is a node kind defined outside the core set, exercising the
// registry the way an independent language module would.
type tallyNode struct {
	ast.Base
	ast.ExpressionMarker
	hits *int
}

const nodeTally ast.NodeType = "Tally"

func TestBundleContributesNewNodeKind(t *testing.T) {
	hits := 0
	bundle := testBundle()
	bundle.Evaluators = map[ast.NodeType]EvalFunc{
		nodeTally: func(_ *Evaluator, node ast.Node, _ *runtime.Environment) (runtime.Value, error) {
			n := node.(*tallyNode)
			*n.hits++
			return runtime.IntegerValue{Val: int64(*n.hits)}, nil
		},
	}
	ev := New(bundle, runtime.NewFunctionTable(), Options{})
	env := runtime.NewEnvironment()

	node := &tallyNode{Base: ast.NewBase(nodeTally), hits: &hits}
	val := mustEval(t, ev, ast.Seq(node, node), env)
	if val != (runtime.IntegerValue{Val: 2}) {
		t.Fatalf("unexpected value %#v", val)
	}
	if hits != 2 {
		t.Fatalf("expected 2 evaluations, got %d", hits)
	}
}

func TestBundleOverlaysCoreEvaluator(t *testing.T) {
	bundle := testBundle()
	bundle.Evaluators = map[ast.NodeType]EvalFunc{
		ast.NodeIntegerLiteral: func(_ *Evaluator, node ast.Node, _ *runtime.Environment) (runtime.Value, error) {
			n := node.(*ast.IntegerLiteral)
			return runtime.IntegerValue{Val: -n.Value}, nil
		},
	}
	ev := New(bundle, runtime.NewFunctionTable(), Options{})
	env := runtime.NewEnvironment()

	if val := mustEval(t, ev, ast.Int(5), env); val != (runtime.IntegerValue{Val: -5}) {
		t.Fatalf("unexpected value %#v", val)
	}
}
