package basic_test

import (
	"errors"
	"testing"

	"github.com/mikkela/kamin/pkg/ast"
	"github.com/mikkela/kamin/pkg/eval"
	"github.com/mikkela/kamin/pkg/lang/basic"
	"github.com/mikkela/kamin/pkg/runtime"
)

func newEvaluator() (*eval.Evaluator, *runtime.Environment) {
	return eval.New(basic.Bundle(), runtime.NewFunctionTable(), eval.Options{}), runtime.NewEnvironment()
}

func evalInt(t *testing.T, ev *eval.Evaluator, node ast.Node, env *runtime.Environment) int64 {
	t.Helper()
	val, err := ev.Evaluate(node, env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	n, ok := val.(runtime.IntegerValue)
	if !ok {
		t.Fatalf("unexpected value %#v", val)
	}
	return n.Val
}

func TestArithmetic(t *testing.T) {
	ev, env := newEvaluator()
	cases := []struct {
		op       ast.Operator
		a, b     int64
		expected int64
	}{
		{ast.OpAdd, 2, 3, 5},
		{ast.OpSubtract, 2, 3, -1},
		{ast.OpMultiply, 4, 3, 12},
		{ast.OpDivide, 7, 2, 3},
		{ast.OpDivide, -7, 2, -3},
	}
	for _, c := range cases {
		got := evalInt(t, ev, ast.Bin(c.op, ast.Int(c.a), ast.Int(c.b)), env)
		if got != c.expected {
			t.Fatalf("%d %s %d: expected %d, got %d", c.a, c.op, c.b, c.expected, got)
		}
	}
}

func TestRelationalYieldsTruthPair(t *testing.T) {
	ev, env := newEvaluator()
	if got := evalInt(t, ev, ast.Bin(ast.OpLess, ast.Int(1), ast.Int(2)), env); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
	if got := evalInt(t, ev, ast.Bin(ast.OpGreater, ast.Int(1), ast.Int(2)), env); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	if got := evalInt(t, ev, ast.Bin(ast.OpEqual, ast.Int(2), ast.Int(2)), env); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
}

func TestDivisionByZero(t *testing.T) {
	ev, env := newEvaluator()
	_, err := ev.Evaluate(ast.Bin(ast.OpDivide, ast.Int(5), ast.Int(0)), env)
	if !errors.Is(err, eval.ErrDivisionByZero) {
		t.Fatalf("expected ErrDivisionByZero, got %v", err)
	}
}

func TestGreatestCommonDivisorProgram(t *testing.T) {
	ev, env := newEvaluator()
	if _, err := ev.Evaluate(ast.Define("mod", []string{"m", "n"},
		ast.Bin(ast.OpSubtract, ast.Var("m"),
			ast.Bin(ast.OpMultiply, ast.Var("n"),
				ast.Bin(ast.OpDivide, ast.Var("m"), ast.Var("n"))))), env); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ev.Evaluate(ast.Define("gcd", []string{"m", "n"},
		ast.Cond(
			ast.Bin(ast.OpEqual, ast.Var("n"), ast.Int(0)),
			ast.Var("m"),
			ast.Apply("gcd", ast.Var("n"), ast.Apply("mod", ast.Var("m"), ast.Var("n"))),
		)), env); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := evalInt(t, ev, ast.Apply("gcd", ast.Int(12), ast.Int(18)), env); got != 6 {
		t.Fatalf("expected 6, got %d", got)
	}
	if got := evalInt(t, ev, ast.Apply("gcd", ast.Int(7), ast.Int(5)), env); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
}
