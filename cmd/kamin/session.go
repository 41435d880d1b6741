package main

import (
	"fmt"
	"os"

	"github.com/mikkela/kamin/pkg/eval"
	"github.com/mikkela/kamin/pkg/lang/apl"
	"github.com/mikkela/kamin/pkg/lang/basic"
	"github.com/mikkela/kamin/pkg/lang/lisp"
	"github.com/mikkela/kamin/pkg/reader"
	"github.com/mikkela/kamin/pkg/runtime"
)

// session ties one language bundle, its reader, and a persistent
// environment and function table together for the lifetime of a run or
// REPL.
type session struct {
	language  string
	evaluator *eval.Evaluator
	reader    *reader.Reader
	env       *runtime.Environment
}

func newSession(language string, maxDepth int) (*session, error) {
	var bundle eval.Bundle
	var operators reader.OperatorSet
	switch language {
	case "basic":
		bundle = basic.Bundle()
		operators = reader.Operators(basic.BinaryOperators(), nil)
	case "apl":
		bundle = apl.Bundle()
		operators = reader.Operators(apl.BinaryOperators(), apl.UnaryOperators())
	case "lisp":
		bundle = lisp.Bundle()
		operators = reader.Operators(lisp.BinaryOperators(), lisp.UnaryOperators())
	default:
		return nil, fmt.Errorf("unknown language %q (expected basic, apl, or lisp)", language)
	}

	return &session{
		language:  language,
		evaluator: eval.New(bundle, runtime.NewFunctionTable(), eval.Options{MaxDepth: maxDepth}),
		reader:    reader.New(operators),
		env:       runtime.NewEnvironment(),
	}, nil
}

// evalSource evaluates every form in src sequentially, returning the values
// produced before the first failure (if any) along with that failure.
func (s *session) evalSource(src string) ([]runtime.Value, error) {
	nodes, err := s.reader.ReadProgram(src)
	if err != nil {
		return nil, err
	}
	var values []runtime.Value
	for _, node := range nodes {
		val, err := s.evaluator.Evaluate(node, s.env)
		if err != nil {
			return values, err
		}
		values = append(values, val)
	}
	return values, nil
}

// evalForm evaluates one complete form, for the REPL.
func (s *session) evalForm(src string) (runtime.Value, error) {
	node, err := s.reader.ReadForm(src)
	if err != nil {
		return nil, err
	}
	return s.evaluator.Evaluate(node, s.env)
}

// loadFile evaluates a library source file, discarding its values.
func (s *session) loadFile(path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	_, err = s.evalSource(string(source))
	return err
}
