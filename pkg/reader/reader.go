// Package reader turns Lisp-notated source text into syntax trees. It is a
// front-end collaborator of the evaluation core: the core consumes the
// trees produced here but never depends on this package.
package reader

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/mikkela/kamin/pkg/ast"
)

// ErrIncomplete reports source that ends inside an open form. Interactive
// front ends treat it as "keep reading" rather than as a failure.
var ErrIncomplete = errors.New("incomplete form")

// OperatorSet tells the reader which head symbols denote binary and unary
// operator applications for the active language. Heads in neither map parse
// as function calls.
type OperatorSet struct {
	Binary map[string]ast.Operator
	Unary  map[string]ast.Operator
}

// Operators builds an OperatorSet from operator lists, keyed by spelling.
func Operators(binary, unary []ast.Operator) OperatorSet {
	set := OperatorSet{
		Binary: make(map[string]ast.Operator, len(binary)),
		Unary:  make(map[string]ast.Operator, len(unary)),
	}
	for _, op := range binary {
		set.Binary[string(op)] = op
	}
	for _, op := range unary {
		set.Unary[string(op)] = op
	}
	return set
}

// Reader parses source text for one language.
type Reader struct {
	operators OperatorSet
}

func New(operators OperatorSet) *Reader {
	return &Reader{operators: operators}
}

// ReadProgram parses every top-level form in src.
func (r *Reader) ReadProgram(src string) ([]ast.Node, error) {
	lex := newLexer(src)
	var nodes []ast.Node
	for {
		tok, err := lex.peek()
		if err != nil {
			return nil, err
		}
		if tok.kind == tokenEOF {
			return nodes, nil
		}
		node, err := r.readForm(lex)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
}

// ReadForm parses exactly one top-level form.
func (r *Reader) ReadForm(src string) (ast.Node, error) {
	lex := newLexer(src)
	node, err := r.readForm(lex)
	if err != nil {
		return nil, err
	}
	tok, err := lex.peek()
	if err != nil {
		return nil, err
	}
	if tok.kind != tokenEOF {
		return nil, fmt.Errorf("unexpected %q after form", tok.text)
	}
	return node, nil
}

func (r *Reader) readForm(lex *lexer) (ast.Node, error) {
	expr, err := r.parse(lex)
	if err != nil {
		return nil, err
	}
	return r.translate(expr)
}

//-----------------------------------------------------------------------------
// S-expression layer
//-----------------------------------------------------------------------------

type sexpr interface{ sexprNode() }

type atom struct {
	text string
}

type list struct {
	items []sexpr
}

type quoted struct {
	datum sexpr
}

func (atom) sexprNode()   {}
func (list) sexprNode()   {}
func (quoted) sexprNode() {}

func (r *Reader) parse(lex *lexer) (sexpr, error) {
	tok, err := lex.next()
	if err != nil {
		return nil, err
	}
	switch tok.kind {
	case tokenEOF:
		return nil, ErrIncomplete
	case tokenQuote:
		datum, err := r.parse(lex)
		if err != nil {
			return nil, err
		}
		return quoted{datum: datum}, nil
	case tokenLParen:
		var items []sexpr
		for {
			peeked, err := lex.peek()
			if err != nil {
				return nil, err
			}
			if peeked.kind == tokenEOF {
				return nil, ErrIncomplete
			}
			if peeked.kind == tokenRParen {
				_, _ = lex.next()
				return list{items: items}, nil
			}
			item, err := r.parse(lex)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
	case tokenRParen:
		return nil, fmt.Errorf("unexpected ')'")
	default:
		return atom{text: tok.text}, nil
	}
}

//-----------------------------------------------------------------------------
// Translation to syntax nodes
//-----------------------------------------------------------------------------

func (r *Reader) translate(expr sexpr) (ast.Node, error) {
	switch e := expr.(type) {
	case atom:
		return r.translateAtom(e)
	case quoted:
		return translateDatum(e.datum)
	case list:
		return r.translateList(e)
	default:
		return nil, fmt.Errorf("unsupported form %T", expr)
	}
}

func (r *Reader) translateAtom(a atom) (ast.Expression, error) {
	if value, ok := parseInteger(a.text); ok {
		return ast.NewIntegerLiteral(value), nil
	}
	return ast.NewVariableReference(a.text), nil
}

// translateDatum converts quoted structure into literal nodes: atoms become
// symbol or integer literals, lists become ListLiteral trees.
func translateDatum(datum sexpr) (ast.Expression, error) {
	switch d := datum.(type) {
	case atom:
		if value, ok := parseInteger(d.text); ok {
			return ast.NewIntegerLiteral(value), nil
		}
		return ast.NewSymbolLiteral(d.text), nil
	case list:
		elements := make([]ast.Expression, len(d.items))
		for i, item := range d.items {
			el, err := translateDatum(item)
			if err != nil {
				return nil, err
			}
			elements[i] = el
		}
		return ast.NewListLiteral(elements), nil
	case quoted:
		return translateDatum(d.datum)
	default:
		return nil, fmt.Errorf("unsupported quoted form %T", datum)
	}
}

func (r *Reader) translateList(form list) (ast.Node, error) {
	if len(form.items) == 0 {
		return ast.NewListLiteral(nil), nil
	}
	head, ok := form.items[0].(atom)
	if !ok {
		return nil, fmt.Errorf("form head must be a name")
	}

	switch head.text {
	case "define":
		return r.translateDefine(form)
	case "set":
		if len(form.items) != 3 {
			return nil, fmt.Errorf("set requires a name and a value")
		}
		name, ok := form.items[1].(atom)
		if !ok {
			return nil, fmt.Errorf("set requires a name, got a form")
		}
		value, err := r.expression(form.items[2])
		if err != nil {
			return nil, err
		}
		return ast.NewAssignment(name.text, value), nil
	case "begin":
		body, err := r.expressions(form.items[1:])
		if err != nil {
			return nil, err
		}
		return ast.NewBegin(body), nil
	case "if":
		if len(form.items) != 4 {
			return nil, fmt.Errorf("if requires a test and two branches")
		}
		parts, err := r.expressions(form.items[1:])
		if err != nil {
			return nil, err
		}
		return ast.NewIf(parts[0], parts[1], parts[2]), nil
	case "while":
		if len(form.items) != 3 {
			return nil, fmt.Errorf("while requires a test and a body")
		}
		parts, err := r.expressions(form.items[1:])
		if err != nil {
			return nil, err
		}
		return ast.NewWhile(parts[0], parts[1]), nil
	}

	if op, ok := r.operators.Binary[head.text]; ok {
		if len(form.items) != 3 {
			return nil, fmt.Errorf("%s requires exactly two operands", head.text)
		}
		operands, err := r.expressions(form.items[1:])
		if err != nil {
			return nil, err
		}
		return ast.NewBinaryExpression(op, operands[0], operands[1]), nil
	}
	if op, ok := r.operators.Unary[head.text]; ok {
		if len(form.items) != 2 {
			return nil, fmt.Errorf("%s requires exactly one operand", head.text)
		}
		operand, err := r.expression(form.items[1])
		if err != nil {
			return nil, err
		}
		return ast.NewUnaryExpression(op, operand), nil
	}

	arguments, err := r.expressions(form.items[1:])
	if err != nil {
		return nil, err
	}
	return ast.NewCall(head.text, arguments), nil
}

func (r *Reader) translateDefine(form list) (ast.Node, error) {
	if len(form.items) != 4 {
		return nil, fmt.Errorf("define requires a name, a parameter list, and a body")
	}
	name, ok := form.items[1].(atom)
	if !ok {
		return nil, fmt.Errorf("define requires a function name")
	}
	paramList, ok := form.items[2].(list)
	if !ok {
		return nil, fmt.Errorf("define requires a parameter list")
	}
	parameters := make([]string, len(paramList.items))
	for i, item := range paramList.items {
		param, ok := item.(atom)
		if !ok {
			return nil, fmt.Errorf("parameters must be names")
		}
		parameters[i] = param.text
	}
	body, err := r.expression(form.items[3])
	if err != nil {
		return nil, err
	}
	return ast.NewFunctionDefinition(name.text, parameters, body), nil
}

func (r *Reader) expression(expr sexpr) (ast.Expression, error) {
	node, err := r.translate(expr)
	if err != nil {
		return nil, err
	}
	out, ok := node.(ast.Expression)
	if !ok {
		return nil, fmt.Errorf("%s is not valid in expression position", node.NodeType())
	}
	return out, nil
}

func (r *Reader) expressions(items []sexpr) ([]ast.Expression, error) {
	out := make([]ast.Expression, len(items))
	for i, item := range items {
		expr, err := r.expression(item)
		if err != nil {
			return nil, err
		}
		out[i] = expr
	}
	return out, nil
}

func parseInteger(text string) (int64, bool) {
	value, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
