package ast

// NodeType tags every syntax node with its kind. Evaluation dispatches on
// this tag rather than on the Go type, so language modules can claim node
// kinds without the engine enumerating them.
type NodeType string

const (
	NodeIntegerLiteral     NodeType = "IntegerLiteral"
	NodeSymbolLiteral      NodeType = "SymbolLiteral"
	NodeListLiteral        NodeType = "ListLiteral"
	NodeVariableReference  NodeType = "VariableReference"
	NodeAssignment         NodeType = "Assignment"
	NodeBegin              NodeType = "Begin"
	NodeIf                 NodeType = "If"
	NodeWhile              NodeType = "While"
	NodeCall               NodeType = "Call"
	NodeBinaryExpression   NodeType = "BinaryExpression"
	NodeUnaryExpression    NodeType = "UnaryExpression"
	NodeFunctionDefinition NodeType = "FunctionDefinition"
)

// Operator names a binary or unary operation. Language modules introduce
// their own constants; the core only ever compares them for equality.
type Operator string

const (
	OpAdd      Operator = "+"
	OpSubtract Operator = "-"
	OpMultiply Operator = "*"
	OpDivide   Operator = "/"
	OpEqual    Operator = "="
	OpLess     Operator = "<"
	OpGreater  Operator = ">"
)

type Node interface {
	NodeType() NodeType
	isNode()
}

// Base carries the node tag. Embedding it (plus ExpressionMarker where
// appropriate) is how any package, including language modules outside this
// one, defines a new node kind.
type Base struct {
	Type NodeType `json:"type"`
}

// NewBase tags a node under construction.
func NewBase(kind NodeType) Base {
	return Base{Type: kind}
}

func (b Base) NodeType() NodeType { return b.Type }
func (Base) isNode()              {}

// Expression marks nodes that evaluate to a value.

type Expression interface {
	Node
	expressionNode()
}

// ExpressionMarker is embedded by every node usable in expression position.
type ExpressionMarker struct{}

func (ExpressionMarker) expressionNode() {}

// Literals

type IntegerLiteral struct {
	Base
	ExpressionMarker

	Value int64 `json:"value"`
}

func NewIntegerLiteral(value int64) *IntegerLiteral {
	return &IntegerLiteral{Base: NewBase(NodeIntegerLiteral), Value: value}
}

type SymbolLiteral struct {
	Base
	ExpressionMarker

	Name string `json:"name"`
}

func NewSymbolLiteral(name string) *SymbolLiteral {
	return &SymbolLiteral{Base: NewBase(NodeSymbolLiteral), Name: name}
}

// ListLiteral is quoted structured data. Elements are themselves literals
// (integers, symbols, nested lists); which runtime value a ListLiteral
// denotes is a per-language decision made by the registered evaluator.
type ListLiteral struct {
	Base
	ExpressionMarker

	Elements []Expression `json:"elements"`
}

func NewListLiteral(elements []Expression) *ListLiteral {
	return &ListLiteral{Base: NewBase(NodeListLiteral), Elements: elements}
}

// Variables and assignment

type VariableReference struct {
	Base
	ExpressionMarker

	Name string `json:"name"`
}

func NewVariableReference(name string) *VariableReference {
	return &VariableReference{Base: NewBase(NodeVariableReference), Name: name}
}

type Assignment struct {
	Base
	ExpressionMarker

	Name  string     `json:"name"`
	Value Expression `json:"value"`
}

func NewAssignment(name string, value Expression) *Assignment {
	return &Assignment{Base: NewBase(NodeAssignment), Name: name, Value: value}
}

// Control flow

type Begin struct {
	Base
	ExpressionMarker

	Body []Expression `json:"body"`
}

func NewBegin(body []Expression) *Begin {
	return &Begin{Base: NewBase(NodeBegin), Body: body}
}

type If struct {
	Base
	ExpressionMarker

	Test        Expression `json:"test"`
	Consequent  Expression `json:"consequent"`
	Alternative Expression `json:"alternative"`
}

func NewIf(test, consequent, alternative Expression) *If {
	return &If{Base: NewBase(NodeIf), Test: test, Consequent: consequent, Alternative: alternative}
}

type While struct {
	Base
	ExpressionMarker

	Test Expression `json:"test"`
	Body Expression `json:"body"`
}

func NewWhile(test, body Expression) *While {
	return &While{Base: NewBase(NodeWhile), Test: test, Body: body}
}

// Application forms

type Call struct {
	Base
	ExpressionMarker

	Name      string       `json:"name"`
	Arguments []Expression `json:"arguments"`
}

func NewCall(name string, arguments []Expression) *Call {
	return &Call{Base: NewBase(NodeCall), Name: name, Arguments: arguments}
}

type BinaryExpression struct {
	Base
	ExpressionMarker

	Operator Operator   `json:"operator"`
	Left     Expression `json:"left"`
	Right    Expression `json:"right"`
}

func NewBinaryExpression(op Operator, left, right Expression) *BinaryExpression {
	return &BinaryExpression{Base: NewBase(NodeBinaryExpression), Operator: op, Left: left, Right: right}
}

type UnaryExpression struct {
	Base
	ExpressionMarker

	Operator Operator   `json:"operator"`
	Operand  Expression `json:"operand"`
}

func NewUnaryExpression(op Operator, operand Expression) *UnaryExpression {
	return &UnaryExpression{Base: NewBase(NodeUnaryExpression), Operator: op, Operand: operand}
}

// FunctionDefinition is a top-level form, not an expression: a session feeds
// the engine either expressions to evaluate or definitions to record.

type FunctionDefinition struct {
	Base

	Name       string     `json:"name"`
	Parameters []string   `json:"parameters"`
	Body       Expression `json:"body"`
}

func NewFunctionDefinition(name string, parameters []string, body Expression) *FunctionDefinition {
	return &FunctionDefinition{Base: NewBase(NodeFunctionDefinition), Name: name, Parameters: parameters, Body: body}
}
