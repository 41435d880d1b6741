package ast

// Terse constructors used heavily by tests and the reader.

func Int(value int64) *IntegerLiteral {
	return NewIntegerLiteral(value)
}

func Sym(name string) *SymbolLiteral {
	return NewSymbolLiteral(name)
}

func Lst(elements ...Expression) *ListLiteral {
	return NewListLiteral(elements)
}

func Var(name string) *VariableReference {
	return NewVariableReference(name)
}

func Set(name string, value Expression) *Assignment {
	return NewAssignment(name, value)
}

func Seq(body ...Expression) *Begin {
	return NewBegin(body)
}

func Cond(test, consequent, alternative Expression) *If {
	return NewIf(test, consequent, alternative)
}

func Loop(test, body Expression) *While {
	return NewWhile(test, body)
}

func Apply(name string, arguments ...Expression) *Call {
	return NewCall(name, arguments)
}

func Bin(op Operator, left, right Expression) *BinaryExpression {
	return NewBinaryExpression(op, left, right)
}

func Un(op Operator, operand Expression) *UnaryExpression {
	return NewUnaryExpression(op, operand)
}

func Define(name string, parameters []string, body Expression) *FunctionDefinition {
	return NewFunctionDefinition(name, parameters, body)
}
