package runtime

import (
	"sort"

	"github.com/mikkela/kamin/pkg/ast"
)

// Function is one user-defined function: its parameter names and body.
type Function struct {
	Name       string
	Parameters []string
	Body       ast.Expression
}

// FunctionTable maps function names to their definitions. One table is
// shared by reference across a whole session; redefining a name overwrites
// the prior entry and entries are never removed.
type FunctionTable struct {
	functions map[string]*Function
}

func NewFunctionTable() *FunctionTable {
	return &FunctionTable{functions: make(map[string]*Function)}
}

// Define records or overwrites the definition for name.
func (t *FunctionTable) Define(name string, parameters []string, body ast.Expression) *Function {
	fn := &Function{Name: name, Parameters: parameters, Body: body}
	t.functions[name] = fn
	return fn
}

// Lookup returns the definition for name, if any.
func (t *FunctionTable) Lookup(name string) (*Function, bool) {
	fn, ok := t.functions[name]
	return fn, ok
}

// Names returns the defined function names in sorted order.
func (t *FunctionTable) Names() []string {
	names := make([]string, 0, len(t.functions))
	for name := range t.functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
