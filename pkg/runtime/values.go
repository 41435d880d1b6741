package runtime

import (
	"fmt"
	"strings"
)

// Kind identifies the runtime value category. Language modules register
// behaviour against kinds; the core never enumerates them.
type Kind int

const (
	KindInteger Kind = iota
	KindSymbol
	KindVector
	KindMatrix
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindSymbol:
		return "symbol"
	case KindVector:
		return "vector"
	case KindMatrix:
		return "matrix"
	case KindList:
		return "list"
	default:
		return fmt.Sprintf("unknown_kind_%d", int(k))
	}
}

// Value is the shared behaviour for all runtime values. Truthiness and a
// display form are the only operations a value carries; everything else
// (arithmetic, comparison, structural access) lives in operation tables
// keyed by kind, so new kinds never touch existing ones.
type Value interface {
	Kind() Kind
	IsTrue() bool
	Display() string
}

// Truth is the ambient true/false value pair a language bundle evaluates
// under. Relational results, empty sequences, and finished loops all
// produce one of these two values.
type Truth struct {
	True  Value
	False Value
}

//-----------------------------------------------------------------------------
// Scalars
//-----------------------------------------------------------------------------

type IntegerValue struct {
	Val int64
}

func (v IntegerValue) Kind() Kind      { return KindInteger }
func (v IntegerValue) IsTrue() bool    { return v.Val != 0 }
func (v IntegerValue) Display() string { return fmt.Sprintf("%d", v.Val) }

type SymbolValue struct {
	Name string
}

func (v SymbolValue) Kind() Kind      { return KindSymbol }
func (v SymbolValue) IsTrue() bool    { return true }
func (v SymbolValue) Display() string { return v.Name }

//-----------------------------------------------------------------------------
// APL-style aggregates
//-----------------------------------------------------------------------------

type VectorValue struct {
	Elements []int64
}

func (v *VectorValue) Kind() Kind { return KindVector }

// IsTrue reports whether any element is nonzero.
func (v *VectorValue) IsTrue() bool {
	for _, el := range v.Elements {
		if el != 0 {
			return true
		}
	}
	return false
}

func (v *VectorValue) Display() string {
	parts := make([]string, len(v.Elements))
	for i, el := range v.Elements {
		parts[i] = fmt.Sprintf("%d", el)
	}
	return strings.Join(parts, " ")
}

// MatrixValue stores its elements flat in row-major order.
type MatrixValue struct {
	Rows     int
	Cols     int
	Elements []int64
}

func NewMatrixValue(rows, cols int, elements []int64) (*MatrixValue, error) {
	if rows < 0 || cols < 0 || len(elements) != rows*cols {
		return nil, fmt.Errorf("matrix shape %dx%d does not fit %d elements", rows, cols, len(elements))
	}
	return &MatrixValue{Rows: rows, Cols: cols, Elements: elements}, nil
}

func (v *MatrixValue) Kind() Kind { return KindMatrix }

func (v *MatrixValue) IsTrue() bool {
	for _, el := range v.Elements {
		if el != 0 {
			return true
		}
	}
	return false
}

func (v *MatrixValue) Display() string {
	var b strings.Builder
	for r := 0; r < v.Rows; r++ {
		if r > 0 {
			b.WriteByte('\n')
		}
		for c := 0; c < v.Cols; c++ {
			if c > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%d", v.Elements[r*v.Cols+c])
		}
	}
	return b.String()
}

// At returns the element at row r, column c.
func (v *MatrixValue) At(r, c int) int64 {
	return v.Elements[r*v.Cols+c]
}

//-----------------------------------------------------------------------------
// Lisp lists
//-----------------------------------------------------------------------------

// ListValue is a proper list. The empty list doubles as the Lisp bundle's
// false value.
type ListValue struct {
	Elements []Value
}

func (v *ListValue) Kind() Kind   { return KindList }
func (v *ListValue) IsTrue() bool { return len(v.Elements) > 0 }

func (v *ListValue) Display() string {
	parts := make([]string, len(v.Elements))
	for i, el := range v.Elements {
		parts[i] = el.Display()
	}
	return "(" + strings.Join(parts, " ") + ")"
}
