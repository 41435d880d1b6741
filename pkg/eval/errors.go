package eval

import "errors"

// Language-level failures are ordinary error values. Every one of these is
// recoverable: a failing expression aborts its own evaluation and is
// reported by the caller, it never takes the session down.
var (
	// ErrNoEvaluator signals a node kind nothing registered an evaluator for.
	ErrNoEvaluator = errors.New("no evaluator registered for node kind")
	// ErrNotSupported signals an operator applied to an operand-kind pair
	// nothing registered an implementation for.
	ErrNotSupported = errors.New("operation not supported")
	// ErrUndefinedFunction signals a call to a name absent from the
	// function table.
	ErrUndefinedFunction = errors.New("undefined function")
	// ErrArityMismatch signals a call whose argument count differs from the
	// callee's declared parameter list.
	ErrArityMismatch = errors.New("wrong argument count")
	// ErrDivisionByZero signals a zero divisor, scalar or any element of a
	// structured operand.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrDepthLimit signals the defensive call-depth ceiling.
	ErrDepthLimit = errors.New("call depth limit exceeded")
)
