// Package policyerrors defines the typed errors produced while compiling
// a policy configuration tree into triplets, boolean expressions, and set
// expressions.
package policyerrors

import "fmt"

// Kind discriminates the category of a CompileError.
type Kind string

const (
	// KindMissingMandatory marks a PFLG_MANDATORY item that was not present.
	KindMissingMandatory Kind = "missing_mandatory"
	// KindTypeMismatch marks a value that could not be parsed as the
	// expected type.
	KindTypeMismatch Kind = "type_mismatch"
	// KindConstraintViolated marks a value that parsed fine but failed one
	// of its associated flag constraints (NotEmpty, Positive, AbsolutePath,
	// NoWildcards, ...).
	KindConstraintViolated Kind = "constraint_violated"
	// KindUnknownCriterion marks a criterion name not present in the
	// criteria registry.
	KindUnknownCriterion Kind = "unknown_criterion"
	// KindUnknownOperator marks an operator not supported by a given
	// criterion.
	KindUnknownOperator Kind = "unknown_operator"
	// KindUnknownFileClass marks a set-expression reference to an
	// undefined file class.
	KindUnknownFileClass Kind = "unknown_file_class"
	// KindUnknownItem marks an item in a block that no extractor consumed.
	KindUnknownItem Kind = "unknown_item"
	// KindMalformedExpr marks a structurally invalid boolean or set
	// expression node (e.g. a BINARY node missing an operand).
	KindMalformedExpr Kind = "malformed_expr"
	// KindMalformedPattern marks a wildcard pattern that failed the
	// any-level rewrite's adjacency check.
	KindMalformedPattern Kind = "malformed_pattern"
	// KindModule marks a failure surfaced by a module's Read/Reload/Write
	// callback.
	KindModule Kind = "module"
)

// CompileError is returned by every compiler package in this module.
// It carries the positional context of the original config-file
// diagnostics where the producing package knows it: which block, which
// variable, and which line. Errors from internal/triplet, for example,
// leave Block empty.
type CompileError struct {
	Kind   Kind
	Block  string
	Var    string
	Line   int
	Detail string

	underlying error
}

// New builds a CompileError with no line information yet. Callers that
// later learn the originating line should call WithLine.
func New(kind Kind, block, varName, detail string) *CompileError {
	return &CompileError{Kind: kind, Block: block, Var: varName, Detail: detail}
}

// Wrap builds a CompileError around an existing error, preserving it for
// errors.Unwrap/errors.Is.
func Wrap(kind Kind, block, varName string, err error) *CompileError {
	return &CompileError{Kind: kind, Block: block, Var: varName, Detail: err.Error(), underlying: err}
}

// WithLine returns a copy of e annotated with a source line number,
// mirroring the ", line <n>" suffix the original printer appends while
// unwinding a GetBoolExpr/GetSetExpr failure.
func (e *CompileError) WithLine(line int) *CompileError {
	cp := *e
	cp.Line = line
	return &cp
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	where := e.Block
	if e.Var != "" {
		where = fmt.Sprintf("%s::%s", e.Block, e.Var)
	}
	msg := fmt.Sprintf("%s: %s", where, e.Detail)
	if e.Line > 0 {
		msg = fmt.Sprintf("%s, line %d", msg, e.Line)
	}
	return msg
}

// Unwrap returns the wrapped error, if any, for errors.Is/As.
func (e *CompileError) Unwrap() error {
	return e.underlying
}

// MultiError aggregates every failure collected during a best-effort
// pass. (ReloadConfig does not use it: it returns only the last error.)
type MultiError struct {
	Errors []error
}

// NewMultiError filters nils and builds a MultiError. Returns nil if the
// filtered slice is empty so callers can do `if err := NewMultiError(...); err != nil`.
func NewMultiError(errs []error) error {
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	return &MultiError{Errors: filtered}
}

// Error implements the error interface.
func (e *MultiError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors: %v", len(e.Errors), e.Errors)
}

// Unwrap returns the aggregated errors for errors.Is/As (Go 1.20+ multi-unwrap).
func (e *MultiError) Unwrap() []error {
	return e.Errors
}
