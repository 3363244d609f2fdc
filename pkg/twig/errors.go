// Error types for compile and render failures.

package twig

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Error kinds. Every CompileError and RenderError unwraps to exactly one of these,
// so callers can test with errors.Is.
var (
	ErrUnterminatedToken      = errors.New("unterminated token")
	ErrUnknownExpressionToken = errors.New("unknown expression token")
	ErrInvalidAdjacency       = errors.New("invalid token adjacency")
	ErrUnknownOperator        = errors.New("unknown operator")
	ErrUnknownFilter          = errors.New("unknown filter")
	ErrUnrecognizedLogicTag   = errors.New("unrecognized logic tag")
	ErrUnexpectedLogicTag     = errors.New("unexpected logic tag")
	ErrUnclosedLogicTag       = errors.New("unclosed logic tag")
	ErrNestingTooDeep         = errors.New("nesting too deep")
	ErrUndefinedVariable      = errors.New("undefined variable")
	ErrMalformedExpression    = errors.New("malformed expression")
	ErrNotIterable            = errors.New("value is not iterable")
	ErrFilterFailed           = errors.New("filter failed")
)

// CompileError represents a failure while scanning or compiling a template.
type CompileError struct {
	Kind    error
	Token   string
	Offset  int
	Line    int
	Column  int
	Message string
}

func (e *CompileError) Error() string {
	var b strings.Builder
	b.WriteString("compile error")
	if e.Line > 0 {
		fmt.Fprintf(&b, " at line %d, column %d", e.Line, e.Column)
	} else if e.Offset >= 0 {
		fmt.Fprintf(&b, " at offset %d", e.Offset)
	}
	if e.Token != "" {
		fmt.Fprintf(&b, " near '%s'", truncate(e.Token, 20))
	}
	fmt.Fprintf(&b, ": %v", e.Kind)
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	return b.String()
}

func (e *CompileError) Unwrap() error {
	return e.Kind
}

// newCompileError creates a compile error without line information; Compile fills
// in Line and Column once the source text is known.
func newCompileError(kind error, token string, offset int, format string, args ...interface{}) error {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &CompileError{
		Kind:    kind,
		Token:   token,
		Offset:  offset,
		Message: msg,
	}
}

// RenderError represents a failure while rendering a compiled template.
type RenderError struct {
	Kind    error
	Token   string
	Offset  int
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	var b strings.Builder
	b.WriteString("render error")
	if e.Offset >= 0 {
		fmt.Fprintf(&b, " at offset %d", e.Offset)
	}
	if e.Token != "" {
		fmt.Fprintf(&b, " near '%s'", truncate(e.Token, 20))
	}
	fmt.Fprintf(&b, ": %v", e.Kind)
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

// Unwrap exposes both the error kind and the underlying cause.
func (e *RenderError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Kind, e.Cause}
	}
	return []error{e.Kind}
}

func newRenderError(kind error, token string, offset int, format string, args ...interface{}) *RenderError {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	return &RenderError{
		Kind:    kind,
		Token:   token,
		Offset:  offset,
		Message: msg,
	}
}

// withPosition resolves the line and column of a compile error's offset in source.
func withPosition(err error, source string) error {
	var ce *CompileError
	if !errors.As(err, &ce) || ce.Offset < 0 || ce.Offset > len(source) {
		return err
	}
	ce.Line, ce.Column = position(source, ce.Offset)
	return err
}

// position returns the 1-based line and column of offset in source.
func position(source string, offset int) (line, column int) {
	prefix := source[:offset]
	line = strings.Count(prefix, "\n") + 1
	column = offset - strings.LastIndex(prefix, "\n")
	return line, column
}

// truncate shortens s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}

// RecoverError converts a panic recovery value to an error
func RecoverError(r interface{}) error {
	switch v := r.(type) {
	case error:
		return fmt.Errorf("panic recovered: %w", v)
	case string:
		return fmt.Errorf("panic recovered: %s", v)
	default:
		return fmt.Errorf("panic recovered: %v", v)
	}
}

// IsCompileError checks if an error is a compile error
func IsCompileError(err error) bool {
	var ce *CompileError
	return errors.As(err, &ce)
}

// IsRenderError checks if an error is a render error
func IsRenderError(err error) bool {
	var re *RenderError
	return errors.As(err, &re)
}
