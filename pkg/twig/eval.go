package twig

import (
	"math"

	"github.com/edwingeng/deque"
)

// evaluate runs a compiled expression against the render scope and returns the
// single value it leaves on the stack.
func (r *renderer) evaluate(expr *CompiledExpression, s *scope) (interface{}, error) {
	stack := deque.NewDeque()

	for i, tok := range expr.tokens {
		switch tok.Kind {
		case ExprNumber, ExprString:
			stack.PushBack(tok.Value)

		case ExprVariable:
			value, ok := s.lookup(tok.Raw)
			if !ok && !feedsDefault(expr.tokens, i) {
				return nil, newRenderError(ErrUndefinedVariable, tok.Raw, tok.Offset,
					"context doesn't provide '%s'", tok.Raw)
			}
			stack.PushBack(value)

		case ExprOperator:
			if err := r.applyOperator(tok, stack); err != nil {
				return nil, err
			}

		case ExprFilter:
			if err := r.applyFilter(tok, stack, s); err != nil {
				return nil, err
			}
		}
	}

	if stack.Len() != 1 {
		return nil, newRenderError(ErrMalformedExpression, expr.source, offsetOf(expr),
			"expression left %d values", stack.Len())
	}

	result := stack.PopBack()
	r.logger.DebugExpression(expr.source, result)
	return result, nil
}

// feedsDefault reports whether the token after index i is a default filter.
func feedsDefault(tokens []ExpressionToken, i int) bool {
	if i+1 >= len(tokens) || tokens[i+1].Kind != ExprFilter {
		return false
	}
	return tokens[i+1].Value.(*filterCall).name == "default"
}

func offsetOf(expr *CompiledExpression) int {
	if len(expr.tokens) == 0 {
		return -1
	}
	return expr.tokens[0].Offset
}

// pop removes n operands, returned in stack order (deepest first).
func pop(stack deque.Deque, tok ExpressionToken, n int) ([]interface{}, error) {
	if stack.Len() < n {
		return nil, newRenderError(ErrMalformedExpression, tok.Raw, tok.Offset,
			"'%s' needs %d operands, found %d", tok.Raw, n, stack.Len())
	}
	operands := make([]interface{}, n)
	for i := n - 1; i >= 0; i-- {
		operands[i] = stack.PopBack()
	}
	return operands, nil
}

func (r *renderer) applyOperator(tok ExpressionToken, stack deque.Deque) error {
	switch tok.Raw {
	case ":":
		// Marks the else operand of ?; the operands stay for ? to consume
		return nil

	case "!":
		operands, err := pop(stack, tok, 1)
		if err != nil {
			return err
		}
		stack.PushBack(!truthy(operands[0]))
		return nil

	case "?":
		operands, err := pop(stack, tok, 3)
		if err != nil {
			return err
		}
		if truthy(operands[0]) {
			stack.PushBack(operands[1])
		} else {
			stack.PushBack(operands[2])
		}
		return nil
	}

	operands, err := pop(stack, tok, 2)
	if err != nil {
		return err
	}
	left, right := operands[0], operands[1]

	switch tok.Raw {
	case "+":
		stack.PushBack(toNumber(left) + toNumber(right))
	case "-":
		stack.PushBack(toNumber(left) - toNumber(right))
	case "/":
		stack.PushBack(toNumber(left) / toNumber(right))
	case "%":
		stack.PushBack(math.Mod(toNumber(left), toNumber(right)))
	case "*":
		stack.PushBack(toNumberStrict(left) * toNumberStrict(right))
	case "~":
		if r.tmpl.orderedConcat {
			stack.PushBack(FormatValue(left) + FormatValue(right))
		} else {
			// Pop order: the right operand comes first
			stack.PushBack(FormatValue(right) + FormatValue(left))
		}
	default:
		return newRenderError(ErrUnknownOperator, tok.Raw, tok.Offset,
			"%s is an unknown operator", tok.Raw)
	}
	return nil
}

func (r *renderer) applyFilter(tok ExpressionToken, stack deque.Deque, s *scope) error {
	call := tok.Value.(*filterCall)
	operands, err := pop(stack, tok, 1)
	if err != nil {
		return err
	}

	var args []interface{}
	if call.arg != nil {
		switch call.arg.Kind {
		case ExprVariable:
			value, ok := s.lookup(call.arg.Raw)
			if !ok {
				return newRenderError(ErrUndefinedVariable, call.arg.Raw, call.arg.Offset,
					"context doesn't provide '%s'", call.arg.Raw)
			}
			args = append(args, value)
		default:
			args = append(args, call.arg.Value)
		}
	}

	result, err := call.fn(operands[0], args...)
	if err != nil {
		rerr := newRenderError(ErrFilterFailed, tok.Raw, tok.Offset, "filter '%s'", call.name)
		rerr.Cause = err
		return rerr
	}
	stack.PushBack(result)
	return nil
}
