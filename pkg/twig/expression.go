package twig

import (
	"github.com/edwingeng/deque"
)

type operatorInfo struct {
	precedence    int
	associativity Associativity
}

// operatorTable assigns precedence (lower binds tighter) and associativity.
// Operators the scanner accepts but this table lacks (^) fail to compile.
var operatorTable = map[string]operatorInfo{
	"?": {16, RightToLeft},
	":": {16, RightToLeft},
	"+": {6, LeftToRight},
	"-": {6, LeftToRight},
	"~": {6, LeftToRight},
	"*": {5, LeftToRight},
	"/": {5, LeftToRight},
	"%": {5, LeftToRight},
	"!": {3, RightToLeft},
}

// compileExpression scans text and converts it to reverse polish order.
// base is the absolute offset of text in the template source.
func compileExpression(text string, base int, env *compileEnv) (*CompiledExpression, error) {
	tokens, err := scanExpression(text, base)
	if err != nil {
		return nil, err
	}

	rpn, err := shunt(tokens, env)
	if err != nil {
		return nil, err
	}

	expr := &CompiledExpression{source: text, tokens: rpn}
	if env.logger.IsDebugMode() {
		env.logger.WithFields(Fields{
			"expression": text,
			"rpn":        expr.String(),
		}).Debug("Compiled expression")
	}
	return expr, nil
}

// shunt runs the shunting-yard algorithm over scanned tokens.
func shunt(tokens []ExpressionToken, env *compileEnv) ([]ExpressionToken, error) {
	output := make([]ExpressionToken, 0, len(tokens))
	operators := deque.NewDeque()

	for _, tok := range tokens {
		switch tok.Kind {
		case ExprNumber, ExprString, ExprVariable:
			output = append(output, tok)

		case ExprOperator:
			op, ok := operatorTable[tok.Raw]
			if !ok {
				return nil, newCompileError(ErrUnknownOperator, tok.Raw, tok.Offset,
					"%s is an unknown operator", tok.Raw)
			}
			tok.Precedence = op.precedence
			tok.Associativity = op.associativity

			// Pop operators that must be applied before this one
			for !operators.Empty() {
				top := operators.Back().(ExpressionToken)
				leftFirst := tok.Associativity == LeftToRight && top.Precedence <= tok.Precedence
				rightFirst := tok.Associativity == RightToLeft && top.Precedence < tok.Precedence
				if !leftFirst && !rightFirst {
					break
				}
				output = append(output, top)
				operators.PopBack()
			}
			operators.PushBack(tok)

		case ExprSubExpression:
			sub, err := compileExpression(tok.Value.(string), tok.Offset+1, env)
			if err != nil {
				return nil, err
			}
			output = append(output, sub.tokens...)

		case ExprFilter:
			call := tok.Value.(*filterCall)
			fn, ok := env.filters[call.name]
			if !ok {
				return nil, newCompileError(ErrUnknownFilter, tok.Raw, tok.Offset,
					"no filter named '%s'", call.name)
			}
			tok.Value = &filterCall{name: call.name, arg: call.arg, fn: fn}
			output = append(output, tok)
		}
	}

	for !operators.Empty() {
		output = append(output, operators.PopBack().(ExpressionToken))
	}

	return output, nil
}
