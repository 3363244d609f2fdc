package twig

import (
	"fmt"
	"strings"
)

// RawKind is the kind of a high-level template token
type RawKind int

const (
	RawText RawKind = iota
	RawOutput
	RawLogic
	RawComment
)

func (k RawKind) String() string {
	switch k {
	case RawText:
		return "raw"
	case RawOutput:
		return "output"
	case RawLogic:
		return "logic"
	case RawComment:
		return "comment"
	default:
		return "unknown"
	}
}

// RawToken is a scanned, not yet compiled, piece of a template.
// For markers, Text is the trimmed content and Offset points at its first byte.
type RawToken struct {
	Kind   RawKind
	Text   string
	Offset int
}

type tokenDefinition struct {
	kind  RawKind
	open  string
	close string
}

// Declaration order is the tie-break when two open markers start at the same offset.
var tokenDefinitions = []tokenDefinition{
	{kind: RawOutput, open: "{{", close: "}}"},
	{kind: RawLogic, open: "{%", close: "%}"},
	{kind: RawComment, open: "{#", close: "#}"},
}

// ExpressionKind is the kind of a token inside an output or logic marker
type ExpressionKind int

const (
	ExprNumber ExpressionKind = iota
	ExprString
	ExprVariable
	ExprOperator
	ExprFilter
	ExprSubExpression
)

func (k ExpressionKind) String() string {
	switch k {
	case ExprNumber:
		return "number"
	case ExprString:
		return "string"
	case ExprVariable:
		return "variable"
	case ExprOperator:
		return "operator"
	case ExprFilter:
		return "filter"
	case ExprSubExpression:
		return "expression"
	default:
		return "unknown"
	}
}

type Associativity int

const (
	LeftToRight Associativity = iota
	RightToLeft
)

func (a Associativity) String() string {
	if a == RightToLeft {
		return "rightToLeft"
	}
	return "leftToRight"
}

// ExpressionToken is one lexical element of an expression. Value holds the parsed
// literal for numbers (float64) and strings (unquoted string), and the *filterCall
// for filters.
type ExpressionToken struct {
	Kind          ExpressionKind
	Raw           string
	Offset        int
	Precedence    int
	Associativity Associativity
	Value         interface{}
}

// CompiledExpression is an expression in reverse polish order. It is never
// modified after compilation.
type CompiledExpression struct {
	source string
	tokens []ExpressionToken
}

// Source returns the expression text the RPN sequence was compiled from.
func (e *CompiledExpression) Source() string {
	return e.source
}

// Tokens returns a copy of the RPN sequence.
func (e *CompiledExpression) Tokens() []ExpressionToken {
	out := make([]ExpressionToken, len(e.tokens))
	copy(out, e.tokens)
	return out
}

// String returns the RPN sequence as space separated raw tokens, e.g. "2 3 4 * +".
func (e *CompiledExpression) String() string {
	parts := make([]string, len(e.tokens))
	for i, tok := range e.tokens {
		parts[i] = tok.Raw
	}
	return strings.Join(parts, " ")
}

type LogicKind int

const (
	LogicIf LogicKind = iota
	LogicElseIf
	LogicElse
	LogicEndIf
	LogicFor
	LogicEndFor
	LogicSet
	LogicUnknown
)

func (k LogicKind) String() string {
	switch k {
	case LogicIf:
		return "if"
	case LogicElseIf:
		return "elseif"
	case LogicElse:
		return "else"
	case LogicEndIf:
		return "endif"
	case LogicFor:
		return "for"
	case LogicEndFor:
		return "endfor"
	case LogicSet:
		return "set"
	default:
		return "unknown"
	}
}

// LogicToken is a compiled control tag.
//
// Condition is the if/elseif condition, the for sequence or the set value.
// Target names the set variable or the for value variable, KeyTarget the
// optional for key variable. next and end are indexes into the compiled token
// list: next is the following tag of the same if chain (or the endfor of a for),
// end is the closing tag of the block opened by this tag.
type LogicToken struct {
	Kind      LogicKind
	Condition *CompiledExpression
	Target    string
	KeyTarget string
	Offset    int

	next int
	end  int
}

func (t *LogicToken) String() string {
	switch t.Kind {
	case LogicIf, LogicElseIf:
		return fmt.Sprintf("%s(%s)", t.Kind, t.Condition)
	case LogicFor:
		if t.KeyTarget != "" {
			return fmt.Sprintf("for(%s, %s in %s)", t.KeyTarget, t.Target, t.Condition)
		}
		return fmt.Sprintf("for(%s in %s)", t.Target, t.Condition)
	case LogicSet:
		return fmt.Sprintf("set(%s = %s)", t.Target, t.Condition)
	default:
		return t.Kind.String()
	}
}

// TokenKind is the kind of a compiled template token
type TokenKind int

const (
	TokenRaw TokenKind = iota
	TokenOutput
	TokenLogic
)

// CompiledToken is one element of a compiled template: literal text, an output
// expression or a control tag.
type CompiledToken struct {
	Kind   TokenKind
	Text   string
	Expr   *CompiledExpression
	Logic  *LogicToken
	Offset int
}

func (t CompiledToken) String() string {
	switch t.Kind {
	case TokenRaw:
		return fmt.Sprintf("Raw(%q)", t.Text)
	case TokenOutput:
		return fmt.Sprintf("Output(%s)", t.Expr)
	case TokenLogic:
		return fmt.Sprintf("Logic(%s)", t.Logic)
	default:
		return "Unknown"
	}
}
