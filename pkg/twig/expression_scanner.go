package twig

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// kindSet is a set of expression token kinds
type kindSet uint8

func setOf(kinds ...ExpressionKind) kindSet {
	var s kindSet
	for _, k := range kinds {
		s |= 1 << uint(k)
	}
	return s
}

func (s kindSet) has(k ExpressionKind) bool {
	return s&(1<<uint(k)) != 0
}

// expressionPattern is one lexical rule of the expression grammar. next lists
// the kinds allowed to follow a token matched by this rule.
type expressionPattern struct {
	kind  ExpressionKind
	regex *regexp.Regexp
	next  kindSet
}

// Patterns are tried in order; the first match wins.
var expressionPatterns = []expressionPattern{
	{
		// Parenthesized sub-expression, no nesting
		kind:  ExprSubExpression,
		regex: regexp.MustCompile(`^\(([^)]+)\)`),
		next:  setOf(ExprOperator, ExprFilter),
	},
	{
		kind:  ExprOperator,
		regex: regexp.MustCompile(`^[+*/\-^~!%?:]`),
		next:  setOf(ExprSubExpression, ExprString, ExprVariable, ExprNumber),
	},
	{
		// No escape sequences
		kind:  ExprString,
		regex: regexp.MustCompile(`^("[^"]*"|'[^']*')`),
		next:  setOf(ExprOperator, ExprFilter),
	},
	{
		// Filter with an argument: |name(arg)
		kind:  ExprFilter,
		regex: regexp.MustCompile(`^\|([a-zA-Z_][a-zA-Z0-9_\-]*)\(([^)]*)\)`),
		next:  setOf(ExprOperator, ExprFilter),
	},
	{
		// Bare filter: |name
		kind:  ExprFilter,
		regex: regexp.MustCompile(`^\|([a-zA-Z_][a-zA-Z0-9_\-]*)`),
		next:  setOf(ExprOperator, ExprFilter),
	},
	{
		kind:  ExprVariable,
		regex: regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_\-]*`),
		next:  setOf(ExprOperator, ExprFilter),
	},
	{
		kind:  ExprNumber,
		regex: regexp.MustCompile(`^-?\d*\.?\d+`),
		next:  setOf(ExprOperator, ExprFilter),
	},
}

var (
	variableRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_\-]*$`)
	numberRegex   = regexp.MustCompile(`^-?\d*\.?\d+$`)
)

// filterCall is the payload of a filter token. fn is resolved by the expression
// compiler.
type filterCall struct {
	name string
	arg  *ExpressionToken
	fn   FilterFunc
}

// scanExpression splits the content of an output or logic marker into
// expression tokens. base is the absolute offset of text in the template.
func scanExpression(text string, base int) ([]ExpressionToken, error) {
	var tokens []ExpressionToken
	var prevNext kindSet
	first := true
	pos := 0

	for {
		rest := strings.TrimLeftFunc(text[pos:], unicode.IsSpace)
		pos = len(text) - len(rest)
		if rest == "" {
			break
		}

		pattern, match := matchExpression(rest)
		if pattern == nil {
			return nil, newCompileError(ErrUnknownExpressionToken, rest, base+pos,
				"unable to parse '%s'", truncate(rest, 20))
		}

		if !first && !prevNext.has(pattern.kind) {
			prev := tokens[len(tokens)-1]
			return nil, newCompileError(ErrInvalidAdjacency, match[0], base+pos,
				"%s cannot follow a %s", pattern.kind, prev.Kind)
		}

		tok, err := newExpressionToken(pattern.kind, match, base+pos)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, tok)

		prevNext = pattern.next
		first = false
		pos += len(match[0])
	}

	return tokens, nil
}

func matchExpression(rest string) (*expressionPattern, []string) {
	for i := range expressionPatterns {
		p := &expressionPatterns[i]
		if m := p.regex.FindStringSubmatch(rest); m != nil {
			return p, m
		}
	}
	return nil, nil
}

func newExpressionToken(kind ExpressionKind, match []string, offset int) (ExpressionToken, error) {
	tok := ExpressionToken{Kind: kind, Raw: match[0], Offset: offset}

	switch kind {
	case ExprSubExpression:
		// Raw keeps the parentheses, Value the interior
		tok.Value = match[1]
	case ExprString:
		tok.Value = match[0][1 : len(match[0])-1]
	case ExprNumber:
		n, err := strconv.ParseFloat(match[0], 64)
		if err != nil {
			return tok, newCompileError(ErrUnknownExpressionToken, match[0], offset, "invalid number")
		}
		tok.Value = n
	case ExprFilter:
		call := &filterCall{name: match[1]}
		if len(match) > 2 {
			// The argument starts after "|name("
			argOffset := offset + 1 + len(match[1]) + 1
			arg, err := parseFilterArg(match[2], argOffset)
			if err != nil {
				return tok, err
			}
			call.arg = arg
		}
		tok.Value = call
	}

	return tok, nil
}

// parseFilterArg parses the single argument of a |name(arg) filter: a quoted
// string, a number or a variable name. An empty argument list yields nil.
func parseFilterArg(text string, offset int) (*ExpressionToken, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, nil
	}
	offset += strings.Index(text, trimmed)

	switch {
	case len(trimmed) >= 2 && (trimmed[0] == '"' || trimmed[0] == '\'') && trimmed[len(trimmed)-1] == trimmed[0]:
		return &ExpressionToken{Kind: ExprString, Raw: trimmed, Offset: offset, Value: trimmed[1 : len(trimmed)-1]}, nil
	case numberRegex.MatchString(trimmed):
		n, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return nil, newCompileError(ErrUnknownExpressionToken, trimmed, offset, "invalid number")
		}
		return &ExpressionToken{Kind: ExprNumber, Raw: trimmed, Offset: offset, Value: n}, nil
	case variableRegex.MatchString(trimmed):
		return &ExpressionToken{Kind: ExprVariable, Raw: trimmed, Offset: offset}, nil
	default:
		return nil, newCompileError(ErrUnknownExpressionToken, trimmed, offset, "invalid filter argument")
	}
}
