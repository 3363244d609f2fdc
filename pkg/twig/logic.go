package twig

import (
	"regexp"
)

// logicPattern describes one control tag.
//
// next lists the tags that may follow this one inside the same block; a tag
// with an empty next list closes its block or stands alone. open marks tags
// that start a block and are pushed onto the logic stack.
type logicPattern struct {
	kind  LogicKind
	regex *regexp.Regexp
	next  []LogicKind
	open  bool
}

func (p *logicPattern) allows(kind LogicKind) bool {
	for _, k := range p.next {
		if k == kind {
			return true
		}
	}
	return false
}

// Patterns are tried in order; the first match wins. Text matching none of
// them is an unrecognized tag.
var logicPatterns = []*logicPattern{
	{
		// {% if expression %}
		kind:  LogicIf,
		regex: regexp.MustCompile(`(?s)^if\s+(\S.*)$`),
		next:  []LogicKind{LogicElseIf, LogicElse, LogicEndIf},
		open:  true,
	},
	{
		// {% elseif expression %}
		kind:  LogicElseIf,
		regex: regexp.MustCompile(`(?s)^elseif\s+(\S.*)$`),
		next:  []LogicKind{LogicElseIf, LogicElse, LogicEndIf},
	},
	{
		kind:  LogicElse,
		regex: regexp.MustCompile(`^else$`),
		next:  []LogicKind{LogicEndIf},
	},
	{
		kind:  LogicEndIf,
		regex: regexp.MustCompile(`^endif$`),
	},
	{
		// {% for value in expression %} or {% for key, value in expression %}
		kind:  LogicFor,
		regex: regexp.MustCompile(`(?s)^for\s+([a-zA-Z_][a-zA-Z0-9_\-]*)(?:\s*,\s*([a-zA-Z_][a-zA-Z0-9_\-]*))?\s+in\s+(\S.*)$`),
		next:  []LogicKind{LogicEndFor},
		open:  true,
	},
	{
		kind:  LogicEndFor,
		regex: regexp.MustCompile(`^endfor$`),
	},
	{
		// {% set name = expression %}
		kind:  LogicSet,
		regex: regexp.MustCompile(`(?s)^set\s+([a-zA-Z_][a-zA-Z0-9_\-]*)\s*=\s*(\S.*)$`),
	},
}

// compileLogic matches the content of a logic marker against the tag patterns
// and compiles any embedded expression. offset is the absolute offset of text.
func compileLogic(text string, offset int, env *compileEnv) (*LogicToken, *logicPattern, error) {
	pattern, m := matchLogic(text)
	if pattern == nil {
		return nil, nil, newCompileError(ErrUnrecognizedLogicTag, text, offset,
			"unable to parse '%s'", truncate(text, 20))
	}

	if env.logger.IsDebugMode() {
		env.logger.WithField("tag", pattern.kind).Debug("Matched logic tag '%s'", text)
	}

	tok := &LogicToken{Kind: pattern.kind, Offset: offset, next: -1, end: -1}

	var exprStart, exprEnd int
	switch pattern.kind {
	case LogicIf, LogicElseIf:
		exprStart, exprEnd = m[2], m[3]
	case LogicFor:
		if m[4] >= 0 {
			tok.KeyTarget = text[m[2]:m[3]]
			tok.Target = text[m[4]:m[5]]
		} else {
			tok.Target = text[m[2]:m[3]]
		}
		exprStart, exprEnd = m[6], m[7]
	case LogicSet:
		tok.Target = text[m[2]:m[3]]
		exprStart, exprEnd = m[4], m[5]
	default:
		return tok, pattern, nil
	}

	expr, err := compileExpression(text[exprStart:exprEnd], offset+exprStart, env)
	if err != nil {
		return nil, nil, err
	}
	tok.Condition = expr
	return tok, pattern, nil
}

func matchLogic(text string) (*logicPattern, []int) {
	for _, p := range logicPatterns {
		if m := p.regex.FindStringSubmatchIndex(text); m != nil {
			return p, m
		}
	}
	return nil, nil
}
