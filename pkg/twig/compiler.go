package twig

import (
	"github.com/edwingeng/deque"
)

// compileEnv carries what compilation needs besides the text itself.
type compileEnv struct {
	filters  map[string]FilterFunc
	logger   *Logger
	maxDepth int
}

// blockFrame is an open block on the logic stack. last is the index of the most
// recent tag of the block (the opener, or the latest elseif/else).
type blockFrame struct {
	opener  int
	last    int
	pattern *logicPattern
}

// compileTokens compiles scanned tokens into the flat token list of a template.
// Comments are dropped. Control tags are checked against the logic stack and
// linked so the renderer can jump between the tags of a block.
func compileTokens(raw []RawToken, env *compileEnv) ([]CompiledToken, error) {
	output := make([]CompiledToken, 0, len(raw))
	stack := deque.NewDeque()

	for _, rt := range raw {
		switch rt.Kind {
		case RawText:
			output = append(output, CompiledToken{Kind: TokenRaw, Text: rt.Text, Offset: rt.Offset})

		case RawComment:
			// Comments produce nothing

		case RawOutput:
			expr, err := compileExpression(rt.Text, rt.Offset, env)
			if err != nil {
				return nil, err
			}
			output = append(output, CompiledToken{Kind: TokenOutput, Expr: expr, Offset: rt.Offset})

		case RawLogic:
			tok, pattern, err := compileLogic(rt.Text, rt.Offset, env)
			if err != nil {
				return nil, err
			}
			index := len(output)
			output = append(output, CompiledToken{Kind: TokenLogic, Logic: tok, Offset: rt.Offset})

			switch {
			case pattern.open:
				if stack.Len() >= env.maxDepth {
					return nil, newCompileError(ErrNestingTooDeep, rt.Text, rt.Offset,
						"blocks nested deeper than %d", env.maxDepth)
				}
				stack.PushBack(&blockFrame{opener: index, last: index, pattern: pattern})

			case continuesBlock(tok.Kind):
				if stack.Empty() {
					return nil, newCompileError(ErrUnexpectedLogicTag, rt.Text, rt.Offset,
						"'%s' outside of a block", tok.Kind)
				}
				frame := stack.Back().(*blockFrame)
				if !frame.pattern.allows(tok.Kind) {
					return nil, newCompileError(ErrUnexpectedLogicTag, rt.Text, rt.Offset,
						"'%s' cannot follow '%s'", tok.Kind, frame.pattern.kind)
				}
				output[frame.last].Logic.next = index
				if len(pattern.next) == 0 {
					output[frame.opener].Logic.end = index
					stack.PopBack()
				} else {
					frame.last = index
					frame.pattern = pattern
				}
			}
		}
	}

	if !stack.Empty() {
		frame := stack.Back().(*blockFrame)
		opener := output[frame.opener]
		return nil, newCompileError(ErrUnclosedLogicTag, opener.Logic.Kind.String(), opener.Offset,
			"'%s' is never closed", opener.Logic.Kind)
	}

	if env.logger.IsDebugMode() {
		env.logger.WithField("token_count", len(output)).Debug("Template compiled")
	}

	return output, nil
}

// continuesBlock reports whether kind continues or closes a block opened earlier.
func continuesBlock(kind LogicKind) bool {
	switch kind {
	case LogicElseIf, LogicElse, LogicEndIf, LogicEndFor:
		return true
	}
	return false
}
