package twig

import (
	"fmt"
	"io"
	"strings"
)

// Render renders the template with ctx and returns the output. On error the
// output is discarded.
func (t *Template) Render(ctx Context) (string, error) {
	var b strings.Builder
	if err := t.render(&b, ctx); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Execute renders the template with ctx and writes the output to w. Nothing is
// written when rendering fails.
func (t *Template) Execute(w io.Writer, ctx Context) error {
	out, err := t.Render(ctx)
	if err != nil {
		return err
	}
	if _, err := io.WriteString(w, out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// renderer holds the per-call state of one render.
type renderer struct {
	tmpl   *Template
	out    *strings.Builder
	logger *Logger
}

func (t *Template) render(out *strings.Builder, ctx Context) (err error) {
	// Custom filters may panic
	defer func() {
		if r := recover(); r != nil {
			err = RecoverError(r)
		}
	}()

	r := &renderer{tmpl: t, out: out, logger: t.logger}
	if r.logger.IsDebugMode() {
		r.logger.WithField("token_count", len(t.tokens)).Debug("Rendering template")
	}
	return r.renderRange(0, len(t.tokens), newScope(ctx))
}

// renderRange renders the tokens in [lo, hi).
func (r *renderer) renderRange(lo, hi int, s *scope) error {
	for pc := lo; pc < hi; {
		tok := &r.tmpl.tokens[pc]
		switch tok.Kind {
		case TokenRaw:
			r.out.WriteString(tok.Text)
			pc++

		case TokenOutput:
			value, err := r.evaluate(tok.Expr, s)
			if err != nil {
				return err
			}
			r.out.WriteString(FormatValue(value))
			pc++

		case TokenLogic:
			next, err := r.renderLogic(pc, s)
			if err != nil {
				return err
			}
			pc = next
		}
	}
	return nil
}

// renderLogic executes the control tag at pc and returns the index rendering
// continues from.
func (r *renderer) renderLogic(pc int, s *scope) (int, error) {
	tok := r.tmpl.tokens[pc].Logic
	switch tok.Kind {
	case LogicIf:
		return r.renderIf(pc, s)
	case LogicFor:
		return r.renderFor(pc, s)
	case LogicSet:
		value, err := r.evaluate(tok.Condition, s)
		if err != nil {
			return 0, err
		}
		s.set(tok.Target, value)
		return pc + 1, nil
	default:
		// Chain tags are only reached through their opener
		return 0, newRenderError(ErrUnexpectedLogicTag, tok.Kind.String(), tok.Offset,
			"'%s' outside of a block", tok.Kind)
	}
}

// renderIf renders the first branch of the if chain at pc whose condition holds.
func (r *renderer) renderIf(pc int, s *scope) (int, error) {
	end := r.tmpl.tokens[pc].Logic.end

	for i := pc; i != end; {
		tok := r.tmpl.tokens[i].Logic
		if tok.Kind == LogicElse {
			return end + 1, r.renderRange(i+1, tok.next, s)
		}

		cond, err := r.evaluate(tok.Condition, s)
		if err != nil {
			return 0, err
		}
		if truthy(cond) {
			return end + 1, r.renderRange(i+1, tok.next, s)
		}
		i = tok.next
	}
	return end + 1, nil
}

// renderFor renders the body of the for block at pc once per item.
func (r *renderer) renderFor(pc int, s *scope) (int, error) {
	tok := r.tmpl.tokens[pc].Logic

	seq, err := r.evaluate(tok.Condition, s)
	if err != nil {
		return 0, err
	}
	items, err := iterate(seq)
	if err != nil {
		return 0, newRenderError(ErrNotIterable, tok.Condition.Source(), offsetOf(tok.Condition), "%v", err)
	}

	if r.logger.IsDebugMode() {
		r.logger.WithFields(Fields{
			"target": tok.Target,
			"items":  len(items),
		}).Debug("Entering for loop")
	}

	for _, item := range items {
		body := s.child()
		if tok.KeyTarget != "" {
			body.set(tok.KeyTarget, item.key)
		}
		body.set(tok.Target, item.value)
		if err := r.renderRange(pc+1, tok.end, body); err != nil {
			return 0, err
		}
	}
	return tok.end + 1, nil
}
