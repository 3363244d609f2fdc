package twig

import (
	"strings"
	"unicode"
)

// quoteChars start string literals inside output and logic markers. A close
// marker inside a string literal does not end the marker.
const quoteChars = `"'`

// scanTemplate splits a template into raw text, output, logic and comment tokens.
func scanTemplate(text string, logger *Logger) ([]RawToken, error) {
	var tokens []RawToken
	pos := 0

	if logger.IsDebugMode() {
		logger.WithField("input_length", len(text)).Debug("Starting template scan")
	}

	for pos < len(text) {
		def, start := findToken(text, pos)
		if def == nil {
			tokens = append(tokens, RawToken{Kind: RawText, Text: text[pos:], Offset: pos})
			break
		}

		if start > pos {
			tokens = append(tokens, RawToken{Kind: RawText, Text: text[pos:start], Offset: pos})
		}

		contentStart := start + len(def.open)
		end, err := findTokenEnd(text, def, contentStart)
		if err != nil {
			return nil, newCompileError(ErrUnterminatedToken, def.open, start,
				"unable to find closing marker '%s'", def.close)
		}

		content := text[contentStart:end]
		trimmed := strings.TrimLeftFunc(content, unicode.IsSpace)
		offset := contentStart + len(content) - len(trimmed)
		tok := RawToken{
			Kind:   def.kind,
			Text:   strings.TrimRightFunc(trimmed, unicode.IsSpace),
			Offset: offset,
		}
		if logger.IsDebugMode() {
			logger.WithFields(Fields{
				"type":    tok.Kind,
				"content": tok.Text,
				"offset":  tok.Offset,
			}).Debug("Found token")
		}
		tokens = append(tokens, tok)

		pos = end + len(def.close)
	}

	if logger.IsDebugMode() {
		logger.WithField("token_count", len(tokens)).Debug("Template scan complete")
	}

	return tokens, nil
}

// findToken returns the definition whose open marker occurs first in text[from:]
// and its absolute offset, or nil when no marker remains.
func findToken(text string, from int) (*tokenDefinition, int) {
	var found *tokenDefinition
	position := -1
	for i := range tokenDefinitions {
		def := &tokenDefinitions[i]
		idx := strings.Index(text[from:], def.open)
		if idx < 0 {
			continue
		}
		if position < 0 || from+idx < position {
			position = from + idx
			found = def
		}
	}
	return found, position
}

// findTokenEnd returns the absolute offset of the close marker matching def,
// searching from offset. Inside output and logic markers a quoted string hides
// the close marker; a quote without a partner is an ordinary character.
// Comments hold no strings, so their quotes are never skipped.
func findTokenEnd(text string, def *tokenDefinition, offset int) (int, error) {
	for {
		rel := strings.Index(text[offset:], def.close)
		if rel < 0 {
			return 0, ErrUnterminatedToken
		}
		end := offset + rel
		if def.kind == RawComment {
			return end, nil
		}

		quote := strings.IndexAny(text[offset:end], quoteChars)
		if quote < 0 {
			return end, nil
		}
		quote += offset

		closing := strings.IndexByte(text[quote+1:], text[quote])
		if closing < 0 {
			offset = quote + 1
			continue
		}
		offset = quote + 1 + closing + 1
	}
}
