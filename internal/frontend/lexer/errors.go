package lexer

import (
	"fmt"

	"github.com/Karesis/nyanc-lexer/internal/source"
)

// LexerErrorKind tags the lexical errors the scanner can recover from.
type LexerErrorKind int

const (
	UnterminatedString LexerErrorKind = iota
	InvalidEscapeSequence
	UnnecessarySemicolon
)

func (k LexerErrorKind) String() string {
	switch k {
	case UnterminatedString:
		return "unterminated string"
	case InvalidEscapeSequence:
		return "invalid escape sequence"
	case UnnecessarySemicolon:
		return "unnecessary semicolon"
	default:
		return "unknown"
	}
}

// LexerError is a structured lexical error. Char is only meaningful for
// InvalidEscapeSequence, where it holds the character after the backslash.
// Errors never halt the scan; they accumulate on the Lexer and in the
// diagnostic bag while scanning continues.
type LexerError struct {
	Kind LexerErrorKind
	Char rune
	Span source.Span
}

func (e LexerError) Error() string {
	if e.Kind == InvalidEscapeSequence {
		return fmt.Sprintf("%s '\\%c' at %s", e.Kind, e.Char, e.Span)
	}
	return fmt.Sprintf("%s at %s", e.Kind, e.Span)
}
