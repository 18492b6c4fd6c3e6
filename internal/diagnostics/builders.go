package diagnostics

import (
	"fmt"

	"github.com/Karesis/nyanc-lexer/internal/source"
)

// Common diagnostic builders for the lexer

// UnterminatedString creates a diagnostic for an unterminated string literal
func UnterminatedString(filepath string, loc *source.Location, span source.Span) *Diagnostic {
	return NewError("unterminated string literal").
		WithCode(ErrUnterminatedString).
		WithSpan(span).
		WithPrimaryLabel(filepath, loc, "string starts here").
		WithHelp("add a closing quote (\") to terminate the string")
}

// InvalidEscapeSequence creates a diagnostic for an invalid escape sequence
func InvalidEscapeSequence(filepath string, loc *source.Location, span source.Span, char rune) *Diagnostic {
	return NewError(fmt.Sprintf("invalid escape sequence '\\%c'", char)).
		WithCode(ErrInvalidEscape).
		WithSpan(span).
		WithPrimaryLabel(filepath, loc, "unknown escape sequence").
		WithNote("valid escape sequences are: \\n, \\t, \\r, \\\\, \\\"").
		WithHelp("use a valid escape sequence or remove the backslash")
}

// UnnecessarySemicolon creates a diagnostic for a semicolon, which the
// grammar never uses as a statement terminator
func UnnecessarySemicolon(filepath string, loc *source.Location, span source.Span) *Diagnostic {
	return NewError("unnecessary semicolon").
		WithCode(ErrUnnecessarySemicolon).
		WithSpan(span).
		WithPrimaryLabel(filepath, loc, "semicolons are not used here").
		WithHelp("remove the semicolon; statements end at newlines")
}
