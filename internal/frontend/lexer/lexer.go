// Package lexer implements the scanning stage of the compiler: it turns raw
// source text into a flat sequence of classified tokens, reporting every
// lexical error to the shared diagnostic bag without ever aborting the scan.
package lexer

import (
	"fmt"
	"os"
	"unicode"
	"unicode/utf8"

	"github.com/Karesis/nyanc-lexer/internal/diagnostics"
	"github.com/Karesis/nyanc-lexer/internal/source"
)

// Lexer scans a single source file. It is created once per file, consumed by
// repeated NextToken calls until the EOF sentinel, and never reset or reused.
// The source text must stay immutable for the Lexer's lifetime.
type Lexer struct {
	filepath    string
	src         string
	fileId      source.FileId
	diagnostics *diagnostics.DiagnosticBag

	pos      int // byte offset of the next unread character
	startPos int // byte offset where the current token begins
	line     int // 1-based line of the next unread character
	column   int // 1-based column (in characters) of the next unread character

	start source.Position // position where the current token begins

	// Errors accumulates the structured form of everything reported to the
	// diagnostic bag, in scan order.
	Errors []LexerError
}

// New creates a lexer over src. Every error it finds is appended to bag;
// the bag's own locking makes it safe to share one bag across the lexers of
// a multi-file compilation.
func New(filepath string, src string, fileId source.FileId, bag *diagnostics.DiagnosticBag) *Lexer {
	return &Lexer{
		filepath:    filepath,
		src:         src,
		fileId:      fileId,
		diagnostics: bag,
		line:        1,
		column:      1,
	}
}

// NextToken scans and returns the next token. At end of input it returns a
// zero-width EOF_TOKEN; callers iterating the stream treat that as the stop
// signal, never as a real token.
func (l *Lexer) NextToken() Token {
	l.skipWhitespace()
	l.markStart()

	c, ok := l.advance()
	if !ok {
		return Token{
			Kind:  EOF_TOKEN,
			Value: "",
			Span:  source.Span{FileId: l.fileId, Start: l.pos, End: l.pos},
			Start: l.start,
			End:   l.start,
		}
	}

	switch c {
	case '{':
		return l.makeToken(OPEN_CURLY)
	case '}':
		return l.makeToken(CLOSE_CURLY)
	case '(':
		return l.makeToken(OPEN_PAREN)
	case ')':
		return l.makeToken(CLOSE_PAREN)
	case '=':
		return l.makeToken(EQUALS_TOKEN)
	case '^':
		return l.makeToken(CARET_TOKEN)
	case '&':
		return l.makeToken(AMPERSAND_TOKEN)
	case '.':
		return l.makeToken(DOT_TOKEN)
	case ',':
		return l.makeToken(COMMA_TOKEN)
	case '+':
		return l.makeToken(PLUS_TOKEN)
	case '*':
		return l.makeToken(MUL_TOKEN)
	case '/':
		return l.makeToken(DIV_TOKEN)

	case '-':
		if next, ok := l.peek(); ok && next == '>' {
			l.advance()
			return l.makeToken(ARROW_TOKEN)
		}
		return l.makeToken(MINUS_TOKEN)

	case ':':
		if next, ok := l.peek(); ok && next == ':' {
			l.advance()
			return l.makeToken(SCOPE_TOKEN)
		}
		return l.makeToken(COLON_TOKEN)

	case '\n':
		// The token is built first so its span and position describe the
		// newline byte itself; the counters move to the new line after.
		tok := l.makeToken(NEWLINE_TOKEN)
		l.line++
		l.column = 1
		return tok

	case '"':
		return l.scanString()

	case ';':
		// The grammar has no semicolons; diagnose and keep scanning.
		tok := l.makeToken(ILLEGAL_TOKEN)
		l.reportSemicolon(tok)
		return tok
	}

	if isDigit(c) {
		return l.scanNumber()
	}
	if unicode.IsLetter(c) || c == '_' {
		return l.scanIdentifier()
	}

	// Unclassified characters are tagged Illegal without a diagnostic.
	return l.makeToken(ILLEGAL_TOKEN)
}

// Tokenize drains the lexer into a token slice. The EOF sentinel terminates
// the loop and is never appended. When debug is set, each token is printed
// as it is produced.
func (l *Lexer) Tokenize(debug bool) []Token {
	tokens := make([]Token, 0)
	for {
		tok := l.NextToken()
		if tok.Kind == EOF_TOKEN {
			break
		}
		if debug {
			fmt.Fprintf(os.Stderr, "    %s\n", tok)
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// skipWhitespace consumes horizontal whitespace. Newlines are tokens, not
// whitespace, so they stay for the dispatcher.
func (l *Lexer) skipWhitespace() {
	for {
		c, ok := l.peek()
		if !ok || (c != ' ' && c != '\t' && c != '\r') {
			return
		}
		l.advance()
	}
}

// scanNumber consumes an integer or float literal. The first digit has
// already been consumed by the dispatcher.
func (l *Lexer) scanNumber() Token {
	l.consumeDigits()

	// A dot only commits to a float when a digit follows it; otherwise it is
	// left unconsumed so member access like a.b keeps working.
	if c, ok := l.peek(); ok && c == '.' {
		if next, ok := l.peekAfter(); ok && isDigit(next) {
			l.advance() // '.'
			l.consumeDigits()
			return l.makeToken(FLOAT_TOKEN)
		}
	}

	return l.makeToken(INT_TOKEN)
}

func (l *Lexer) consumeDigits() {
	for {
		c, ok := l.peek()
		if !ok || !isDigit(c) {
			return
		}
		l.advance()
	}
}

// scanString consumes a string literal; the opening quote has already been
// consumed. Escape sequences are kept verbatim in the lexeme, decoding is a
// later stage's job. Strings may span multiple lines.
func (l *Lexer) scanString() Token {
	for {
		c, ok := l.advance()
		if !ok {
			l.reportUnterminatedString()
			return l.makeToken(ILLEGAL_TOKEN)
		}

		switch c {
		case '"':
			return l.makeToken(STRING_TOKEN)

		case '\n':
			l.line++
			l.column = 1

		case '\\':
			escStart := l.pos - 1
			escLine, escColumn := l.line, l.column-1

			esc, ok := l.advance()
			if !ok {
				// A dangling escape at end of input means the string never
				// closed; it is not a separate error kind.
				l.reportUnterminatedString()
				return l.makeToken(ILLEGAL_TOKEN)
			}
			if esc == '\n' {
				l.line++
				l.column = 1
			}

			switch esc {
			case '"', '\\', 'n', 'r', 't':
				// Valid escape, kept as-is.
			default:
				l.reportInvalidEscape(esc, escStart, escLine, escColumn)
			}
		}
	}
}

// scanIdentifier consumes an identifier with maximal munch, then checks the
// keyword table. The first character has already been consumed.
func (l *Lexer) scanIdentifier() Token {
	for {
		c, ok := l.peek()
		if !ok || (!unicode.IsLetter(c) && !unicode.IsDigit(c) && c != '_') {
			break
		}
		l.advance()
	}

	lexeme := l.src[l.startPos:l.pos]
	if kind, ok := keywords[lexeme]; ok {
		return l.makeToken(kind)
	}
	return l.makeToken(IDENTIFIER_TOKEN)
}

// advance consumes the next character and returns it. The byte cursor moves
// by the character's encoded width, the column by one character.
func (l *Lexer) advance() (rune, bool) {
	if l.pos >= len(l.src) {
		return 0, false
	}
	c, size := utf8.DecodeRuneInString(l.src[l.pos:])
	l.pos += size
	l.column++
	return c, true
}

// peek returns the next character without consuming it.
func (l *Lexer) peek() (rune, bool) {
	if l.pos >= len(l.src) {
		return 0, false
	}
	c, _ := utf8.DecodeRuneInString(l.src[l.pos:])
	return c, true
}

// peekAfter returns the character after the next one, the second half of the
// two-character lookahead the float decision needs.
func (l *Lexer) peekAfter() (rune, bool) {
	if l.pos >= len(l.src) {
		return 0, false
	}
	_, size := utf8.DecodeRuneInString(l.src[l.pos:])
	if l.pos+size >= len(l.src) {
		return 0, false
	}
	c, _ := utf8.DecodeRuneInString(l.src[l.pos+size:])
	return c, true
}

// markStart records the current cursor as the start of the next token.
func (l *Lexer) markStart() {
	l.startPos = l.pos
	l.start = l.currentPos()
}

func (l *Lexer) currentPos() source.Position {
	return source.Position{Line: l.line, Column: l.column, Offset: l.pos}
}

// makeToken builds a token for the text consumed since markStart.
func (l *Lexer) makeToken(kind TOKEN) Token {
	return Token{
		Kind:  kind,
		Value: l.src[l.startPos:l.pos],
		Span:  source.Span{FileId: l.fileId, Start: l.startPos, End: l.pos},
		Start: l.start,
		End:   l.currentPos(),
	}
}

func (l *Lexer) reportUnterminatedString() {
	span := source.Span{FileId: l.fileId, Start: l.startPos, End: l.pos}
	l.Errors = append(l.Errors, LexerError{Kind: UnterminatedString, Span: span})

	start := l.start
	end := l.currentPos()
	l.diagnostics.Add(diagnostics.UnterminatedString(
		l.filepath, source.NewLocation(&start, &end), span))
}

func (l *Lexer) reportInvalidEscape(char rune, offset, line, column int) {
	span := source.Span{FileId: l.fileId, Start: offset, End: l.pos}
	l.Errors = append(l.Errors, LexerError{Kind: InvalidEscapeSequence, Char: char, Span: span})

	start := source.Position{Line: line, Column: column, Offset: offset}
	end := l.currentPos()
	l.diagnostics.Add(diagnostics.InvalidEscapeSequence(
		l.filepath, source.NewLocation(&start, &end), span, char))
}

func (l *Lexer) reportSemicolon(tok Token) {
	l.Errors = append(l.Errors, LexerError{Kind: UnnecessarySemicolon, Span: tok.Span})

	start := tok.Start
	end := tok.End
	l.diagnostics.Add(diagnostics.UnnecessarySemicolon(
		l.filepath, source.NewLocation(&start, &end), tok.Span))
}

// isDigit reports whether c is an ASCII digit. Number literals are ASCII
// only; Unicode digits fall through to the identifier rules.
func isDigit(c rune) bool {
	return '0' <= c && c <= '9'
}
