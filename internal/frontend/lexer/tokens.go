package lexer

import (
	"fmt"

	"github.com/Karesis/nyanc-lexer/internal/source"
)

// TOKEN is the closed set of token kinds the scanner can produce.
type TOKEN string

const (
	// Punctuation and operators
	OPEN_CURLY      TOKEN = "{"
	CLOSE_CURLY     TOKEN = "}"
	OPEN_PAREN      TOKEN = "("
	CLOSE_PAREN     TOKEN = ")"
	COLON_TOKEN     TOKEN = ":"
	SCOPE_TOKEN     TOKEN = "::"
	EQUALS_TOKEN    TOKEN = "="
	ARROW_TOKEN     TOKEN = "->"
	CARET_TOKEN     TOKEN = "^"
	AMPERSAND_TOKEN TOKEN = "&"
	DOT_TOKEN       TOKEN = "."
	COMMA_TOKEN     TOKEN = ","
	PLUS_TOKEN      TOKEN = "+"
	MINUS_TOKEN     TOKEN = "-"
	MUL_TOKEN       TOKEN = "*"
	DIV_TOKEN       TOKEN = "/"

	// Literals
	IDENTIFIER_TOKEN TOKEN = "identifier"
	INT_TOKEN        TOKEN = "int"
	FLOAT_TOKEN      TOKEN = "float"
	STRING_TOKEN     TOKEN = "string"
	BOOL_TOKEN       TOKEN = "bool"

	// Keywords
	LET_TOKEN      TOKEN = "let"
	IF_TOKEN       TOKEN = "if"
	ELSE_TOKEN     TOKEN = "else"
	WHILE_TOKEN    TOKEN = "while"
	STRUCT_TOKEN   TOKEN = "struct"
	FUNCTION_TOKEN TOKEN = "fun"
	RETURN_TOKEN   TOKEN = "return"
	PUB_TOKEN      TOKEN = "pub"
	USE_TOKEN      TOKEN = "use"

	// Structural
	NEWLINE_TOKEN TOKEN = "newline"
	EOF_TOKEN     TOKEN = "eof"
	ILLEGAL_TOKEN TOKEN = "illegal"
)

// keywords maps reserved lexemes to their token kinds. The boolean literals
// live here too so the identifier sub-scanner classifies them after maximal
// munch, like any other keyword.
var keywords = map[string]TOKEN{
	"let":    LET_TOKEN,
	"if":     IF_TOKEN,
	"else":   ELSE_TOKEN,
	"while":  WHILE_TOKEN,
	"struct": STRUCT_TOKEN,
	"fun":    FUNCTION_TOKEN,
	"return": RETURN_TOKEN,
	"pub":    PUB_TOKEN,
	"use":    USE_TOKEN,
	"true":   BOOL_TOKEN,
	"false":  BOOL_TOKEN,
}

// Token is one classified unit of source text. Value holds the exact
// lexeme, Span the half-open byte range [Start, End) it was cut from, and
// Start/End the human-readable positions used by diagnostics.
type Token struct {
	Kind  TOKEN
	Value string
	Span  source.Span
	Start source.Position
	End   source.Position
}

func (t Token) String() string {
	return fmt.Sprintf("{Kind: %s, Value: %q, %s}", string(t.Kind), t.Value, t.Start)
}
