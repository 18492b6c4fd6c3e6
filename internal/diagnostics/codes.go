package diagnostics

// Error codes for the lexical phase. Codes are stable so tooling and tests
// can match on them instead of message text.
const (
	ErrUnterminatedString   = "L0001"
	ErrInvalidEscape        = "L0002"
	ErrUnnecessarySemicolon = "L0003"
)
