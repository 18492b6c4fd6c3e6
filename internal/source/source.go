// Package source defines the location types shared by the lexer and the
// diagnostic system: file identities, byte spans and line/column positions.
package source

import "fmt"

// FileId identifies a registered source file. Ids are allocated by the
// compiler context in registration order and are only meaningful within a
// single compilation session.
type FileId int

// NoFile is the zero FileId, used before a file has been registered.
const NoFile FileId = 0

// Position is a point in a source file. Line and Column are 1-based and
// Column counts characters, not bytes. Offset is the 0-based byte offset.
type Position struct {
	Line   int
	Column int
	Offset int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span is a half-open byte range [Start, End) within one file. Spans tag
// every token and every lexical error so later stages can point back at the
// exact source text.
type Span struct {
	FileId FileId
	Start  int
	End    int
}

// Len returns the width of the span in bytes.
func (s Span) Len() int { return s.End - s.Start }

func (s Span) String() string {
	return fmt.Sprintf("[%d, %d)", s.Start, s.End)
}

// Location pairs a start and end position for diagnostic rendering.
type Location struct {
	Start *Position
	End   *Position
}

// NewLocation creates a Location from a start and end position.
func NewLocation(start, end *Position) *Location {
	return &Location{Start: start, End: end}
}
