package lexer

import "strconv"

// Position is a location in a source file.
//
// Line and Column are 1-based, Offset is the 0-based byte offset. The zero
// Position is invalid and is used for nodes built without source text.
type Position struct {
	Filename string
	Line     int
	Column   int
	Offset   int
}

// String formats the position as "file:line:col", or "line:col" when there
// is no file name.
func (p Position) String() string {
	s := strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
	if p.Filename == "" {
		return s
	}
	return p.Filename + ":" + s
}

// IsValid reports whether the position refers to actual source text.
func (p Position) IsValid() bool {
	return p.Line > 0
}

// At returns a position on the given line with no file or column. Tests and
// synthesized nodes use it.
func At(line int) Position {
	return Position{Line: line, Column: 1}
}
