package jsonease

import "fmt"

// Position is a 1-based line/column location in a text.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

func (p Position) String() string {
	return fmt.Sprintf("Line %d, Column %d", p.Line, p.Column)
}

// Resolve converts a character offset in text into a line and column. The
// offset is clamped to the last character; a negative offset (or an empty
// text) resolves to the first line and column.
func Resolve(text string, offset int) Position {
	runes := []rune(text)
	if offset >= len(runes) {
		offset = len(runes) - 1
	}
	if offset < 0 {
		return Position{Line: 1, Column: 1}
	}

	line, column := 1, 1
	for _, r := range runes[:offset] {
		if r == '\n' {
			line++
			column = 1
		} else {
			column++
		}
	}
	return Position{Line: line, Column: column}
}
