package buffer

import (
	"bytes"
	"unicode/utf8"
)

// DefaultTabWidth is the indent width used when an Indenter has none set.
const DefaultTabWidth = 2

// Direction selects whether AdjustIndent adds or removes indentation.
type Direction uint8

const (
	Increase Direction = iota
	Decrease
)

// An Indenter computes brace-based indentation. All widths are in columns,
// filled with spaces. Positions past the text are clamped and unbalanced
// braces are tolerated; no method fails.
type Indenter struct {
	TabWidth int
}

func (in Indenter) tabWidth() int {
	if in.TabWidth <= 0 {
		return DefaultTabWidth
	}
	return in.TabWidth
}

// openBrace returns the position of the innermost '{' left open before
// cursor. A "//" comment hides braces up to the end of its line, and a '}'
// with nothing open is ignored.
func openBrace(text []byte, cursor int) (int, bool) {
	cursor = Clamp(cursor, 0, len(text))

	var open []int
	for i := 0; i < cursor; i++ {
		switch text[i] {
		case '/':
			if i+1 < len(text) && text[i+1] == '/' {
				for i < cursor && text[i] != '\n' {
					i++
				}
			}
		case '{':
			open = append(open, i)
		case '}':
			if len(open) > 0 {
				open = open[:len(open)-1]
			}
		}
	}

	if len(open) == 0 {
		return 0, false
	}
	return open[len(open)-1], true
}

// braceColumn returns the column of the innermost open brace before cursor.
func braceColumn(text []byte, cursor int) (int, bool) {
	brace, ok := openBrace(text, cursor)
	if !ok {
		return 0, false
	}
	lineStart := bytes.LastIndexByte(text[:brace], '\n') + 1
	return utf8.RuneCount(text[lineStart:brace]), true
}

// NewLineIndent returns the indent for a line started at cursor: one tab
// width past the column of the innermost open brace, or zero outside any
// braces.
func (in Indenter) NewLineIndent(text []byte, cursor int) int {
	col, ok := braceColumn(text, cursor)
	if !ok {
		return 0
	}
	return col + in.tabWidth()
}

// BraceAlignIndent returns the column of the innermost open brace before
// cursor, where its closing brace belongs, or zero.
func (in Indenter) BraceAlignIndent(text []byte, cursor int) int {
	col, _ := braceColumn(text, cursor)
	return col
}

// MatchClosingBrace types a '}' at pos. If only whitespace precedes pos on
// its line, that whitespace is replaced so the brace lines up with the brace
// it closes. Returns the position just after the inserted '}'.
func (in Indenter) MatchClosingBrace(buf Buffer, pos int) int {
	line, col := buf.PosToLineCol(pos)
	lineStart := buf.LineColToPos(line, 0)
	pos = buf.LineColToPos(line, col)
	text := buf.Bytes()

	if len(bytes.TrimSpace(text[lineStart:pos])) > 0 {
		buf.Insert(line, col, []byte{'}'})
		return pos + 1
	}

	// Only whitespace goes, so the braces before lineStart are unchanged.
	if col > 0 {
		buf.Remove(line, 0, line, col-1)
	}
	indent := in.BraceAlignIndent(text, lineStart)
	buf.Insert(line, 0, append(bytes.Repeat([]byte{' '}, indent), '}'))
	return lineStart + indent + 1
}

// AdjustIndent indents or unindents every line covered by the selection from
// start to end. Increase inserts one tab width of spaces at the start of each
// line; Decrease removes up to one tab width of leading spaces, stopping at
// the first other character. A selection that ends at the very start of a
// later line does not cover that line. Returns the covered lines.
func (in Indenter) AdjustIndent(buf Buffer, start, end int, dir Direction) (first, last int) {
	if start > end {
		start, end = end, start
	}
	first, _ = buf.PosToLineCol(start)
	last, endCol := buf.PosToLineCol(end)
	if last > first && endCol == 0 {
		last--
	}

	width := in.tabWidth()
	indent := bytes.Repeat([]byte{' '}, width)
	for line := first; line <= last; line++ {
		switch dir {
		case Increase:
			buf.Insert(line, 0, indent)
		case Decrease:
			text := LineText(buf, line)
			var n int
			for n < width && n < len(text) && text[n] == ' ' {
				n++
			}
			if n > 0 {
				buf.Remove(line, 0, line, n-1)
			}
		}
	}
	return first, last
}
