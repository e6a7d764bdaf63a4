package buffer

import (
	"math"
	"unicode"
	"unicode/utf8"
)

// So why is the code for moving the cursor in the buffer package, and not in the
// TextEdit component? The cursor needs the buffer to know where lines end and
// how it can move. The buffer is the city, and the Cursor is the car.

type position struct {
	line int
	col  int
}

// A Region is a selection between two cursors. Anchor is where the selection
// began and Head is where the cursor is now; either may come first in the
// buffer. End positions are exclusive.
type Region struct {
	Anchor Cursor
	Head   Cursor
}

func NewRegion(in Buffer) Region {
	return Region{
		NewCursor(in),
		NewCursor(in),
	}
}

// Positions returns the byte positions of the region in buffer order.
func (r Region) Positions() (start, end int) {
	start, end = r.Anchor.Pos(), r.Head.Pos()
	if start > end {
		start, end = end, start
	}
	return start, end
}

// Empty reports whether the region selects nothing.
func (r Region) Empty() bool {
	start, end := r.Positions()
	return start == end
}

// A Cursor is a line and column in a Buffer. Its movement functions return a
// moved copy and never leave the buffer's bounds. A Cursor is not updated
// when the buffer changes under it; use SetPos or SetLineCol afterwards.
type Cursor struct {
	buffer  Buffer
	prevCol int // column kept while moving through shorter lines
	position
}

func NewCursor(in Buffer) Cursor {
	return Cursor{
		buffer: in,
	}
}

func (c Cursor) Left() Cursor {
	if c.col == 0 && c.line != 0 { // If we are at the beginning of the current line...
		// Go to the end of the above line
		c.line--
		c.col = c.buffer.RunesInLine(c.line)
	} else {
		c.col = Max(c.col-1, 0)
	}
	c.prevCol = c.col
	return c
}

func (c Cursor) Right() Cursor {
	// If we are at the end of the current line,
	// and not at the last line...
	if c.col >= c.buffer.RunesInLine(c.line) && c.line < c.buffer.Lines()-1 {
		c.line, c.col = c.buffer.ClampLineCol(c.line+1, 0) // Go to beginning of line below
	} else {
		c.line, c.col = c.buffer.ClampLineCol(c.line, c.col+1)
	}
	c.prevCol = c.col
	return c
}

func (c Cursor) Up() Cursor {
	if c.line == 0 { // If the cursor is at the first line...
		c.line, c.col = 0, 0 // Go to beginning
		c.prevCol = 0
	} else {
		c.line, c.col = c.buffer.ClampLineCol(c.line-1, c.prevCol)
	}
	return c
}

func (c Cursor) Down() Cursor {
	if c.line == c.buffer.Lines()-1 { // If the cursor is at the last line...
		c.line, c.col = c.buffer.ClampLineCol(c.line, math.MaxInt32) // Go to end of current line
		c.prevCol = c.col
	} else {
		c.line, c.col = c.buffer.ClampLineCol(c.line+1, c.prevCol)
	}
	return c
}

// NextWordBoundaryEnd moves to the position after the last rune of the run
// of same-classed runes under the cursor, skipping whitespace after it.
func (c Cursor) NextWordBoundaryEnd() Cursor {
	text := c.buffer.Bytes()
	pos := c.Pos()
	if pos >= len(text) {
		return c
	}

	r, size := utf8.DecodeRune(text[pos:])
	startClass := getRuneCharclass(r)
	pos += size
	for pos < len(text) {
		r, size = utf8.DecodeRune(text[pos:])
		if class := getRuneCharclass(r); class != startClass && class != charwhitespace {
			break
		}
		pos += size
	}
	return c.SetPos(pos)
}

func (c Cursor) GetLineCol() (line, col int) {
	return c.line, c.col
}

// SetLineCol sets the line and col of the Cursor to those provided. `line` is
// clamped within the range (0, lines in buffer). `col` is then clamped within
// the range (0, line length in runes).
func (c Cursor) SetLineCol(line, col int) Cursor {
	c.line, c.col = c.buffer.ClampLineCol(line, col)
	c.prevCol = c.col
	return c
}

// Pos returns the byte position of the cursor.
func (c Cursor) Pos() int {
	return c.buffer.LineColToPos(c.line, c.col)
}

// SetPos moves the cursor to the byte position pos, clamped to the buffer.
func (c Cursor) SetPos(pos int) Cursor {
	line, col := c.buffer.PosToLineCol(pos)
	return c.SetLineCol(line, col)
}

func (c Cursor) Eq(other Cursor) bool {
	return c.buffer == other.buffer && c.line == other.line && c.col == other.col
}

// FirstWord returns the first word of line: the run of letters, digits and
// underscores after any leading whitespace. It is empty when the line is
// blank or starts with a symbol.
func FirstWord(b Buffer, line int) string {
	text := LineText(b, line)

	var start int
	for start < len(text) {
		r, size := utf8.DecodeRune(text[start:])
		if getRuneCharclass(r) != charwhitespace {
			break
		}
		start += size
	}

	end := start
	for end < len(text) {
		r, size := utf8.DecodeRune(text[end:])
		if getRuneCharclass(r) != charword {
			break
		}
		end += size
	}
	return string(text[start:end])
}

type charclass uint8

const (
	charwhitespace charclass = iota
	charword
	charsymbol
)

func getRuneCharclass(r rune) charclass {
	if unicode.IsSpace(r) {
		return charwhitespace
	} else if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
		return charword
	} else {
		return charsymbol
	}
}
