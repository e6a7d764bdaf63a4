package buffer

import (
	"io"
)

// A Buffer is the editable text of one document, addressed by line and
// column. Lines and columns start at zero, columns count runes, and positions
// count bytes. Every "end" passed to Slice or Remove is inclusive.
//
// Out of range arguments panic. Callers holding a position that may be stale
// should pass it through ClampLineCol first.
type Buffer interface {
	// Line returns the text of line including its delimiter. Like Slice,
	// the result is only valid until the next edit.
	Line(line int) []byte

	// Slice returns the text from startLine, startCol through endLine,
	// endCol. The result shares the buffer's storage: do not write to it,
	// and do not hold it across an edit.
	Slice(startLine, startCol, endLine, endCol int) []byte

	// Bytes returns a copy of the whole buffer.
	Bytes() []byte

	// Insert copies value into the buffer at line, col.
	Insert(line, col int, value []byte)

	// Remove deletes the text from startLine, startCol through endLine,
	// endCol.
	Remove(startLine, startCol, endLine, endCol int)

	// Count returns the number of occurrences of sequence between start
	// (inclusive) and end (exclusive).
	Count(startLine, startCol, endLine, endCol int, sequence []byte) int

	// Len returns the number of bytes in the buffer.
	Len() int

	// Lines returns the number of lines, which is one more than the number
	// of '\n' bytes. An empty buffer has one line.
	Lines() int

	// RunesInLineWithDelim returns the number of runes in line, counting
	// its delimiter (two for "\r\n").
	RunesInLineWithDelim(line int) int

	// RunesInLine returns the number of runes in line without its
	// delimiter.
	RunesInLine(line int) int

	// ClampLineCol returns the nearest valid line and column: the line is
	// clamped first, then the column is clamped to [0, RunesInLine(line)].
	ClampLineCol(line, col int) (int, int)

	// LineColToPos returns the byte position of line, col. A column past
	// the end of the line yields the position of the line's delimiter.
	LineColToPos(line, col int) int

	// PosToLineCol converts a byte position into a line and column. The
	// position is clamped to [0, Len()].
	PosToLineCol(pos int) (int, int)

	WriteTo(w io.Writer) (int64, error)
}

// LineText returns the text of line without its delimiter.
func LineText(b Buffer, line int) []byte {
	return trimDelim(b.Line(line))
}
