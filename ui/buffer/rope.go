package buffer

import (
	"bytes"
	"io"
	"unicode/utf8"

	"github.com/zyedidia/rope"
)

// RopeBuffer is a Buffer stored in a rope, so edits in the middle of large
// documents do not copy the whole text.
type RopeBuffer rope.Node

func NewRopeBuffer(contents []byte) *RopeBuffer {
	return (*RopeBuffer)(rope.New(contents))
}

func (b *RopeBuffer) node() *rope.Node {
	return (*rope.Node)(b)
}

// slice returns the bytes in [start, end).
func (b *RopeBuffer) slice(start, end int) []byte {
	if start >= end {
		return []byte{}
	}
	return b.node().Slice(start, end)
}

// lineStartPos returns the position of the first byte of line. For the last
// line of a buffer ending in '\n' that is Len(). A line past the end panics.
func (b *RopeBuffer) lineStartPos(line int) int {
	if line < 0 {
		panic("lineStartPos: negative line")
	}

	var pos int
	if line > 0 {
		_rope := b.node()
		_rope.IndexAllFunc(0, _rope.Len(), []byte{'\n'}, func(idx int) bool {
			line--
			pos = idx + 1 // start of the line after the delimiter
			return line <= 0
		})
	}

	if line > 0 {
		panic("lineStartPos: not enough lines in buffer to reach position")
	}
	return pos
}

// lineBounds returns the start of line and the position just past its
// delimiter.
func (b *RopeBuffer) lineBounds(line int) (start, end int) {
	start = b.lineStartPos(line)
	if line+1 < b.Lines() {
		return start, b.lineStartPos(line + 1)
	}
	return start, b.Len()
}

// runeEnd returns the position just past the rune starting at pos.
func (b *RopeBuffer) runeEnd(pos int) int {
	length := b.Len()
	if pos >= length {
		return length
	}
	_, size := utf8.DecodeRune(b.slice(pos, Min(pos+utf8.UTFMax, length)))
	return pos + size
}

func (b *RopeBuffer) Line(line int) []byte {
	return b.slice(b.lineBounds(line))
}

func (b *RopeBuffer) Slice(startLine, startCol, endLine, endCol int) []byte {
	start := b.LineColToPos(startLine, startCol)
	end := b.runeEnd(b.LineColToPos(endLine, endCol))
	return b.slice(start, end)
}

func (b *RopeBuffer) Bytes() []byte {
	return bytes.Clone(b.node().Value()) // Value shares the leaf's storage
}

func (b *RopeBuffer) Insert(line, col int, value []byte) {
	if len(value) == 0 {
		return
	}
	b.node().Insert(b.LineColToPos(line, col), value)
}

func (b *RopeBuffer) Remove(startLine, startCol, endLine, endCol int) {
	start := b.LineColToPos(startLine, startCol)
	end := b.runeEnd(b.LineColToPos(endLine, endCol))
	if start >= end {
		return
	}
	b.node().Remove(start, end)
}

func (b *RopeBuffer) Count(startLine, startCol, endLine, endCol int, sequence []byte) int {
	startPos := b.LineColToPos(startLine, startCol)
	endPos := b.LineColToPos(endLine, endCol)
	if startPos >= endPos {
		return 0
	}
	return b.node().Count(startPos, endPos, sequence)
}

func (b *RopeBuffer) Len() int {
	return b.node().Len()
}

func (b *RopeBuffer) Lines() int {
	_rope := b.node()
	if _rope.Len() == 0 {
		return 1
	}
	return _rope.Count(0, _rope.Len(), []byte{'\n'}) + 1
}

func (b *RopeBuffer) RunesInLineWithDelim(line int) int {
	return utf8.RuneCount(b.Line(line))
}

func (b *RopeBuffer) RunesInLine(line int) int {
	return utf8.RuneCount(trimDelim(b.Line(line)))
}

func (b *RopeBuffer) ClampLineCol(line, col int) (int, int) {
	if line < 0 {
		line = 0
	} else if lines := b.Lines() - 1; line > lines {
		line = lines
	}

	if col < 0 {
		col = 0
	} else if runes := b.RunesInLine(line); col > runes {
		col = runes
	}

	return line, col
}

func (b *RopeBuffer) LineColToPos(line, col int) int {
	start, end := b.lineBounds(line)
	data := trimDelim(b.slice(start, end))

	var i int
	for col > 0 && i < len(data) {
		_, size := utf8.DecodeRune(data[i:]) // respect codepoint boundaries
		i += size
		col--
	}
	return start + i
}

func (b *RopeBuffer) PosToLineCol(pos int) (int, int) {
	if pos <= 0 {
		return 0, 0
	}
	if length := b.Len(); pos > length {
		pos = length
	}

	line := b.node().Count(0, pos, []byte{'\n'})
	start := b.lineStartPos(line)
	return line, utf8.RuneCount(b.slice(start, pos))
}

func (b *RopeBuffer) WriteTo(w io.Writer) (int64, error) {
	return b.node().WriteTo(w)
}

// trimDelim strips a trailing "\n" or "\r\n".
func trimDelim(line []byte) []byte {
	if !bytes.HasSuffix(line, []byte{'\n'}) {
		return line
	}
	line = line[:len(line)-1]
	return bytes.TrimSuffix(line, []byte{'\r'})
}
