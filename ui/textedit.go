package ui

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/fivemoreminix/qide/pkg/format"
	"github.com/fivemoreminix/qide/ui/buffer"
)

// ErrNoFilePath is returned by Save when neither a path nor the TextEdit's
// FilePath is set.
var ErrNoFilePath = errors.New("no file path to save to")

var _ Component = (*TextEdit)(nil)

// TextEdit is a field for line-based editing. It highlights its text with the
// rules of the active format, and indents by brace depth as lines are typed.
type TextEdit struct {
	Buffer      buffer.Buffer
	Highlighter *buffer.Highlighter
	Indenter    buffer.Indenter
	LineNumbers bool   // Whether to render line numbers (and therefore the column)
	Dirty       bool   // Whether the buffer has been edited
	IsCRLF      bool   // Line endings on disk; the buffer itself always holds '\n'
	FilePath    string // Will be empty if the file has not been saved yet
	Format      string // Name of the active format, empty for plain text

	catalog          *format.Catalog
	screen           tcell.Screen // We keep our own reference to the screen for cursor purposes.
	cursor           buffer.Cursor
	scrollx, scrolly int // Scroll offset of the view, in cells and lines

	selection  buffer.Region // Only meaningful while selectMode is set
	selectMode bool

	baseComponent
}

// NewTextEdit returns an empty TextEdit without a file. Formats are looked up
// in catalog, which may be nil; until a file is loaded the first configured
// format is active.
func NewTextEdit(screen tcell.Screen, catalog *format.Catalog, tabWidth int, theme *Theme) *TextEdit {
	te := &TextEdit{
		Indenter:    buffer.Indenter{TabWidth: tabWidth},
		LineNumbers: true,
		Format:      firstFormat(catalog),

		catalog:       catalog,
		screen:        screen,
		baseComponent: baseComponent{theme: theme},
	}
	te.SetContents(nil)
	return te
}

// SetContents replaces the text being edited. The line endings are detected
// from the first delimiter, and CRLF is stored as LF until the file is saved.
func (t *TextEdit) SetContents(contents []byte) {
	t.IsCRLF = false
	if i := bytes.IndexByte(contents, '\n'); i > 0 && contents[i-1] == '\r' {
		t.IsCRLF = true
		contents = bytes.ReplaceAll(contents, []byte("\r\n"), []byte{'\n'})
	}

	t.Buffer = buffer.NewRopeBuffer(contents)
	t.cursor = buffer.NewCursor(t.Buffer)
	t.selection = buffer.NewRegion(t.Buffer)
	t.selectMode = false
	t.scrollx, t.scrolly = 0, 0
	t.Highlighter = buffer.NewHighlighter(t.Buffer, t.catalog.RulesFor(t.Format))
}

// Load reads the file at path into the TextEdit and picks the format claiming
// its extension.
func (t *TextEdit) Load(path string) error {
	contents, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}

	t.FilePath = path
	t.Format = t.catalog.FormatForExtension(extension(path))
	t.SetContents(contents)
	t.Dirty = false
	return nil
}

// Save writes the text to path, or to FilePath when path is empty, restoring
// the file's line endings.
func (t *TextEdit) Save(path string) error {
	if path == "" {
		path = t.FilePath
	}
	if path == "" {
		return ErrNoFilePath
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	if t.IsCRLF {
		_, err = f.Write(bytes.ReplaceAll(t.Buffer.Bytes(), []byte{'\n'}, []byte("\r\n")))
	} else {
		_, err = t.Buffer.WriteTo(f)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}

	if path != t.FilePath {
		t.FilePath = path
		t.SetFormat(t.catalog.FormatForExtension(extension(path)))
	}
	t.Dirty = false
	return nil
}

// extension is the file extension of path without its dot.
func extension(path string) string {
	return strings.TrimPrefix(filepath.Ext(path), ".")
}

// GetLineDelimiter returns "\r\n" for a CRLF file, or "\n" for an LF file.
func (t *TextEdit) GetLineDelimiter() string {
	if t.IsCRLF {
		return "\r\n"
	}
	return "\n"
}

func (t *TextEdit) Catalog() *format.Catalog {
	return t.catalog
}

// SetCatalog swaps in a reloaded catalog. The format is looked up again by
// the file's extension, falling back to the current format's name. Without a
// file or a format, the first configured format is used.
func (t *TextEdit) SetCatalog(catalog *format.Catalog) {
	t.catalog = catalog
	if t.FilePath != "" {
		if name := catalog.FormatForExtension(extension(t.FilePath)); name != "" {
			t.Format = name
		}
	} else if t.Format == "" {
		t.Format = firstFormat(catalog)
	}
	t.SetFormat(t.Format)
}

func firstFormat(catalog *format.Catalog) string {
	if names := catalog.AllFormatNames(); len(names) > 0 {
		return names[0]
	}
	return ""
}

// SetFormat highlights the text with the rules of the named format. An
// unknown name leaves the text plain.
func (t *TextEdit) SetFormat(name string) {
	t.Format = name
	t.Highlighter.SetRules(t.catalog.RulesFor(name))
}

// FocusedKeyword returns the keyword of the active format that starts the
// cursor's line, if there is one.
func (t *TextEdit) FocusedKeyword() (format.Keyword, bool) {
	return t.catalog.Keyword(t.Format, buffer.FirstWord(t.Buffer, t.CurrentLine()))
}

// GetLine returns the text of line without its delimiter, or an empty string
// for a line outside the buffer.
func (t *TextEdit) GetLine(line int) string {
	if line < 0 || line >= t.Buffer.Lines() {
		return ""
	}
	return string(buffer.LineText(t.Buffer, line))
}

// ReplaceLine replaces the text of line, keeping its delimiter.
func (t *TextEdit) ReplaceLine(line int, text string) {
	if line < 0 || line >= t.Buffer.Lines() {
		return
	}
	t.selectMode = false

	if runes := t.Buffer.RunesInLine(line); runes > 0 {
		t.Buffer.Remove(line, 0, line, runes-1)
	}
	t.Buffer.Insert(line, 0, []byte(text))
	t.Dirty = true
	t.invalidate(line, strings.Contains(text, "\n"))
	t.cursor = t.cursor.SetLineCol(t.cursor.GetLineCol())
}

// CurrentLine returns the line the cursor is on.
func (t *TextEdit) CurrentLine() int {
	line, _ := t.cursor.GetLineCol()
	return line
}

// LineAtPos returns the line holding the byte position pos.
func (t *TextEdit) LineAtPos(pos int) int {
	line, _ := t.Buffer.PosToLineCol(pos)
	return line
}

// invalidate marks the lines changed by an edit at line. An edit that added
// or removed lines shifts everything after it.
func (t *TextEdit) invalidate(line int, linesChanged bool) {
	if linesChanged {
		t.Highlighter.InvalidateLines(line, t.Buffer.Lines()-1)
	} else {
		t.Highlighter.InvalidateLines(line, line)
	}
}

// insertAt inserts text at pos and leaves the cursor after it.
func (t *TextEdit) insertAt(pos int, text []byte) {
	if len(text) == 0 {
		return
	}
	line, col := t.Buffer.PosToLineCol(pos)
	t.Buffer.Insert(line, col, text)
	t.Dirty = true
	t.invalidate(line, bytes.IndexByte(text, '\n') >= 0)
	t.cursor = t.cursor.SetPos(pos + len(text))
}

// removeRange removes the bytes from start up to end and leaves the cursor
// at start.
func (t *TextEdit) removeRange(start, end int) {
	if start >= end {
		return
	}
	startLine, startCol := t.Buffer.PosToLineCol(start)
	endLine, endCol := t.cursor.SetPos(end).Left().GetLineCol() // Remove is inclusive

	// Checked before removing: Slice shares the buffer's storage.
	linesChanged := bytes.IndexByte(t.Buffer.Slice(startLine, startCol, endLine, endCol), '\n') >= 0
	t.Buffer.Remove(startLine, startCol, endLine, endCol)
	t.Dirty = true
	t.invalidate(startLine, linesChanged)
	t.cursor = t.cursor.SetPos(start)
}

func (t *TextEdit) hasSelection() bool {
	return t.selectMode && !t.selection.Empty()
}

// deleteSelection removes the selected text, if any, and ends selecting.
func (t *TextEdit) deleteSelection() bool {
	selected := t.hasSelection()
	t.selectMode = false
	if !selected {
		return false
	}
	t.removeRange(t.selection.Positions())
	return true
}

// Delete with `forwards` false will backspace, destroying the character before the cursor,
// while Delete with `forwards` true will delete the character after (or on) the cursor.
// With a selection, the selection is deleted instead.
func (t *TextEdit) Delete(forwards bool) {
	if !t.deleteSelection() {
		pos := t.cursor.Pos()
		if forwards {
			t.removeRange(pos, t.cursor.Right().Pos())
		} else {
			t.removeRange(t.cursor.Left().Pos(), pos)
		}
	}
	t.ScrollToCursor()
	t.updateCursorVisibility()
}

// Insert writes contents at the cursor, replacing any selection. CRLF in
// contents is stored as LF.
func (t *TextEdit) Insert(contents string) {
	t.deleteSelection()
	contents = strings.ReplaceAll(contents, "\r\n", "\n")
	t.insertAt(t.cursor.Pos(), []byte(contents))
	t.ScrollToCursor()
	t.updateCursorVisibility()
}

// NewLine breaks the line at the cursor and indents the new line one tab
// width past the brace left open before it.
func (t *TextEdit) NewLine() {
	t.deleteSelection()
	pos := t.cursor.Pos()
	indent := t.Indenter.NewLineIndent(t.Buffer.Bytes(), pos)
	t.insertAt(pos, append([]byte{'\n'}, spaces(indent)...))
}

// NewLineAbove opens an indented line above the cursor's line.
func (t *TextEdit) NewLineAbove() {
	t.deleteSelection()
	lineStart := t.Buffer.LineColToPos(t.CurrentLine(), 0)
	t.insertAt(lineStart, []byte{'\n'})
	indent := t.Indenter.NewLineIndent(t.Buffer.Bytes(), lineStart)
	t.insertAt(lineStart, spaces(indent))
	t.cursor = t.cursor.SetPos(lineStart + indent)
}

// CloseBrace types a '}', moving it under the brace it closes when nothing
// but whitespace precedes it on the line.
func (t *TextEdit) CloseBrace() {
	t.deleteSelection()
	line := t.CurrentLine()
	pos := t.Indenter.MatchClosingBrace(t.Buffer, t.cursor.Pos())
	t.Dirty = true
	t.invalidate(line, false)
	t.cursor = t.cursor.SetPos(pos)
}

// Indent shifts every selected line by one tab width and selects the whole
// lines. It reports false, changing nothing, when there is no selection.
func (t *TextEdit) Indent(dir buffer.Direction) bool {
	if !t.hasSelection() {
		return false
	}

	before := t.Buffer.Len()
	start, end := t.selection.Positions()
	first, last := t.Indenter.AdjustIndent(t.Buffer, start, end, dir)
	if t.Buffer.Len() != before {
		t.Dirty = true
		t.Highlighter.InvalidateLines(first, last)
	}

	t.selection.Anchor = t.selection.Anchor.SetLineCol(first, 0)
	t.selection.Head = t.selection.Head.SetLineCol(last, math.MaxInt32)
	t.cursor = t.selection.Head
	return true
}

func spaces(n int) []byte {
	return bytes.Repeat([]byte{' '}, n)
}

func (t *TextEdit) tabWidth() int {
	if t.Indenter.TabWidth <= 0 {
		return buffer.DefaultTabWidth
	}
	return t.Indenter.TabWidth
}

// runeCells returns the screen cells taken by r. A tab takes a full tab width.
func (t *TextEdit) runeCells(r rune) int {
	if r == '\t' {
		return t.tabWidth()
	}
	return runewidth.RuneWidth(r)
}

// cursorCell returns the cell of the cursor within its line, before scrolling.
func (t *TextEdit) cursorCell() int {
	line, _ := t.cursor.GetLineCol()
	text := buffer.LineText(t.Buffer, line)
	text = text[:t.cursor.Pos()-t.Buffer.LineColToPos(line, 0)]

	var cells int
	for len(text) > 0 {
		r, size := utf8.DecodeRune(text)
		cells += t.runeCells(r)
		text = text[size:]
	}
	return cells
}

// updateCursorVisibility sets the position of the terminal's cursor with the
// cursor of the TextEdit. The terminal cursor is hidden while selecting.
func (t *TextEdit) updateCursorVisibility() {
	if t.screen == nil || !t.focused {
		return
	}
	if t.hasSelection() {
		t.screen.HideCursor()
		return
	}
	line, _ := t.cursor.GetLineCol()
	t.screen.ShowCursor(t.x+t.getColumnWidth()+t.cursorCell()-t.scrollx, t.y+line-t.scrolly)
}

// Scroll the screen if the cursor is out of view.
func (t *TextEdit) ScrollToCursor() {
	line, _ := t.cursor.GetLineCol()
	if t.height > 0 {
		if line >= t.scrolly+t.height { // If the line is below view...
			t.scrolly = line - t.height + 1 // Scroll just enough to view that line
		} else if line < t.scrolly {
			t.scrolly = line
		}
	}

	textWidth := t.width - t.getColumnWidth()
	if textWidth > 0 {
		cell := t.cursorCell()
		if cell >= t.scrollx+textWidth { // If the cursor is right of view...
			t.scrollx = cell - textWidth + 1
		} else if cell < t.scrollx {
			t.scrollx = cell
		}
	}
}

func (t *TextEdit) GetCursor() buffer.Cursor {
	return t.cursor
}

func (t *TextEdit) SetCursor(newCursor buffer.Cursor) {
	t.cursor = newCursor
	t.updateCursorVisibility()
}

// SetSelection selects the bytes from start to end and puts the cursor at end.
func (t *TextEdit) SetSelection(start, end int) {
	t.selection.Anchor = t.cursor.SetPos(start)
	t.selection.Head = t.cursor.SetPos(end)
	t.cursor = t.selection.Head
	t.selectMode = true
}

// GetSelectedBytes returns a copy of the selected text. It is empty when
// nothing is selected.
func (t *TextEdit) GetSelectedBytes() []byte {
	if !t.hasSelection() {
		return []byte{}
	}
	start, end := t.selection.Positions()
	return t.Buffer.Bytes()[start:end]
}

// move puts the cursor at c, growing the selection when selecting.
func (t *TextEdit) move(c buffer.Cursor, selecting bool) {
	if selecting {
		if !t.selectMode {
			t.selection.Anchor = t.cursor
			t.selectMode = true
		}
		t.selection.Head = c
	} else {
		t.selectMode = false
	}
	t.cursor = c
}

// getColumnWidth returns the width of the line numbers column if it is present.
func (t *TextEdit) getColumnWidth() int {
	var columnWidth int
	if t.LineNumbers {
		// Set columnWidth to max count of line number digits
		columnWidth = buffer.Max(3, 1+len(strconv.Itoa(t.Buffer.Lines()))) // Column has minimum width of 2
	}
	return columnWidth
}

// Draw renders the TextEdit component.
func (t *TextEdit) Draw(s tcell.Screen) {
	columnWidth := t.getColumnWidth()
	textWidth := t.width - columnWidth
	bufferLines := t.Buffer.Lines()

	defaultStyle := t.theme.GetOrDefault("TextEdit")
	columnStyle := t.theme.GetOrDefault("TextEditColumn")
	selectedStyle := t.theme.GetOrDefault("TextEditSelected")
	_, background, _ := defaultStyle.Decompose()

	selStart, selEnd := -1, -1
	if t.hasSelection() {
		selStart, selEnd = t.selection.Positions()
	}

	t.Highlighter.UpdateInvalidatedLines(t.scrolly, t.scrolly+(t.height-1))

	for lineY := t.y; lineY < t.y+t.height; lineY++ { // For each line we can draw...
		line := lineY + t.scrolly - t.y // The line number being drawn (starts at zero)

		DrawRect(s, t.x+columnWidth, lineY, textWidth, 1, ' ', defaultStyle)

		lineNumStr := ""
		if line < bufferLines {
			lineNumStr = strconv.Itoa(line + 1)

			text := buffer.LineText(t.Buffer, line)
			lineStart := t.Buffer.LineColToPos(line, 0)
			styles := buffer.LineStyles(len(text), t.Highlighter.GetLineSpans(line), defaultStyle)

			var cell int // Cell of the next rune, before scrolling
			for i := 0; i < len(text); {
				r, size := utf8.DecodeRune(text[i:])
				width := t.runeCells(r)

				style := styles[i]
				if style != defaultStyle {
					style = style.Background(background)
				}
				if pos := lineStart + i; pos >= selStart && pos < selEnd {
					style = selectedStyle
				}

				if x := cell - t.scrollx; x >= 0 && x+width <= textWidth {
					if r == '\t' {
						DrawRect(s, t.x+columnWidth+x, lineY, width, 1, ' ', style)
					} else if width > 0 {
						s.SetContent(t.x+columnWidth+x, lineY, r, nil, style)
					}
				}

				cell += width
				i += size
			}
		}

		if columnWidth > 0 {
			DrawStr(s, t.x, lineY, fmt.Sprintf("%*s│", columnWidth-1, lineNumStr), columnStyle) // Right align line number
		}
	}

	t.updateCursorVisibility()
}

// SetFocused sets whether the TextEdit is focused. When focused, the cursor is set visible
// and its position is updated on every event.
func (t *TextEdit) SetFocused(v bool) {
	t.focused = v
	if v {
		t.updateCursorVisibility()
	} else if t.screen != nil {
		t.screen.HideCursor()
	}
}

// HandleEvent allows the TextEdit to handle `event` if it chooses, returns
// whether the TextEdit handled the event.
func (t *TextEdit) HandleEvent(event tcell.Event) bool {
	ev, ok := event.(*tcell.EventKey)
	if !ok {
		return false
	}

	selecting := ev.Modifiers()&tcell.ModShift != 0
	switch ev.Key() {
	// Cursor movement
	case tcell.KeyUp:
		t.move(t.cursor.Up(), selecting)
	case tcell.KeyDown:
		t.move(t.cursor.Down(), selecting)
	case tcell.KeyLeft:
		t.move(t.cursor.Left(), selecting)
	case tcell.KeyRight:
		t.move(t.cursor.Right(), selecting)
	case tcell.KeyHome:
		t.move(t.cursor.SetLineCol(t.CurrentLine(), 0), selecting)
	case tcell.KeyEnd:
		t.move(t.cursor.SetLineCol(t.CurrentLine(), math.MaxInt32), selecting) // Max column
	case tcell.KeyPgUp:
		line, col := t.cursor.GetLineCol()
		t.move(t.cursor.SetLineCol(line-t.height, col), selecting) // Go a page up
	case tcell.KeyPgDn:
		line, col := t.cursor.GetLineCol()
		t.move(t.cursor.SetLineCol(line+t.height, col), selecting) // Go a page down

	// Deleting
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		t.Delete(false)
	case tcell.KeyDelete:
		t.Delete(true)

	// Indentation
	case tcell.KeyTab:
		if !t.Indent(buffer.Increase) {
			t.Insert(string(spaces(t.tabWidth())))
		}
	case tcell.KeyBacktab:
		t.Indent(buffer.Decrease)
	case tcell.KeyEnter:
		if ev.Modifiers()&tcell.ModCtrl != 0 {
			t.NewLineAbove()
		} else {
			t.NewLine()
		}

	// Inserting
	case tcell.KeyRune:
		if ev.Rune() == '}' {
			t.CloseBrace()
		} else {
			t.Insert(string(ev.Rune()))
		}
	default:
		return false
	}

	t.ScrollToCursor()
	t.updateCursorVisibility()
	return true
}
