package buffer

import (
	"github.com/gdamore/tcell/v2"

	"github.com/fivemoreminix/qide/pkg/format"
)

// A Span is one highlighted run of a line: Length bytes starting at byte
// Offset, painted with the Style of the rule called Rule.
type Span struct {
	Offset int
	Length int
	Rule   string
	Style  tcell.Style
}

// Highlight classifies one line of text. Rules are tried in order, and each
// rule's patterns in order; every non-overlapping match becomes a Span. Once
// a terminal rule (comment, string) has matched, the remaining rules are
// skipped and the spans found so far are returned.
//
// Spans from an earlier rule that fall inside a later comment are kept; rule
// order decides, not position on the line.
func Highlight(line []byte, rules []*format.Rule) []Span {
	var spans []Span
	for _, rule := range rules {
		var applied bool
		for _, pattern := range rule.Patterns {
			for _, loc := range format.FindMatches(pattern, line) {
				if loc[1] == loc[0] {
					continue
				}
				applied = true
				spans = append(spans, Span{
					Offset: loc[0],
					Length: loc[1] - loc[0],
					Rule:   rule.Name,
					Style:  rule.Style,
				})
			}
		}
		if rule.Terminal && applied {
			return spans
		}
	}
	return spans
}

// LineStyles resolves spans into one style per byte of a line n bytes long.
// Bytes not covered by any span get def; where spans overlap the later one
// wins.
func LineStyles(n int, spans []Span, def tcell.Style) []tcell.Style {
	styles := make([]tcell.Style, n)
	for i := range styles {
		styles[i] = def
	}
	for _, s := range spans {
		end := Min(s.Offset+s.Length, n)
		for i := Max(s.Offset, 0); i < end; i++ {
			styles[i] = s.Style
		}
	}
	return styles
}

// A Highlighter keeps the spans of every line of a Buffer. Lines are
// highlighted lazily: edits mark lines invalid, and the lines in view are
// re-highlighted before drawing. No state carries from one line to the next,
// so invalidating a line never affects its neighbours.
type Highlighter struct {
	Buffer Buffer
	Rules  []*format.Rule

	lineSpans [][]Span // nil entries are invalidated
}

func NewHighlighter(buffer Buffer, rules []*format.Rule) *Highlighter {
	return &Highlighter{
		Buffer:    buffer,
		Rules:     rules,
		lineSpans: make([][]Span, buffer.Lines()),
	}
}

// SetRules replaces the rules and invalidates every line.
func (h *Highlighter) SetRules(rules []*format.Rule) {
	h.Rules = rules
	h.InvalidateLines(0, len(h.lineSpans)-1)
}

// UpdateLines re-highlights the lines from startLine to endLine, inclusive.
// It is cheaper to call InvalidateLines on edits and UpdateInvalidatedLines
// before drawing.
func (h *Highlighter) UpdateLines(startLine, endLine int) {
	h.resize()
	endLine = Min(endLine, len(h.lineSpans)-1)
	for i := Max(startLine, 0); i <= endLine; i++ {
		spans := Highlight(LineText(h.Buffer, i), h.Rules)
		if spans == nil {
			spans = []Span{} // validated, but nothing to paint
		}
		h.lineSpans[i] = spans
	}
}

// UpdateInvalidatedLines only updates the invalidated lines between startLine
// and endLine, inclusive.
func (h *Highlighter) UpdateInvalidatedLines(startLine, endLine int) {
	h.resize()
	endLine = Min(endLine, len(h.lineSpans)-1)
	for i := Max(startLine, 0); i <= endLine; i++ {
		if h.lineSpans[i] == nil {
			h.UpdateLines(i, i)
		}
	}
}

func (h *Highlighter) HasInvalidatedLines(startLine, endLine int) bool {
	h.resize()
	for i := Max(startLine, 0); i <= endLine && i < len(h.lineSpans); i++ {
		if h.lineSpans[i] == nil {
			return true
		}
	}
	return false
}

func (h *Highlighter) InvalidateLines(startLine, endLine int) {
	h.resize()
	for i := Max(startLine, 0); i <= endLine && i < len(h.lineSpans); i++ {
		h.lineSpans[i] = nil
	}
}

// GetLineSpans returns the spans of line in evaluation order, or nil if the
// line is out of range or invalidated.
func (h *Highlighter) GetLineSpans(line int) []Span {
	if line < 0 || line >= len(h.lineSpans) {
		return nil
	}
	return h.lineSpans[line]
}

// resize matches the cache to the buffer's line count. Added lines start
// invalidated.
func (h *Highlighter) resize() {
	lines := h.Buffer.Lines()
	if len(h.lineSpans) < lines {
		h.lineSpans = append(h.lineSpans, make([][]Span, lines-len(h.lineSpans))...)
	} else if len(h.lineSpans) > lines {
		h.lineSpans = h.lineSpans[:lines]
	}
}
