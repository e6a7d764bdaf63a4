package format

import (
	"regexp"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
)

// Names of the two rules whose match ends highlighting of the rest of a line.
const (
	CommentRule = "comment"
	StringRule  = "string"
)

// DefaultColor is the foreground used by a rule that does not name one.
const DefaultColor = "#000000"

var (
	commentPattern = regexp.MustCompile(`//[^\n]*`)
	stringPattern  = regexp.MustCompile(`".*"`)
)

// A Rule is one named highlighting category. Every match of any of its
// Patterns is painted with Style. When a Terminal rule matches anywhere on a
// line, no rule after it is evaluated for that line.
type Rule struct {
	Name     string
	Patterns []*regexp.Regexp
	Style    tcell.Style
	Terminal bool
}

// newRule builds a rule from its definition. The reserved comment and string
// rules are marked terminal and get their built-in pattern here.
func newRule(def highlightDef) *Rule {
	color := def.Color
	if color == "" {
		color = DefaultColor
	}
	r := &Rule{
		Name:  def.Name,
		Style: tcell.StyleDefault.Foreground(tcell.GetColor(color)).Bold(def.Bold).Italic(def.Italics),
	}
	switch def.Name {
	case CommentRule:
		r.Terminal = true
		r.Patterns = []*regexp.Regexp{commentPattern}
	case StringRule:
		r.Terminal = true
		r.Patterns = []*regexp.Regexp{stringPattern}
	}
	return r
}

// notWord matches one rune that cannot be part of a word. RE2's \b only
// knows ASCII, so word boundaries are spelled out with it instead.
const notWord = `[^\p{L}\p{N}\p{M}_]`

// wordPattern matches word as a whole word. The word itself is capture group
// 1; the runes around it are only there to check the boundaries.
func wordPattern(word string) *regexp.Regexp {
	return regexp.MustCompile(`(?:^|` + notWord + `)(` + regexp.QuoteMeta(word) + `)(?:` + notWord + `|$)`)
}

// FindMatches returns the [start, end) byte offsets of every non-overlapping
// match of pattern in line. When the pattern has a first capture group, its
// bounds are used in place of the whole match, and the search resumes right
// after the group so that a boundary rune can be shared by two matches.
func FindMatches(pattern *regexp.Regexp, line []byte) [][]int {
	var matches [][]int
	for off := 0; off <= len(line); {
		loc := pattern.FindSubmatchIndex(line[off:])
		if loc == nil {
			break
		}
		start, end := loc[0], loc[1]
		if len(loc) >= 4 && loc[2] >= 0 {
			start, end = loc[2], loc[3]
		}
		matches = append(matches, []int{off + start, off + end})

		if end > 0 {
			off += end
		} else if off < len(line) {
			_, size := utf8.DecodeRune(line[off:])
			off += size
		} else {
			break
		}
	}
	return matches
}

// A RuleSet is an ordered collection of rules. Iteration order is the order
// in which the rules were first defined.
type RuleSet struct {
	rules  []*Rule
	byName map[string]int
}

func newRuleSet() *RuleSet {
	return &RuleSet{byName: make(map[string]int)}
}

// add inserts r, replacing a rule of the same name in place.
func (s *RuleSet) add(r *Rule) {
	if i, ok := s.byName[r.Name]; ok {
		s.rules[i] = r
		return
	}
	s.byName[r.Name] = len(s.rules)
	s.rules = append(s.rules, r)
}

// Rule returns the rule called name.
func (s *RuleSet) Rule(name string) (*Rule, bool) {
	if s == nil {
		return nil, false
	}
	i, ok := s.byName[name]
	if !ok {
		return nil, false
	}
	return s.rules[i], true
}

// Rules returns the rules in evaluation order. Do not modify the result.
func (s *RuleSet) Rules() []*Rule {
	if s == nil {
		return nil
	}
	return s.rules
}

// Len returns the number of rules.
func (s *RuleSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.rules)
}

// A Keyword is a word highlighted by the rule named Category. DocRef points
// into the external manual and is not interpreted here.
type Keyword struct {
	Word     string
	Category string
	DocRef   string
}
