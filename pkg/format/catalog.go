// Package format loads the declarative language formats used for syntax
// highlighting: for each format an ordered set of highlight rules and a table
// of keywords, plus the file extensions that select it.
//
// A Catalog is built once by Load and never modified afterwards, so it may be
// shared freely. Reconfiguring means loading a new Catalog and replacing the
// old one.
package format

import (
	"go.uber.org/zap"
)

// A Format is one language or file type.
type Format struct {
	Name       string
	Extensions []string

	rules    *RuleSet
	keywords map[string]Keyword
}

// Rules returns the format's rule set. It is never nil.
func (f *Format) Rules() *RuleSet {
	return f.rules
}

// Keywords returns the format's keywords by word. Do not modify the result.
func (f *Format) Keywords() map[string]Keyword {
	return f.keywords
}

// A Catalog holds every loaded Format. Lookups that find nothing return empty
// values, never errors. A nil *Catalog behaves as an empty one.
type Catalog struct {
	manualPath string
	formats    map[string]*Format
	names      []string          // configuration order
	byExt      map[string]string // extension -> format name
	warnings   []error
}

// Load reads the root configuration at path and every format it lists. Only a
// failure to read the root configuration is returned. A format whose rules or
// words cannot be read is still registered with whatever did load; those
// failures are logged and kept in Warnings.
func Load(path string, log *zap.Logger) (*Catalog, error) {
	if log == nil {
		log = zap.NewNop()
	}
	cfg, err := ReadConfig(path)
	if err != nil {
		return nil, err
	}
	return Build(cfg, log), nil
}

// Build creates a Catalog from an already decoded configuration.
func Build(cfg Config, log *zap.Logger) *Catalog {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Catalog{
		manualPath: cfg.ManualPath,
		formats:    make(map[string]*Format),
		byExt:      make(map[string]string),
	}
	for _, fc := range cfg.Formats {
		c.loadFormat(fc, log.With(zap.String("format", fc.Name)))
	}
	log.Debug("loaded format catalog",
		zap.Int("formats", len(c.names)),
		zap.Int("extensions", len(c.byExt)),
		zap.Int("warnings", len(c.warnings)))
	return c
}

// loadFormat parses the rules first and the words second: a keyword can only
// attach its pattern to a rule that already exists.
func (c *Catalog) loadFormat(fc FormatConfig, log *zap.Logger) {
	f := &Format{
		Name:     fc.Name,
		rules:    newRuleSet(),
		keywords: make(map[string]Keyword),
	}

	if fc.Highlights != "" {
		defs, err := readHighlights(fc.Highlights)
		if err != nil {
			c.warn(log, "highlight rules not loaded", err)
		}
		for _, def := range defs {
			f.rules.add(newRule(def))
		}
	}

	if fc.Words != "" {
		defs, err := readWords(fc.Words)
		if err != nil {
			c.warn(log, "keywords not loaded", err)
		}
		for _, def := range defs {
			rule, ok := f.rules.Rule(def.Highlight)
			if !ok || def.Word == "" {
				log.Debug("dropping keyword",
					zap.String("word", def.Word),
					zap.String("highlight", def.Highlight))
				continue
			}
			rule.Patterns = append(rule.Patterns, wordPattern(def.Word))
			f.keywords[def.Word] = Keyword{
				Word:     def.Word,
				Category: def.Highlight,
				DocRef:   def.Documentation,
			}
		}
	}

	if prev, ok := c.formats[f.Name]; ok {
		f.Extensions = prev.Extensions
	} else {
		c.names = append(c.names, f.Name)
	}
	c.formats[f.Name] = f

	for _, ext := range fc.Extensions {
		c.byExt[ext] = f.Name
		f.Extensions = append(f.Extensions, ext)
	}
}

func (c *Catalog) warn(log *zap.Logger, msg string, err error) {
	log.Warn(msg, zap.Error(err))
	c.warnings = append(c.warnings, err)
}

// ManualPath returns the configured documentation root.
func (c *Catalog) ManualPath() string {
	if c == nil {
		return ""
	}
	return c.manualPath
}

// Warnings returns the sub-source failures recovered during Load.
func (c *Catalog) Warnings() []error {
	if c == nil {
		return nil
	}
	return c.warnings
}

// Format returns the format called name.
func (c *Catalog) Format(name string) (*Format, bool) {
	if c == nil {
		return nil, false
	}
	f, ok := c.formats[name]
	return f, ok
}

// FormatForExtension returns the name of the format registered for ext, or
// the empty string. The match is exact: "go", ".go" and "GO" are different
// extensions.
func (c *Catalog) FormatForExtension(ext string) string {
	if c == nil {
		return ""
	}
	return c.byExt[ext]
}

// RulesFor returns the rules of the named format in evaluation order.
func (c *Catalog) RulesFor(name string) []*Rule {
	f, ok := c.Format(name)
	if !ok {
		return nil
	}
	return f.rules.Rules()
}

// KeywordsFor returns the keywords of the named format.
func (c *Catalog) KeywordsFor(name string) map[string]Keyword {
	f, ok := c.Format(name)
	if !ok {
		return map[string]Keyword{}
	}
	return f.keywords
}

// Keyword looks up one word of the named format.
func (c *Catalog) Keyword(format, word string) (Keyword, bool) {
	kw, ok := c.KeywordsFor(format)[word]
	return kw, ok
}

// AllFormatNames returns every format name in configuration order.
func (c *Catalog) AllFormatNames() []string {
	if c == nil {
		return nil
	}
	names := make([]string, len(c.names))
	copy(names, c.names)
	return names
}
