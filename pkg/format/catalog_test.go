package format_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fivemoreminix/qide/pkg/format"
)

const materialRules = `
highlights:
  - name: comment
    color: "#008000"
    italics: true
  - name: string
    color: "#800000"
  - name: keyword
    color: "#0000ff"
    bold: true
  - name: number
`

const materialWords = `
words:
  - word: material
    highlight: keyword
    documentation: Material.html
  - word: technique
    highlight: keyword
    documentation: Techniques.html
  - word: pass
    highlight: keywrod
    documentation: Passes.html
`

func writeFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func writeCatalog(t *testing.T, root string) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "material.highlights.yaml", materialRules)
	writeFile(t, dir, "material.words.yaml", materialWords)
	return writeFile(t, dir, "formats.yaml", root)
}

const rootConfig = `
manual_path: /opt/ogre/manual
formats:
  - name: Material
    highlights: material.highlights.yaml
    words: material.words.yaml
    extensions: material
  - name: Program
    highlights: missing.highlights.yaml
    words: missing.words.yaml
    extensions: [program, cg]
`

func TestLoad(t *testing.T) {
	t.Parallel()

	cat, err := format.Load(writeCatalog(t, rootConfig), nil)
	require.NoError(t, err)

	t.Run("manual path", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "/opt/ogre/manual", cat.ManualPath())
	})

	t.Run("rules keep definition order", func(t *testing.T) {
		t.Parallel()
		rules := cat.RulesFor("Material")
		require.Len(t, rules, 4)
		var names []string
		for _, r := range rules {
			names = append(names, r.Name)
		}
		assert.Equal(t, []string{"comment", "string", "keyword", "number"}, names)
	})

	t.Run("reserved rules are terminal with a built-in pattern", func(t *testing.T) {
		t.Parallel()
		rules := cat.RulesFor("Material")
		assert.True(t, rules[0].Terminal)
		assert.True(t, rules[1].Terminal)
		assert.False(t, rules[2].Terminal)
		require.Len(t, rules[0].Patterns, 1)
		assert.True(t, rules[0].Patterns[0].MatchString("x // note"))
		require.Len(t, rules[1].Patterns, 1)
		assert.True(t, rules[1].Patterns[0].MatchString(`a "b" c`))
	})

	t.Run("styles carry colour and attributes", func(t *testing.T) {
		t.Parallel()
		rules := cat.RulesFor("Material")

		fg, _, attr := rules[2].Style.Decompose()
		assert.Equal(t, tcell.GetColor("#0000ff"), fg)
		assert.NotZero(t, attr&tcell.AttrBold)

		_, _, attr = rules[0].Style.Decompose()
		assert.NotZero(t, attr&tcell.AttrItalic)

		fg, _, attr = rules[3].Style.Decompose()
		assert.Equal(t, tcell.GetColor(format.DefaultColor), fg)
		assert.Zero(t, attr&(tcell.AttrBold|tcell.AttrItalic))
	})

	t.Run("keyword with a defined category is kept", func(t *testing.T) {
		t.Parallel()
		kw, ok := cat.Keyword("Material", "material")
		require.True(t, ok)
		assert.Equal(t, format.Keyword{Word: "material", Category: "keyword", DocRef: "Material.html"}, kw)

		rules := cat.RulesFor("Material")
		require.Len(t, rules[2].Patterns, 2)
		assert.True(t, rules[2].Patterns[0].MatchString("material Foo"))
		assert.False(t, rules[2].Patterns[0].MatchString("materials"))
	})

	t.Run("keyword with a misspelled category is dropped", func(t *testing.T) {
		t.Parallel()
		_, ok := cat.Keyword("Material", "pass")
		assert.False(t, ok)
		assert.Len(t, cat.KeywordsFor("Material"), 2)
		for _, r := range cat.RulesFor("Material") {
			for _, p := range r.Patterns {
				assert.False(t, p.MatchString("pass"), "rule %s matches a dropped keyword", r.Name)
			}
		}
	})

	t.Run("format with missing sources is still registered", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []string{"Material", "Program"}, cat.AllFormatNames())
		assert.Equal(t, "Program", cat.FormatForExtension("cg"))
		assert.Empty(t, cat.RulesFor("Program"))
		assert.Empty(t, cat.KeywordsFor("Program"))

		require.Len(t, cat.Warnings(), 2)
		var cfgErr *format.ConfigError
		require.True(t, errors.As(cat.Warnings()[0], &cfgErr))
		assert.Contains(t, cfgErr.Source, "missing.highlights.yaml")
		assert.True(t, errors.Is(cat.Warnings()[0], os.ErrNotExist))
	})
}

func TestFormatForExtension(t *testing.T) {
	t.Parallel()

	cat, err := format.Load(writeCatalog(t, rootConfig), nil)
	require.NoError(t, err)

	cases := []struct {
		ext  string
		want string
	}{
		{"material", "Material"},
		{"program", "Program"},
		{"Material", ""},
		{".material", ""},
		{"MATERIAL", ""},
		{"", ""},
		{"cpp", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, cat.FormatForExtension(tc.ext), "ext: %q", tc.ext)
	}
}

func TestLoad_LastExtensionWins(t *testing.T) {
	t.Parallel()

	cat, err := format.Load(writeCatalog(t, `
formats:
  - name: First
    extensions: txt
  - name: Second
    extensions: txt
`), nil)
	require.NoError(t, err)

	assert.Equal(t, "Second", cat.FormatForExtension("txt"))
	assert.Equal(t, []string{"First", "Second"}, cat.AllFormatNames())
}

func TestLoad_RulesBeforeWords(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	// Words listed first in the file system and in the configuration still
	// resolve against the rule set.
	writeFile(t, dir, "a.words.yaml", "words:\n  - word: if\n    highlight: control\n")
	writeFile(t, dir, "z.rules.yaml", "highlights:\n  - name: control\n")
	root := writeFile(t, dir, "formats.yaml", `
formats:
  - name: Script
    words: a.words.yaml
    highlights: z.rules.yaml
    extensions: script
`)

	cat, err := format.Load(root, nil)
	require.NoError(t, err)

	_, ok := cat.Keyword("Script", "if")
	assert.True(t, ok)
}

func TestLoad_EmptyAndDuplicateDefinitions(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "rules.yaml", `
highlights:
  - name: keyword
    color: "#ff0000"
  - name: comment
  - name: keyword
    color: "#00ff00"
`)
	writeFile(t, dir, "words.yaml", `
words:
  - word: ""
    highlight: keyword
  - word: a+b
    highlight: keyword
`)
	root := writeFile(t, dir, "formats.yaml", `
formats:
  - name: Dup
    highlights: rules.yaml
    words: words.yaml
    extensions: dup
`)

	cat, err := format.Load(root, nil)
	require.NoError(t, err)

	rules := cat.RulesFor("Dup")
	require.Len(t, rules, 2)
	assert.Equal(t, "keyword", rules[0].Name)
	fg, _, _ := rules[0].Style.Decompose()
	assert.Equal(t, tcell.GetColor("#00ff00"), fg)

	assert.Len(t, cat.KeywordsFor("Dup"), 1)
	require.Len(t, rules[0].Patterns, 1)
	assert.False(t, rules[0].Patterns[0].MatchString("aab"), "keyword text must be matched literally")
}

func TestLoad_RootFailure(t *testing.T) {
	t.Parallel()

	_, err := format.Load(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	var cfgErr *format.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, cfgErr.Source, "nope.yaml")
}

func TestLoad_LogsRecoveredFailures(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.WarnLevel)
	_, err := format.Load(writeCatalog(t, rootConfig), zap.New(core))
	require.NoError(t, err)

	entries := logs.FilterField(zap.String("format", "Program")).All()
	require.Len(t, entries, 2)
	assert.Equal(t, "highlight rules not loaded", entries[0].Message)
	assert.Equal(t, "keywords not loaded", entries[1].Message)
}

func TestNilCatalog(t *testing.T) {
	t.Parallel()

	var cat *format.Catalog
	assert.Empty(t, cat.FormatForExtension("go"))
	assert.Empty(t, cat.RulesFor("Go"))
	assert.Empty(t, cat.KeywordsFor("Go"))
	assert.Empty(t, cat.AllFormatNames())
	assert.Empty(t, cat.ManualPath())
}
