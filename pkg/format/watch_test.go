package format_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivemoreminix/qide/pkg/format"
)

func TestWatcher_ReloadsOnSourceWrite(t *testing.T) {
	root := writeCatalog(t, rootConfig)
	dir := filepath.Dir(root)

	w, err := format.NewWatcher(root, 50*time.Millisecond, nil)
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	reloaded := make(chan *format.Catalog, 4)
	require.NoError(t, w.Start(func(c *format.Catalog) { reloaded <- c }))

	// A burst of writes coalesces into one reload.
	for i := 0; i < 5; i++ {
		writeFile(t, dir, "material.words.yaml", materialWords+`
  - word: scheme
    highlight: keyword
    documentation: Schemes.html
`)
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case cat := <-reloaded:
		_, ok := cat.Keyword("Material", "scheme")
		assert.True(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a reload")
	}

	select {
	case <-reloaded:
		t.Fatal("unexpected second reload")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestWatcher_IgnoresUnrelatedFiles(t *testing.T) {
	root := writeCatalog(t, rootConfig)
	dir := filepath.Dir(root)
	other := writeFile(t, dir, "notes.txt", "initial")

	w, err := format.NewWatcher(root, 50*time.Millisecond, nil)
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	reloaded := make(chan *format.Catalog, 1)
	require.NoError(t, w.Start(func(c *format.Catalog) { reloaded <- c }))

	require.NoError(t, os.WriteFile(other, []byte("changed"), 0o644))

	select {
	case <-reloaded:
		t.Fatal("reload triggered by an unrelated file")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcher_KeepsCatalogOnBrokenRoot(t *testing.T) {
	root := writeCatalog(t, rootConfig)

	w, err := format.NewWatcher(root, 50*time.Millisecond, nil)
	require.NoError(t, err)
	defer func() { _ = w.Stop() }()

	reloaded := make(chan *format.Catalog, 1)
	require.NoError(t, w.Start(func(c *format.Catalog) { reloaded <- c }))

	require.NoError(t, os.WriteFile(root, []byte("formats: [unterminated"), 0o644))

	select {
	case <-reloaded:
		t.Fatal("broken configuration must not replace the catalog")
	case <-time.After(300 * time.Millisecond):
	}
}
