package main

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fivemoreminix/qide/ui"
)

func TestDefaults(t *testing.T) {
	d := Defaults()
	assert.Equal(t, 2, d.TabWidth)
	assert.True(t, d.Watch)
	assert.Empty(t, d.Formats)
	require.NoError(t, d.Validate())
}

func TestSettings_Unmarshal(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault("watch", true)
	require.NoError(t, v.ReadConfig(strings.NewReader(`
formats: /etc/qide/formats.yaml
tab_width: 4
theme:
  TextEdit:
    fg: "#112233"
    bg: black
`)))

	var s Settings
	require.NoError(t, v.Unmarshal(&s))
	assert.Equal(t, "/etc/qide/formats.yaml", s.Formats)
	assert.Equal(t, 4, s.TabWidth)
	assert.True(t, s.Watch)
	require.Contains(t, s.Theme, "textedit") // viper lowercases keys
	assert.Equal(t, "#112233", s.Theme["textedit"].Foreground)

	theme := s.BuildTheme()
	fg, bg, _ := theme.GetOrDefault("TextEdit").Decompose()
	assert.Equal(t, tcell.GetColor("#112233"), fg)
	assert.Equal(t, tcell.ColorBlack, bg)
}

func TestSettings_Validate(t *testing.T) {
	s := Defaults()
	s.TabWidth = 0
	assert.ErrorContains(t, s.Validate(), "tab_width")

	s = Defaults()
	s.Theme = map[string]StyleConfig{"TextEdit": {Foreground: "not-a-color"}}
	assert.ErrorContains(t, s.Validate(), "not-a-color")
}

func TestSettings_BuildTheme(t *testing.T) {
	s := Defaults()
	s.Theme = map[string]StyleConfig{"TextEditSelected": {Background: "#ff0000"}}

	theme := s.BuildTheme()
	fg, bg, _ := theme.GetOrDefault("TextEditSelected").Decompose()
	defFg, _, _ := ui.DefaultTheme["TextEditSelected"].Decompose()
	assert.Equal(t, tcell.GetColor("#ff0000"), bg)
	assert.Equal(t, defFg, fg, "unset colors keep the default")
	assert.Equal(t, ui.DefaultTheme["TextEdit"], theme.GetOrDefault("TextEdit"))
}

func TestNewLogger(t *testing.T) {
	log, err := newLogger("")
	require.NoError(t, err)
	log.Info("discarded")

	path := filepath.Join(t.TempDir(), "qide.log")
	log, err = newLogger(path)
	require.NoError(t, err)
	log.Info("written")
	require.NoError(t, log.Sync())
	assert.FileExists(t, path)
}
