package main

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/fivemoreminix/qide/ui"
	"github.com/fivemoreminix/qide/ui/buffer"
)

// Settings holds the editor's own options, read by viper from the settings
// file and command line flags.
type Settings struct {
	Formats  string                 `mapstructure:"formats"` // Root format configuration, empty for plain text
	TabWidth int                    `mapstructure:"tab_width"`
	LogFile  string                 `mapstructure:"log_file"`
	Watch    bool                   `mapstructure:"watch"` // Reload formats when their files change
	Theme    map[string]StyleConfig `mapstructure:"theme"`
}

// StyleConfig overrides one theme key. Colors are names or "#rrggbb".
type StyleConfig struct {
	Foreground string `mapstructure:"fg"`
	Background string `mapstructure:"bg"`
}

// Defaults returns the settings used when nothing is configured.
func Defaults() Settings {
	return Settings{
		TabWidth: buffer.DefaultTabWidth,
		Watch:    true,
	}
}

// Validate checks the settings that cannot be corrected silently.
func (s Settings) Validate() error {
	if s.TabWidth < 1 {
		return fmt.Errorf("tab_width must be at least 1, got %d", s.TabWidth)
	}
	for key, style := range s.Theme {
		for _, color := range []string{style.Foreground, style.Background} {
			if color != "" && tcell.GetColor(color) == tcell.ColorDefault {
				return fmt.Errorf("theme %q: unknown color %q", key, color)
			}
		}
	}
	return nil
}

// BuildTheme applies the theme overrides on top of ui.DefaultTheme. Keys
// match case-insensitively, as viper lowercases them.
func (s Settings) BuildTheme() ui.Theme {
	theme := ui.Theme{}
	for key, style := range s.Theme {
		key = themeKey(key)
		base := ui.DefaultTheme.GetOrDefault(key)
		if style.Foreground != "" {
			base = base.Foreground(tcell.GetColor(style.Foreground))
		}
		if style.Background != "" {
			base = base.Background(tcell.GetColor(style.Background))
		}
		theme[key] = base
	}
	return theme
}

// themeKey returns the ui.DefaultTheme key spelled like key, or key itself.
func themeKey(key string) string {
	for name := range ui.DefaultTheme {
		if strings.EqualFold(name, key) {
			return name
		}
	}
	return key
}
