package ui

import (
	"github.com/gdamore/tcell/v2"
)

// A Theme is a map of string names to styles. Themes can be passed by reference to components
// to set their styles. If a key is missing from a theme, the value from DefaultTheme is used,
// and a key missing from both gives tcell.StyleDefault.
type Theme map[string]tcell.Style

func (theme *Theme) GetOrDefault(key string) tcell.Style {
	if theme != nil {
		if val, ok := (*theme)[key]; ok {
			return val
		}
	}

	if val, ok := DefaultTheme[key]; ok {
		return val
	}
	return tcell.StyleDefault
}

// DefaultTheme draws dark text on a light background, which is what format colours
// (black unless configured) are picked against.
var DefaultTheme = Theme{
	"TextEdit":         tcell.Style{}.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite),
	"TextEditColumn":   tcell.Style{}.Foreground(tcell.ColorGray).Background(tcell.ColorSilver),
	"TextEditSelected": tcell.Style{}.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy),
}
