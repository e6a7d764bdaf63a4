package ui

import (
	"github.com/gdamore/tcell/v2"
)

// A Component is anything that draws itself in a rectangle of the screen and
// handles events while focused. After constructing a component, call SetPos()
// and SetSize().
type Component interface {
	Draw(tcell.Screen)
	SetFocused(bool)
	// Applies the theme to the component.
	SetTheme(*Theme)

	GetPos() (x, y int)
	SetPos(x, y int)
	GetSize() (w, h int)
	SetSize(w, h int)

	// HandleEvent tells the Component to handle the provided event. If the
	// event is handled, the function returns true.
	HandleEvent(tcell.Event) bool
}

// baseComponent can be embedded in a Component's struct to hide a few of the
// boilerplate fields and functions.
type baseComponent struct {
	focused       bool
	x, y          int
	width, height int
	theme         *Theme
}

func (c *baseComponent) SetFocused(v bool) {
	c.focused = v
}

func (c *baseComponent) SetTheme(theme *Theme) {
	c.theme = theme
}

func (c *baseComponent) GetPos() (int, int) {
	return c.x, c.y
}

func (c *baseComponent) SetPos(x, y int) {
	c.x, c.y = x, y
}

func (c *baseComponent) GetSize() (int, int) {
	return c.width, c.height
}

func (c *baseComponent) SetSize(width, height int) {
	c.width, c.height = width, height
}
