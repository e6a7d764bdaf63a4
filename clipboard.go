package main

import (
	"github.com/zyedidia/clipboard"
	"go.uber.org/zap"
)

type clipMethod uint8

const (
	clipExternal clipMethod = iota
	clipInternal
)

// Clipboard uses the system clipboard when it can be reached, and otherwise
// keeps the contents in memory for the life of the editor.
type Clipboard struct {
	method   clipMethod
	internal string
}

// NewClipboard initializes the system clipboard, falling back to an internal
// one. The failure is logged rather than returned because the fallback works.
func NewClipboard(log *zap.Logger) *Clipboard {
	if err := clipboard.Initialize(); err != nil {
		log.Warn("system clipboard unavailable, using internal clipboard", zap.Error(err))
		return &Clipboard{method: clipInternal}
	}
	return &Clipboard{method: clipExternal}
}

// Read receives the clipboard contents.
func (c *Clipboard) Read() (string, error) {
	if c.method == clipExternal {
		return clipboard.ReadAll("clipboard")
	}
	return c.internal, nil
}

// Write sets the clipboard contents.
func (c *Clipboard) Write(content string) error {
	if c.method == clipExternal {
		return clipboard.WriteAll(content, "clipboard")
	}
	c.internal = content
	return nil
}
