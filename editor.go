package main

import (
	"errors"
	"io/fs"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/fivemoreminix/qide/pkg/format"
	"github.com/fivemoreminix/qide/ui"
)

// editor runs one TextEdit full screen and owns the keys that reach outside
// of it: saving, quitting and the clipboard.
type editor struct {
	screen tcell.Screen
	edit   *ui.TextEdit
	clip   *Clipboard
	log    *zap.Logger
}

// open loads path into the editor. A file that does not exist yet is created
// on the first save.
func (e *editor) open(path string) error {
	err := e.edit.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		e.edit.FilePath = path
		e.edit.SetCatalog(e.edit.Catalog()) // Pick the format by extension
		return nil
	}
	if err == nil {
		e.log.Info("opened file", zap.String("path", path), zap.String("format", e.edit.Format))
	}
	return err
}

func (e *editor) resize() {
	width, height := e.screen.Size()
	e.edit.SetPos(0, 0)
	e.edit.SetSize(width, height)
}

func (e *editor) draw() {
	e.screen.Clear()
	e.edit.Draw(e.screen)
	e.screen.Show()
}

// run draws and handles events until the user quits.
func (e *editor) run() {
	e.resize()
	e.edit.SetFocused(true)
	for {
		e.draw()
		if quit := e.handleEvent(e.screen.PollEvent()); quit {
			return
		}
	}
}

// handleEvent reports whether the editor should quit.
func (e *editor) handleEvent(event tcell.Event) bool {
	switch ev := event.(type) {
	case nil: // The screen was finalized
		return true
	case *tcell.EventResize:
		e.resize()
		e.screen.Sync() // Redraw everything
	case *tcell.EventInterrupt:
		if catalog, ok := ev.Data().(*format.Catalog); ok {
			e.edit.SetCatalog(catalog)
			e.log.Info("formats reloaded",
				zap.Strings("formats", catalog.AllFormatNames()),
				zap.String("active", e.edit.Format))
		}
	case *tcell.EventKey:
		return e.handleKey(ev)
	}
	return false
}

func (e *editor) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlQ:
		return true
	case tcell.KeyCtrlS:
		if err := e.edit.Save(""); err != nil {
			e.log.Error("save", zap.Error(err))
			e.screen.Beep()
		}
	case tcell.KeyCtrlC:
		e.copySelection()
	case tcell.KeyCtrlX:
		if e.copySelection() {
			e.edit.Delete(false) // Deletes the selection
		}
	case tcell.KeyCtrlV:
		contents, err := e.clip.Read()
		if err != nil {
			e.log.Error("read clipboard", zap.Error(err))
			break
		}
		e.edit.Insert(contents)
	default:
		e.edit.HandleEvent(ev)
	}
	return false
}

// copySelection puts the selected text on the clipboard. It reports whether
// anything was copied.
func (e *editor) copySelection() bool {
	selected := e.edit.GetSelectedBytes()
	if len(selected) == 0 {
		return false
	}
	if err := e.clip.Write(string(selected)); err != nil {
		e.log.Error("write clipboard", zap.Error(err))
		return false
	}
	return true
}
