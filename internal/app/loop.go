package app

import (
	"context"
	"errors"
	"time"

	"github.com/dshills/nwin/internal/input/key"
	"github.com/dshills/nwin/internal/redraw"
	"github.com/dshills/nwin/internal/renderer/backend"
	"github.com/dshills/nwin/internal/wm"
)

// tick runs one frame: drain editor output, apply everything up to the
// last flush, composite, then poll input for the rest of the budget.
func (app *Application) tick(ctx context.Context) error {
	start := time.Now()
	deadline := start.Add(app.frameInterval)

	exited := app.drain()

	if err := app.applyReady(ctx); err != nil {
		return err
	}
	app.store.ExpireMessages(app.messageTimeout)

	renderStart := time.Now()
	destroyed, err := app.compositor.Frame()
	if err != nil {
		return newComponentError("compositor", "frame", err)
	}
	app.metrics.RecordRender(time.Since(renderStart))
	for _, id := range destroyed {
		app.store.Remove(id)
		app.reconciler.Forget(id)
	}

	if exited {
		return ErrEditorExited
	}

	app.applyConfigEvents()

	if time.Now().After(deadline) {
		app.metrics.RecordOverrun()
	}
	inputErr := app.pollInput(deadline)
	if err := app.flushInput(); err != nil {
		return err
	}
	app.metrics.RecordFrame(time.Since(start))
	return inputErr
}

// drain moves every available redraw notification into the batcher
// without blocking. It reports whether the editor connection ended.
func (app *Application) drain() (exited bool) {
	for {
		select {
		case updates := <-app.editor.Redraw():
			app.batcher.Push(updates)
			continue
		default:
		}
		break
	}

	select {
	case err, ok := <-app.editor.Done():
		if ok {
			app.log.Debug("editor connection ended: %v", err)
		}
		return true
	default:
		return false
	}
}

// applyReady applies the updates released by the batcher in order.
func (app *Application) applyReady(ctx context.Context) error {
	ready := app.batcher.Ready()
	if len(ready) == 0 {
		return nil
	}

	start := time.Now()
	for _, update := range ready {
		events, errs := redraw.DecodeUpdate(update)
		for _, err := range errs {
			app.metrics.RecordUpdateError()
			if errors.Is(err, redraw.ErrUnknownEvent) {
				app.log.Debug("redraw: %v", err)
			} else {
				app.log.Warn("redraw: %v", err)
			}
		}
		for _, ev := range events {
			if err := app.apply(ctx, ev); err != nil {
				return err
			}
		}
	}
	app.metrics.RecordUpdates(len(ready), time.Since(start))
	return nil
}

// apply performs one redraw event. Store errors are logged and the
// event skipped; window manager errors are fatal.
func (app *Application) apply(ctx context.Context, ev redraw.Event) error {
	var err error
	switch ev := ev.(type) {
	case redraw.GridResize:
		app.store.Resize(ev.Grid, ev.Width, ev.Height)
	case redraw.GridClear:
		err = app.store.Clear(ev.Grid)
	case redraw.GridCursorGoto:
		err = app.store.CursorGoto(ev.Grid, ev.Row, ev.Col)
	case redraw.GridLine:
		err = app.store.Line(ev.Grid, ev.Row, ev.Col, ev.Cells)
	case redraw.GridScroll:
		err = app.store.Scroll(ev.Grid, ev.Top, ev.Bot, ev.Left, ev.Right, ev.Rows, ev.Cols)
	case redraw.GridDestroy:
		err = app.store.Destroy(ev.Grid)
	case redraw.HlAttrDefine:
		for _, k := range app.store.HlDefine(ev.ID, ev.Attrs) {
			app.log.Debug("hl_attr_define %d: unknown attribute %q", ev.ID, k)
		}
	case redraw.DefaultColorsSet:
		app.store.DefaultColorsSet(ev.Fg, ev.Bg, ev.Sp)
	case redraw.WinPos:
		err = app.store.SetWindow(ev.Grid, ev.Window)
	case redraw.WinSplit:
		return app.split(ctx, ev)
	case redraw.WinHide:
		return app.hide(ctx, ev.Grid)
	case redraw.WinClose:
		// The window goes away with the grid_destroy that follows.
		app.reconciler.Forget(ev.Grid)
	case redraw.MsgShow:
		app.store.MsgShow(ev.Kind, ev.Chunks, ev.ReplaceLast)
	case redraw.MsgClear:
		app.store.MsgClear()
	case redraw.CmdlineShow:
		app.store.CmdlineShow(ev.Cmdline)
	case redraw.CmdlinePos:
		app.store.CmdlinePos(ev.Pos, ev.Level)
	case redraw.CmdlineHide:
		app.store.CmdlineHide(ev.Level)
	case redraw.BusyStart:
		app.store.BusyStart()
	case redraw.BusyStop:
		app.store.BusyStop()
	case redraw.Flush, redraw.Ignored:
	default:
		app.log.Debug("redraw: unhandled %s", ev.Name())
	}
	if err != nil {
		app.metrics.RecordUpdateError()
		app.log.Warn("%s: %v", ev.Name(), err)
	}
	return nil
}

// split lays out the window of the grid being split so the new window
// opens beside it or below it.
func (app *Application) split(ctx context.Context, ev redraw.WinSplit) error {
	if !app.reconciler.Enabled() || !app.hasWindow(ev.Grid1) {
		return nil
	}
	dir := wm.Horizontal
	if ev.Vertical {
		dir = wm.Vertical
	}
	if err := app.reconciler.Split(ctx, ev.Grid1, dir); err != nil {
		return newGridError("split", ev.Grid1, err).WithDetail(dir.String())
	}
	return nil
}

func (app *Application) hide(ctx context.Context, gridID int) error {
	if !app.reconciler.Enabled() || !app.hasWindow(gridID) {
		return nil
	}
	if err := app.reconciler.Hide(ctx, gridID); err != nil {
		return newGridError("hide", gridID, err)
	}
	return nil
}

func (app *Application) hasWindow(gridID int) bool {
	_, ok := app.compositor.Window(gridID)
	return ok
}

// pollInput handles backend events until deadline. Several events can be
// handled within one budget.
func (app *Application) pollInput(deadline time.Time) error {
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil
		}
		ev, ok := app.backend.WaitEvent(remaining)
		if !ok {
			return nil
		}
		start := time.Now()
		err := app.handleEvent(ev)
		app.metrics.RecordInput(time.Since(start))
		if err != nil {
			return err
		}
	}
}

// handleEvent routes one backend event.
func (app *Application) handleEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventQuit:
		app.quit()
		return ErrQuit
	case backend.EventKeyDown:
		notation, ok := key.Encode(ev.Key, ev.Mod)
		if !ok {
			app.metrics.RecordInputDropped()
			return nil
		}
		app.pending.WriteString(notation)
	case backend.EventTextInput:
		app.pending.WriteString(key.EncodeText(ev.Text))
	case backend.EventWindowResized:
		// The compositor compares window and buffer sizes every frame.
		app.log.Debug("window %d resized to %dx%d", ev.Window, ev.Width, ev.Height)
	case backend.EventWindowFocus:
		if win, ok := app.editorWindow(ev.Window); ok {
			if err := app.editor.FocusWindow(win); err != nil {
				app.log.Warn("focus window %d: %v", win, err)
			}
		}
	case backend.EventWindowClose:
		win, ok := app.editorWindow(ev.Window)
		if !ok {
			// Closing a window that shows no editor window ends the session.
			app.quit()
			return ErrQuit
		}
		if err := app.editor.CloseWindow(win); err != nil {
			app.log.Warn("close window %d: %v", win, err)
		}
	}
	return nil
}

// editorWindow returns the editor window shown in an OS window.
func (app *Application) editorWindow(id backend.WindowID) (int, bool) {
	gridID, ok := app.compositor.GridForWindow(id)
	if !ok {
		return 0, false
	}
	g, ok := app.store.Grid(gridID)
	if !ok || g.Window() == 0 {
		return 0, false
	}
	return g.Window(), true
}

// flushInput sends the notation collected during this tick.
func (app *Application) flushInput() error {
	if app.pending.Len() == 0 {
		return nil
	}
	keys := app.pending.String()
	app.pending.Reset()
	if err := app.editor.Input(keys); err != nil {
		return newComponentError("editor", "input", err)
	}
	return nil
}

// applyConfigEvents re-reads the config file after it changed and
// re-applies the settings that can change while running.
func (app *Application) applyConfigEvents() {
	if app.configEvents == nil {
		return
	}
	changed := false
drain:
	for {
		select {
		case ev, ok := <-app.configEvents:
			if !ok {
				app.configEvents = nil
				break drain
			}
			app.log.Debug("config %s: %s", ev.Op, ev.Path)
			changed = true
		default:
			break drain
		}
	}
	if !changed {
		return
	}

	if err := app.cfg.Reload(); err != nil {
		app.log.Warn("reload config: %v", err)
		return
	}
	if err := app.cfg.Validate(); err != nil {
		app.log.Warn("reloaded config is invalid: %v", err)
		return
	}
	ui := app.cfg.UI()
	app.frameInterval = ui.FrameInterval()
	app.messageTimeout = ui.MessageTimeout
	app.log.SetLevel(ParseLogLevel(app.cfg.Log().Level))
	app.log.Info("config reloaded: frame rate %d, log level %s", ui.FrameRate, app.log.Level())
}
