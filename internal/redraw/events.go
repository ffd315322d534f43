package redraw

import (
	"github.com/dshills/nwin/internal/engine/grid"
	"github.com/dshills/nwin/internal/renderer/core"
)

// Event is one decoded redraw instruction.
type Event interface {
	// Name returns the protocol name of the event.
	Name() string
}

type (
	GridResize struct{ Grid, Width, Height int }

	GridClear struct{ Grid int }

	GridCursorGoto struct{ Grid, Row, Col int }

	GridLine struct {
		Grid, Row, Col int
		Cells          []grid.LineCell
	}

	GridScroll struct {
		Grid                        int
		Top, Bot, Left, Right, Rows int
		Cols                        int
	}

	GridDestroy struct{ Grid int }

	HlAttrDefine struct {
		ID    int
		Attrs map[string]any
	}

	// DefaultColorsSet carries the default colors; nil means unset.
	DefaultColorsSet struct{ Fg, Bg, Sp *core.Color }

	WinPos struct {
		Grid, Window  int
		Row, Col      int
		Width, Height int
	}

	// WinSplit reports that Window2 (shown in Grid2) was split off Window1.
	WinSplit struct {
		Window1, Grid1 int
		Window2, Grid2 int
		Vertical       bool
	}

	WinHide struct{ Grid int }

	WinClose struct{ Grid int }

	MsgShow struct {
		Kind        string
		Chunks      []grid.Chunk
		ReplaceLast bool
	}

	MsgClear struct{}

	CmdlineShow struct{ Cmdline grid.Cmdline }

	CmdlinePos struct{ Pos, Level int }

	CmdlineHide struct{ Level int }

	BusyStart struct{}

	BusyStop struct{}

	// Flush ends an atomic screen update.
	Flush struct{}

	// Ignored is an event this client accepts but does not act on.
	Ignored struct{ Event string }
)

func (GridResize) Name() string       { return "grid_resize" }
func (GridClear) Name() string        { return "grid_clear" }
func (GridCursorGoto) Name() string   { return "grid_cursor_goto" }
func (GridLine) Name() string         { return "grid_line" }
func (GridScroll) Name() string       { return "grid_scroll" }
func (GridDestroy) Name() string      { return "grid_destroy" }
func (HlAttrDefine) Name() string     { return "hl_attr_define" }
func (DefaultColorsSet) Name() string { return "default_colors_set" }
func (WinPos) Name() string           { return "win_pos" }
func (WinSplit) Name() string         { return "win_split" }
func (WinHide) Name() string          { return "win_hide" }
func (WinClose) Name() string         { return "win_close" }
func (MsgShow) Name() string          { return "msg_show" }
func (MsgClear) Name() string         { return "msg_clear" }
func (CmdlineShow) Name() string      { return "cmdline_show" }
func (CmdlinePos) Name() string       { return "cmdline_pos" }
func (CmdlineHide) Name() string      { return "cmdline_hide" }
func (BusyStart) Name() string        { return "busy_start" }
func (BusyStop) Name() string         { return "busy_stop" }
func (Flush) Name() string            { return "flush" }
func (e Ignored) Name() string        { return e.Event }

// ignored lists informational events that are accepted and dropped.
var ignored = map[string]bool{
	"mode_info_set":    true,
	"option_set":       true,
	"mode_change":      true,
	"win_viewport":     true,
	"hl_group_set":     true,
	"mouse_on":         true,
	"mouse_off":        true,
	"set_title":        true,
	"set_icon":         true,
	"msg_showmode":     true,
	"msg_showcmd":      true,
	"msg_ruler":        true,
	"msg_history_show": true,
	"win_float_pos":    true,
	"win_external_pos": true,
	"msg_set_pos":      true,
	"tabline_update":   true,
	"chdir":            true,
	"bell":             true,
	"visual_bell":      true,
	"update_menu":      true,
}
