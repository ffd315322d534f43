package redraw

import (
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/dshills/nwin/internal/engine/grid"
	"github.com/dshills/nwin/internal/renderer/core"
)

// splitVertical is the editor's flag bit for a vertical split.
const splitVertical = 0x02

// DecodeUpdate decodes one update array, [name, args...], into events.
// Occurrences that fail to decode are reported in errs and skipped.
func DecodeUpdate(update []any) (events []Event, errs []error) {
	if len(update) == 0 {
		return nil, []error{&DecodeError{Event: "?", Arg: -1, Err: fmt.Errorf("%w: missing event name", ErrShape)}}
	}
	name, ok := update[0].(string)
	if !ok {
		return nil, []error{&DecodeError{Event: fmt.Sprint(update[0]), Arg: -1, Err: fmt.Errorf("%w: event name is %T", ErrShape, update[0])}}
	}
	for _, raw := range update[1:] {
		args, ok := raw.([]any)
		if !ok {
			errs = append(errs, &DecodeError{Event: name, Arg: -1, Err: fmt.Errorf("%w: argument tuple is %T", ErrShape, raw)})
			continue
		}
		ev, err := Decode(name, args)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		events = append(events, ev)
	}
	return events, errs
}

// Decode turns one argument tuple of event name into an Event. Extra
// trailing arguments, added by newer editor versions, are ignored.
func Decode(name string, args []any) (Event, error) {
	d := decoder{name: name, args: args}
	var ev Event
	switch name {
	case "grid_resize":
		ev = GridResize{Grid: d.int(0), Width: d.int(1), Height: d.int(2)}
	case "grid_clear":
		ev = GridClear{Grid: d.int(0)}
	case "grid_cursor_goto":
		ev = GridCursorGoto{Grid: d.int(0), Row: d.int(1), Col: d.int(2)}
	case "grid_line":
		ev = GridLine{Grid: d.int(0), Row: d.int(1), Col: d.int(2), Cells: d.cells(3)}
	case "grid_scroll":
		ev = GridScroll{
			Grid: d.int(0),
			Top:  d.int(1), Bot: d.int(2),
			Left: d.int(3), Right: d.int(4),
			Rows: d.int(5), Cols: d.int(6),
		}
	case "grid_destroy":
		ev = GridDestroy{Grid: d.int(0)}
	case "hl_attr_define":
		ev = HlAttrDefine{ID: d.int(0), Attrs: d.dict(1)}
	case "default_colors_set":
		ev = DefaultColorsSet{Fg: d.color(0), Bg: d.color(1), Sp: d.color(2)}
	case "win_pos":
		ev = WinPos{
			Grid: d.int(0), Window: d.int(1),
			Row: d.int(2), Col: d.int(3),
			Width: d.int(4), Height: d.int(5),
		}
	case "win_split":
		ev = WinSplit{
			Window1: d.int(0), Grid1: d.int(1),
			Window2: d.int(2), Grid2: d.int(3),
			Vertical: d.direction(4),
		}
	case "win_hide":
		ev = WinHide{Grid: d.int(0)}
	case "win_close":
		ev = WinClose{Grid: d.int(0)}
	case "msg_show":
		ev = MsgShow{Kind: d.string(0), Chunks: d.chunks(1), ReplaceLast: d.bool(2)}
	case "msg_clear":
		ev = MsgClear{}
	case "cmdline_show":
		ev = CmdlineShow{Cmdline: grid.Cmdline{
			Content: d.chunks(0),
			Pos:     d.int(1),
			FirstC:  d.string(2),
			Prompt:  d.string(3),
			Indent:  d.int(4),
			Level:   d.int(5),
		}}
	case "cmdline_pos":
		ev = CmdlinePos{Pos: d.int(0), Level: d.int(1)}
	case "cmdline_hide":
		ev = CmdlineHide{Level: d.optInt(0, 1)}
	case "busy_start":
		ev = BusyStart{}
	case "busy_stop":
		ev = BusyStop{}
	case "flush":
		ev = Flush{}
	default:
		if ignored[name] {
			return Ignored{Event: name}, nil
		}
		return nil, &DecodeError{Event: name, Arg: -1, Err: ErrUnknownEvent}
	}
	if d.err != nil {
		return nil, d.err
	}
	return ev, nil
}

// decoder reads typed arguments, remembering the first failure.
type decoder struct {
	name string
	args []any
	err  error
}

func (d *decoder) fail(i int, format string, args ...any) {
	if d.err == nil {
		d.err = shapeError(d.name, i, format, args...)
	}
}

func (d *decoder) arg(i int) (any, bool) {
	if i >= len(d.args) {
		d.fail(i, "missing")
		return nil, false
	}
	return d.args[i], true
}

func (d *decoder) int(i int) int {
	v, ok := d.arg(i)
	if !ok {
		return 0
	}
	n, ok := AsInt(v)
	if !ok {
		d.fail(i, "want integer, got %T", v)
	}
	return int(n)
}

func (d *decoder) optInt(i, def int) int {
	if i >= len(d.args) {
		return def
	}
	return d.int(i)
}

func (d *decoder) string(i int) string {
	v, ok := d.arg(i)
	if !ok {
		return ""
	}
	s, ok := AsString(v)
	if !ok {
		d.fail(i, "want string, got %T", v)
	}
	return s
}

func (d *decoder) bool(i int) bool {
	v, ok := d.arg(i)
	if !ok {
		return false
	}
	b, ok := v.(bool)
	if !ok {
		d.fail(i, "want bool, got %T", v)
	}
	return b
}

// color decodes an RGB integer; negative values mean unset.
func (d *decoder) color(i int) *core.Color {
	if i >= len(d.args) || d.args[i] == nil {
		return nil
	}
	n, ok := AsInt(d.args[i])
	if !ok {
		d.fail(i, "want color, got %T", d.args[i])
		return nil
	}
	if n < 0 {
		return nil
	}
	c := core.ColorFromInt(uint32(n))
	return &c
}

func (d *decoder) dict(i int) map[string]any {
	v, ok := d.arg(i)
	if !ok {
		return nil
	}
	m, ok := AsMap(v)
	if !ok {
		d.fail(i, "want map, got %T", v)
	}
	return m
}

func (d *decoder) direction(i int) bool {
	v, ok := d.arg(i)
	if !ok {
		return false
	}
	if s, ok := AsString(v); ok {
		s = strings.ToLower(s)
		return s == "vertical" || s == "v"
	}
	n, ok := AsInt(v)
	if !ok {
		d.fail(i, "want split direction, got %T", v)
	}
	return n&splitVertical != 0
}

// cells decodes grid_line cells: [text, hl_id?, repeat?].
func (d *decoder) cells(i int) []grid.LineCell {
	v, ok := d.arg(i)
	if !ok {
		return nil
	}
	raw, ok := v.([]any)
	if !ok {
		d.fail(i, "want cell array, got %T", v)
		return nil
	}
	cells := make([]grid.LineCell, 0, len(raw))
	for _, rc := range raw {
		t, ok := rc.([]any)
		if !ok || len(t) == 0 {
			d.fail(i, "bad cell %v", rc)
			return nil
		}
		text, ok := AsString(t[0])
		if !ok {
			d.fail(i, "cell text is %T", t[0])
			return nil
		}
		c := grid.LineCell{Char: firstRune(text), Repeat: 1}
		if len(t) > 1 {
			hl, ok := AsInt(t[1])
			if !ok {
				d.fail(i, "cell highlight is %T", t[1])
				return nil
			}
			c.HL, c.HasHL = int(hl), true
		}
		if len(t) > 2 {
			n, ok := AsInt(t[2])
			if !ok || n < 1 {
				d.fail(i, "cell repeat %v", t[2])
				return nil
			}
			c.Repeat = int(n)
		}
		cells = append(cells, c)
	}
	return cells
}

// chunks decodes [[hl_id, text], ...].
func (d *decoder) chunks(i int) []grid.Chunk {
	v, ok := d.arg(i)
	if !ok {
		return nil
	}
	raw, ok := v.([]any)
	if !ok {
		d.fail(i, "want chunk array, got %T", v)
		return nil
	}
	chunks := make([]grid.Chunk, 0, len(raw))
	for _, rc := range raw {
		t, ok := rc.([]any)
		if !ok || len(t) < 2 {
			d.fail(i, "bad chunk %v", rc)
			return nil
		}
		hl, ok1 := AsInt(t[0])
		text, ok2 := AsString(t[1])
		if !ok1 || !ok2 {
			d.fail(i, "bad chunk %v", rc)
			return nil
		}
		chunks = append(chunks, grid.Chunk{HL: int(hl), Text: text})
	}
	return chunks
}

// firstRune returns the cell's character. The empty string, sent for the
// right half of a double-width character, is a blank cell.
func firstRune(s string) rune {
	if s == "" {
		return grid.Blank
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r
}

// AsInt converts any msgpack integer representation, including named
// integer types such as the editor's window handle, to int64.
func AsInt(v any) (int64, bool) {
	if v == nil {
		return 0, false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint()), true
	}
	return 0, false
}

// AsString accepts strings and raw byte strings.
func AsString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case []byte:
		return string(s), true
	}
	return "", false
}

// AsMap accepts maps keyed by strings or by arbitrary values with string keys.
func AsMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			ks, ok := AsString(k)
			if !ok {
				return nil, false
			}
			out[ks] = val
		}
		return out, true
	}
	return nil, false
}
