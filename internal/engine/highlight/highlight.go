// Package highlight holds the editor's highlight attribute table.
//
// Id 0 is reserved for the default attribute: it is always present and
// carries the default foreground, background and special colors. Other
// ids fall back to id 0 for colors they leave unset; id 0 itself falls
// back to the table's configured fallback colors and nothing further.
package highlight

import (
	"sort"

	"github.com/dshills/nwin/internal/renderer/core"
)

// DefaultID is the reserved id of the default attribute.
const DefaultID = 0

// Attr is one highlight attribute. Nil colors inherit the default.
type Attr struct {
	Foreground *core.Color
	Background *core.Color
	Special    *core.Color
	Blend      int
	Flags      core.Attribute
}

// Reverse reports whether foreground and background are swapped.
func (a Attr) Reverse() bool {
	return a.Flags.Has(core.AttrReverse)
}

// Table maps highlight ids to attributes.
// It is owned by the frame loop goroutine and is not safe for concurrent use.
type Table struct {
	attrs      map[int]*Attr
	fallbackFg core.Color
	fallbackBg core.Color
}

// NewTable creates a table containing only the default attribute.
// fg and bg are used until the editor sets default colors.
func NewTable(fg, bg core.Color) *Table {
	return &Table{
		attrs:      map[int]*Attr{DefaultID: {}},
		fallbackFg: fg,
		fallbackBg: bg,
	}
}

// Get returns the attribute for id.
func (t *Table) Get(id int) (Attr, bool) {
	a, ok := t.attrs[id]
	if !ok {
		return Attr{}, false
	}
	return *a, true
}

// Len returns the number of defined attributes, including the default.
func (t *Table) Len() int {
	return len(t.attrs)
}

// SetDefaultColors replaces the default fg/bg/sp. Nil leaves the color
// unset so the configured fallback applies.
func (t *Table) SetDefaultColors(fg, bg, sp *core.Color) {
	d := t.attrs[DefaultID]
	d.Foreground = fg
	d.Background = bg
	d.Special = sp
}

// DefaultForeground returns the effective default foreground.
func (t *Table) DefaultForeground() core.Color {
	if fg := t.attrs[DefaultID].Foreground; fg != nil {
		return *fg
	}
	return t.fallbackFg
}

// DefaultBackground returns the effective default background.
func (t *Table) DefaultBackground() core.Color {
	if bg := t.attrs[DefaultID].Background; bg != nil {
		return *bg
	}
	return t.fallbackBg
}

// Define merges the keys present in m into the attribute for id, creating
// it if needed. Keys that are unknown or carry a value of the wrong type
// are skipped and returned, sorted, for the caller to log.
func (t *Table) Define(id int, m map[string]any) (skipped []string) {
	a, ok := t.attrs[id]
	if !ok {
		a = &Attr{}
		t.attrs[id] = a
	}
	for k, v := range m {
		if !a.set(k, v) {
			skipped = append(skipped, k)
		}
	}
	sort.Strings(skipped)
	return skipped
}

func (a *Attr) set(k string, v any) bool {
	switch k {
	case "foreground":
		return setColor(&a.Foreground, v)
	case "background":
		return setColor(&a.Background, v)
	case "special":
		return setColor(&a.Special, v)
	case "blend":
		n, ok := asInt(v)
		if ok {
			a.Blend = int(n)
		}
		return ok
	case "bold":
		return a.setFlag(core.AttrBold, v)
	case "italic":
		return a.setFlag(core.AttrItalic, v)
	case "reverse":
		return a.setFlag(core.AttrReverse, v)
	case "strikethrough":
		return a.setFlag(core.AttrStrikethrough, v)
	case "underline":
		return a.setFlag(core.AttrUnderline, v)
	case "undercurl":
		return a.setFlag(core.AttrUndercurl, v)
	}
	return false
}

func (a *Attr) setFlag(flag core.Attribute, v any) bool {
	b, ok := v.(bool)
	if !ok {
		return false
	}
	if b {
		a.Flags = a.Flags.With(flag)
	} else {
		a.Flags = a.Flags.Without(flag)
	}
	return true
}

func setColor(dst **core.Color, v any) bool {
	if v == nil {
		*dst = nil
		return true
	}
	n, ok := asInt(v)
	if !ok {
		return false
	}
	c := core.ColorFromInt(uint32(n))
	*dst = &c
	return true
}

// Resolve returns the colors a cell with highlight id is drawn with:
// unset colors fall back to the defaults, and reverse swaps the pair.
// Unknown ids resolve like the default attribute.
func (t *Table) Resolve(id int) (fg, bg core.Color) {
	fg, bg = t.DefaultForeground(), t.DefaultBackground()
	a, ok := t.attrs[id]
	if !ok || id == DefaultID {
		return fg, bg
	}
	if a.Foreground != nil {
		fg = *a.Foreground
	}
	if a.Background != nil {
		bg = *a.Background
	}
	if a.Reverse() {
		fg, bg = bg, fg
	}
	return fg, bg
}

// Foreground returns the attribute's own foreground, falling back to the
// default foreground. Reverse is not applied.
func (t *Table) Foreground(id int) core.Color {
	if a, ok := t.attrs[id]; ok && a.Foreground != nil {
		return *a.Foreground
	}
	return t.DefaultForeground()
}

func asInt(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case uint64:
		return int64(n), true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case uint32:
		return int64(n), true
	case int8:
		return int64(n), true
	case uint8:
		return int64(n), true
	case int16:
		return int64(n), true
	case uint16:
		return int64(n), true
	}
	return 0, false
}
