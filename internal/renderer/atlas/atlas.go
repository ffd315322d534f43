// Package atlas caches rasterized (highlight, character) pairs on a
// horizontal glyph strip.
//
// Entries are append-only. A highlight redefined after its glyphs were
// cached keeps its old pixels until the owning grid is resized and the
// atlas is rebuilt.
package atlas

import (
	"fmt"

	"github.com/dshills/nwin/internal/engine/highlight"
	"github.com/dshills/nwin/internal/renderer/backend"
	"github.com/dshills/nwin/internal/renderer/core"
)

// DefaultCapacity is the initial strip width in glyph cells.
const DefaultCapacity = 1000

// Key packs a highlight id and a character into one cache key.
type Key uint64

// MakeKey builds the key for (hl, r).
func MakeKey(hl int, r rune) Key {
	return Key(uint64(uint32(hl))<<32 | uint64(uint32(r)))
}

// HL returns the key's highlight id.
func (k Key) HL() int { return int(uint32(k >> 32)) }

// Rune returns the key's character.
func (k Key) Rune() rune { return rune(uint32(k)) }

// Entry locates a cached glyph on the strip.
type Entry struct {
	X     int
	Width int
}

// SurfaceFactory creates strips. backend.Backend satisfies it.
type SurfaceFactory interface {
	NewSurface(width, height int) (backend.Surface, error)
	Font() backend.Font
}

// Atlas is the glyph cache of one rendering surface.
type Atlas struct {
	factory SurfaceFactory
	hl      *highlight.Table

	strip backend.Surface
	cellW int
	cellH int
	next  int
	index map[Key]Entry
}

// New creates an atlas whose strip holds capacity cells before growing.
func New(factory SurfaceFactory, hl *highlight.Table, capacity int) (*Atlas, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	cw, ch := factory.Font().CellSize()
	strip, err := factory.NewSurface(cw*capacity, ch)
	if err != nil {
		return nil, fmt.Errorf("atlas strip: %w", err)
	}
	return &Atlas{
		factory: factory,
		hl:      hl,
		strip:   strip,
		cellW:   cw,
		cellH:   ch,
		index:   make(map[Key]Entry),
	}, nil
}

// Strip returns the surface glyphs are copied from.
func (a *Atlas) Strip() backend.Surface {
	return a.strip
}

// Len returns the number of cached glyphs.
func (a *Atlas) Len() int {
	return len(a.index)
}

// Rect returns the strip rectangle of e.
func (a *Atlas) Rect(e Entry) core.Rect {
	return core.NewRect(e.X, 0, e.Width, a.cellH)
}

// Lookup returns the cached glyph for (hl, r), rasterizing it on a miss.
// A zero r is a blank cell.
func (a *Atlas) Lookup(hl int, r rune) (Entry, error) {
	k := MakeKey(hl, r)
	if e, ok := a.index[k]; ok {
		return e, nil
	}

	if err := a.reserve(2 * a.cellW); err != nil {
		return Entry{}, err
	}
	fg, bg := a.hl.Resolve(hl)
	w := a.strip.DrawGlyph(a.next, 0, r, fg, bg)
	e := Entry{X: a.next, Width: w}
	a.next += w
	a.index[k] = e
	return e, nil
}

// reserve makes room for n more units, replacing the strip with one twice
// as wide and copying the cached glyphs over.
func (a *Atlas) reserve(n int) error {
	sw, sh := a.strip.Size()
	if a.next+n <= sw {
		return nil
	}
	grown, err := a.factory.NewSurface(max(2*sw, a.next+n), sh)
	if err != nil {
		return fmt.Errorf("grow atlas strip: %w", err)
	}
	grown.Copy(a.strip, core.NewRect(0, 0, a.next, sh), core.Point{})
	a.strip = grown
	return nil
}
