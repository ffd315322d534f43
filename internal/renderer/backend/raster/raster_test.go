package raster

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dshills/nwin/internal/renderer/backend"
	"github.com/dshills/nwin/internal/renderer/core"
)

var red = core.ColorFromInt(0xff0000)

func TestDefaultFontCellSize(t *testing.T) {
	w, h := DefaultFont().CellSize()
	if w != 7 || h != 13 {
		t.Errorf("CellSize() = (%d, %d), want (7, 13)", w, h)
	}
}

func TestLoadFontMissingFile(t *testing.T) {
	if _, err := LoadFont(filepath.Join(t.TempDir(), "missing.ttf"), 12); err == nil {
		t.Error("LoadFont on a missing file should fail")
	}
}

func TestSurfaceFillAndCopy(t *testing.T) {
	r := New()
	src, _ := r.NewSurface(10, 10)
	dst, _ := r.NewSurface(10, 10)

	src.Fill(core.NewRect(2, 2, 3, 3), red)
	dst.Copy(src, core.NewRect(2, 2, 3, 3), core.Point{X: 6, Y: 0})

	d := dst.(*Surface)
	if got := d.At(6, 0); got != red {
		t.Errorf("copied pixel = %s, want %s", got, red)
	}
	if got := d.At(5, 0); got != core.ColorBlack {
		t.Errorf("pixel outside copy = %s, want black", got)
	}
	// Clipped at the right edge.
	dst.Copy(src, core.NewRect(2, 2, 3, 3), core.Point{X: 9, Y: 9})
	if got := d.At(9, 9); got != red {
		t.Errorf("clipped copy pixel = %s, want %s", got, red)
	}
}

func TestSurfaceIgnoresEmptyRects(t *testing.T) {
	r := New()
	src, _ := r.NewSurface(10, 10)
	src.Fill(core.NewRect(0, 0, 10, 10), red)
	dst, _ := r.NewSurface(10, 10)

	tests := []struct {
		name string
		draw func()
	}{
		{"fill negative width", func() { dst.Fill(core.NewRect(8, 0, -6, 10), red) }},
		{"fill zero height", func() { dst.Fill(core.NewRect(0, 4, 10, 0), red) }},
		{"copy negative width", func() { dst.Copy(src, core.NewRect(8, 0, -6, 10), core.Point{}) }},
	}
	d := dst.(*Surface)
	for _, tt := range tests {
		tt.draw()
		if got := d.At(4, 4); got != core.ColorBlack {
			t.Errorf("%s painted %s", tt.name, got)
		}
	}
}

func TestDrawGlyph(t *testing.T) {
	r := New()
	s, _ := r.NewSurface(20, 20)
	surf := s.(*Surface)

	w := s.DrawGlyph(0, 0, 0, core.ColorWhite, red)
	if cw, _ := r.Font().CellSize(); w != cw {
		t.Errorf("blank glyph width = %d, want %d", w, cw)
	}
	if got := surf.At(0, 0); got != red {
		t.Errorf("blank glyph background = %s, want %s", got, red)
	}

	s.Fill(core.NewRect(0, 0, 20, 20), core.ColorBlack)
	w = s.DrawGlyph(0, 0, 'W', core.ColorWhite, core.ColorBlack)
	if w != 7 {
		t.Errorf("glyph width = %d, want 7", w)
	}
	lit := false
	for y := 0; y < 13; y++ {
		for x := 0; x < 7; x++ {
			if surf.At(x, y) != core.ColorBlack {
				lit = true
			}
		}
	}
	if !lit {
		t.Error("DrawGlyph left the cell empty")
	}
}

func TestDrawTextTransparent(t *testing.T) {
	r := New()
	s, _ := r.NewSurface(30, 13)
	s.Fill(core.NewRect(0, 0, 30, 13), red)
	if w := s.DrawText(0, 0, "a b", core.ColorWhite, core.ColorBlack, false); w != 21 {
		t.Errorf("DrawText width = %d, want 21", w)
	}
	if got := s.(*Surface).At(10, 0); got != red {
		t.Errorf("transparent text changed background to %s", got)
	}
}

func TestWindowResizeKeepsPixels(t *testing.T) {
	r := New()
	win, err := r.CreateWindow("w", 10, 10)
	if err != nil {
		t.Fatal(err)
	}
	win.Surface().Fill(core.NewRect(0, 0, 4, 4), red)
	r.Resize(win.ID(), 20, 5)

	if w, h := win.Size(); w != 20 || h != 5 {
		t.Errorf("Size() = (%d, %d), want (20, 5)", w, h)
	}
	if got := win.(*Window).Pixels().At(3, 3); got != red {
		t.Errorf("pixel after resize = %s, want %s", got, red)
	}
	ev, ok := r.WaitEvent(time.Second)
	if !ok || ev.Type != backend.EventWindowResized || ev.Width != 20 || ev.Height != 5 {
		t.Errorf("WaitEvent() = (%+v, %v), want resize 20x5", ev, ok)
	}
}

func TestWaitEventTimeout(t *testing.T) {
	r := New()
	start := time.Now()
	if _, ok := r.WaitEvent(10 * time.Millisecond); ok {
		t.Error("WaitEvent returned an event from an empty queue")
	}
	if time.Since(start) < 10*time.Millisecond {
		t.Error("WaitEvent returned before the timeout")
	}
}

func TestPresentSnapshots(t *testing.T) {
	dir := t.TempDir()
	r := New(WithSnapshots(dir))
	win, _ := r.CreateWindow("w", 4, 4)
	for i := 0; i < 2; i++ {
		if err := win.Present(); err != nil {
			t.Fatal(err)
		}
	}
	if got := win.(*Window).Frames(); got != 2 {
		t.Errorf("Frames() = %d, want 2", got)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Errorf("snapshot count = %d, want 2", len(entries))
	}
}

func TestCloseRemovesWindow(t *testing.T) {
	r := New()
	win, _ := r.CreateWindow("nwin:grid:2", 4, 4)
	if _, ok := r.WindowByTitle("nwin:grid:2"); !ok {
		t.Fatal("window not found by title")
	}
	win.Close()
	if r.Windows() != 0 || !win.(*Window).Closed() {
		t.Error("Close did not remove the window")
	}
}
