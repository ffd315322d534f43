// Package renderer turns grid state into pixels (or terminal cells) on
// the windows of a backend.
//
// The Compositor gives every grid its own Surface: an OS window, a
// back-buffer sized to the grid and a glyph atlas. Each frame it:
//
//   - opens a window for every new grid and tears down destroyed ones
//   - reallocates the back-buffer when the grid or window size changed,
//     asking the editor for a grid size that fits the window
//   - replays the grid's damage into the back-buffer, drawing each
//     damaged cell through the atlas
//   - copies the back-buffer, centered, into the window and draws the
//     message, command-line and busy overlays on top
//   - presents the window
//
// Layering:
//
//	┌─────────────────────────────────────────┐
//	│    Compositor (per-grid Surfaces)       │
//	├─────────────────────────────────────────┤
//	│  grid.Store (damage)  │  atlas.Atlas    │
//	├─────────────────────────────────────────┤
//	│           backend.Backend               │
//	├─────────────────────────────────────────┤
//	│  terminal (tcell)  │  raster (image)    │
//	└─────────────────────────────────────────┘
//
// Usage:
//
//	c := renderer.New(b, store, editor, log, renderer.Options{Title: wm.GridTitle})
//	destroyed, err := c.Frame()
package renderer
