package grid

// Blank is the character of an erased cell.
const Blank rune = 0

// Grid is one rectangular character buffer with its own cursor and
// damage queue. Rows of chars and hl always have identical dimensions.
type Grid struct {
	id     int
	window int

	width  int
	height int
	chars  [][]rune
	hl     [][]int

	cursorRow int
	cursorCol int

	damage []Damage
}

func newGrid(id int) *Grid {
	return &Grid{id: id}
}

// ID returns the grid id.
func (g *Grid) ID() int { return g.id }

// Window returns the editor window shown in this grid, 0 if unassigned.
func (g *Grid) Window() int { return g.window }

// Size returns the grid dimensions in cells.
func (g *Grid) Size() (width, height int) {
	return g.width, g.height
}

// Cell returns the character and highlight id at (row, col).
// Out-of-range positions read as blank with the default highlight.
func (g *Grid) Cell(row, col int) (rune, int) {
	if row < 0 || row >= g.height || col < 0 || col >= g.width {
		return Blank, 0
	}
	return g.chars[row][col], g.hl[row][col]
}

// Row returns a copy of row's characters.
func (g *Grid) Row(row int) []rune {
	if row < 0 || row >= g.height {
		return nil
	}
	out := make([]rune, g.width)
	copy(out, g.chars[row])
	return out
}

// Cursor returns the cursor position clamped into the grid's bounds.
// The stored position may lag behind a shrink.
func (g *Grid) Cursor() (row, col int) {
	return clamp(g.cursorRow, g.height), clamp(g.cursorCol, g.width)
}

func clamp(v, n int) int {
	if v >= n {
		v = n - 1
	}
	if v < 0 {
		v = 0
	}
	return v
}

// Damage returns the pending damage records in arrival order.
// The slice is only valid until the next store mutation.
func (g *Grid) Damage() []Damage {
	return g.damage
}

// ClearDamage empties the damage queue.
func (g *Grid) ClearDamage() {
	g.damage = g.damage[:0]
}

// Destroyed reports whether a Destroy record is pending.
func (g *Grid) Destroyed() bool {
	for _, d := range g.damage {
		if _, ok := d.(Destroy); ok {
			return true
		}
	}
	return false
}

func (g *Grid) push(d Damage) {
	g.damage = append(g.damage, d)
}

func (g *Grid) fullExtent() Cell {
	return Cell{Row: 0, Col: 0, Width: g.width, Height: g.height}
}

func (g *Grid) resize(width, height int) {
	// Rows appended below are created at the new width, so on an empty
	// grid they already cover every new column.
	rowWidth := g.width
	if g.height == 0 {
		rowWidth = width
	}

	if height < g.height {
		g.chars = g.chars[:height]
		g.hl = g.hl[:height]
	} else if height > g.height {
		g.push(Cell{Row: g.height, Col: 0, Width: width, Height: height - g.height})
		for y := g.height; y < height; y++ {
			g.chars = append(g.chars, make([]rune, width))
			g.hl = append(g.hl, make([]int, width))
		}
	}
	g.height = height

	if width != g.width {
		if width > rowWidth {
			g.push(Cell{Row: 0, Col: rowWidth, Width: width - rowWidth, Height: height})
		}
		for y := 0; y < height; y++ {
			g.chars[y] = resizeRow(g.chars[y], width)
			g.hl[y] = resizeRow(g.hl[y], width)
		}
		g.width = width
	}
}

func resizeRow[T any](row []T, width int) []T {
	if len(row) >= width {
		return row[:width:width]
	}
	out := make([]T, width)
	copy(out, row)
	return out
}

func (g *Grid) clear() {
	for y := 0; y < g.height; y++ {
		clear(g.chars[y])
		clear(g.hl[y])
	}
}

// copyRow copies columns [left, right) of row src into row dst.
func (g *Grid) copyRow(dst, src, left, right int) {
	copy(g.chars[dst][left:right], g.chars[src][left:right])
	copy(g.hl[dst][left:right], g.hl[src][left:right])
}
