package grid

import "fmt"

// Damage is a region of a grid whose pixels are stale.
// It is one of Cell, VerticalScroll or Destroy.
type Damage interface {
	damage()
	String() string
}

// Cell marks a rectangle of cells for re-rasterization.
type Cell struct {
	Row, Col      int
	Width, Height int
}

// VerticalScroll marks rows whose pixels can be copied from already
// rendered rows: Height rows starting at From move to To.
type VerticalScroll struct {
	From, To int
	Height   int
}

// Destroy marks the owning grid for teardown after the current frame.
type Destroy struct{}

func (Cell) damage()           {}
func (VerticalScroll) damage() {}
func (Destroy) damage()        {}

func (d Cell) String() string {
	return fmt.Sprintf("Cell{row:%d col:%d w:%d h:%d}", d.Row, d.Col, d.Width, d.Height)
}

func (d VerticalScroll) String() string {
	return fmt.Sprintf("VerticalScroll{from:%d to:%d h:%d}", d.From, d.To, d.Height)
}

func (Destroy) String() string { return "Destroy{}" }
