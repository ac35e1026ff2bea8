package tui

import (
	"math"
	"strings"
)

// Field is the drawn region of the playing field, inches.
type Field struct {
	MinX, MaxX float64
	MinY, MaxY float64
	Cols, Rows int
}

// DefaultField frames the start line and the peg at y=100.
func DefaultField() Field {
	return Field{MinX: -40, MaxX: 40, MinY: -10, MaxY: 110, Cols: 48, Rows: 20}
}

// cell maps a field point to a canvas cell; ok is false outside the view.
func (f Field) cell(x, y float64) (col, row int, ok bool) {
	col = int(math.Floor((x - f.MinX) / (f.MaxX - f.MinX) * float64(f.Cols)))
	row = int(math.Floor((f.MaxY - y) / (f.MaxY - f.MinY) * float64(f.Rows)))
	ok = col >= 0 && col < f.Cols && row >= 0 && row < f.Rows
	return col, row, ok
}

type point struct{ x, y float64 }

// canvas is one frame of the field view. Later marks overwrite earlier ones.
type canvas struct {
	f     Field
	cells [][]string
}

func newCanvas(f Field) *canvas {
	c := &canvas{f: f, cells: make([][]string, f.Rows)}
	for i := range c.cells {
		c.cells[i] = make([]string, f.Cols)
		for j := range c.cells[i] {
			c.cells[i][j] = " "
		}
	}
	return c
}

func (c *canvas) mark(x, y float64, s string) {
	if col, row, ok := c.f.cell(x, y); ok {
		c.cells[row][col] = s
	}
}

func (c *canvas) String() string {
	rows := make([]string, len(c.cells))
	for i, r := range c.cells {
		rows[i] = strings.Join(r, "")
	}
	return strings.Join(rows, "\n")
}

// arrows index by heading octant, counter-clockwise from facing +y.
var arrows = []string{"↑", "↖", "←", "↙", "↓", "↘", "→", "↗"}

func arrow(heading float64) string {
	oct := int(math.Round(heading/(math.Pi/4))) % 8
	if oct < 0 {
		oct += 8
	}
	return arrows[oct]
}

// drawField renders the trail, the peg and the robot.
func drawField(f Field, trail []point, robot point, heading float64, peg point) string {
	c := newCanvas(f)
	for _, p := range trail {
		c.mark(p.x, p.y, trailStyle.Render("·"))
	}
	c.mark(peg.x, peg.y, pegStyle.Render("▼"))
	c.mark(robot.x, robot.y, robotStyle.Render(arrow(heading)))
	return c.String()
}
