package viz

import (
	"math"
	"strings"

	"github.com/san-kum/forcesim/internal/dynamo"
)

// Each braille rune is a 2x4 dot cell:
//
//	1 4
//	2 5
//	3 6
//	7 8
var dotBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

const blank rune = 0x2800

// Canvas is a braille dot grid. Dots are addressed in sub-pixels: the
// drawable area is (Width*2) x (Height*4).
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, Grid: make([][]rune, h)}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

func (c *Canvas) SubWidth() int  { return c.Width * 2 }
func (c *Canvas) SubHeight() int { return c.Height * 4 }

// Set lights the dot at sub-pixel (x, y). Off-canvas dots are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= dotBits[y%4][x%2]
}

// Lit reports whether the dot at sub-pixel (x, y) is set.
func (c *Canvas) Lit(x, y int) bool {
	if x < 0 || y < 0 {
		return false
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return false
	}
	return c.Grid[row][col]&dotBits[y%4][x%2] != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
}

// DrawLine uses Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy
	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawCircle outlines a circle with the midpoint algorithm. A radius below
// one lights the centre only.
func (c *Canvas) DrawCircle(cx, cy, r int) {
	if r < 1 {
		c.Set(cx, cy)
		return
	}
	x, y, d := r, 0, 1-r
	for x >= y {
		c.Set(cx+x, cy+y)
		c.Set(cx-x, cy+y)
		c.Set(cx+x, cy-y)
		c.Set(cx-x, cy-y)
		c.Set(cx+y, cy+x)
		c.Set(cx-y, cy+x)
		c.Set(cx+y, cy-x)
		c.Set(cx-y, cy-x)
		y++
		if d < 0 {
			d += 2*y + 1
		} else {
			x--
			d += 2*(y-x) + 1
		}
	}
}

func (c *Canvas) DrawRect(x0, y0, x1, y1 int) {
	c.DrawLine(x0, y0, x1, y0)
	c.DrawLine(x1, y0, x1, y1)
	c.DrawLine(x1, y1, x0, y1)
	c.DrawLine(x0, y1, x0, y0)
}

// DrawCross draws a plus sign of the given arm length.
func (c *Canvas) DrawCross(cx, cy, arm int) {
	c.DrawLine(cx-arm, cy, cx+arm, cy)
	c.DrawLine(cx, cy-arm, cx, cy+arm)
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Projection maps world coordinates onto a canvas and terminal cells back
// onto the world. Both spaces grow rightwards and downwards.
type Projection struct {
	WorldW, WorldH float64
	Cols, Rows     int
}

func (p Projection) sx() float64 { return float64(p.Cols*2) / p.WorldW }
func (p Projection) sy() float64 { return float64(p.Rows*4) / p.WorldH }

// ToCanvas returns the sub-pixel under world point v.
func (p Projection) ToCanvas(v dynamo.Vec2) (int, int) {
	return int(math.Floor(v.X * p.sx())), int(math.Floor(v.Y * p.sy()))
}

// Length converts a world length to sub-pixels along x.
func (p Projection) Length(l float64) int {
	return int(math.Round(l * p.sx()))
}

// ToWorld returns the world point at the centre of terminal cell (col, row).
func (p Projection) ToWorld(col, row int) dynamo.Vec2 {
	return dynamo.V(
		(float64(col)+0.5)*p.WorldW/float64(p.Cols),
		(float64(row)+0.5)*p.WorldH/float64(p.Rows),
	)
}

// Contains reports whether terminal cell (col, row) lies on the canvas.
func (p Projection) Contains(col, row int) bool {
	return col >= 0 && row >= 0 && col < p.Cols && row < p.Rows
}
