package renderer

import (
	"math"

	"github.com/gdamore/tcell/v2"
)

type rgb struct {
	r, g, b float32
}

// CellCanvas rasterizes draw calls onto a grid of terminal cells.
// Each cell covers cellW x cellH surface pixels; the canvas reports its size in pixels.
type CellCanvas struct {
	cols, rows   int
	cellW, cellH float32
	cells        []rgb
}

// NewCellCanvas creates a canvas of cols x rows cells.
func NewCellCanvas(cols, rows int, cellW, cellH float32) *CellCanvas {
	c := &CellCanvas{cellW: max(cellW, 1), cellH: max(cellH, 1)}
	c.Resize(cols, rows)
	return c
}

// Resize changes the cell grid and clears it.
func (c *CellCanvas) Resize(cols, rows int) {
	c.cols = max(cols, 0)
	c.rows = max(rows, 0)
	c.cells = make([]rgb, c.cols*c.rows)
}

// Grid returns the cell grid dimensions.
func (c *CellCanvas) Grid() (cols, rows int) {
	return c.cols, c.rows
}

// Size returns the surface size in pixels.
func (c *CellCanvas) Size() (w, h float32) {
	return float32(c.cols) * c.cellW, float32(c.rows) * c.cellH
}

// Clear erases every cell to black.
func (c *CellCanvas) Clear() {
	clear(c.cells)
}

// Fade darkens every cell toward black.
func (c *CellCanvas) Fade(alpha float32) {
	keep := 1 - Clamp01(alpha)
	for i := range c.cells {
		c.cells[i].r *= keep
		c.cells[i].g *= keep
		c.cells[i].b *= keep
	}
}

// Gradient blends a radial gradient into every cell whose center lies inside the disk.
// A disk smaller than one cell deposits into the cell under its center, scaled by coverage.
func (c *CellCanvas) Gradient(x, y, radius float32, stops ...Stop) {
	if radius <= 0 || len(stops) == 0 {
		return
	}
	hit := false
	c.eachCellIn(x, y, radius, func(i int, d float32) {
		c.blend(i, ColorAt(stops, d/radius), 1)
		hit = true
	})
	if !hit {
		if i, ok := c.cellAt(x, y); ok {
			c.blend(i, stops[0].Color, c.coverage(radius))
		}
	}
}

// Circle blends a solid disk.
func (c *CellCanvas) Circle(x, y, radius float32, col Color) {
	if radius <= 0 {
		return
	}
	hit := false
	c.eachCellIn(x, y, radius, func(i int, _ float32) {
		c.blend(i, col, 1)
		hit = true
	})
	if !hit {
		if i, ok := c.cellAt(x, y); ok {
			c.blend(i, col, c.coverage(radius))
		}
	}
}

// Line blends each cell the segment passes through once.
// Lines thinner than a cell are weighted by width over cell height.
func (c *CellCanvas) Line(x1, y1, x2, y2, width float32, col Color) {
	dx := x2 - x1
	dy := y2 - y1
	length := float32(math.Sqrt(float64(dx*dx + dy*dy)))
	step := min(c.cellW, c.cellH) / 2
	steps := int(length/step) + 1
	weight := Clamp01(width / c.cellH)

	last := -1
	for s := 0; s <= steps; s++ {
		t := float32(s) / float32(steps)
		i, ok := c.cellAt(x1+dx*t, y1+dy*t)
		if !ok || i == last {
			continue
		}
		c.blend(i, col, weight)
		last = i
	}
}

// CellWriter is the part of tcell.Screen the canvas flushes into.
type CellWriter interface {
	SetContent(x, y int, mainc rune, combc []rune, style tcell.Style)
}

// Flush copies the cells to a screen as background colors, scaled by opacity.
func (c *CellCanvas) Flush(screen CellWriter, opacity float32) {
	opacity = Clamp01(opacity)
	for row := 0; row < c.rows; row++ {
		for col := 0; col < c.cols; col++ {
			px := c.cells[row*c.cols+col]
			bg := tcell.NewRGBColor(
				channel(px.r*opacity),
				channel(px.g*opacity),
				channel(px.b*opacity),
			)
			screen.SetContent(col, row, ' ', nil, tcell.StyleDefault.Background(bg))
		}
	}
}

// At returns the 8-bit color of a cell.
func (c *CellCanvas) At(col, row int) (r, g, b uint8) {
	if col < 0 || row < 0 || col >= c.cols || row >= c.rows {
		return 0, 0, 0
	}
	px := c.cells[row*c.cols+col]
	return uint8(channel(px.r)), uint8(channel(px.g)), uint8(channel(px.b))
}

func channel(v float32) int32 {
	return int32(math.Round(float64(max(0, min(v, 255)))))
}

func (c *CellCanvas) blend(i int, col Color, weight float32) {
	a := Clamp01(col.A) * Clamp01(weight)
	if a == 0 {
		return
	}
	px := &c.cells[i]
	px.r += (float32(col.R) - px.r) * a
	px.g += (float32(col.G) - px.g) * a
	px.b += (float32(col.B) - px.b) * a
}

func (c *CellCanvas) coverage(radius float32) float32 {
	return Clamp01(math.Pi * radius * radius / (c.cellW * c.cellH))
}

func (c *CellCanvas) cellAt(x, y float32) (int, bool) {
	if x < 0 || y < 0 {
		return 0, false
	}
	col := int(x / c.cellW)
	row := int(y / c.cellH)
	if col >= c.cols || row >= c.rows {
		return 0, false
	}
	return row*c.cols + col, true
}

// eachCellIn visits cells whose centers lie within radius of (x, y).
func (c *CellCanvas) eachCellIn(x, y, radius float32, fn func(i int, d float32)) {
	minCol := max(0, int(math.Floor(float64((x-radius)/c.cellW))))
	maxCol := min(c.cols-1, int(math.Floor(float64((x+radius)/c.cellW))))
	minRow := max(0, int(math.Floor(float64((y-radius)/c.cellH))))
	maxRow := min(c.rows-1, int(math.Floor(float64((y+radius)/c.cellH))))

	for row := minRow; row <= maxRow; row++ {
		cy := (float32(row) + 0.5) * c.cellH
		for col := minCol; col <= maxCol; col++ {
			cx := (float32(col) + 0.5) * c.cellW
			dx := cx - x
			dy := cy - y
			d := float32(math.Sqrt(float64(dx*dx + dy*dy)))
			if d <= radius {
				fn(row*c.cols+col, d)
			}
		}
	}
}
